package models

import "time"

// PaymentStatus enumerates the review states of a payment record. Staff may
// overwrite the status with any enumerated value.
type PaymentStatus string

const (
	PaymentChecking PaymentStatus = "Checking"
	PaymentDecline  PaymentStatus = "Decline"
	PaymentAccept   PaymentStatus = "Accept"
)

// PaymentStatuses lists every valid payment status.
var PaymentStatuses = []PaymentStatus{PaymentChecking, PaymentDecline, PaymentAccept}

// Valid reports whether s is one of the enumerated payment statuses.
func (s PaymentStatus) Valid() bool {
	for _, v := range PaymentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// PaymentMethodTransfer is the only supported payment method: a manual bank
// transfer evidenced by an uploaded slip.
const PaymentMethodTransfer = "Direct Transfer"

// PaymentRecord is created when a customer uploads a payment slip for a
// purchase. Status starts at Checking and is advanced only by staff.
type PaymentRecord struct {
	ID         string        `db:"id" json:"id"`
	PurchaseID string        `db:"purchase_id" json:"purchaseId"`
	Method     string        `db:"method" json:"method"`
	SlipPath   *string       `db:"slip_path" json:"-"`
	OwnerID    int           `db:"owner_id" json:"-"`
	Status     PaymentStatus `db:"status" json:"status"`
	CreatedAt  time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time     `db:"updated_at" json:"-"`

	// Populated from blob storage, not persisted.
	SlipURL string `db:"-" json:"slipUrl,omitempty"`
}
