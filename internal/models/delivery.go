package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryMethod enumerates the local delivery tiers. Costs are flat per tier
// in MVR.
type DeliveryMethod string

const (
	DeliveryMaleHulhumale DeliveryMethod = "Male/Hulhumale"
	DeliveryAtolls        DeliveryMethod = "Atolls"
	DeliveryPickup        DeliveryMethod = "Pick up"
)

var deliveryCosts = map[DeliveryMethod]int64{
	DeliveryMaleHulhumale: 20,
	DeliveryAtolls:        45,
	DeliveryPickup:        0,
}

// DeliveryMethods lists all selectable tiers.
var DeliveryMethods = []DeliveryMethod{
	DeliveryMaleHulhumale,
	DeliveryAtolls,
	DeliveryPickup,
}

// Valid reports whether m is a known delivery tier.
func (m DeliveryMethod) Valid() bool {
	_, ok := deliveryCosts[m]
	return ok
}

// Cost returns the flat delivery cost for the tier. Unknown tiers cost zero;
// callers must check Valid first.
func (m DeliveryMethod) Cost() decimal.Decimal {
	return decimal.NewFromInt(deliveryCosts[m])
}

// DeliveryInfo is a shipping address captured at checkout. Records are
// append-only: resubmission creates a new row.
type DeliveryInfo struct {
	ID         int       `db:"id" json:"id"`
	FirstName  string    `db:"first_name" json:"firstName"`
	LastName   string    `db:"last_name" json:"lastName"`
	Address    string    `db:"address" json:"address"`
	City       string    `db:"city" json:"city"`
	PostalCode string    `db:"postal_code" json:"postalCode"`
	Phone      string    `db:"phone" json:"phone"`
	OwnerID    int       `db:"owner_id" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// MissingFields returns the names of required fields that are empty.
func (d *DeliveryInfo) MissingFields() []string {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"firstName", d.FirstName},
		{"lastName", d.LastName},
		{"address", d.Address},
		{"city", d.City},
		{"postalCode", d.PostalCode},
		{"phone", d.Phone},
	}
	for _, f := range required {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
