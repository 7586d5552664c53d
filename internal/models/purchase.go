package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is an immutable checkout snapshot: the line items and totals as
// they were at confirmation time. The ID doubles as the opaque payment
// identifier quoted back to the customer.
type Purchase struct {
	ID             string          `db:"id" json:"id"`
	OwnerID        int             `db:"owner_id" json:"-"`
	Subtotal       decimal.Decimal `db:"subtotal" json:"subtotal"`
	GST            decimal.Decimal `db:"gst" json:"gst"`
	DeliveryCost   decimal.Decimal `db:"delivery_cost" json:"deliveryCost"`
	TotalPrice     decimal.Decimal `db:"total_price" json:"totalPrice"`
	DeliveryMethod string          `db:"delivery_method" json:"deliveryMethod"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`

	Items []PurchaseItem `db:"-" json:"items"`
}

// PurchaseItem is one frozen line of a purchase snapshot.
type PurchaseItem struct {
	ID         int             `db:"id" json:"-"`
	PurchaseID string          `db:"purchase_id" json:"-"`
	ProductID  string          `db:"product_id" json:"productId"`
	Name       string          `db:"name" json:"name"`
	Quantity   int             `db:"quantity" json:"quantity"`
	Price      decimal.Decimal `db:"price" json:"price"`
}
