package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus enumerates the sourcing lifecycle of a product request.
// Staff may move a request to any status at any time; the order below is the
// intended progression, not an enforced transition graph.
type ProductStatus string

const (
	StatusSourcing   ProductStatus = "Sourcing"
	StatusNoStock    ProductStatus = "No Stock"
	StatusAvailable  ProductStatus = "Available"
	StatusCollecting ProductStatus = "Collecting"
	StatusDelivering ProductStatus = "Delivering"
	StatusDelivered  ProductStatus = "Delivered"
)

// ProductStatuses lists every valid status in intended order.
var ProductStatuses = []ProductStatus{
	StatusSourcing,
	StatusNoStock,
	StatusAvailable,
	StatusCollecting,
	StatusDelivering,
	StatusDelivered,
}

// Valid reports whether s is one of the enumerated statuses.
func (s ProductStatus) Valid() bool {
	for _, v := range ProductStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Editable reports whether the requester may still edit descriptive fields.
// Once a request is priced and marked Available it is read-only for the owner.
func (s ProductStatus) Editable() bool {
	return s == StatusSourcing || s == StatusNoStock
}

// ProductRequest is a customer's wish-list item: a product URL plus enough
// detail for staff to source and price it.
type ProductRequest struct {
	ID         string           `db:"id" json:"id"`
	URL        string           `db:"url" json:"url"`
	Name       string           `db:"name" json:"name"`
	Quantity   int              `db:"quantity" json:"quantity"`
	Size       string           `db:"size" json:"size"`
	Colour     string           `db:"colour" json:"colour"`
	Additional string           `db:"additional" json:"additional"`
	Note       string           `db:"note" json:"note"`
	ImagePath  string           `db:"image_path" json:"-"`
	Status     ProductStatus    `db:"status" json:"status"`
	Price      *decimal.Decimal `db:"price" json:"price,omitempty"`
	OwnerID    int              `db:"owner_id" json:"-"`
	CreatedAt  time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time        `db:"updated_at" json:"-"`

	// Populated from blob storage, not persisted.
	ImageURL string `db:"-" json:"imageUrl,omitempty"`
}

// Priced reports whether staff have assigned a price.
func (p *ProductRequest) Priced() bool {
	return p.Price != nil
}
