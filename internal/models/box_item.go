package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BoxStatusAdded is the status tag stamped on a request when it is promoted
// into the box.
const BoxStatusAdded = "Added to Box"

// BoxItem is a promoted copy of a priced product request. The price is
// non-nullable: an item only enters the box once staff have priced it.
type BoxItem struct {
	ID         string          `db:"id" json:"id"`
	ProductID  string          `db:"product_id" json:"productId"`
	URL        string          `db:"url" json:"url"`
	Name       string          `db:"name" json:"name"`
	Quantity   int             `db:"quantity" json:"quantity"`
	Size       string          `db:"size" json:"size"`
	Colour     string          `db:"colour" json:"colour"`
	Additional string          `db:"additional" json:"additional"`
	Note       string          `db:"note" json:"note"`
	ImagePath  string          `db:"image_path" json:"-"`
	Price      decimal.Decimal `db:"price" json:"price"`
	Status     string          `db:"status" json:"status"`
	OwnerID    int             `db:"owner_id" json:"-"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
}

// LineTotal returns price * quantity.
func (b *BoxItem) LineTotal() decimal.Decimal {
	return b.Price.Mul(decimal.NewFromInt(int64(b.Quantity)))
}
