package service

import (
	"github.com/shopspring/decimal"

	"github.com/chinaboxmv/chinabox_api/internal/models"
)

// GSTRate is the fixed goods-and-services tax applied to the subtotal.
var GSTRate = decimal.RequireFromString("0.08")

// Quote holds computed totals for a set of box items and a delivery tier.
// Values keep full precision; rounding to two fraction digits happens only
// at display time.
type Quote struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	GST          decimal.Decimal `json:"gst"`
	DeliveryCost decimal.Decimal `json:"deliveryCost"`
	Total        decimal.Decimal `json:"total"`
}

// ComputeQuote derives totals from the given items and delivery cost:
//
//	subtotal = sum(price * quantity)
//	gst      = subtotal * 0.08
//	total    = subtotal + gst + deliveryCost
//
// The function is pure: identical input always yields identical output.
func ComputeQuote(items []models.BoxItem, deliveryCost decimal.Decimal) Quote {
	subtotal := decimal.Zero
	for i := range items {
		subtotal = subtotal.Add(items[i].LineTotal())
	}
	gst := subtotal.Mul(GSTRate)
	return Quote{
		Subtotal:     subtotal,
		GST:          gst,
		DeliveryCost: deliveryCost,
		Total:        subtotal.Add(gst).Add(deliveryCost),
	}
}
