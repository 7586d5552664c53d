package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/chinaboxmv/chinabox_api/internal/cache"
	"github.com/chinaboxmv/chinabox_api/internal/models"
	"github.com/chinaboxmv/chinabox_api/internal/utils"
)

// boxLister is the slice of the box repository the checkout service needs.
type boxLister interface {
	GetByOwner(ownerID int) ([]models.BoxItem, error)
}

// deliveryAppender appends delivery addresses; records are never updated in
// place.
type deliveryAppender interface {
	Create(info *models.DeliveryInfo) error
	GetByOwner(ownerID int) ([]models.DeliveryInfo, error)
}

// purchaseSnapshotter writes and reads purchase snapshots.
type purchaseSnapshotter interface {
	CreateSnapshot(p *models.Purchase) error
	GetByID(id string) (*models.Purchase, error)
	GetByOwner(ownerID int) ([]models.Purchase, error)
}

// paymentWriter creates payment records and looks them up by purchase.
type paymentWriter interface {
	CreateAndClearBox(rec *models.PaymentRecord) error
	GetByPurchaseID(purchaseID string) (*models.PaymentRecord, error)
}

// slipUploader uploads payment slips to blob storage.
type slipUploader interface {
	UploadPaymentSlip(ctx context.Context, filename string, data []byte, contentType string) (string, error)
	ObjectURL(key string) string
}

// quoteStore caches the latest totals quote per owner.
type quoteStore interface {
	Set(ctx context.Context, data *cache.QuoteData) error
	Get(ctx context.Context, ownerID int) (*cache.QuoteData, error)
	Delete(ctx context.Context, ownerID int) error
}

// CheckoutService implements quote computation and checkout finalization:
// the purchase snapshot, the payment slip upload, and clearing the box.
type CheckoutService struct {
	box       boxLister
	delivery  deliveryAppender
	purchases purchaseSnapshotter
	payments  paymentWriter
	blob      slipUploader
	quotes    quoteStore
}

// NewCheckoutService constructs a CheckoutService.
func NewCheckoutService(
	box boxLister,
	delivery deliveryAppender,
	purchases purchaseSnapshotter,
	payments paymentWriter,
	blob slipUploader,
	quotes quoteStore,
) *CheckoutService {
	return &CheckoutService{
		box:       box,
		delivery:  delivery,
		purchases: purchases,
		payments:  payments,
		blob:      blob,
		quotes:    quotes,
	}
}

// Quote computes the current totals for the customer's box under the given
// delivery tier and caches the result for the checkout step.
func (s *CheckoutService) Quote(ctx context.Context, ownerID int, method models.DeliveryMethod) (*Quote, error) {
	if !method.Valid() {
		return nil, utils.ErrInvalidDelivery
	}

	items, err := s.box.GetByOwner(ownerID)
	if err != nil {
		return nil, err
	}

	quote := ComputeQuote(items, method.Cost())

	if err := s.quotes.Set(ctx, &cache.QuoteData{
		OwnerID:        ownerID,
		DeliveryMethod: string(method),
		Subtotal:       quote.Subtotal,
		GST:            quote.GST,
		DeliveryCost:   quote.DeliveryCost,
		Total:          quote.Total,
		ItemCount:      len(items),
	}); err != nil {
		log.Warn().Err(err).Int("owner_id", ownerID).Msg("Failed to cache quote")
	}

	return &quote, nil
}

// Checkout records the delivery address, generates a fresh opaque purchase
// identifier, and writes the purchase snapshot (line items plus totals) in a
// single transaction. No partial purchase is ever visible.
func (s *CheckoutService) Checkout(ctx context.Context, ownerID int, info *models.DeliveryInfo, method models.DeliveryMethod) (*models.Purchase, error) {
	if !method.Valid() {
		return nil, utils.ErrInvalidDelivery
	}
	if missing := info.MissingFields(); len(missing) > 0 {
		return nil, utils.ErrMissingField
	}

	items, err := s.box.GetByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, utils.ErrEmptyBox
	}

	info.OwnerID = ownerID
	if err := s.delivery.Create(info); err != nil {
		return nil, err
	}

	quote := ComputeQuote(items, method.Cost())
	purchase := &models.Purchase{
		ID:             uuid.New().String(),
		OwnerID:        ownerID,
		Subtotal:       quote.Subtotal,
		GST:            quote.GST,
		DeliveryCost:   quote.DeliveryCost,
		TotalPrice:     quote.Total,
		DeliveryMethod: string(method),
		Items:          make([]models.PurchaseItem, 0, len(items)),
	}
	for i := range items {
		purchase.Items = append(purchase.Items, models.PurchaseItem{
			ProductID: items[i].ProductID,
			Name:      items[i].Name,
			Quantity:  items[i].Quantity,
			Price:     items[i].Price,
		})
	}

	if err := s.purchases.CreateSnapshot(purchase); err != nil {
		return nil, err
	}

	log.Info().
		Str("purchase_id", purchase.ID).
		Int("owner_id", ownerID).
		Str("total", purchase.TotalPrice.String()).
		Msg("Purchase snapshot created")
	return purchase, nil
}

// UploadSlip stores the payment slip and, in one committed unit, creates the
// payment record (status Checking) and clears the owner's box items. A slip
// can be uploaded once per purchase.
func (s *CheckoutService) UploadSlip(ctx context.Context, ownerID int, purchaseID, method, filename string, data []byte, contentType string) (*models.PaymentRecord, error) {
	if len(data) == 0 {
		return nil, utils.ErrMissingField
	}
	if method == "" {
		method = models.PaymentMethodTransfer
	}

	purchase, err := s.purchases.GetByID(purchaseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrPurchaseNotFound
		}
		return nil, err
	}
	if purchase.OwnerID != ownerID {
		return nil, utils.ErrForbidden
	}

	if existing, err := s.payments.GetByPurchaseID(purchaseID); err == nil && existing != nil {
		return nil, utils.ErrSlipAlreadyUploaded
	} else if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	slipPath, err := s.blob.UploadPaymentSlip(ctx, filename, data, contentType)
	if err != nil {
		return nil, err
	}

	rec := &models.PaymentRecord{
		ID:         uuid.New().String(),
		PurchaseID: purchaseID,
		Method:     method,
		SlipPath:   &slipPath,
		OwnerID:    ownerID,
		Status:     models.PaymentChecking,
	}
	if err := s.payments.CreateAndClearBox(rec); err != nil {
		return nil, err
	}
	rec.SlipURL = s.blob.ObjectURL(slipPath)

	if err := s.quotes.Delete(ctx, ownerID); err != nil {
		log.Warn().Err(err).Int("owner_id", ownerID).Msg("Failed to drop cached quote")
	}

	log.Info().
		Str("payment_id", rec.ID).
		Str("purchase_id", purchaseID).
		Int("owner_id", ownerID).
		Msg("Payment slip recorded and box cleared")
	return rec, nil
}

// ListDeliveryInfo returns the customer's past delivery addresses, newest
// first, so the checkout form can prefill.
func (s *CheckoutService) ListDeliveryInfo(ownerID int) ([]models.DeliveryInfo, error) {
	infos, err := s.delivery.GetByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	if infos == nil {
		infos = []models.DeliveryInfo{}
	}
	return infos, nil
}

// ListPurchases returns the customer's own purchase history.
func (s *CheckoutService) ListPurchases(ownerID int) ([]models.Purchase, error) {
	purchases, err := s.purchases.GetByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	if purchases == nil {
		purchases = []models.Purchase{}
	}
	return purchases, nil
}
