package service

import (
	"database/sql"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/chinaboxmv/chinabox_api/internal/models"
	"github.com/chinaboxmv/chinabox_api/internal/sse"
	"github.com/chinaboxmv/chinabox_api/internal/utils"
)

// curationRequestStore is the slice of the product request repository the
// curation service needs.
type curationRequestStore interface {
	GetAll() ([]models.ProductRequest, error)
	GetByID(id string) (*models.ProductRequest, error)
	UpdateStatus(id string, status models.ProductStatus) error
	UpdatePrice(id string, price decimal.Decimal) error
}

// paymentStore is the slice of the payment repository the curation service
// needs.
type paymentStore interface {
	GetAll() ([]models.PaymentRecord, error)
	GetByID(id string) (*models.PaymentRecord, error)
	UpdateStatus(id string, status models.PaymentStatus) error
}

// purchaseLister lists purchase snapshots for the admin view.
type purchaseLister interface {
	GetAll() ([]models.Purchase, error)
}

// CurationService implements the staff view: pricing requests, advancing
// lifecycle statuses, and reviewing payments.
type CurationService struct {
	requests  curationRequestStore
	payments  paymentStore
	purchases purchaseLister
	blob      *BlobService
	notifier  sse.LifecycleNotifier
}

// NewCurationService constructs a CurationService.
func NewCurationService(
	requests curationRequestStore,
	payments paymentStore,
	purchases purchaseLister,
	blob *BlobService,
	notifier sse.LifecycleNotifier,
) *CurationService {
	return &CurationService{
		requests:  requests,
		payments:  payments,
		purchases: purchases,
		blob:      blob,
		notifier:  notifier,
	}
}

// ListRequests returns every product request with resolved image URLs.
func (s *CurationService) ListRequests() ([]models.ProductRequest, error) {
	requests, err := s.requests.GetAll()
	if err != nil {
		return nil, err
	}
	for i := range requests {
		requests[i].ImageURL = s.blob.ObjectURL(requests[i].ImagePath)
	}
	return requests, nil
}

// SetStatus overwrites a request's status with any of the enumerated values.
// There is no transition graph: staff may move a request from any state to
// any other. Unknown values are rejected before any store write.
func (s *CurationService) SetStatus(id string, status models.ProductStatus) (*models.ProductRequest, error) {
	if !status.Valid() {
		return nil, utils.ErrInvalidStatus
	}

	if err := s.requests.UpdateStatus(id, status); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrRequestNotFound
		}
		return nil, err
	}

	req, err := s.requests.GetByID(id)
	if err != nil {
		return nil, err
	}
	req.ImageURL = s.blob.ObjectURL(req.ImagePath)
	s.notifier.NotifyRequestStatusChanged(req)

	log.Info().Str("request_id", id).Str("status", string(status)).Msg("Request status updated")
	return req, nil
}

// SetPrice assigns or replaces the price of a request. Negative prices are
// rejected.
func (s *CurationService) SetPrice(id string, price decimal.Decimal) (*models.ProductRequest, error) {
	if price.IsNegative() {
		return nil, utils.ErrInvalidPrice
	}

	if err := s.requests.UpdatePrice(id, price); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrRequestNotFound
		}
		return nil, err
	}

	req, err := s.requests.GetByID(id)
	if err != nil {
		return nil, err
	}
	req.ImageURL = s.blob.ObjectURL(req.ImagePath)
	s.notifier.NotifyRequestPriced(req)

	log.Info().Str("request_id", id).Str("price", price.String()).Msg("Request price updated")
	return req, nil
}

// ListPayments returns every payment record with resolved slip URLs.
func (s *CurationService) ListPayments() ([]models.PaymentRecord, error) {
	records, err := s.payments.GetAll()
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].SlipPath != nil {
			records[i].SlipURL = s.blob.ObjectURL(*records[i].SlipPath)
		}
	}
	return records, nil
}

// SetPaymentStatus overwrites a payment record's review status with any of
// the enumerated values, same unconditional-overwrite contract as SetStatus.
func (s *CurationService) SetPaymentStatus(id string, status models.PaymentStatus) (*models.PaymentRecord, error) {
	if !status.Valid() {
		return nil, utils.ErrInvalidStatus
	}

	if err := s.payments.UpdateStatus(id, status); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrPaymentNotFound
		}
		return nil, err
	}

	rec, err := s.payments.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec.SlipPath != nil {
		rec.SlipURL = s.blob.ObjectURL(*rec.SlipPath)
	}
	s.notifier.NotifyPaymentStatusChanged(rec)

	log.Info().Str("payment_id", id).Str("status", string(status)).Msg("Payment status updated")
	return rec, nil
}

// ListPurchases returns every purchase snapshot for the admin view.
func (s *CurationService) ListPurchases() ([]models.Purchase, error) {
	return s.purchases.GetAll()
}
