package service

import (
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/chinaboxmv/chinabox_api/internal/config"
	"github.com/chinaboxmv/chinabox_api/internal/models"
	"github.com/chinaboxmv/chinabox_api/internal/sse"
	"github.com/chinaboxmv/chinabox_api/internal/utils"
)

type fakeCurationRequestStore struct {
	requests     map[string]*models.ProductRequest
	statusWrites int
	priceWrites  int
}

func newFakeCurationRequestStore() *fakeCurationRequestStore {
	return &fakeCurationRequestStore{requests: make(map[string]*models.ProductRequest)}
}

func (f *fakeCurationRequestStore) GetAll() ([]models.ProductRequest, error) {
	var out []models.ProductRequest
	for _, r := range f.requests {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeCurationRequestStore) GetByID(id string) (*models.ProductRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *r
	return &cp, nil
}

func (f *fakeCurationRequestStore) UpdateStatus(id string, status models.ProductStatus) error {
	f.statusWrites++
	r, ok := f.requests[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.Status = status
	return nil
}

func (f *fakeCurationRequestStore) UpdatePrice(id string, price decimal.Decimal) error {
	f.priceWrites++
	r, ok := f.requests[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.Price = &price
	return nil
}

type fakeAdminPaymentStore struct {
	records map[string]*models.PaymentRecord
}

func newFakeAdminPaymentStore() *fakeAdminPaymentStore {
	return &fakeAdminPaymentStore{records: make(map[string]*models.PaymentRecord)}
}

func (f *fakeAdminPaymentStore) GetAll() ([]models.PaymentRecord, error) {
	var out []models.PaymentRecord
	for _, r := range f.records {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeAdminPaymentStore) GetByID(id string) (*models.PaymentRecord, error) {
	r, ok := f.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *r
	return &cp, nil
}

func (f *fakeAdminPaymentStore) UpdateStatus(id string, status models.PaymentStatus) error {
	r, ok := f.records[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.Status = status
	return nil
}

type fakePurchaseLister struct{}

func (f *fakePurchaseLister) GetAll() ([]models.Purchase, error) {
	return nil, nil
}

func newCurationService(requests *fakeCurationRequestStore, payments *fakeAdminPaymentStore) *CurationService {
	blob, _ := NewBlobService(&config.S3Config{Bucket: "test", Region: "ap-south-1"})
	return NewCurationService(requests, payments, &fakePurchaseLister{}, blob, &sse.NopNotifier{})
}

func TestSetStatusAnyToAny(t *testing.T) {
	requests := newFakeCurationRequestStore()
	requests.requests["r1"] = &models.ProductRequest{ID: "r1", Status: models.StatusSourcing}
	svc := newCurationService(requests, newFakeAdminPaymentStore())

	// Walk forward through the lifecycle, then jump straight back to the start.
	sequence := append(append([]models.ProductStatus{}, models.ProductStatuses...), models.StatusSourcing)
	for _, status := range sequence {
		updated, err := svc.SetStatus("r1", status)
		if err != nil {
			t.Fatalf("SetStatus(%s): %v", status, err)
		}
		if updated.Status != status {
			t.Fatalf("status = %s, want %s", updated.Status, status)
		}
	}
}

func TestSetStatusRejectsUnknown(t *testing.T) {
	requests := newFakeCurationRequestStore()
	requests.requests["r1"] = &models.ProductRequest{ID: "r1", Status: models.StatusSourcing}
	svc := newCurationService(requests, newFakeAdminPaymentStore())

	if _, err := svc.SetStatus("r1", "Shipped"); err != utils.ErrInvalidStatus {
		t.Fatalf("error = %v, want %v", err, utils.ErrInvalidStatus)
	}
	if requests.statusWrites != 0 {
		t.Error("invalid status still reached the store")
	}
	if requests.requests["r1"].Status != models.StatusSourcing {
		t.Error("status changed despite rejection")
	}
}

func TestSetStatusMissingRequest(t *testing.T) {
	svc := newCurationService(newFakeCurationRequestStore(), newFakeAdminPaymentStore())

	if _, err := svc.SetStatus("nope", models.StatusAvailable); err != utils.ErrRequestNotFound {
		t.Fatalf("error = %v, want %v", err, utils.ErrRequestNotFound)
	}
}

func TestSetPrice(t *testing.T) {
	requests := newFakeCurationRequestStore()
	requests.requests["r1"] = &models.ProductRequest{ID: "r1", Status: models.StatusSourcing}
	svc := newCurationService(requests, newFakeAdminPaymentStore())

	updated, err := svc.SetPrice("r1", decimal.RequireFromString("125.50"))
	if err != nil {
		t.Fatal(err)
	}
	if updated.Price == nil || !updated.Price.Equal(decimal.RequireFromString("125.50")) {
		t.Errorf("price = %v, want 125.50", updated.Price)
	}

	// Re-pricing overwrites.
	updated, err = svc.SetPrice("r1", decimal.RequireFromString("99"))
	if err != nil {
		t.Fatal(err)
	}
	if !updated.Price.Equal(decimal.NewFromInt(99)) {
		t.Errorf("price = %v, want 99", updated.Price)
	}
}

func TestSetPriceRejectsNegative(t *testing.T) {
	requests := newFakeCurationRequestStore()
	requests.requests["r1"] = &models.ProductRequest{ID: "r1", Status: models.StatusSourcing}
	svc := newCurationService(requests, newFakeAdminPaymentStore())

	if _, err := svc.SetPrice("r1", decimal.RequireFromString("-1")); err != utils.ErrInvalidPrice {
		t.Fatalf("error = %v, want %v", err, utils.ErrInvalidPrice)
	}
	if requests.priceWrites != 0 {
		t.Error("negative price still reached the store")
	}
}

func TestSetPaymentStatus(t *testing.T) {
	payments := newFakeAdminPaymentStore()
	payments.records["pay1"] = &models.PaymentRecord{ID: "pay1", Status: models.PaymentChecking, OwnerID: 1}
	svc := newCurationService(newFakeCurationRequestStore(), payments)

	for _, status := range []models.PaymentStatus{models.PaymentDecline, models.PaymentAccept, models.PaymentChecking} {
		updated, err := svc.SetPaymentStatus("pay1", status)
		if err != nil {
			t.Fatalf("SetPaymentStatus(%s): %v", status, err)
		}
		if updated.Status != status {
			t.Fatalf("status = %s, want %s", updated.Status, status)
		}
	}

	if _, err := svc.SetPaymentStatus("pay1", "Refunded"); err != utils.ErrInvalidStatus {
		t.Fatalf("error = %v, want %v", err, utils.ErrInvalidStatus)
	}
	if _, err := svc.SetPaymentStatus("missing", models.PaymentAccept); err != utils.ErrPaymentNotFound {
		t.Fatalf("error = %v, want %v", err, utils.ErrPaymentNotFound)
	}
}

func TestListPaymentsResolvesSlipURL(t *testing.T) {
	payments := newFakeAdminPaymentStore()
	slip := "paymentSlips/abc-slip.jpg"
	payments.records["pay1"] = &models.PaymentRecord{ID: "pay1", Status: models.PaymentChecking, SlipPath: &slip}
	svc := newCurationService(newFakeCurationRequestStore(), payments)

	records, err := svc.ListPayments()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if records[0].SlipURL == "" {
		t.Error("slip URL not resolved")
	}
}
