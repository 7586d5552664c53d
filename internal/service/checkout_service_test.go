package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/chinaboxmv/chinabox_api/internal/cache"
	"github.com/chinaboxmv/chinabox_api/internal/models"
	"github.com/chinaboxmv/chinabox_api/internal/utils"
)

type fakeDeliveryStore struct {
	created []*models.DeliveryInfo
}

func (f *fakeDeliveryStore) Create(info *models.DeliveryInfo) error {
	cp := *info
	f.created = append(f.created, &cp)
	return nil
}

func (f *fakeDeliveryStore) GetByOwner(ownerID int) ([]models.DeliveryInfo, error) {
	var out []models.DeliveryInfo
	for _, info := range f.created {
		if info.OwnerID == ownerID {
			out = append(out, *info)
		}
	}
	return out, nil
}

type fakePurchaseStore struct {
	purchases map[string]*models.Purchase
	failNext  bool
}

func newFakePurchaseStore() *fakePurchaseStore {
	return &fakePurchaseStore{purchases: make(map[string]*models.Purchase)}
}

func (f *fakePurchaseStore) CreateSnapshot(p *models.Purchase) error {
	// All-or-nothing: on failure nothing is recorded.
	if f.failNext {
		f.failNext = false
		return errors.New("tx rolled back")
	}
	cp := *p
	f.purchases[p.ID] = &cp
	return nil
}

func (f *fakePurchaseStore) GetByID(id string) (*models.Purchase, error) {
	p, ok := f.purchases[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *fakePurchaseStore) GetByOwner(ownerID int) ([]models.Purchase, error) {
	var out []models.Purchase
	for _, p := range f.purchases {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakePaymentStore struct {
	records    map[string]*models.PaymentRecord
	boxCleared []int
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{records: make(map[string]*models.PaymentRecord)}
}

func (f *fakePaymentStore) CreateAndClearBox(rec *models.PaymentRecord) error {
	cp := *rec
	f.records[rec.PurchaseID] = &cp
	f.boxCleared = append(f.boxCleared, rec.OwnerID)
	return nil
}

func (f *fakePaymentStore) GetByPurchaseID(purchaseID string) (*models.PaymentRecord, error) {
	rec, ok := f.records[purchaseID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *rec
	return &cp, nil
}

type fakeSlipUploader struct {
	uploads int
}

func (f *fakeSlipUploader) UploadPaymentSlip(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	f.uploads++
	return "paymentSlips/" + filename, nil
}

func (f *fakeSlipUploader) ObjectURL(key string) string {
	return "https://blob.test/" + key
}

type fakeQuoteStore struct {
	quotes map[int]*cache.QuoteData
}

func newFakeQuoteStore() *fakeQuoteStore {
	return &fakeQuoteStore{quotes: make(map[int]*cache.QuoteData)}
}

func (f *fakeQuoteStore) Set(ctx context.Context, data *cache.QuoteData) error {
	f.quotes[data.OwnerID] = data
	return nil
}

func (f *fakeQuoteStore) Get(ctx context.Context, ownerID int) (*cache.QuoteData, error) {
	return f.quotes[ownerID], nil
}

func (f *fakeQuoteStore) Delete(ctx context.Context, ownerID int) error {
	delete(f.quotes, ownerID)
	return nil
}

type checkoutFixture struct {
	svc       *CheckoutService
	box       *fakeBoxStore
	delivery  *fakeDeliveryStore
	purchases *fakePurchaseStore
	payments  *fakePaymentStore
	blob      *fakeSlipUploader
	quotes    *fakeQuoteStore
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		box:       newFakeBoxStore(),
		delivery:  &fakeDeliveryStore{},
		purchases: newFakePurchaseStore(),
		payments:  newFakePaymentStore(),
		blob:      &fakeSlipUploader{},
		quotes:    newFakeQuoteStore(),
	}
	f.svc = NewCheckoutService(f.box, f.delivery, f.purchases, f.payments, f.blob, f.quotes)
	return f
}

func validDelivery() *models.DeliveryInfo {
	return &models.DeliveryInfo{
		FirstName:  "Aishath",
		LastName:   "Ali",
		Address:    "M. Rose Villa",
		City:       "Male",
		PostalCode: "20002",
		Phone:      "+9607771234",
	}
}

func TestQuote(t *testing.T) {
	f := newCheckoutFixture()
	f.box.items["b1"] = &models.BoxItem{ID: "b1", OwnerID: 1, Price: decimal.NewFromInt(50), Quantity: 1}

	quote, err := f.svc.Quote(context.Background(), 1, models.DeliveryAtolls)
	if err != nil {
		t.Fatal(err)
	}

	if !quote.Subtotal.Equal(decimal.NewFromInt(50)) {
		t.Errorf("subtotal = %s, want 50", quote.Subtotal)
	}
	if !quote.GST.Equal(decimal.NewFromInt(4)) {
		t.Errorf("gst = %s, want 4", quote.GST)
	}
	if !quote.Total.Equal(decimal.NewFromInt(99)) {
		t.Errorf("total = %s, want 99", quote.Total)
	}

	cached := f.quotes.quotes[1]
	if cached == nil {
		t.Fatal("quote was not cached")
	}
	if !cached.Total.Equal(quote.Total) {
		t.Errorf("cached total = %s, want %s", cached.Total, quote.Total)
	}
}

func TestQuoteInvalidDelivery(t *testing.T) {
	f := newCheckoutFixture()
	if _, err := f.svc.Quote(context.Background(), 1, "Overnight"); err != utils.ErrInvalidDelivery {
		t.Fatalf("error = %v, want %v", err, utils.ErrInvalidDelivery)
	}
}

func TestCheckoutSnapshot(t *testing.T) {
	f := newCheckoutFixture()
	f.box.items["b1"] = &models.BoxItem{ID: "b1", ProductID: "p1", Name: "kettle", OwnerID: 1, Price: decimal.NewFromInt(50), Quantity: 1}

	purchase, err := f.svc.Checkout(context.Background(), 1, validDelivery(), models.DeliveryAtolls)
	if err != nil {
		t.Fatal(err)
	}

	if !purchase.Subtotal.Equal(decimal.NewFromInt(50)) {
		t.Errorf("subtotal = %s, want 50", purchase.Subtotal)
	}
	if !purchase.GST.Equal(decimal.NewFromInt(4)) {
		t.Errorf("gst = %s, want 4", purchase.GST)
	}
	if !purchase.DeliveryCost.Equal(decimal.NewFromInt(45)) {
		t.Errorf("delivery = %s, want 45", purchase.DeliveryCost)
	}
	if !purchase.TotalPrice.Equal(decimal.NewFromInt(99)) {
		t.Errorf("total = %s, want 99", purchase.TotalPrice)
	}
	if len(purchase.Items) != 1 || purchase.Items[0].Name != "kettle" {
		t.Errorf("snapshot items = %+v", purchase.Items)
	}
	if purchase.ID == "" {
		t.Error("purchase has no identifier")
	}
	if len(f.delivery.created) != 1 {
		t.Errorf("delivery records = %d, want 1", len(f.delivery.created))
	}
	// Checkout alone does not clear the box; the slip upload does.
	if len(f.box.items) != 1 {
		t.Errorf("box items = %d, want 1", len(f.box.items))
	}
}

func TestCheckoutSnapshotSurvivesPriceChange(t *testing.T) {
	f := newCheckoutFixture()
	f.box.items["b1"] = &models.BoxItem{ID: "b1", ProductID: "p1", Name: "kettle", OwnerID: 1, Price: decimal.NewFromInt(50), Quantity: 1}

	purchase, err := f.svc.Checkout(context.Background(), 1, validDelivery(), models.DeliveryPickup)
	if err != nil {
		t.Fatal(err)
	}

	// The original request gets repriced afterwards.
	f.box.items["b1"].Price = decimal.NewFromInt(500)

	stored, err := f.purchases.GetByID(purchase.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !stored.Items[0].Price.Equal(decimal.NewFromInt(50)) {
		t.Errorf("snapshot price = %s, want the price at checkout time (50)", stored.Items[0].Price)
	}
}

func TestCheckoutValidation(t *testing.T) {
	missingPhone := validDelivery()
	missingPhone.Phone = ""

	tests := []struct {
		name    string
		info    *models.DeliveryInfo
		method  models.DeliveryMethod
		fillBox bool
		wantErr error
	}{
		{"unknown delivery method", validDelivery(), "Drone", true, utils.ErrInvalidDelivery},
		{"missing delivery field", missingPhone, models.DeliveryPickup, true, utils.ErrMissingField},
		{"empty box", validDelivery(), models.DeliveryPickup, false, utils.ErrEmptyBox},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCheckoutFixture()
			if tt.fillBox {
				f.box.items["b1"] = &models.BoxItem{ID: "b1", OwnerID: 1, Price: decimal.NewFromInt(10), Quantity: 1}
			}

			_, err := f.svc.Checkout(context.Background(), 1, tt.info, tt.method)
			if err != tt.wantErr {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if len(f.purchases.purchases) != 0 {
				t.Error("rejected checkout still wrote a purchase")
			}
		})
	}
}

func TestUploadSlipClearsBoxOnce(t *testing.T) {
	f := newCheckoutFixture()
	f.box.items["b1"] = &models.BoxItem{ID: "b1", OwnerID: 1, Price: decimal.NewFromInt(50), Quantity: 1}

	purchase, err := f.svc.Checkout(context.Background(), 1, validDelivery(), models.DeliveryAtolls)
	if err != nil {
		t.Fatal(err)
	}

	rec, err := f.svc.UploadSlip(context.Background(), 1, purchase.ID, "", "slip.jpg", []byte("jpeg"), "image/jpeg")
	if err != nil {
		t.Fatal(err)
	}

	if rec.Status != models.PaymentChecking {
		t.Errorf("status = %s, want %s", rec.Status, models.PaymentChecking)
	}
	if rec.Method != models.PaymentMethodTransfer {
		t.Errorf("method = %s, want %s", rec.Method, models.PaymentMethodTransfer)
	}
	if len(f.payments.boxCleared) != 1 || f.payments.boxCleared[0] != 1 {
		t.Errorf("box clear calls = %v, want one for owner 1", f.payments.boxCleared)
	}
	if _, ok := f.quotes.quotes[1]; ok {
		t.Error("cached quote not dropped after slip upload")
	}

	// Second upload for the same purchase is refused without touching storage.
	uploadsBefore := f.blob.uploads
	if _, err := f.svc.UploadSlip(context.Background(), 1, purchase.ID, "", "slip2.jpg", []byte("jpeg"), "image/jpeg"); err != utils.ErrSlipAlreadyUploaded {
		t.Fatalf("second upload: error = %v, want %v", err, utils.ErrSlipAlreadyUploaded)
	}
	if f.blob.uploads != uploadsBefore {
		t.Error("second upload still reached blob storage")
	}
}

func TestUploadSlipValidation(t *testing.T) {
	f := newCheckoutFixture()
	f.box.items["b1"] = &models.BoxItem{ID: "b1", OwnerID: 1, Price: decimal.NewFromInt(50), Quantity: 1}
	purchase, err := f.svc.Checkout(context.Background(), 1, validDelivery(), models.DeliveryPickup)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.UploadSlip(context.Background(), 1, purchase.ID, "", "slip.jpg", nil, "image/jpeg"); err != utils.ErrMissingField {
		t.Errorf("empty slip: error = %v, want %v", err, utils.ErrMissingField)
	}
	if _, err := f.svc.UploadSlip(context.Background(), 1, "missing", "", "slip.jpg", []byte("x"), "image/jpeg"); err != utils.ErrPurchaseNotFound {
		t.Errorf("missing purchase: error = %v, want %v", err, utils.ErrPurchaseNotFound)
	}
	if _, err := f.svc.UploadSlip(context.Background(), 2, purchase.ID, "", "slip.jpg", []byte("x"), "image/jpeg"); err != utils.ErrForbidden {
		t.Errorf("other owner: error = %v, want %v", err, utils.ErrForbidden)
	}
}

func TestCheckoutSnapshotFailureLeavesNothing(t *testing.T) {
	f := newCheckoutFixture()
	f.box.items["b1"] = &models.BoxItem{ID: "b1", OwnerID: 1, Price: decimal.NewFromInt(50), Quantity: 1}
	f.purchases.failNext = true

	if _, err := f.svc.Checkout(context.Background(), 1, validDelivery(), models.DeliveryPickup); err == nil {
		t.Fatal("expected snapshot failure to surface")
	}
	if len(f.purchases.purchases) != 0 {
		t.Error("partial purchase visible after failed snapshot")
	}
}
