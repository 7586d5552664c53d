package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/chinaboxmv/chinabox_api/internal/models"
	"github.com/chinaboxmv/chinabox_api/internal/utils"
)

type fakeRequestGetter struct {
	requests map[string]*models.ProductRequest
}

func (f *fakeRequestGetter) GetByID(id string) (*models.ProductRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *req
	return &cp, nil
}

type fakeBoxStore struct {
	items   map[string]*models.BoxItem
	created []*models.BoxItem
	deleted []string
}

func newFakeBoxStore() *fakeBoxStore {
	return &fakeBoxStore{items: make(map[string]*models.BoxItem)}
}

func (f *fakeBoxStore) Create(item *models.BoxItem) error {
	f.created = append(f.created, item)
	f.items[item.ID] = item
	return nil
}

func (f *fakeBoxStore) GetByOwner(ownerID int) ([]models.BoxItem, error) {
	var out []models.BoxItem
	for _, it := range f.items {
		if it.OwnerID == ownerID {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (f *fakeBoxStore) GetByID(id string) (*models.BoxItem, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *it
	return &cp, nil
}

func (f *fakeBoxStore) Delete(id string) error {
	f.deleted = append(f.deleted, id)
	if _, ok := f.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

type fakeConfirmer struct {
	tokens  map[string]string
	cleared []string
}

func newFakeConfirmer() *fakeConfirmer {
	return &fakeConfirmer{tokens: make(map[string]string)}
}

func confirmKey(ownerID int, itemID string) string {
	return itemID
}

func (f *fakeConfirmer) Issue(ctx context.Context, ownerID int, itemID string) (string, error) {
	token := "token-" + itemID
	f.tokens[confirmKey(ownerID, itemID)] = token
	return token, nil
}

func (f *fakeConfirmer) Check(ctx context.Context, ownerID int, itemID, token string) (bool, error) {
	stored, ok := f.tokens[confirmKey(ownerID, itemID)]
	return ok && token != "" && stored == token, nil
}

func (f *fakeConfirmer) Clear(ctx context.Context, ownerID int, itemID string) error {
	f.cleared = append(f.cleared, itemID)
	delete(f.tokens, confirmKey(ownerID, itemID))
	return nil
}

func pricedRequest(id string, status models.ProductStatus, price string) *models.ProductRequest {
	p := decimal.RequireFromString(price)
	return &models.ProductRequest{
		ID:       id,
		URL:      "https://example.com/p/" + id,
		Name:     "item " + id,
		Quantity: 2,
		Status:   status,
		Price:    &p,
		OwnerID:  1,
	}
}

func TestPromote(t *testing.T) {
	unpriced := &models.ProductRequest{ID: "r2", Status: models.StatusAvailable, OwnerID: 1}

	tests := []struct {
		name      string
		requestID string
		wantErr   error
	}{
		{"available and priced", "r1", nil},
		{"missing request", "nope", utils.ErrRequestNotFound},
		{"no price yet", "r2", utils.ErrPriceNotSet},
		{"still sourcing", "r3", utils.ErrNotAvailable},
		{"delivered", "r4", utils.ErrNotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requests := &fakeRequestGetter{requests: map[string]*models.ProductRequest{
				"r1": pricedRequest("r1", models.StatusAvailable, "75.50"),
				"r2": unpriced,
				"r3": pricedRequest("r3", models.StatusSourcing, "10"),
				"r4": pricedRequest("r4", models.StatusDelivered, "10"),
			}}
			box := newFakeBoxStore()
			svc := NewBoxService(requests, box, newFakeConfirmer())

			item, err := svc.Promote(1, tt.requestID)
			if err != tt.wantErr {
				t.Fatalf("Promote() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if len(box.created) != 0 {
					t.Errorf("rejected promote still wrote %d items to the box", len(box.created))
				}
				return
			}

			if item.ProductID != tt.requestID {
				t.Errorf("ProductID = %s, want %s", item.ProductID, tt.requestID)
			}
			if item.Status != models.BoxStatusAdded {
				t.Errorf("Status = %s, want %s", item.Status, models.BoxStatusAdded)
			}
			if !item.Price.Equal(decimal.RequireFromString("75.50")) {
				t.Errorf("Price = %s, want 75.50", item.Price)
			}
			if item.ID == "" || item.ID == tt.requestID {
				t.Errorf("box item must get its own identifier, got %q", item.ID)
			}
		})
	}
}

func TestPromoteLeavesSourceRequestIntact(t *testing.T) {
	requests := &fakeRequestGetter{requests: map[string]*models.ProductRequest{
		"r1": pricedRequest("r1", models.StatusAvailable, "30"),
	}}
	box := newFakeBoxStore()
	svc := NewBoxService(requests, box, newFakeConfirmer())

	if _, err := svc.Promote(1, "r1"); err != nil {
		t.Fatal(err)
	}

	src := requests.requests["r1"]
	if src.Status != models.StatusAvailable {
		t.Errorf("source request status changed to %s", src.Status)
	}
}

func TestRemoveRequiresConfirmation(t *testing.T) {
	box := newFakeBoxStore()
	box.items["b1"] = &models.BoxItem{ID: "b1", OwnerID: 1, Price: decimal.NewFromInt(10)}
	confirm := newFakeConfirmer()
	svc := NewBoxService(&fakeRequestGetter{}, box, confirm)

	// No token issued yet.
	if err := svc.Remove(context.Background(), 1, "b1", ""); err != utils.ErrConfirmRequired {
		t.Fatalf("Remove without token: error = %v, want %v", err, utils.ErrConfirmRequired)
	}
	if len(box.deleted) != 0 {
		t.Fatal("delete was issued without a confirmation token")
	}

	token, err := svc.RequestRemoval(context.Background(), 1, "b1")
	if err != nil {
		t.Fatal(err)
	}

	// Wrong token still refuses.
	if err := svc.Remove(context.Background(), 1, "b1", "bogus"); err != utils.ErrConfirmRequired {
		t.Fatalf("Remove with wrong token: error = %v, want %v", err, utils.ErrConfirmRequired)
	}

	if err := svc.Remove(context.Background(), 1, "b1", token); err != nil {
		t.Fatalf("Remove with valid token: %v", err)
	}
	if _, ok := box.items["b1"]; ok {
		t.Error("item still in box after confirmed removal")
	}
}

func TestRemoveAlreadyGoneIsSuccess(t *testing.T) {
	box := newFakeBoxStore()
	box.items["b1"] = &models.BoxItem{ID: "b1", OwnerID: 1, Price: decimal.NewFromInt(10)}
	confirm := newFakeConfirmer()
	svc := NewBoxService(&fakeRequestGetter{}, box, confirm)

	token, err := svc.RequestRemoval(context.Background(), 1, "b1")
	if err != nil {
		t.Fatal(err)
	}

	// Another actor deletes the item first.
	delete(box.items, "b1")

	if err := svc.Remove(context.Background(), 1, "b1", token); err != nil {
		t.Fatalf("Remove of already-gone item: %v", err)
	}
}

func TestRequestRemovalOwnership(t *testing.T) {
	box := newFakeBoxStore()
	box.items["b1"] = &models.BoxItem{ID: "b1", OwnerID: 2, Price: decimal.NewFromInt(10)}
	svc := NewBoxService(&fakeRequestGetter{}, box, newFakeConfirmer())

	if _, err := svc.RequestRemoval(context.Background(), 1, "b1"); err != utils.ErrForbidden {
		t.Fatalf("error = %v, want %v", err, utils.ErrForbidden)
	}
	if _, err := svc.RequestRemoval(context.Background(), 1, "missing"); err != utils.ErrBoxItemNotFound {
		t.Fatalf("error = %v, want %v", err, utils.ErrBoxItemNotFound)
	}
}

func TestCancelRemovalDropsToken(t *testing.T) {
	box := newFakeBoxStore()
	box.items["b1"] = &models.BoxItem{ID: "b1", OwnerID: 1, Price: decimal.NewFromInt(10)}
	confirm := newFakeConfirmer()
	svc := NewBoxService(&fakeRequestGetter{}, box, confirm)

	token, err := svc.RequestRemoval(context.Background(), 1, "b1")
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.CancelRemoval(context.Background(), 1, "b1"); err != nil {
		t.Fatal(err)
	}

	if err := svc.Remove(context.Background(), 1, "b1", token); err != utils.ErrConfirmRequired {
		t.Fatalf("Remove after cancel: error = %v, want %v", err, utils.ErrConfirmRequired)
	}
	if _, ok := box.items["b1"]; !ok {
		t.Error("item removed despite cancelled confirmation")
	}
}
