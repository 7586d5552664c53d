package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/chinaboxmv/chinabox_api/internal/models"
	"github.com/chinaboxmv/chinabox_api/internal/utils"
)

// requestGetter is the slice of the product request repository the box
// service needs.
type requestGetter interface {
	GetByID(id string) (*models.ProductRequest, error)
}

// boxStore is the slice of the box repository the box service needs.
type boxStore interface {
	Create(item *models.BoxItem) error
	GetByOwner(ownerID int) ([]models.BoxItem, error)
	GetByID(id string) (*models.BoxItem, error)
	Delete(id string) error
}

// removalConfirmer issues and checks two-step removal confirmation tokens.
type removalConfirmer interface {
	Issue(ctx context.Context, ownerID int, itemID string) (string, error)
	Check(ctx context.Context, ownerID int, itemID, token string) (bool, error)
	Clear(ctx context.Context, ownerID int, itemID string) error
}

// BoxService implements box assembly: promoting priced requests into the
// customer's box and the confirmed removal flow.
type BoxService struct {
	requests requestGetter
	box      boxStore
	confirm  removalConfirmer
}

// NewBoxService constructs a BoxService.
func NewBoxService(requests requestGetter, box boxStore, confirm removalConfirmer) *BoxService {
	return &BoxService{requests: requests, box: box, confirm: confirm}
}

// List returns the customer's box items.
func (s *BoxService) List(ownerID int) ([]models.BoxItem, error) {
	items, err := s.box.GetByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.BoxItem{}
	}
	return items, nil
}

// Promote copies a priced, available product request into the box. The
// source request is not mutated or deleted. A request without a price is
// rejected before any store write.
func (s *BoxService) Promote(ownerID int, productID string) (*models.BoxItem, error) {
	req, err := s.requests.GetByID(productID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrRequestNotFound
		}
		return nil, err
	}

	if !req.Priced() {
		return nil, utils.ErrPriceNotSet
	}
	if req.Status != models.StatusAvailable {
		return nil, utils.ErrNotAvailable
	}

	item := &models.BoxItem{
		ID:         uuid.New().String(),
		ProductID:  req.ID,
		URL:        req.URL,
		Name:       req.Name,
		Quantity:   req.Quantity,
		Size:       req.Size,
		Colour:     req.Colour,
		Additional: req.Additional,
		Note:       req.Note,
		ImagePath:  req.ImagePath,
		Price:      *req.Price,
		Status:     models.BoxStatusAdded,
		OwnerID:    ownerID,
	}
	if err := s.box.Create(item); err != nil {
		return nil, err
	}

	log.Info().Str("box_item_id", item.ID).Str("product_id", req.ID).Int("owner_id", ownerID).Msg("Product added to box")
	return item, nil
}

// RequestRemoval starts the two-step removal flow and returns a confirmation
// token. The item must exist and belong to the caller.
func (s *BoxService) RequestRemoval(ctx context.Context, ownerID int, itemID string) (string, error) {
	item, err := s.box.GetByID(itemID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", utils.ErrBoxItemNotFound
		}
		return "", err
	}
	if item.OwnerID != ownerID {
		return "", utils.ErrForbidden
	}

	return s.confirm.Issue(ctx, ownerID, itemID)
}

// Remove deletes a box item once the confirmation token checks out. Without
// a live token no delete is issued. A concurrent delete that already removed
// the item is treated as success: last delete wins.
func (s *BoxService) Remove(ctx context.Context, ownerID int, itemID, token string) error {
	ok, err := s.confirm.Check(ctx, ownerID, itemID, token)
	if err != nil {
		return err
	}
	if !ok {
		return utils.ErrConfirmRequired
	}

	if err := s.box.Delete(itemID); err != nil {
		if err == sql.ErrNoRows {
			log.Debug().Str("box_item_id", itemID).Msg("Box item already removed")
		} else {
			return err
		}
	}

	if err := s.confirm.Clear(ctx, ownerID, itemID); err != nil {
		log.Warn().Err(err).Str("box_item_id", itemID).Msg("Failed to clear removal token")
	}
	return nil
}

// CancelRemoval drops an issued confirmation token without touching the item.
func (s *BoxService) CancelRemoval(ctx context.Context, ownerID int, itemID string) error {
	return s.confirm.Clear(ctx, ownerID, itemID)
}
