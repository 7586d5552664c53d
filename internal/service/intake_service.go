package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/chinaboxmv/chinabox_api/internal/models"
	"github.com/chinaboxmv/chinabox_api/internal/repository"
	"github.com/chinaboxmv/chinabox_api/internal/utils"
)

// IntakeService handles customer product requests: creation, listing,
// editing while still editable, and withdrawal.
type IntakeService struct {
	requests *repository.ProductRequestRepository
	box      *repository.BoxRepository
	blob     *BlobService
}

// NewIntakeService constructs an IntakeService.
func NewIntakeService(requests *repository.ProductRequestRepository, box *repository.BoxRepository, blob *BlobService) *IntakeService {
	return &IntakeService{requests: requests, box: box, blob: blob}
}

// IntakeFields are the descriptive fields a customer submits or edits.
type IntakeFields struct {
	URL        string `json:"url"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	Size       string `json:"size"`
	Colour     string `json:"colour"`
	Additional string `json:"additional"`
	Note       string `json:"note"`
}

// validate checks the required intake fields.
func (f *IntakeFields) validate() error {
	if f.URL == "" || f.Name == "" {
		return utils.ErrMissingField
	}
	if f.Quantity < 0 {
		return utils.ErrMissingField
	}
	return nil
}

// Create persists a new product request with initial status Sourcing,
// stamped with the owner. An optional image is uploaded first; on upload
// failure nothing is written to the store.
func (s *IntakeService) Create(ctx context.Context, ownerID int, fields *IntakeFields, imageName string, imageData []byte, imageType string) (*models.ProductRequest, error) {
	if err := fields.validate(); err != nil {
		return nil, err
	}

	imagePath := ""
	if len(imageData) > 0 {
		path, err := s.blob.UploadProductImage(ctx, imageName, imageData, imageType)
		if err != nil {
			return nil, err
		}
		imagePath = path
	}

	req := &models.ProductRequest{
		ID:         uuid.New().String(),
		URL:        fields.URL,
		Name:       fields.Name,
		Quantity:   fields.Quantity,
		Size:       fields.Size,
		Colour:     fields.Colour,
		Additional: fields.Additional,
		Note:       fields.Note,
		ImagePath:  imagePath,
		Status:     models.StatusSourcing,
		OwnerID:    ownerID,
	}
	if err := s.requests.Create(req); err != nil {
		return nil, err
	}
	req.ImageURL = s.blob.ObjectURL(req.ImagePath)

	log.Info().Str("request_id", req.ID).Int("owner_id", ownerID).Msg("Product request created")
	return req, nil
}

// ListByOwner returns the customer's requests with resolved image URLs.
func (s *IntakeService) ListByOwner(ownerID int) ([]models.ProductRequest, error) {
	requests, err := s.requests.GetByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	for i := range requests {
		requests[i].ImageURL = s.blob.ObjectURL(requests[i].ImagePath)
	}
	return requests, nil
}

// Update edits the descriptive fields of the caller's own request. The edit
// is refused at the write path unless the status is still editable
// (Sourcing or No Stock); once priced and Available the record is read-only
// for the requester.
func (s *IntakeService) Update(ctx context.Context, ownerID int, id string, fields *IntakeFields, imageName string, imageData []byte, imageType string) (*models.ProductRequest, error) {
	if err := fields.validate(); err != nil {
		return nil, err
	}

	req, err := s.requests.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrRequestNotFound
		}
		return nil, err
	}
	if req.OwnerID != ownerID {
		return nil, utils.ErrForbidden
	}
	if !req.Status.Editable() {
		return nil, utils.ErrNotEditable
	}

	if len(imageData) > 0 {
		path, err := s.blob.UploadProductImage(ctx, imageName, imageData, imageType)
		if err != nil {
			return nil, err
		}
		req.ImagePath = path
	}

	req.URL = fields.URL
	req.Name = fields.Name
	req.Quantity = fields.Quantity
	req.Size = fields.Size
	req.Colour = fields.Colour
	req.Additional = fields.Additional
	req.Note = fields.Note

	if err := s.requests.UpdateFields(req); err != nil {
		return nil, err
	}
	req.ImageURL = s.blob.ObjectURL(req.ImagePath)
	return req, nil
}

// Delete withdraws the caller's own request and removes any box item copies
// of it.
func (s *IntakeService) Delete(ownerID int, id string) error {
	req, err := s.requests.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return utils.ErrRequestNotFound
		}
		return err
	}
	if req.OwnerID != ownerID {
		return utils.ErrForbidden
	}

	if err := s.requests.Delete(id); err != nil {
		return err
	}
	if err := s.box.DeleteByProduct(id); err != nil {
		log.Warn().Err(err).Str("request_id", id).Msg("Failed to remove box copies of withdrawn request")
	}

	log.Info().Str("request_id", id).Int("owner_id", ownerID).Msg("Product request withdrawn")
	return nil
}
