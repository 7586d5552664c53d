package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/chinaboxmv/chinabox_api/internal/models"
)

// DeliveryInfoRepository handles data access for delivery addresses.
// Records accumulate per checkout; there is no in-place update.
type DeliveryInfoRepository struct {
	db *sqlx.DB
}

// NewDeliveryInfoRepository creates a new DeliveryInfoRepository.
func NewDeliveryInfoRepository(db *sqlx.DB) *DeliveryInfoRepository {
	return &DeliveryInfoRepository{db: db}
}

// Create appends a delivery info row.
func (r *DeliveryInfoRepository) Create(info *models.DeliveryInfo) error {
	const q = `
        INSERT INTO delivery_info (
            first_name, last_name, address, city, postal_code, phone, owner_id, created_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
        RETURNING id, created_at`

	return r.db.QueryRow(q,
		info.FirstName, info.LastName, info.Address, info.City, info.PostalCode, info.Phone, info.OwnerID,
	).Scan(&info.ID, &info.CreatedAt)
}

// GetByOwner returns a customer's delivery addresses, newest first.
func (r *DeliveryInfoRepository) GetByOwner(ownerID int) ([]models.DeliveryInfo, error) {
	const q = `SELECT * FROM delivery_info WHERE owner_id = $1 ORDER BY created_at DESC`

	var infos []models.DeliveryInfo
	if err := r.db.Select(&infos, q, ownerID); err != nil {
		return nil, err
	}
	return infos, nil
}
