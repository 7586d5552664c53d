package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/chinaboxmv/chinabox_api/internal/models"
)

// ProductRequestRepository handles data access for product requests.
type ProductRequestRepository struct {
	db *sqlx.DB
}

// NewProductRequestRepository creates a new ProductRequestRepository.
func NewProductRequestRepository(db *sqlx.DB) *ProductRequestRepository {
	return &ProductRequestRepository{db: db}
}

// Create inserts a new product request row.
func (r *ProductRequestRepository) Create(p *models.ProductRequest) error {
	const q = `
        INSERT INTO product_requests (
            id, url, name, quantity, size, colour, additional, note,
            image_path, status, price, owner_id, created_at, updated_at
        ) VALUES (
            $1,$2,$3,$4,$5,$6,$7,$8,
            $9,$10,$11,$12,NOW(),NOW()
        ) RETURNING created_at`

	return r.db.QueryRow(q,
		p.ID, p.URL, p.Name, p.Quantity, p.Size, p.Colour, p.Additional, p.Note,
		p.ImagePath, p.Status, p.Price, p.OwnerID,
	).Scan(&p.CreatedAt)
}

// GetAll returns all product requests ordered by insertion.
func (r *ProductRequestRepository) GetAll() ([]models.ProductRequest, error) {
	const q = `SELECT * FROM product_requests ORDER BY created_at`

	var requests []models.ProductRequest
	if err := r.db.Select(&requests, q); err != nil {
		return nil, err
	}
	return requests, nil
}

// GetByOwner returns a customer's own product requests ordered by insertion.
func (r *ProductRequestRepository) GetByOwner(ownerID int) ([]models.ProductRequest, error) {
	const q = `SELECT * FROM product_requests WHERE owner_id = $1 ORDER BY created_at`

	var requests []models.ProductRequest
	if err := r.db.Select(&requests, q, ownerID); err != nil {
		return nil, err
	}
	return requests, nil
}

// GetByID returns a single product request by id.
func (r *ProductRequestRepository) GetByID(id string) (*models.ProductRequest, error) {
	const q = `SELECT * FROM product_requests WHERE id = $1 LIMIT 1`

	var p models.ProductRequest
	if err := r.db.Get(&p, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &p, nil
}

// UpdateFields overwrites the descriptive fields of a request. Status, price
// and ownership are untouched; those have dedicated write paths.
func (r *ProductRequestRepository) UpdateFields(p *models.ProductRequest) error {
	const q = `
        UPDATE product_requests SET
            url = $2,
            name = $3,
            quantity = $4,
            size = $5,
            colour = $6,
            additional = $7,
            note = $8,
            image_path = $9,
            updated_at = NOW()
        WHERE id = $1`

	_, err := r.db.Exec(q, p.ID, p.URL, p.Name, p.Quantity, p.Size, p.Colour, p.Additional, p.Note, p.ImagePath)
	return err
}

// UpdateStatus overwrites the lifecycle status unconditionally.
func (r *ProductRequestRepository) UpdateStatus(id string, status models.ProductStatus) error {
	const q = `UPDATE product_requests SET status = $2, updated_at = NOW() WHERE id = $1`

	res, err := r.db.Exec(q, id, status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdatePrice assigns or replaces the price.
func (r *ProductRequestRepository) UpdatePrice(id string, price decimal.Decimal) error {
	const q = `UPDATE product_requests SET price = $2, updated_at = NOW() WHERE id = $1`

	res, err := r.db.Exec(q, id, price)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a product request.
func (r *ProductRequestRepository) Delete(id string) error {
	const q = `DELETE FROM product_requests WHERE id = $1`

	res, err := r.db.Exec(q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
