package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/chinaboxmv/chinabox_api/internal/models"
)

// BoxRepository handles data access for box items.
type BoxRepository struct {
	db *sqlx.DB
}

// NewBoxRepository creates a new BoxRepository.
func NewBoxRepository(db *sqlx.DB) *BoxRepository {
	return &BoxRepository{db: db}
}

// Create inserts a new box item row.
func (r *BoxRepository) Create(item *models.BoxItem) error {
	const q = `
        INSERT INTO box_items (
            id, product_id, url, name, quantity, size, colour, additional,
            note, image_path, price, status, owner_id, created_at
        ) VALUES (
            $1,$2,$3,$4,$5,$6,$7,$8,
            $9,$10,$11,$12,$13,NOW()
        ) RETURNING created_at`

	return r.db.QueryRow(q,
		item.ID, item.ProductID, item.URL, item.Name, item.Quantity, item.Size, item.Colour, item.Additional,
		item.Note, item.ImagePath, item.Price, item.Status, item.OwnerID,
	).Scan(&item.CreatedAt)
}

// GetByOwner returns the customer's box items ordered by insertion.
func (r *BoxRepository) GetByOwner(ownerID int) ([]models.BoxItem, error) {
	const q = `SELECT * FROM box_items WHERE owner_id = $1 ORDER BY created_at`

	var items []models.BoxItem
	if err := r.db.Select(&items, q, ownerID); err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID returns a single box item by id.
func (r *BoxRepository) GetByID(id string) (*models.BoxItem, error) {
	const q = `SELECT * FROM box_items WHERE id = $1 LIMIT 1`

	var item models.BoxItem
	if err := r.db.Get(&item, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &item, nil
}

// Delete removes a box item. Returns sql.ErrNoRows when the item was already
// gone, which callers treat as non-fatal: concurrent removal is last-delete-wins.
func (r *BoxRepository) Delete(id string) error {
	const q = `DELETE FROM box_items WHERE id = $1`

	res, err := r.db.Exec(q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByProduct removes any box item copies of a product request. Used when
// the owner withdraws a request entirely.
func (r *BoxRepository) DeleteByProduct(productID string) error {
	const q = `DELETE FROM box_items WHERE product_id = $1`

	_, err := r.db.Exec(q, productID)
	return err
}

// DeleteOrphanedAfterPayment removes box items whose owner has a payment
// record created after the item. Such items should have been cleared by the
// checkout transaction; this is the compensating sweep.
func (r *BoxRepository) DeleteOrphanedAfterPayment() (int64, error) {
	const q = `
        DELETE FROM box_items b
        USING payment_records p
        WHERE p.owner_id = b.owner_id
        AND p.created_at > b.created_at`

	res, err := r.db.Exec(q)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}
