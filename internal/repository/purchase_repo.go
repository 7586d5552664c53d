package repository

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/chinaboxmv/chinabox_api/internal/models"
)

// PurchaseRepository handles data access for purchase snapshots.
type PurchaseRepository struct {
	db *sqlx.DB
}

// NewPurchaseRepository creates a new PurchaseRepository.
func NewPurchaseRepository(db *sqlx.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// CreateSnapshot writes the purchase and all its line items in one
// transaction. A purchase is never visible with missing line items.
func (r *PurchaseRepository) CreateSnapshot(p *models.Purchase) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	const purchaseQ = `
        INSERT INTO purchases (
            id, owner_id, subtotal, gst, delivery_cost, total_price, delivery_method, created_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
        RETURNING created_at`

	if err := tx.QueryRow(purchaseQ,
		p.ID, p.OwnerID, p.Subtotal, p.GST, p.DeliveryCost, p.TotalPrice, p.DeliveryMethod,
	).Scan(&p.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert purchase: %w", err)
	}

	const itemQ = `
        INSERT INTO purchase_items (purchase_id, product_id, name, quantity, price)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id`

	for i := range p.Items {
		item := &p.Items[i]
		item.PurchaseID = p.ID
		if err := tx.QueryRow(itemQ,
			item.PurchaseID, item.ProductID, item.Name, item.Quantity, item.Price,
		).Scan(&item.ID); err != nil {
			return fmt.Errorf("failed to insert purchase item: %w", err)
		}
	}

	return tx.Commit()
}

// GetByID returns a purchase with its line items.
func (r *PurchaseRepository) GetByID(id string) (*models.Purchase, error) {
	const q = `SELECT * FROM purchases WHERE id = $1 LIMIT 1`

	var p models.Purchase
	if err := r.db.Get(&p, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}

	if err := r.loadItems(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByOwner returns a customer's purchases with line items, newest first.
func (r *PurchaseRepository) GetByOwner(ownerID int) ([]models.Purchase, error) {
	const q = `SELECT * FROM purchases WHERE owner_id = $1 ORDER BY created_at DESC`

	var purchases []models.Purchase
	if err := r.db.Select(&purchases, q, ownerID); err != nil {
		return nil, err
	}
	for i := range purchases {
		if err := r.loadItems(&purchases[i]); err != nil {
			return nil, err
		}
	}
	return purchases, nil
}

// GetAll returns all purchases with line items, newest first.
func (r *PurchaseRepository) GetAll() ([]models.Purchase, error) {
	const q = `SELECT * FROM purchases ORDER BY created_at DESC`

	var purchases []models.Purchase
	if err := r.db.Select(&purchases, q); err != nil {
		return nil, err
	}
	for i := range purchases {
		if err := r.loadItems(&purchases[i]); err != nil {
			return nil, err
		}
	}
	return purchases, nil
}

func (r *PurchaseRepository) loadItems(p *models.Purchase) error {
	const q = `SELECT * FROM purchase_items WHERE purchase_id = $1 ORDER BY id`
	return r.db.Select(&p.Items, q, p.ID)
}
