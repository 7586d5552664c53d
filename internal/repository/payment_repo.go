package repository

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/chinaboxmv/chinabox_api/internal/models"
)

// PaymentRepository handles data access for payment records.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreateAndClearBox inserts the payment record and deletes the owner's box
// items in a single transaction. Either both happen or neither does, so a
// successful slip upload can never leave the paid-for items in the box.
func (r *PaymentRepository) CreateAndClearBox(rec *models.PaymentRecord) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	const insertQ = `
        INSERT INTO payment_records (
            id, purchase_id, method, slip_path, owner_id, status, created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW())
        RETURNING created_at`

	if err := tx.QueryRow(insertQ,
		rec.ID, rec.PurchaseID, rec.Method, rec.SlipPath, rec.OwnerID, rec.Status,
	).Scan(&rec.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert payment record: %w", err)
	}

	const clearQ = `DELETE FROM box_items WHERE owner_id = $1`
	if _, err := tx.Exec(clearQ, rec.OwnerID); err != nil {
		return fmt.Errorf("failed to clear box items: %w", err)
	}

	return tx.Commit()
}

// GetAll returns all payment records, newest first.
func (r *PaymentRepository) GetAll() ([]models.PaymentRecord, error) {
	const q = `SELECT * FROM payment_records ORDER BY created_at DESC`

	var records []models.PaymentRecord
	if err := r.db.Select(&records, q); err != nil {
		return nil, err
	}
	return records, nil
}

// GetByID returns a single payment record by id.
func (r *PaymentRepository) GetByID(id string) (*models.PaymentRecord, error) {
	const q = `SELECT * FROM payment_records WHERE id = $1 LIMIT 1`

	var rec models.PaymentRecord
	if err := r.db.Get(&rec, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &rec, nil
}

// GetByPurchaseID returns the payment record for a purchase, if any.
func (r *PaymentRepository) GetByPurchaseID(purchaseID string) (*models.PaymentRecord, error) {
	const q = `SELECT * FROM payment_records WHERE purchase_id = $1 LIMIT 1`

	var rec models.PaymentRecord
	if err := r.db.Get(&rec, q, purchaseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &rec, nil
}

// UpdateStatus overwrites the review status unconditionally.
func (r *PaymentRepository) UpdateStatus(id string, status models.PaymentStatus) error {
	const q = `UPDATE payment_records SET status = $2, updated_at = NOW() WHERE id = $1`

	res, err := r.db.Exec(q, id, status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
