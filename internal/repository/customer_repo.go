package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/chinaboxmv/chinabox_api/internal/models"
	"github.com/chinaboxmv/chinabox_api/internal/utils"
)

// CustomerRepository handles data access for storefront customers.
type CustomerRepository struct {
	db *sqlx.DB
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(db *sqlx.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create inserts a new customer. A duplicate email maps to ErrDuplicateEmail.
func (r *CustomerRepository) Create(c *models.Customer) error {
	const q = `
        INSERT INTO customers (email, password_hash, name, is_active, created_at, updated_at)
        VALUES ($1,$2,$3,$4,NOW(),NOW())
        RETURNING id`

	err := r.db.QueryRow(q, c.Email, c.PasswordHash, c.Name, c.IsActive).Scan(&c.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return utils.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// GetByEmail returns a customer by email.
func (r *CustomerRepository) GetByEmail(email string) (*models.Customer, error) {
	const q = `SELECT * FROM customers WHERE email = $1 LIMIT 1`

	var c models.Customer
	if err := r.db.Get(&c, q, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &c, nil
}

// GetByID returns a customer by id.
func (r *CustomerRepository) GetByID(id int) (*models.Customer, error) {
	const q = `SELECT * FROM customers WHERE id = $1 LIMIT 1`

	var c models.Customer
	if err := r.db.Get(&c, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &c, nil
}
