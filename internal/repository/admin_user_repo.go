package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/chinaboxmv/chinabox_api/internal/models"
	"github.com/chinaboxmv/chinabox_api/internal/utils"
)

// AdminUserRepository handles data access for staff accounts.
type AdminUserRepository struct {
	db *sqlx.DB
}

// NewAdminUserRepository creates a new AdminUserRepository.
func NewAdminUserRepository(db *sqlx.DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

// Create inserts a new admin user. A duplicate email maps to ErrDuplicateEmail.
func (r *AdminUserRepository) Create(u *models.AdminUser) error {
	const q = `
        INSERT INTO admin_users (email, password_hash, name, is_active, created_at, updated_at)
        VALUES ($1,$2,$3,$4,NOW(),NOW())
        RETURNING id`

	err := r.db.QueryRow(q, u.Email, u.PasswordHash, u.Name, u.IsActive).Scan(&u.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return utils.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// GetByEmail returns an admin user by email.
func (r *AdminUserRepository) GetByEmail(email string) (*models.AdminUser, error) {
	const q = `SELECT * FROM admin_users WHERE email = $1 LIMIT 1`

	var u models.AdminUser
	if err := r.db.Get(&u, q, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &u, nil
}
