package service

import (
	"database/sql"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/chinaboxmv/chinabox_api/internal/models"
	"github.com/chinaboxmv/chinabox_api/internal/repository"
	"github.com/chinaboxmv/chinabox_api/internal/utils"
)

// AdminAuthService handles staff login for the curation panel.
type AdminAuthService struct {
	adminRepo *repository.AdminUserRepository
}

// NewAdminAuthService constructs an AdminAuthService.
func NewAdminAuthService(adminRepo *repository.AdminUserRepository) *AdminAuthService {
	return &AdminAuthService{adminRepo: adminRepo}
}

// Login verifies staff credentials and returns a signed token with the admin
// role.
func (s *AdminAuthService) Login(email, password string) (string, error) {
	user, err := s.adminRepo.GetByEmail(email)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", utils.ErrInvalidCredentials
		}
		return "", err
	}

	if !user.IsActive {
		log.Warn().Str("email", email).Msg("Admin account is inactive")
		return "", utils.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", utils.ErrInvalidCredentials
	}

	log.Info().Str("email", email).Msg("Admin login successful")
	return utils.GenerateJWT(user.ID, user.Email, utils.RoleAdmin)
}

// CreateAdmin provisions a staff account.
func (s *AdminAuthService) CreateAdmin(email, password, name string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.AdminUser{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         name,
		IsActive:     true,
	}
	return s.adminRepo.Create(user)
}
