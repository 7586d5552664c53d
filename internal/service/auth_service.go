package service

import (
	"database/sql"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/chinaboxmv/chinabox_api/internal/models"
	"github.com/chinaboxmv/chinabox_api/internal/repository"
	"github.com/chinaboxmv/chinabox_api/internal/utils"
)

// AuthService handles customer registration and login.
type AuthService struct {
	customers *repository.CustomerRepository
}

// NewAuthService constructs an AuthService.
func NewAuthService(customers *repository.CustomerRepository) *AuthService {
	return &AuthService{customers: customers}
}

// Register creates a customer account and returns a signed token.
func (s *AuthService) Register(email, password, name string) (string, *models.Customer, error) {
	if email == "" || password == "" {
		return "", nil, utils.ErrMissingField
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	customer := &models.Customer{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         name,
		IsActive:     true,
	}
	if err := s.customers.Create(customer); err != nil {
		return "", nil, err
	}

	token, err := utils.GenerateJWT(customer.ID, customer.Email, utils.RoleCustomer)
	if err != nil {
		return "", nil, err
	}

	log.Info().Str("email", email).Int("customer_id", customer.ID).Msg("Customer registered")
	return token, customer, nil
}

// Login verifies credentials and returns a signed token.
func (s *AuthService) Login(email, password string) (string, error) {
	customer, err := s.customers.GetByEmail(email)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", utils.ErrInvalidCredentials
		}
		return "", err
	}

	if !customer.IsActive {
		log.Warn().Str("email", email).Msg("Account is inactive")
		return "", utils.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(password)); err != nil {
		return "", utils.ErrInvalidCredentials
	}

	return utils.GenerateJWT(customer.ID, customer.Email, utils.RoleCustomer)
}
