package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken        = errors.New("INVALID_TOKEN")
	ErrAuthRequired        = errors.New("AUTH_REQUIRED")
	ErrForbidden           = errors.New("FORBIDDEN")
	ErrRequestNotFound     = errors.New("REQUEST_NOT_FOUND")
	ErrBoxItemNotFound     = errors.New("BOX_ITEM_NOT_FOUND")
	ErrPurchaseNotFound    = errors.New("PURCHASE_NOT_FOUND")
	ErrPaymentNotFound     = errors.New("PAYMENT_NOT_FOUND")
	ErrPriceNotSet         = errors.New("PRICE_NOT_SET")
	ErrNotAvailable        = errors.New("NOT_AVAILABLE")
	ErrNotEditable         = errors.New("NOT_EDITABLE")
	ErrInvalidStatus       = errors.New("INVALID_STATUS")
	ErrInvalidPrice        = errors.New("INVALID_PRICE")
	ErrMissingField        = errors.New("MISSING_FIELD")
	ErrInvalidDelivery     = errors.New("INVALID_DELIVERY_METHOD")
	ErrConfirmRequired     = errors.New("CONFIRM_REQUIRED")
	ErrEmptyBox            = errors.New("EMPTY_BOX")
	ErrDuplicateEmail      = errors.New("DUPLICATE_EMAIL")
	ErrInvalidCredentials  = errors.New("INVALID_CREDENTIALS")
	ErrSlipAlreadyUploaded = errors.New("SLIP_ALREADY_UPLOADED")
)
