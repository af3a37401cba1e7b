package application

import "errors"

// Sentinel errors returned by the services. Handlers map these onto the HTTP
// taxonomy: 401/403 for auth, 404 for lookups, 409 for business conflicts,
// 502 for upstream payment failures.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrCategoryExists     = errors.New("category already exists")
	ErrProductSold        = errors.New("product already sold")
	ErrAlreadySettled     = errors.New("settlement already applied")
	ErrPaymentGateway     = errors.New("payment gateway failure")
)
