package shared

import "errors"

var (
	// ErrNotFound indicates no matching entity for the given id and tenant.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates caller-supplied data failed a precondition.
	ErrInvalidInput = errors.New("invalid input")
	// ErrTenantMissing occurs when a request carries no tenant header.
	ErrTenantMissing = errors.New("tenant not resolved")
)
