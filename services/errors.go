package services

import "errors"

// Domain errors the handlers translate to HTTP statuses. Services wrap
// storage failures with %w so errors.Is keeps working at the boundary.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("already exists")
	ErrUnauthorized    = errors.New("wrong username or password")
	ErrForbidden       = errors.New("forbidden")
	ErrValidation      = errors.New("validation failed")
	ErrVersionConflict = errors.New("version must be increased")
)
