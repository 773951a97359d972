package service

import "errors"

// Sentinel errors mapped to HTTP status codes by the handlers.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidState = errors.New("invalid state for this operation")
	ErrForbidden    = errors.New("operation not permitted")
	ErrConflict     = errors.New("resource conflict")
	ErrValidation   = errors.New("validation failed")
)
