package assignment

import "errors"

// Error taxonomy surfaced to the API layer. Storage-engine failures are
// returned as-is and rendered as generic internal errors.
var (
	ErrNotFound     = errors.New("assignment not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnavailable  = errors.New("assignment not available")
	ErrConflict     = errors.New("conflicting attempt submission")
)
