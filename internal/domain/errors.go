package domain

import (
	"errors"
	"fmt"
)

// ErrFlightNotFound is returned when the requested flight id does not exist.
// Handlers map it to HTTP 404.
var ErrFlightNotFound = errors.New("flight not found")

// ErrDuplicateFlightNumber is returned when a write violates the unique
// constraint on flight_number. Handlers map it to HTTP 409.
var ErrDuplicateFlightNumber = errors.New("flight number already exists")

// ValidationError reports input that fails a business rule before any write
// is attempted. Handlers map it to HTTP 422.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
