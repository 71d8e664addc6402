package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("shirt not found")
	ErrInvalidAdjustment = errors.New("invalid stock adjustment")
	ErrInsufficientStock = fmt.Errorf("%w: insufficient stock", ErrInvalidAdjustment)
	ErrDuplicateRequest  = errors.New("duplicate request")
)

// ValidationError reports malformed input rejected before it reaches a store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
