package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCatalogLoading signals that the payload has not finished loading.
	ErrCatalogLoading = errors.New("catalog is loading")
	// ErrInvalidRequest signals a malformed search or session request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrSessionNotFound signals a missing or expired session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionLimit signals that the session registry is full.
	ErrSessionLimit = errors.New("session limit reached")
	// ErrPayloadMalformed signals an undecodable index payload.
	ErrPayloadMalformed = errors.New("payload malformed")
	// ErrUnknownSource signals an unsupported payload source kind.
	ErrUnknownSource = errors.New("unknown payload source")
	// ErrInvalidTaxonomy signals a broken taxonomy definition.
	ErrInvalidTaxonomy = errors.New("invalid taxonomy")
)

// ValidationError wraps ErrInvalidRequest with the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidRequest.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidRequest }

// NewValidationError creates a validation error for the given field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
