package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means the caller presented no usable credential.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrInvalidToken is the only error the token service reports. Bad
	// signature, malformed structure and expiry are deliberately not
	// distinguished.
	ErrInvalidToken = fmt.Errorf("invalid token: %w", ErrUnauthenticated)
	// ErrUnauthorized means the caller is authenticated but holds the wrong role.
	ErrUnauthorized = errors.New("access forbidden")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserExists         = errors.New("user already exists")

	ErrNotFound         = errors.New("not found")
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrFeedbackNotFound = fmt.Errorf("feedback %w", ErrNotFound)

	ErrSuggestionsDisabled = errors.New("ai suggestions are not configured")
	ErrSuggestionFailed    = errors.New("failed to generate suggestion")
)

// ValidationError reports malformed client input on a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// NewValidationError builds a *ValidationError for field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
