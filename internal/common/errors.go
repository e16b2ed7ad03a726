// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Artifact store errors.
	ErrNotFound = errors.New("artifact not found")

	// Pipeline errors.
	ErrDataLoad            = errors.New("data load failed")
	ErrSchema              = errors.New("schema mismatch")
	ErrInsufficientSamples = errors.New("insufficient samples for oversampling")
	ErrUnknownCategory     = errors.New("unknown categorical value")

	// Registry errors.
	ErrUnknownModel  = errors.New("unknown model")
	ErrDuplicateName = errors.New("duplicate model name")
	ErrFeatureShape  = errors.New("feature shape mismatch")
	ErrNotSupported  = errors.New("capability not supported")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
