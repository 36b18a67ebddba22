// internal/core/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input rejected before any store call.
	ErrValidation = errors.New("validation failed")

	// ErrItemNotFound is returned when a key has no record in the namespace.
	ErrItemNotFound = errors.New("item not found")

	// ErrStoreUnavailable marks a backend failure surfaced from a store adapter.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrUnauthenticated is returned when a request carries no valid session.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrClassificationFailed marks a classifier backend failure.
	ErrClassificationFailed = errors.New("classification failed")

	// ErrUserNotFound is returned by user directories on an unknown email.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists is returned when registering an email twice.
	ErrUserExists = errors.New("user already exists")
)

// ValidationError describes a rejected field.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a validation error for a field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is lets errors.Is match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StoreError wraps a backend failure from a store adapter.
type StoreError struct {
	Op  string
	Err error
}

// NewStoreError wraps err as a store failure for op.
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrStoreUnavailable.
func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

// AuthReason enumerates why a sign in failed.
type AuthReason string

// Auth reasons
const (
	AuthInvalidEmail  AuthReason = "invalid_email"
	AuthWrongPassword AuthReason = "wrong_password"
	AuthUserNotFound  AuthReason = "user_not_found"
	AuthOther         AuthReason = "other"
)

var authMessages = map[AuthReason]string{
	AuthInvalidEmail:  "Invalid email address.",
	AuthWrongPassword: "Incorrect password.",
	AuthUserNotFound:  "No user found with this email.",
	AuthOther:         "Failed to sign in. Please check your credentials.",
}

// AuthError is returned by the session provider when sign in fails.
type AuthError struct {
	Reason AuthReason
	Err    error
}

// NewAuthError creates an auth error with an optional cause.
func NewAuthError(reason AuthReason, err error) *AuthError {
	return &AuthError{Reason: reason, Err: err}
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sign in failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("sign in failed (%s)", e.Reason)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// UserMessage returns the text shown to the user for this failure.
func (e *AuthError) UserMessage() string {
	if msg, ok := authMessages[e.Reason]; ok {
		return msg
	}
	return authMessages[AuthOther]
}
