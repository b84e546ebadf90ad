// Package common defines shared constants and sentinel errors used across
// VisitorDesk components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrNotFound          = errors.New("not found")
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// Validation / directory errors.
	ErrValidation        = errors.New("validation error")
	ErrDuplicateUsername = errors.New("username already exists")

	// Auth errors.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotAuthenticated   = errors.New("no user logged in")

	// Session persistence errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid session token")
)
