// Package common defines shared constants and sentinel errors used across
// the LearnInfinity server layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Credit-ledger errors.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// Auth errors (invalid or malformed token, blocked account).
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrAccountDeactivated = errors.New("account deactivated")
)
