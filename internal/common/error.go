// Package common defines shared constants and sentinel errors used across
// the identity subsystem. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound       = errors.New("not found")
	ErrorDuplicateEmail = errors.New("email address is already registered")

	// Service-level errors (generic/internal flow control).
	ErrorInternal           = errors.New("internal error")
	ErrorInvalidCredentials = errors.New("invalid email or password")
	ErrorNotVerified        = errors.New("email address is not verified")
	ErrorWrongOldPassword   = errors.New("old password is incorrect")

	// Validation errors.
	ErrorInvalidEmail     = errors.New("invalid email address")
	ErrorWeakPassword     = errors.New("password does not meet strength requirements")
	ErrorPasswordMismatch = errors.New("password confirmation does not match")
	ErrorMissingField     = errors.New("required field is missing")

	// Token lifecycle errors. ErrTokenMismatch also covers action tokens whose
	// bound password-hash fingerprint is stale (already consumed).
	ErrMalformedToken = errors.New("malformed token")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMismatch  = errors.New("token mismatch")
	ErrBadSignature   = errors.New("invalid token signature")
	ErrWrongTokenType = errors.New("wrong token type")
)

// IsTokenError reports whether err belongs to the token failure class.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrMalformedToken) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenMismatch) ||
		errors.Is(err, ErrBadSignature) ||
		errors.Is(err, ErrWrongTokenType)
}

// IsValidationError reports whether err belongs to the validation class.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrorInvalidEmail) ||
		errors.Is(err, ErrorWeakPassword) ||
		errors.Is(err, ErrorPasswordMismatch) ||
		errors.Is(err, ErrorMissingField)
}
