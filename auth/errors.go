package auth

import "errors"

// Verification failures are terminal and non-retriable; the HTTP boundary
// maps all of them to 401 with a generic body so a caller cannot tell
// which check failed.
var (
	ErrMissingToken         = errors.New("missing token")
	ErrTokenRevoked         = errors.New("token revoked")
	ErrTokenExpired         = errors.New("token expired")
	ErrTokenInvalid         = errors.New("token invalid")
	ErrUserNotFound         = errors.New("user not found")
	ErrAccountLocked        = errors.New("account locked")
	ErrTokenVersionMismatch = errors.New("token version mismatch")
	ErrInvalidCredentials   = errors.New("invalid credentials")
)
