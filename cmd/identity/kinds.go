package identity

import "errors"

// Sentinel error kinds (stable for errors.Is and for mapping to API status codes).
var (
	ErrInvalidInput = errors.New("invalid_input")
	ErrNotFound     = errors.New("not_found")
	ErrConflict     = errors.New("conflict")

	// ErrTokenMismatch is returned by RotateRefreshToken when the presented
	// refresh token does not equal the stored value (rotated past, or cleared
	// by logout). The session layer reports it as token reuse.
	ErrTokenMismatch = errors.New("token_mismatch")
)
