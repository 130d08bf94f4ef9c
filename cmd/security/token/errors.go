package token

import "errors"

// Public, stable errors for callers.
var (
	// ErrInvalidToken covers bad signature, wrong token kind, malformed
	// payload, and expiry. Callers must treat all of these identically.
	ErrInvalidToken = errors.New("invalid token")

	// ErrConfig is returned for invalid signing configuration.
	ErrConfig = errors.New("invalid token config")
)
