package session

import "errors"

var (
	// ErrNotFound is returned by Login when no account matches the identifier.
	ErrNotFound = errors.New("account not found")

	// ErrInvalidCredentials is returned by Login on a password mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned by Refresh for a bad signature, expiry, or
	// an unknown account id in the claims.
	ErrInvalidToken = errors.New("invalid refresh token")

	// ErrTokenReused is returned by Refresh when a syntactically valid token
	// no longer equals the stored value: it was rotated past or cleared by
	// logout. Single-use tokens make this the replay/theft signal.
	ErrTokenReused = errors.New("refresh token reused")
)
