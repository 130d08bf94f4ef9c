package identity

import (
	"errors"

	"playtube/cmd/security/password"
)

// HashPassword returns a PHC-style Argon2id hash string using the
// environment-configured parameters and policy.
func HashPassword(plain string) (string, error) {
	cfg, err := password.FromEnv()
	if err != nil {
		return "", err
	}
	return cfg.Hash(plain)
}

// VerifyPassword checks a password against a PHC Argon2id hash.
// Malformed hash input yields (false, nil): callers only ever see a
// credential mismatch, never a parse failure.
func VerifyPassword(plain, encoded string) (bool, error) {
	cfg, err := password.FromEnv()
	if err != nil {
		return false, err
	}

	ok, err := cfg.Verify(encoded, plain)
	if err != nil {
		if errors.Is(err, password.ErrInvalidHash) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}
