package app

import (
	"errors"
	"fmt"

	authapi "playtube/cmd/internal/auth/api"
	"playtube/cmd/security/token"
)

// ValidateSecurityConfig enforces the startup security policy.
//
// Failing fast beats serving with weakened auth: a missing or shared token
// secret, or script-readable cookies in production, are configuration
// mistakes that must stop the process.
func ValidateSecurityConfig(cfg Config, authCfg authapi.Config) error {
	if _, err := token.LoadConfigFromEnv(); err != nil {
		if errors.Is(err, token.ErrConfig) {
			return fmt.Errorf("security policy: %w", err)
		}
		return err
	}

	if cfg.IsProduction() && !authCfg.CookieSecure {
		return errors.New("security policy: PLAYTUBE_COOKIE_SECURE=false is not allowed in production")
	}

	return nil
}
