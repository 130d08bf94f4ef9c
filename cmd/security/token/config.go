package token

import (
	"crypto/subtle"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// AccessSecretEnvKey is the env var name for the access-token signing secret.
	// #nosec G101 -- not a credential; it's an environment variable name.
	AccessSecretEnvKey = "PLAYTUBE_ACCESS_TOKEN_SECRET"
	// RefreshSecretEnvKey is the env var name for the refresh-token signing secret.
	// #nosec G101 -- not a credential; it's an environment variable name.
	RefreshSecretEnvKey = "PLAYTUBE_REFRESH_TOKEN_SECRET"

	minSecretBytes = 32
)

// Config defines signing configuration for both token kinds.
//
// AccessSecret and RefreshSecret are independent values. Neither is ever
// derived from the other.
type Config struct {
	Issuer string

	AccessSecret  []byte
	RefreshSecret []byte

	// AccessTTL is short (minutes-to-hours class).
	AccessTTL time.Duration
	// RefreshTTL is long (days class).
	RefreshTTL time.Duration

	// Leeway is the allowed clock skew during verification.
	Leeway time.Duration
}

// DefaultConfig returns default TTLs and skew. Secrets must be provided
// by the caller or environment.
func DefaultConfig() Config {
	return Config{
		Issuer:     "playtube",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 10 * 24 * time.Hour,
		Leeway:     30 * time.Second,
	}
}

// LoadConfigFromEnv loads token configuration from environment variables.
//
// Required:
//   - PLAYTUBE_ACCESS_TOKEN_SECRET  (>= 32 bytes)
//   - PLAYTUBE_REFRESH_TOKEN_SECRET (>= 32 bytes, distinct from access)
//
// Optional (valid Go duration strings):
//   - PLAYTUBE_TOKEN_ISSUER
//   - PLAYTUBE_ACCESS_TOKEN_TTL
//   - PLAYTUBE_REFRESH_TOKEN_TTL
//   - PLAYTUBE_TOKEN_CLOCK_SKEW
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := strings.TrimSpace(os.Getenv("PLAYTUBE_TOKEN_ISSUER")); v != "" {
		cfg.Issuer = v
	}
	if v := strings.TrimSpace(os.Getenv("PLAYTUBE_ACCESS_TOKEN_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("%w: PLAYTUBE_ACCESS_TOKEN_TTL", ErrConfig)
		}
		cfg.AccessTTL = d
	}
	if v := strings.TrimSpace(os.Getenv("PLAYTUBE_REFRESH_TOKEN_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("%w: PLAYTUBE_REFRESH_TOKEN_TTL", ErrConfig)
		}
		cfg.RefreshTTL = d
	}
	if v := strings.TrimSpace(os.Getenv("PLAYTUBE_TOKEN_CLOCK_SKEW")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("%w: PLAYTUBE_TOKEN_CLOCK_SKEW", ErrConfig)
		}
		cfg.Leeway = d
	}

	cfg.AccessSecret = []byte(strings.TrimSpace(os.Getenv(AccessSecretEnvKey)))
	cfg.RefreshSecret = []byte(strings.TrimSpace(os.Getenv(RefreshSecretEnvKey)))

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if len(c.AccessSecret) < minSecretBytes {
		return fmt.Errorf("%w: access secret missing or shorter than %d bytes", ErrConfig, minSecretBytes)
	}
	if len(c.RefreshSecret) < minSecretBytes {
		return fmt.Errorf("%w: refresh secret missing or shorter than %d bytes", ErrConfig, minSecretBytes)
	}
	// The two secrets form an isolation boundary; sharing one value defeats it.
	if len(c.AccessSecret) == len(c.RefreshSecret) &&
		subtle.ConstantTimeCompare(c.AccessSecret, c.RefreshSecret) == 1 {
		return fmt.Errorf("%w: access and refresh secrets must differ", ErrConfig)
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return fmt.Errorf("%w: non-positive TTL", ErrConfig)
	}
	if c.Leeway < 0 || c.Leeway > 2*time.Minute {
		return fmt.Errorf("%w: leeway out of range", ErrConfig)
	}
	return nil
}
