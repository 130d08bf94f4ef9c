package password

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Argon2idParams controls Argon2id hashing cost.
// MemoryKiB is in KiB, as required by argon2.IDKey.
type Argon2idParams struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// Policy controls password length validation.
type Policy struct {
	MinLength int
	MaxLength int
}

// Config is the single configuration surface for this package.
type Config struct {
	Params Argon2idParams
	Policy Policy
}

// DefaultConfig returns a baseline suitable for interactive logins.
// Values can be overridden via environment variables.
func DefaultConfig() Config {
	// Clamp parallelism to [1..4] to keep resource usage predictable in containers.
	threads := runtime.NumCPU()
	if threads <= 0 {
		threads = 1
	}
	if threads > 4 {
		threads = 4
	}

	return Config{
		Params: Argon2idParams{
			MemoryKiB:   64 * 1024, // 64 MiB
			Iterations:  3,
			Parallelism: uint8(threads), // #nosec G115 -- clamped to [1..4] above; safe conversion.
			SaltLength:  16,
			KeyLength:   32,
		},
		Policy: Policy{
			MinLength: 8,
			MaxLength: 256,
		},
	}
}

// FromEnv loads config from environment variables.
//
// Env surface:
// - PLAYTUBE_PASSWORD_MIN_LEN
// - PLAYTUBE_PASSWORD_MAX_LEN
// - PLAYTUBE_ARGON2_MEMORY_KIB
// - PLAYTUBE_ARGON2_ITERATIONS
// - PLAYTUBE_ARGON2_PARALLELISM
// - PLAYTUBE_ARGON2_SALT_LEN
// - PLAYTUBE_ARGON2_KEY_LEN
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if n, ok, err := envUint32("PLAYTUBE_PASSWORD_MIN_LEN", 1, 1024); err != nil {
		return Config{}, err
	} else if ok {
		cfg.Policy.MinLength = int(n)
	}
	if n, ok, err := envUint32("PLAYTUBE_PASSWORD_MAX_LEN", 8, 4096); err != nil {
		return Config{}, err
	} else if ok {
		cfg.Policy.MaxLength = int(n)
	}
	if cfg.Policy.MaxLength < cfg.Policy.MinLength {
		return Config{}, fmt.Errorf("password policy: max length %d < min length %d", cfg.Policy.MaxLength, cfg.Policy.MinLength)
	}

	if n, ok, err := envUint32("PLAYTUBE_ARGON2_MEMORY_KIB", 8*1024, 1024*1024); err != nil {
		return Config{}, err
	} else if ok {
		cfg.Params.MemoryKiB = n
	}
	if n, ok, err := envUint32("PLAYTUBE_ARGON2_ITERATIONS", 1, 32); err != nil {
		return Config{}, err
	} else if ok {
		cfg.Params.Iterations = n
	}
	if n, ok, err := envUint32("PLAYTUBE_ARGON2_PARALLELISM", 1, 16); err != nil {
		return Config{}, err
	} else if ok {
		cfg.Params.Parallelism = uint8(n) // #nosec G115 -- bounded to [1..16] by envUint32.
	}
	if n, ok, err := envUint32("PLAYTUBE_ARGON2_SALT_LEN", 8, 64); err != nil {
		return Config{}, err
	} else if ok {
		cfg.Params.SaltLength = n
	}
	if n, ok, err := envUint32("PLAYTUBE_ARGON2_KEY_LEN", 16, 128); err != nil {
		return Config{}, err
	} else if ok {
		cfg.Params.KeyLength = n
	}

	return cfg, nil
}

// envUint32 reads a bounded numeric env var.
// Returns ok=false when the variable is unset or blank.
func envUint32(key string, min, max uint64) (uint32, bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	if n < min || n > max {
		return 0, false, fmt.Errorf("%s: %d out of range [%d..%d]", key, n, min, max)
	}
	return uint32(n), true, nil
}
