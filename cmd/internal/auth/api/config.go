package authapi

import (
	"net/http"
	"os"
	"strconv"
	"strings"
)

// Cookie names match the original API contract consumed by clients.
const (
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"
)

// Config controls transport behavior and cookie security defaults.
type Config struct {
	// MaxBodyBytes bounds request bodies (16 KiB default).
	MaxBodyBytes int64

	CookiePath   string
	CookieDomain string
	// CookieSecure must stay true outside local development: tokens ride in
	// httpOnly+secure cookies and must never be script-readable.
	CookieSecure   bool
	CookieSameSite http.SameSite
}

// LoadConfigFromEnv loads transport config from environment variables with
// safe defaults.
func LoadConfigFromEnv() Config {
	cfg := Config{
		MaxBodyBytes:   envInt64("PLAYTUBE_AUTH_MAX_BODY_BYTES", 16<<10),
		CookiePath:     envString("PLAYTUBE_COOKIE_PATH", "/"),
		CookieDomain:   envString("PLAYTUBE_COOKIE_DOMAIN", ""),
		CookieSecure:   envBool("PLAYTUBE_COOKIE_SECURE", true),
		CookieSameSite: http.SameSiteLaxMode,
	}

	switch strings.ToLower(envString("PLAYTUBE_COOKIE_SAMESITE", "lax")) {
	case "strict":
		cfg.CookieSameSite = http.SameSiteStrictMode
	case "none":
		cfg.CookieSameSite = http.SameSiteNoneMode
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 16 << 10
	}
	return cfg
}

func envString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
