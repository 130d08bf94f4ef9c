package app

import (
	"strings"
	"time"
)

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	Environment string
	HTTPAddr    string
	LogLevel    string
	LogFormat   string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// If true:
	// - /readyz returns 503 unless the database is configured and reachable.
	ReadinessRequireDB bool

	MetricsEnabled bool

	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
	CORSMaxAgeSeconds    int
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		Environment: EnvString("PLAYTUBE_ENV", "development"),
		HTTPAddr:    EnvString("PLAYTUBE_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel:    EnvString("PLAYTUBE_LOG_LEVEL", "info"),
		LogFormat:   EnvString("PLAYTUBE_LOG_FORMAT", "json"),

		ReadHeaderTimeout: EnvDuration("PLAYTUBE_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("PLAYTUBE_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("PLAYTUBE_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("PLAYTUBE_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("PLAYTUBE_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("PLAYTUBE_DATABASE_URL", ""),
		DBMaxConns:  EnvInt32("PLAYTUBE_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("PLAYTUBE_DB_MIN_CONNS", 0),

		ReadinessRequireDB: EnvBool("PLAYTUBE_READINESS_REQUIRE_DB", false),

		MetricsEnabled: EnvBool("PLAYTUBE_METRICS_ENABLED", true),

		CORSAllowedOrigins:   splitList(EnvString("PLAYTUBE_CORS_ORIGINS", "")),
		CORSAllowCredentials: EnvBool("PLAYTUBE_CORS_ALLOW_CREDENTIALS", true),
		CORSMaxAgeSeconds:    EnvInt("PLAYTUBE_CORS_MAX_AGE_SECONDS", 600),
	}
}

// IsProduction reports whether the runtime is configured for production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
