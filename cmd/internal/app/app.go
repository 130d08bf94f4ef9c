// Package app wires the playtube server runtime: config, logging, storage,
// metrics, and HTTP routes.
//
// It is intentionally small and deterministic to keep behavior predictable.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"playtube/cmd/identity"
	authapi "playtube/cmd/internal/auth/api"
	"playtube/cmd/security/token"

	"github.com/jackc/pgx/v5/pgxpool"
)

// App is the server runtime: it owns the HTTP server wiring and the
// lifecycle of DB-backed resources.
type App struct {
	cfg Config
	log Logger

	store identity.Store

	dbPool    *pgxpool.Pool
	dbEnabled bool

	auth    *authapi.Handler
	metrics *Metrics
}

// New constructs a fully wired App instance from config and logger.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel, cfg.LogFormat)
	}

	authCfg := authapi.LoadConfigFromEnv()
	if err := ValidateSecurityConfig(cfg, authCfg); err != nil {
		return nil, err
	}

	tokCfg, err := token.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	tokens, err := token.NewManager(tokCfg)
	if err != nil {
		return nil, err
	}

	store, dbPool, dbEnabled, err := newStore(context.Background(), cfg, log)
	if err != nil {
		return nil, err
	}

	auth, err := authapi.NewHandler(log, authCfg, store, tokens)
	if err != nil {
		if dbPool != nil {
			dbPool.Close()
		}
		return nil, err
	}

	var metrics *Metrics
	if cfg.MetricsEnabled {
		metrics = NewMetrics()
	}

	return &App{
		cfg:       cfg,
		log:       log,
		store:     store,
		dbPool:    dbPool,
		dbEnabled: dbEnabled,
		auth:      auth,
		metrics:   metrics,
	}, nil
}

// Handler builds the full middleware chain around the route mux.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.dbPool, a.dbEnabled, a.auth, a.metrics)

	var h http.Handler = mux
	if a.metrics != nil {
		h = a.metrics.WithMetrics(h)
	}
	h = WithSecurityHeaders(h)
	h = WithCORS(h, a.cfg, a.log)
	h = WithRequestLogging(h, a.log)
	return h
}

// Run starts the HTTP server and blocks until context cancellation or a
// fatal server error.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start",
		"addr", a.cfg.HTTPAddr,
		"env", a.cfg.Environment,
		"db_enabled", a.dbEnabled,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	if a.dbPool != nil {
		a.dbPool.Close()
	}

	a.log.Info("server.stopped")
	return nil
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// newStore decides between Postgres-backed persistence and the in-memory
// dev store. The app owns the pool lifecycle.
func newStore(ctx context.Context, cfg Config, log Logger) (identity.Store, *pgxpool.Pool, bool, error) {
	if cfg.DatabaseURL == "" {
		log.Info("db.disabled.inmemory_store")
		return identity.NewMemoryStore(), nil, false, nil
	}

	pool, err := NewDBPool(ctx, cfg)
	if err != nil {
		return nil, nil, false, err
	}

	store, err := identity.NewPostgresStore(pool)
	if err != nil {
		pool.Close()
		return nil, nil, false, err
	}

	log.Info("db.enabled.postgres_store")
	return store, pool, true, nil
}
