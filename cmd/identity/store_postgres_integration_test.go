package identity

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Integration tests are enabled when PLAYTUBE_TEST_DATABASE_URL is set.
// Local runs without Postgres skip them to stay fast.

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("PLAYTUBE_TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("PLAYTUBE_TEST_DATABASE_URL is not set; skipping Postgres integration test")
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("pgxpool.New: %v", err)
	}
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `
		CREATE SCHEMA IF NOT EXISTS playtube;
		CREATE TABLE IF NOT EXISTS playtube.accounts (
			id            text PRIMARY KEY,
			username      text NOT NULL,
			email         text NOT NULL,
			full_name     text NOT NULL,
			avatar        text,
			cover_image   text,
			password_hash text NOT NULL,
			refresh_token text,
			created_at    timestamptz NOT NULL,
			updated_at    timestamptz NOT NULL,
			CONSTRAINT accounts_username_key UNIQUE (username),
			CONSTRAINT accounts_email_key UNIQUE (email)
		);
	`)
	if err != nil {
		t.Fatalf("create schema: %v", err)
	}

	return pool
}

func cleanupAccount(ctx context.Context, t *testing.T, pool *pgxpool.Pool, id string) {
	t.Helper()
	if _, err := pool.Exec(ctx, `DELETE FROM playtube.accounts WHERE id = $1`, id); err != nil {
		t.Logf("cleanup account %s: %v", id, err)
	}
}

func TestPostgresStore_CreateFindRotate(t *testing.T) {
	fastArgon(t)

	ctx := context.Background()
	pool := testPool(ctx, t)

	store, err := NewPostgresStore(pool)
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}

	suffix := time.Now().UTC().UnixNano()
	username := fmt.Sprintf("IntegUser%d", suffix)
	email := fmt.Sprintf("integ%d@example.com", suffix)

	a, err := store.CreateAccount(ctx, CreateAccountInput{
		Username: username,
		Email:    email,
		FullName: "Integration User",
		Password: "a strong password",
	})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	t.Cleanup(func() { cleanupAccount(ctx, t, pool, a.ID) })

	if a.Username != NormalizeUsername(username) {
		t.Fatalf("expected normalized username, got %q", a.Username)
	}

	got, err := store.FindByUsernameOrEmail(ctx, email)
	if err != nil {
		t.Fatalf("FindByUsernameOrEmail: %v", err)
	}
	if got.ID != a.ID {
		t.Fatalf("lookup mismatch: %q vs %q", got.ID, a.ID)
	}
	if got.RefreshToken != nil {
		t.Fatalf("new account must have no refresh token")
	}

	// Duplicate username maps to a conflict on the right field.
	_, err = store.CreateAccount(ctx, CreateAccountInput{
		Username: username,
		Email:    fmt.Sprintf("other%d@example.com", suffix),
		FullName: "Other",
		Password: "a strong password",
	})
	var ce ConflictError
	if !asConflict(err, &ce) || ce.Field != "username" {
		t.Fatalf("expected username conflict, got %v", err)
	}

	// Overwrite, rotate, replay.
	first := "first-token"
	if err := store.UpdateRefreshToken(ctx, a.ID, &first); err != nil {
		t.Fatalf("UpdateRefreshToken: %v", err)
	}
	if err := store.RotateRefreshToken(ctx, a.ID, "first-token", "second-token"); err != nil {
		t.Fatalf("RotateRefreshToken: %v", err)
	}
	if err := store.RotateRefreshToken(ctx, a.ID, "first-token", "third-token"); !IsTokenMismatch(err) {
		t.Fatalf("expected mismatch on replay, got %v", err)
	}

	got, err = store.FindByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.RefreshToken == nil || *got.RefreshToken != "second-token" {
		t.Fatalf("expected second-token stored, got %v", got.RefreshToken)
	}

	// Clear (logout) then rotation fails.
	if err := store.UpdateRefreshToken(ctx, a.ID, nil); err != nil {
		t.Fatalf("UpdateRefreshToken(nil): %v", err)
	}
	if err := store.RotateRefreshToken(ctx, a.ID, "second-token", "fourth-token"); !IsTokenMismatch(err) {
		t.Fatalf("expected mismatch after clear, got %v", err)
	}
}

func TestPostgresStore_RotateConcurrent_SingleWinner(t *testing.T) {
	fastArgon(t)

	ctx := context.Background()
	pool := testPool(ctx, t)

	store, err := NewPostgresStore(pool)
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}

	suffix := time.Now().UTC().UnixNano()
	a, err := store.CreateAccount(ctx, CreateAccountInput{
		Username: fmt.Sprintf("raceuser%d", suffix),
		Email:    fmt.Sprintf("race%d@example.com", suffix),
		FullName: "Race User",
		Password: "a strong password",
	})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	t.Cleanup(func() { cleanupAccount(ctx, t, pool, a.ID) })

	stored := "contended-token"
	if err := store.UpdateRefreshToken(ctx, a.ID, &stored); err != nil {
		t.Fatalf("UpdateRefreshToken: %v", err)
	}

	const racers = 8
	errs := make(chan error, racers)
	for i := 0; i < racers; i++ {
		i := i
		go func() {
			errs <- store.RotateRefreshToken(ctx, a.ID, "contended-token", fmt.Sprintf("next-%d", i))
		}()
	}

	wins := 0
	for i := 0; i < racers; i++ {
		err := <-errs
		switch {
		case err == nil:
			wins++
		case IsTokenMismatch(err):
		default:
			t.Fatalf("unexpected rotation error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winning rotation, got %d", wins)
	}
}
