package identity

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"playtube/cmd/identity/ids"
)

// PostgresStore implements Store over PostgreSQL.
//
// Design notes:
// - The pgx pool is owned by the caller; this store must not close it.
// - Schema identifiers are validated and quoted to avoid injection via identifiers.
// - RotateRefreshToken is serialized per account via SELECT ... FOR UPDATE.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresOption configures the store.
type PostgresOption func(*PostgresStore) error

var pgIdentRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// WithSchema sets the Postgres schema used by the store (default "playtube").
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" || !pgIdentRe.MatchString(schema) {
			return fmt.Errorf("identity: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	st := &PostgresStore{
		pool:   pool,
		schema: "playtube",
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, fmt.Errorf("identity: nil pool")
	}
	return st, nil
}

func (s *PostgresStore) accounts() string {
	return `"` + s.schema + `"."accounts"`
}

const accountColumns = `
	id, username, email, full_name, avatar, cover_image,
	password_hash, refresh_token, created_at, updated_at
`

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.FullName,
		&a.Avatar,
		&a.CoverImage,
		&a.PasswordHash,
		&a.RefreshToken,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

// CreateAccount validates, hashes the password, and inserts a new account.
func (s *PostgresStore) CreateAccount(ctx context.Context, in CreateAccountInput) (Account, error) {
	const op = "identity.CreateAccount"

	if err := ctx.Err(); err != nil {
		return Account{}, err
	}

	username := NormalizeUsername(in.Username)
	email := NormalizeEmail(in.Email)
	fullName := strings.TrimSpace(in.FullName)

	if username == "" {
		return Account{}, invalid(op, "username is required")
	}
	if email == "" {
		return Account{}, invalid(op, "email is required")
	}
	if fullName == "" {
		return Account{}, invalid(op, "full name is required")
	}
	if strings.TrimSpace(in.Password) == "" {
		return Account{}, invalid(op, "password is required")
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	pwHash, err := HashPassword(in.Password)
	if err != nil {
		return Account{}, invalid(op, err.Error())
	}

	id, err := ids.NewULID(now)
	if err != nil {
		return Account{}, err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO `+s.accounts()+` (
		     id, username, email, full_name, avatar, cover_image,
		     password_hash, refresh_token, created_at, updated_at
		   ) VALUES ($1, $2, $3, $4, $5, $6, $7, NULL, $8, $8)`,
		id, username, email, fullName, in.Avatar, in.CoverImage, pwHash, now,
	)
	if err != nil {
		if field, ok := classifyUniqueViolation(err); ok {
			return Account{}, ConflictError{Op: op, Field: field}
		}
		return Account{}, err
	}

	return Account{
		ID:           id,
		Username:     username,
		Email:        email,
		FullName:     fullName,
		Avatar:       in.Avatar,
		CoverImage:   in.CoverImage,
		PasswordHash: pwHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// FindByUsernameOrEmail resolves an account by either identifier.
func (s *PostgresStore) FindByUsernameOrEmail(ctx context.Context, identifier string) (Account, error) {
	const op = "identity.FindByUsernameOrEmail"

	ident := NormalizeUsername(identifier)
	if ident == "" {
		return Account{}, invalid(op, "identifier is required")
	}

	a, err := scanAccount(s.pool.QueryRow(ctx,
		`SELECT `+accountColumns+`
		   FROM `+s.accounts()+`
		  WHERE username = $1 OR email = $1`,
		ident,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, NotFoundError{Op: op}
	}
	if err != nil {
		return Account{}, err
	}
	return a, nil
}

// FindByID loads an account by its ULID.
func (s *PostgresStore) FindByID(ctx context.Context, id string) (Account, error) {
	const op = "identity.FindByID"

	if strings.TrimSpace(id) == "" {
		return Account{}, invalid(op, "id is required")
	}

	a, err := scanAccount(s.pool.QueryRow(ctx,
		`SELECT `+accountColumns+`
		   FROM `+s.accounts()+`
		  WHERE id = $1`,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, NotFoundError{Op: op}
	}
	if err != nil {
		return Account{}, err
	}
	return a, nil
}

// UpdateRefreshToken overwrites the stored refresh-token value (nil clears).
func (s *PostgresStore) UpdateRefreshToken(ctx context.Context, id string, value *string) error {
	const op = "identity.UpdateRefreshToken"

	if strings.TrimSpace(id) == "" {
		return invalid(op, "id is required")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE `+s.accounts()+`
		    SET refresh_token = $2, updated_at = now()
		  WHERE id = $1`,
		id, value,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return NotFoundError{Op: op}
	}
	return nil
}

// RotateRefreshToken performs the atomic freshness check and overwrite.
//
// The account row is locked with SELECT ... FOR UPDATE so a concurrent
// rotation or login for the same account cannot interleave between the
// compare and the overwrite. Rows for other accounts are untouched.
func (s *PostgresStore) RotateRefreshToken(ctx context.Context, id string, presented string, next string) error {
	const op = "identity.RotateRefreshToken"

	if strings.TrimSpace(id) == "" {
		return invalid(op, "id is required")
	}
	if presented == "" || next == "" {
		return invalid(op, "token is required")
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var stored *string
	err = tx.QueryRow(ctx,
		`SELECT refresh_token
		   FROM `+s.accounts()+`
		  WHERE id = $1
		    FOR UPDATE`,
		id,
	).Scan(&stored)
	if errors.Is(err, pgx.ErrNoRows) {
		return NotFoundError{Op: op}
	}
	if err != nil {
		return err
	}

	if !storedTokenEqual(stored, presented) {
		// Rotated past this value, or cleared by logout. Indistinguishable
		// on purpose.
		return OpError{Op: op, Kind: ErrTokenMismatch, Msg: "stored value mismatch"}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE `+s.accounts()+`
		    SET refresh_token = $2, updated_at = now()
		  WHERE id = $1`,
		id, next,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// storedTokenEqual compares the stored refresh-token value with the presented
// one in constant time. A nil stored value never matches.
func storedTokenEqual(stored *string, presented string) bool {
	if stored == nil || len(*stored) == 0 || len(presented) == 0 {
		return false
	}
	if len(*stored) != len(presented) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(*stored), []byte(presented)) == 1
}

// classifyUniqueViolation maps a Postgres unique violation to a logical field.
func classifyUniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	if pgErr.Code != "23505" {
		return "", false
	}

	name := strings.ToLower(pgErr.ConstraintName)
	switch {
	case strings.Contains(name, "username"):
		return "username", true
	case strings.Contains(name, "email"):
		return "email", true
	default:
		return "", true
	}
}
