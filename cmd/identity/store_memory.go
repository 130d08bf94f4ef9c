package identity

import (
	"context"
	"strings"
	"sync"
	"time"

	"playtube/cmd/identity/ids"
)

// MemoryStore is a dev-mode fallback when no database is configured.
// It implements the same Store contract as PostgresStore, including the
// atomic rotation guarantee (a single mutex stands in for the row lock).
type MemoryStore struct {
	mu         sync.Mutex
	byID       map[string]*Account
	byUsername map[string]string // username -> id
	byEmail    map[string]string // email -> id
}

// NewMemoryStore constructs an empty in-memory Store implementation.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:       make(map[string]*Account),
		byUsername: make(map[string]string),
		byEmail:    make(map[string]string),
	}
}

// CreateAccount validates, hashes the password, and stores a new account.
func (s *MemoryStore) CreateAccount(ctx context.Context, in CreateAccountInput) (Account, error) {
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

	// Hash outside the lock; it is the expensive part.
	pwHash, err := HashPassword(in.Password)
	if err != nil {
		return Account{}, invalid(op, err.Error())
	}

	id, err := ids.NewULID(now)
	if err != nil {
		return Account{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byUsername[username]; ok {
		return Account{}, ConflictError{Op: op, Field: "username"}
	}
	if _, ok := s.byEmail[email]; ok {
		return Account{}, ConflictError{Op: op, Field: "email"}
	}

	a := Account{
		ID:           id,
		Username:     username,
		Email:        email,
		FullName:     fullName,
		Avatar:       in.Avatar,
		CoverImage:   in.CoverImage,
		PasswordHash: pwHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.byID[id] = &a
	s.byUsername[username] = id
	s.byEmail[email] = id

	return a, nil
}

// FindByUsernameOrEmail resolves an account by either identifier.
func (s *MemoryStore) FindByUsernameOrEmail(ctx context.Context, identifier string) (Account, error) {
	const op = "identity.FindByUsernameOrEmail"

	if err := ctx.Err(); err != nil {
		return Account{}, err
	}

	ident := NormalizeUsername(identifier)
	if ident == "" {
		return Account{}, invalid(op, "identifier is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byUsername[ident]
	if !ok {
		id, ok = s.byEmail[ident]
	}
	if !ok {
		return Account{}, NotFoundError{Op: op}
	}
	return *s.byID[id], nil
}

// FindByID loads an account by its ULID.
func (s *MemoryStore) FindByID(ctx context.Context, id string) (Account, error) {
	const op = "identity.FindByID"

	if err := ctx.Err(); err != nil {
		return Account{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return Account{}, NotFoundError{Op: op}
	}
	return *a, nil
}

// UpdateRefreshToken overwrites the stored refresh-token value (nil clears).
func (s *MemoryStore) UpdateRefreshToken(ctx context.Context, id string, value *string) error {
	const op = "identity.UpdateRefreshToken"

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return NotFoundError{Op: op}
	}

	if value == nil {
		a.RefreshToken = nil
	} else {
		v := *value
		a.RefreshToken = &v
	}
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// RotateRefreshToken performs the atomic freshness check and overwrite.
func (s *MemoryStore) RotateRefreshToken(ctx context.Context, id string, presented string, next string) error {
	const op = "identity.RotateRefreshToken"

	if err := ctx.Err(); err != nil {
		return err
	}
	if presented == "" || next == "" {
		return invalid(op, "token is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return NotFoundError{Op: op}
	}

	if !storedTokenEqual(a.RefreshToken, presented) {
		return OpError{Op: op, Kind: ErrTokenMismatch, Msg: "stored value mismatch"}
	}

	v := next
	a.RefreshToken = &v
	a.UpdatedAt = time.Now().UTC()
	return nil
}
