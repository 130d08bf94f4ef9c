package identity

import (
	"context"
	"time"
)

// Account is playtube's canonical user record.
//
// PasswordHash and RefreshToken are store-internal: they must never be
// serialized in any outward-facing representation. RefreshToken nil means
// no active session.
type Account struct {
	ID       string
	Username string
	Email    string
	FullName string

	// Profile media references (owned by the account; upload handling is an
	// external collaborator's concern).
	Avatar     *string
	CoverImage *string

	PasswordHash string
	RefreshToken *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PublicAccount is the outward projection of an Account with credential
// fields stripped.
type PublicAccount struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Avatar     *string   `json:"avatar,omitempty"`
	CoverImage *string   `json:"coverImage,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Public strips the password hash and refresh-token value.
func (a Account) Public() PublicAccount {
	return PublicAccount{
		ID:         a.ID,
		Username:   a.Username,
		Email:      a.Email,
		FullName:   a.FullName,
		Avatar:     a.Avatar,
		CoverImage: a.CoverImage,
		CreatedAt:  a.CreatedAt,
	}
}

// CreateAccountInput describes an account registration request.
// Username, Email, FullName and Password are required; the store normalizes
// username and email to lowercase before writing.
type CreateAccountInput struct {
	Username   string
	Email      string
	FullName   string
	Password   string
	Avatar     *string
	CoverImage *string
	Now        time.Time
}

// Store is the credential persistence boundary.
//
// Implementations must guarantee that RotateRefreshToken is an atomic
// read-compare-overwrite for a single account: a concurrent rotation or
// login for the same account must not interleave with it. Operations on
// different accounts are independent and must not serialize against each
// other.
type Store interface {
	// CreateAccount validates input, hashes the password, and persists a new
	// account. Duplicate username/email yields a ConflictError.
	CreateAccount(ctx context.Context, in CreateAccountInput) (Account, error)

	// FindByUsernameOrEmail resolves an account by either identifier
	// (normalized). Returns ErrNotFound when nothing matches.
	FindByUsernameOrEmail(ctx context.Context, identifier string) (Account, error)

	// FindByID loads an account by its ULID.
	FindByID(ctx context.Context, id string) (Account, error)

	// UpdateRefreshToken overwrites the stored refresh-token value.
	// nil clears it (logout).
	UpdateRefreshToken(ctx context.Context, id string, value *string) error

	// RotateRefreshToken atomically compares the stored value against
	// presented and, on match, overwrites it with next. A mismatch (including
	// a cleared value) yields ErrTokenMismatch and leaves the row unchanged.
	RotateRefreshToken(ctx context.Context, id string, presented string, next string) error
}
