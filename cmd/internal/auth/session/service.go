package session

import (
	"context"
	"strings"
	"time"

	"playtube/cmd/identity"
	"playtube/cmd/security/token"
)

// Service implements the high-level session operations for playtube.
//
// It is the only surface callers interact with: it verifies credentials,
// mints token pairs, and keeps the stored refresh-token value as the single
// source of truth for session liveness.
type Service struct {
	store  identity.Store
	tokens *token.Manager
}

// Issued is the result of a successful login or refresh.
type Issued struct {
	AccessToken string
	AccessExp   time.Time

	RefreshToken string
	RefreshExp   time.Time

	Account identity.Account
}

// NewService constructs a Service over the given store and token manager.
func NewService(store identity.Store, tokens *token.Manager) *Service {
	return &Service{store: store, tokens: tokens}
}

// Login resolves the account by username or email, verifies the password,
// and issues a fresh token pair. The new refresh token unconditionally
// overwrites any previously stored value, so at most one session per account
// is live at any time.
func (s *Service) Login(ctx context.Context, now time.Time, identifier, password string) (Issued, error) {
	account, err := s.store.FindByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if identity.IsNotFound(err) || identity.IsInvalidInput(err) {
			return Issued{}, ErrNotFound
		}
		return Issued{}, err
	}

	ok, err := identity.VerifyPassword(password, account.PasswordHash)
	if err != nil {
		return Issued{}, err
	}
	if !ok {
		return Issued{}, ErrInvalidCredentials
	}

	issued, err := s.issuePair(account.ID, now)
	if err != nil {
		return Issued{}, err
	}

	if err := s.store.UpdateRefreshToken(ctx, account.ID, &issued.RefreshToken); err != nil {
		return Issued{}, err
	}

	account.RefreshToken = &issued.RefreshToken
	issued.Account = account
	return issued, nil
}

// Logout clears the stored refresh-token value. It is idempotent: logging
// out an account with no live session (or one that no longer exists)
// succeeds silently.
func (s *Service) Logout(ctx context.Context, accountID string) error {
	err := s.store.UpdateRefreshToken(ctx, accountID, nil)
	if err != nil && !identity.IsNotFound(err) {
		return err
	}
	return nil
}

// Refresh verifies the presented refresh token, checks its freshness against
// the stored value, and rotates: the old value is invalidated and a brand-new
// pair is issued. Each refresh token is single-use.
func (s *Service) Refresh(ctx context.Context, now time.Time, presented string) (Issued, error) {
	presented = strings.TrimSpace(presented)
	if presented == "" {
		return Issued{}, ErrInvalidToken
	}

	// Signature + expiry against the refresh secret. Storage freshness is a
	// separate step below.
	claims, err := s.tokens.VerifyRefresh(presented, now)
	if err != nil {
		return Issued{}, ErrInvalidToken
	}

	account, err := s.store.FindByID(ctx, claims.AccountID)
	if err != nil {
		if identity.IsNotFound(err) || identity.IsInvalidInput(err) {
			return Issued{}, ErrInvalidToken
		}
		return Issued{}, err
	}

	issued, err := s.issuePair(account.ID, now)
	if err != nil {
		return Issued{}, err
	}

	// Atomic freshness check + overwrite. A mismatch means the presented
	// value was already rotated past or cleared by logout.
	if err := s.store.RotateRefreshToken(ctx, account.ID, presented, issued.RefreshToken); err != nil {
		switch {
		case identity.IsTokenMismatch(err):
			return Issued{}, ErrTokenReused
		case identity.IsNotFound(err), identity.IsInvalidInput(err):
			return Issued{}, ErrInvalidToken
		default:
			return Issued{}, err
		}
	}

	account.RefreshToken = &issued.RefreshToken
	issued.Account = account
	return issued, nil
}

func (s *Service) issuePair(accountID string, now time.Time) (Issued, error) {
	access, accessExp, err := s.tokens.IssueAccess(accountID, now)
	if err != nil {
		return Issued{}, err
	}
	refresh, refreshExp, err := s.tokens.IssueRefresh(accountID, now)
	if err != nil {
		return Issued{}, err
	}
	return Issued{
		AccessToken:  access,
		AccessExp:    accessExp,
		RefreshToken: refresh,
		RefreshExp:   refreshExp,
	}, nil
}
