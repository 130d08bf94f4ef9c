package token

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the verified claim set carried by both token kinds.
type Claims struct {
	AccountID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Manager signs and verifies access and refresh tokens.
//
// Manager is immutable after construction and safe for concurrent use.
type Manager struct {
	cfg Config
}

// NewManager validates cfg and constructs a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Manager{cfg: cfg}, nil
}

// IssueAccess signs a short-lived access token for accountID.
func (m *Manager) IssueAccess(accountID string, now time.Time) (string, time.Time, error) {
	return m.issue(accountID, now, m.cfg.AccessTTL, m.cfg.AccessSecret)
}

// IssueRefresh signs a long-lived refresh token for accountID using the
// refresh-signing secret.
func (m *Manager) IssueRefresh(accountID string, now time.Time) (string, time.Time, error) {
	return m.issue(accountID, now, m.cfg.RefreshTTL, m.cfg.RefreshSecret)
}

// VerifyAccess checks signature and expiry against the access secret.
func (m *Manager) VerifyAccess(tokenStr string, now time.Time) (Claims, error) {
	return m.verify(tokenStr, now, m.cfg.AccessSecret)
}

// VerifyRefresh checks signature and expiry against the refresh secret only.
// It does not consult storage; freshness against the stored per-account value
// is the session service's job.
func (m *Manager) VerifyRefresh(tokenStr string, now time.Time) (Claims, error) {
	return m.verify(tokenStr, now, m.cfg.RefreshSecret)
}

func (m *Manager) issue(accountID string, now time.Time, ttl time.Duration, secret []byte) (string, time.Time, error) {
	if accountID == "" {
		return "", time.Time{}, ErrInvalidToken
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	exp := now.Add(ttl)

	// A random jti makes every issued token unique, even for identical
	// {sub, iat, exp}. Rotation depends on old and new values differing.
	jti, err := newJTI()
	if err != nil {
		return "", time.Time{}, err
	}

	claims := jwt.RegisteredClaims{
		Issuer:    m.cfg.Issuer,
		Subject:   accountID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
		ID:        jti,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (m *Manager) verify(tokenStr string, now time.Time, secret []byte) (Claims, error) {
	if tokenStr == "" || len(tokenStr) > 4096 {
		return Claims{}, ErrInvalidToken
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(m.cfg.Leeway),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	var rc jwt.RegisteredClaims
	parsed, err := parser.ParseWithClaims(tokenStr, &rc, func(*jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		// All verification failures are indistinguishable to callers.
		return Claims{}, ErrInvalidToken
	}
	if rc.Subject == "" || rc.IssuedAt == nil || rc.ExpiresAt == nil {
		return Claims{}, ErrInvalidToken
	}

	return Claims{
		AccountID: rc.Subject,
		IssuedAt:  rc.IssuedAt.Time,
		ExpiresAt: rc.ExpiresAt.Time,
	}, nil
}

func newJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
