package token

import (
	"strings"
	"testing"
	"time"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.AccessSecret = []byte("access-secret-0123456789-0123456789abc")
	cfg.RefreshSecret = []byte("refresh-secret-0123456789-0123456789ab")
	return cfg
}

func TestIssueAndVerify_Access(t *testing.T) {
	mgr, err := NewManager(testConfig())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	now := time.Now().UTC()
	tok, exp, err := mgr.IssueAccess("01HZZZZZZZZZZZZZZZZZZZZZZZ", now)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if !exp.After(now) {
		t.Fatalf("expected exp after now")
	}

	claims, err := mgr.VerifyAccess(tok, now.Add(time.Second))
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if claims.AccountID != "01HZZZZZZZZZZZZZZZZZZZZZZZ" {
		t.Fatalf("unexpected account id %q", claims.AccountID)
	}
	if !claims.ExpiresAt.Equal(exp.Truncate(time.Second)) {
		t.Fatalf("exp mismatch: claims=%v issued=%v", claims.ExpiresAt, exp)
	}
}

func TestIssueAndVerify_Refresh(t *testing.T) {
	mgr, err := NewManager(testConfig())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	now := time.Now().UTC()
	tok, _, err := mgr.IssueRefresh("01HZZZZZZZZZZZZZZZZZZZZZZZ", now)
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}

	if _, err := mgr.VerifyRefresh(tok, now.Add(time.Second)); err != nil {
		t.Fatalf("VerifyRefresh: %v", err)
	}
}

func TestVerify_SecretsAreIsolated(t *testing.T) {
	mgr, err := NewManager(testConfig())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	now := time.Now().UTC()
	access, _, err := mgr.IssueAccess("acct-1", now)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	refresh, _, err := mgr.IssueRefresh("acct-1", now)
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}

	// An access token must never verify as a refresh token, and vice versa.
	if _, err := mgr.VerifyRefresh(access, now); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for access-as-refresh, got %v", err)
	}
	if _, err := mgr.VerifyAccess(refresh, now); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for refresh-as-access, got %v", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	cfg := testConfig()
	cfg.Leeway = 0
	mgr, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	now := time.Now().UTC()
	tok, exp, err := mgr.IssueRefresh("acct-1", now)
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}

	if _, err := mgr.VerifyRefresh(tok, exp.Add(time.Minute)); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerify_Tampered(t *testing.T) {
	mgr, err := NewManager(testConfig())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	now := time.Now().UTC()
	tok, _, err := mgr.IssueRefresh("acct-1", now)
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}

	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape")
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	if _, err := mgr.VerifyRefresh(tampered, now); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
	if _, err := mgr.VerifyRefresh("garbage", now); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestNewManager_RejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.RefreshSecret = cfg.AccessSecret
	if _, err := NewManager(cfg); err == nil {
		t.Fatalf("expected error for identical secrets")
	}

	cfg = testConfig()
	cfg.AccessSecret = []byte("short")
	if _, err := NewManager(cfg); err == nil {
		t.Fatalf("expected error for short access secret")
	}

	cfg = testConfig()
	cfg.AccessTTL = 0
	if _, err := NewManager(cfg); err == nil {
		t.Fatalf("expected error for zero TTL")
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv(AccessSecretEnvKey, "access-secret-0123456789-0123456789abc")
	t.Setenv(RefreshSecretEnvKey, "refresh-secret-0123456789-0123456789ab")
	t.Setenv("PLAYTUBE_ACCESS_TOKEN_TTL", "30m")
	t.Setenv("PLAYTUBE_REFRESH_TOKEN_TTL", "240h")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv: %v", err)
	}
	if cfg.AccessTTL != 30*time.Minute {
		t.Fatalf("access TTL override not applied: %v", cfg.AccessTTL)
	}
	if cfg.RefreshTTL != 240*time.Hour {
		t.Fatalf("refresh TTL override not applied: %v", cfg.RefreshTTL)
	}
}

func TestLoadConfigFromEnv_MissingSecrets(t *testing.T) {
	t.Setenv(AccessSecretEnvKey, "")
	t.Setenv(RefreshSecretEnvKey, "")

	if _, err := LoadConfigFromEnv(); err == nil {
		t.Fatalf("expected error for missing secrets")
	}
}
