package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify_OK(t *testing.T) {
	cfg := DefaultConfig()

	h, err := cfg.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(h, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %q", h)
	}

	ok, err := cfg.Verify(h, "correct horse battery staple")
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Fatalf("expected match")
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	cfg := DefaultConfig()

	h, err := cfg.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := cfg.Verify(h, "correct horse battery stable")
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatch")
	}
}

func TestHash_SaltedPerCall(t *testing.T) {
	cfg := DefaultConfig()

	h1, err := cfg.Hash("same password twice")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	h2, err := cfg.Hash("same password twice")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("expected distinct hashes for distinct salts")
	}
}

func TestValidate_MinMax(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Policy.MinLength = 12
	cfg.Policy.MaxLength = 16

	if err := cfg.Validate("short"); err != ErrPasswordTooShort {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
	if err := cfg.Validate("this password is definitely too long"); err != ErrPasswordTooLong {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	if err := cfg.Validate("goodpassw0rd!"); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}

func TestVerify_InvalidHash(t *testing.T) {
	cfg := DefaultConfig()

	cases := []string{
		"",
		"not-a-hash",
		"$argon2i$v=19$m=65536,t=3,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=3,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=0,t=3,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=1$!!!$aGFzaA",
	}

	for _, in := range cases {
		ok, err := cfg.Verify(in, "whatever")
		if err != ErrInvalidHash {
			t.Fatalf("Verify(%q): expected ErrInvalidHash, got %v", in, err)
		}
		if ok {
			t.Fatalf("Verify(%q): expected false", in)
		}
	}
}

func TestVerify_RefusesOversizedParams(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Params.MemoryKiB = 16 * 1024

	// Hash produced with much larger memory than the configured ceiling.
	big := DefaultConfig()
	big.Params.MemoryKiB = 64 * 1024
	h, err := big.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if _, err := cfg.Verify(h, "correct horse battery staple"); err != ErrInvalidHash {
		t.Fatalf("expected ErrInvalidHash for oversized params, got %v", err)
	}
}
