package app

import (
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TEST_ENV_STRING", "  value  ")
	t.Setenv("TEST_ENV_BOOL", "true")
	t.Setenv("TEST_ENV_INT", "42")
	t.Setenv("TEST_ENV_INT32", "7")
	t.Setenv("TEST_ENV_DURATION", "250ms")

	if got := EnvString("TEST_ENV_STRING", "def"); got != "value" {
		t.Fatalf("EnvString = %q", got)
	}
	if got := EnvBool("TEST_ENV_BOOL", false); !got {
		t.Fatal("EnvBool = false")
	}
	if got := EnvInt("TEST_ENV_INT", 1); got != 42 {
		t.Fatalf("EnvInt = %d", got)
	}
	if got := EnvInt32("TEST_ENV_INT32", 1); got != 7 {
		t.Fatalf("EnvInt32 = %d", got)
	}
	if got := EnvDuration("TEST_ENV_DURATION", time.Second); got != 250*time.Millisecond {
		t.Fatalf("EnvDuration = %v", got)
	}
}

func TestEnvHelpers_BadValuesFallBack(t *testing.T) {
	t.Setenv("TEST_ENV_BOOL", "yes please")
	t.Setenv("TEST_ENV_INT", "-3")
	t.Setenv("TEST_ENV_INT32", "not a number")
	t.Setenv("TEST_ENV_DURATION", "-1s")

	if got := EnvBool("TEST_ENV_BOOL", true); !got {
		t.Fatal("EnvBool must keep default on parse failure")
	}
	if got := EnvInt("TEST_ENV_INT", 10); got != 10 {
		t.Fatalf("EnvInt = %d", got)
	}
	if got := EnvInt32("TEST_ENV_INT32", 5); got != 5 {
		t.Fatalf("EnvInt32 = %d", got)
	}
	if got := EnvDuration("TEST_ENV_DURATION", time.Minute); got != time.Minute {
		t.Fatalf("EnvDuration = %v", got)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a, b ,, c ")
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("splitList = %v", got)
	}
	if splitList("   ") != nil {
		t.Fatal("blank input must yield nil")
	}
}
