package identity

import "strings"

// NormalizeUsername canonicalizes a username for storage and lookup.
// Usernames are stored lowercase at write time; lookups normalize the same way.
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeEmail canonicalizes an email for storage and lookup.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
