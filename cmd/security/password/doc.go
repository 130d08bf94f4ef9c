// Package password provides password hashing and verification for playtube.
//
// It implements Argon2id hashing with a PHC-style encoded string format:
// - Configurable Argon2id parameters (via environment variables)
// - Password length policy validation
// - Strict hash decoding with anti-DoS parameter bounds during Verify
//
// Hash strings are treated as untrusted input during Verify: malformed or
// oversized-parameter hashes are rejected with ErrInvalidHash, never a panic.
package password
