// Package identity is playtube's credential store boundary.
//
// It owns the account model (unique username/email, Argon2id password hash,
// the currently-live refresh-token value) and the Store contract the session
// service runs on. Two implementations exist: PostgresStore for production
// and MemoryStore for dev mode and tests.
//
// The password hash and the stored refresh-token value never leave this
// boundary in any outward-facing representation; callers project accounts
// through Account.Public.
package identity
