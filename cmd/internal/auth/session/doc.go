// Package session implements playtube's session lifecycle.
//
// It orchestrates login, logout, and refresh on top of the credential store
// and the token manager. Access tokens are short-lived signed claim sets and
// are never persisted; refresh tokens are long-lived, signed with a separate
// secret, and exactly one value per account is live at a time: the value
// stored on the account record. Every successful refresh rotates that value,
// so a replayed refresh token is detected and rejected.
//
// Transport (HTTP) integration is intentionally out of scope here.
package session
