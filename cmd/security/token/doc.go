// Package token issues and verifies the signed tokens used by playtube
// sessions.
//
// Two token kinds exist, signed with two independent HS256 secrets:
//   - Access tokens: short-lived, self-contained {sub, iat, exp} claim sets
//     used to authorize individual requests. Never persisted.
//   - Refresh tokens: long-lived, same claim shape, signed with a separate
//     secret. The currently-live value is persisted per account by the
//     credential store; this package only covers signature and expiry.
//
// The secret split is a deliberate isolation boundary: compromise of one
// secret must not allow forging the other token kind. Config validation
// therefore rejects identical secrets.
package token
