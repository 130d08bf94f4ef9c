package authapi

import (
	"net/http"
	"strings"
)

// Audit events are structured log lines; they carry no secrets and no tokens.

func (h *Handler) auditLoginSuccess(r *http.Request, accountID, identifier string) {
	h.log.Info("auth.login.success",
		"account_id", accountID,
		"identifier", identifier,
		"remote", r.RemoteAddr,
		"user_agent", strings.TrimSpace(r.UserAgent()),
	)
}

func (h *Handler) auditLoginFailed(r *http.Request, identifier, reason string) {
	h.log.Warn("auth.login.failed",
		"identifier", identifier,
		"reason", reason,
		"remote", r.RemoteAddr,
		"user_agent", strings.TrimSpace(r.UserAgent()),
	)
}

func (h *Handler) auditRefreshSuccess(r *http.Request, accountID string) {
	h.log.Info("auth.refresh.success",
		"account_id", accountID,
		"remote", r.RemoteAddr,
	)
}

// auditRefreshRejected distinguishes reuse from plain invalid tokens in logs
// only; the HTTP response is identical for both.
func (h *Handler) auditRefreshRejected(r *http.Request, reason string) {
	h.log.Warn("auth.refresh.rejected",
		"reason", reason,
		"remote", r.RemoteAddr,
		"user_agent", strings.TrimSpace(r.UserAgent()),
	)
}

func (h *Handler) auditLogout(r *http.Request, accountID string) {
	h.log.Info("auth.logout",
		"account_id", accountID,
		"remote", r.RemoteAddr,
	)
}

func (h *Handler) auditRegister(r *http.Request, accountID, username string) {
	h.log.Info("auth.register.success",
		"account_id", accountID,
		"username", username,
		"remote", r.RemoteAddr,
	)
}
