package authapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"playtube/cmd/identity"
	"playtube/cmd/internal/auth/session"
	"playtube/cmd/security/token"
)

// Handler wires the user-account HTTP endpoints to the session service.
type Handler struct {
	log *slog.Logger
	cfg Config

	store    identity.Store
	sessions *session.Service
	tokens   *token.Manager

	dummyHash string
}

// NewHandler constructs an auth Handler over the given store and tokens.
func NewHandler(log *slog.Logger, cfg Config, store identity.Store, tokens *token.Manager) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	if store == nil {
		return nil, errors.New("authapi: nil store")
	}
	if tokens == nil {
		return nil, errors.New("authapi: nil token manager")
	}

	h := &Handler{
		log:      log,
		cfg:      cfg,
		store:    store,
		sessions: session.NewService(store, tokens),
		tokens:   tokens,
	}

	// Dummy hash for timing-resistant login checks when no account matches.
	if hash, err := identity.HashPassword("dummy-password-for-timing-only"); err == nil {
		h.dummyHash = hash
	}

	return h, nil
}

// Register wires the user routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/api/v1/users/register", h.handleRegister)
	mux.HandleFunc("/api/v1/users/login", h.handleLogin)
	mux.HandleFunc("/api/v1/users/logout", h.handleLogout)
	mux.HandleFunc("/api/v1/users/refresh-token", h.handleRefresh)
	mux.HandleFunc("/api/v1/users/me", h.handleMe)
}

// ---- handlers ----

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req registerRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"username", req.Username},
		{"email", req.Email},
		{"fullName", req.FullName},
		{"password", req.Password},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name+" is required")
		}
	}
	if len(missing) > 0 {
		writeError(w, http.StatusBadRequest, "all fields are required", missing...)
		return
	}

	account, err := h.store.CreateAccount(r.Context(), identity.CreateAccountInput{
		Username:   req.Username,
		Email:      req.Email,
		FullName:   req.FullName,
		Password:   req.Password,
		Avatar:     req.Avatar,
		CoverImage: req.CoverImage,
		Now:        time.Now().UTC(),
	})
	if err != nil {
		switch {
		case identity.IsConflict(err):
			writeError(w, http.StatusConflict, "user with this email or username already exists")
		case identity.IsInvalidInput(err):
			writeError(w, http.StatusBadRequest, "invalid registration input")
		default:
			h.log.Error("auth.register.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "something went wrong while registering the user")
		}
		return
	}

	h.auditRegister(r, account.ID, account.Username)
	writeData(w, http.StatusCreated, registerResponse{User: account.Public()}, "user registered successfully")
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	identifier := strings.TrimSpace(req.Username)
	if identifier == "" {
		identifier = strings.TrimSpace(req.Email)
	}
	if identifier == "" || strings.TrimSpace(req.Password) == "" {
		writeError(w, http.StatusBadRequest, "username or email and password are required")
		return
	}

	now := time.Now().UTC()
	issued, err := h.sessions.Login(r.Context(), now, identifier, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotFound):
			// Timing resistance: burn a verify even when no account matches.
			if h.dummyHash != "" {
				_, _ = identity.VerifyPassword(req.Password, h.dummyHash)
			}
			h.auditLoginFailed(r, identifier, "not_found")
			writeError(w, http.StatusNotFound, "user does not exist")
		case errors.Is(err, session.ErrInvalidCredentials):
			h.auditLoginFailed(r, identifier, "bad_password")
			writeError(w, http.StatusUnauthorized, "invalid user credentials")
		default:
			h.log.Error("auth.login.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	h.auditLoginSuccess(r, issued.Account.ID, identifier)
	h.setSessionCookies(w, issued.AccessToken, issued.AccessExp, issued.RefreshToken, issued.RefreshExp)

	writeData(w, http.StatusOK, loginResponse{
		User:         issued.Account.Public(),
		AccessToken:  issued.AccessToken,
		RefreshToken: issued.RefreshToken,
	}, "user logged in successfully")
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	claims, ok := h.requireAuth(w, r)
	if !ok {
		return
	}

	if err := h.sessions.Logout(r.Context(), claims.AccountID); err != nil {
		h.log.Error("auth.logout.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.auditLogout(r, claims.AccountID)
	h.clearSessionCookies(w)
	writeData(w, http.StatusOK, struct{}{}, "user logged out")
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req refreshRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	// Cookie first, then request body.
	refreshToken, _ := h.refreshTokenFromCookie(r)
	if refreshToken == "" {
		refreshToken = strings.TrimSpace(req.RefreshToken)
	}
	if refreshToken == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized request")
		return
	}

	now := time.Now().UTC()
	issued, err := h.sessions.Refresh(r.Context(), now, refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrTokenReused):
			h.auditRefreshRejected(r, "reuse_detected")
			// Identical response shape to the invalid-token case: callers
			// must not learn which half of the check failed.
			writeError(w, http.StatusUnauthorized, "invalid refresh token")
		case errors.Is(err, session.ErrInvalidToken):
			h.auditRefreshRejected(r, "invalid_token")
			writeError(w, http.StatusUnauthorized, "invalid refresh token")
		default:
			h.log.Error("auth.refresh.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	h.auditRefreshSuccess(r, issued.Account.ID)
	h.setSessionCookies(w, issued.AccessToken, issued.AccessExp, issued.RefreshToken, issued.RefreshExp)

	writeData(w, http.StatusOK, refreshResponse{
		AccessToken:  issued.AccessToken,
		RefreshToken: issued.RefreshToken,
	}, "access token refreshed")
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	claims, ok := h.requireAuth(w, r)
	if !ok {
		return
	}

	account, err := h.store.FindByID(r.Context(), claims.AccountID)
	if err != nil {
		if identity.IsNotFound(err) {
			writeError(w, http.StatusUnauthorized, "unauthorized request")
			return
		}
		h.log.Error("auth.me.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeData(w, http.StatusOK, meResponse{User: account.Public()}, "current user fetched successfully")
}

// requireAuth verifies the access token and delivers the claims, or writes a
// 401 and reports !ok.
func (h *Handler) requireAuth(w http.ResponseWriter, r *http.Request) (token.Claims, bool) {
	raw, ok := bearerAccessToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized request")
		return token.Claims{}, false
	}

	claims, err := h.tokens.VerifyAccess(raw, time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid access token")
		return token.Claims{}, false
	}
	return claims, true
}
