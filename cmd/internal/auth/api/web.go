package authapi

import (
	"net/http"
	"strings"
	"time"
)

// setSessionCookies delivers both tokens as httpOnly+secure cookies.
// Tokens must never be readable or settable by client-side script.
func (h *Handler) setSessionCookies(w http.ResponseWriter, accessToken string, accessExp time.Time, refreshToken string, refreshExp time.Time) {
	h.setCookie(w, AccessCookieName, accessToken, accessExp)
	h.setCookie(w, RefreshCookieName, refreshToken, refreshExp)
}

func (h *Handler) clearSessionCookies(w http.ResponseWriter) {
	h.expireCookie(w, AccessCookieName)
	h.expireCookie(w, RefreshCookieName)
}

func (h *Handler) setCookie(w http.ResponseWriter, name, value string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     h.cfg.CookiePath,
		Domain:   h.cfg.CookieDomain,
		Expires:  exp,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: h.cfg.CookieSameSite,
	})
}

func (h *Handler) expireCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     h.cfg.CookiePath,
		Domain:   h.cfg.CookieDomain,
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: h.cfg.CookieSameSite,
	})
}

func (h *Handler) refreshTokenFromCookie(r *http.Request) (string, bool) {
	c, err := r.Cookie(RefreshCookieName)
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(c.Value)
	if v == "" {
		return "", false
	}
	return v, true
}

// bearerAccessToken extracts the access token from the Authorization header
// or, failing that, from the access cookie.
func bearerAccessToken(r *http.Request) (string, bool) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth != "" {
		const prefix = "bearer "
		if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
			tok := strings.TrimSpace(auth[len(prefix):])
			if tok != "" {
				return tok, true
			}
		}
		return "", false
	}

	c, err := r.Cookie(AccessCookieName)
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(c.Value)
	if v == "" {
		return "", false
	}
	return v, true
}
