package auth

import (
	"net/http"
	"time"
)

const (
	RefreshCookieName = "jid"
	// RefreshCookiePath scopes the cookie to the refresh endpoint only; the browser
	// never sends it anywhere else.
	RefreshCookiePath = "/auth/refresh-token"
)

func NewRefreshCookie(token string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     RefreshCookiePath,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}

// ClearRefreshCookie must match the set-time attributes exactly or browsers will
// not remove the cookie.
func ClearRefreshCookie() *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     RefreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}
