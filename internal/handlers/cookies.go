package handlers

import (
	"net/http"
	"time"

	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/models"
)

// RefreshTokenCookie carries the signed refresh token between refreshes.
const RefreshTokenCookie = "refreshToken"

func setAuthCookies(w http.ResponseWriter, tokens models.TokenPair) {
	setTokenCookie(w, middleware.AccessTokenCookie, tokens.AccessToken, tokens.AccessExpiresAt)
	setTokenCookie(w, RefreshTokenCookie, tokens.RefreshToken, tokens.RefreshExpiresAt)
}

func setTokenCookie(w http.ResponseWriter, name, value string, expires time.Time) {
	maxAge := int(time.Until(expires).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires.UTC(),
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{middleware.AccessTokenCookie, RefreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0).UTC(),
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
