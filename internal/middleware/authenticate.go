package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/models"
)

// AccessTokenCookie is the cookie carrying the signed access token. A Bearer
// header is accepted as a fallback when the cookie is absent.
const AccessTokenCookie = "accessToken"

// UserFinder loads the authenticated user for the session middleware.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (models.User, error)
}

// AccessTokenParser validates an access token and returns its claims.
type AccessTokenParser interface {
	ParseAccessToken(token string) (*auth.AccessClaims, error)
}

type userCtxKey struct{}

// WithUser stores the authenticated user on the context.
func WithUser(ctx context.Context, user models.PublicUser) context.Context {
	return context.WithValue(ctx, userCtxKey{}, user)
}

// CurrentUser retrieves the authenticated user attached by Authenticate.
func CurrentUser(ctx context.Context) (models.PublicUser, bool) {
	user, ok := ctx.Value(userCtxKey{}).(models.PublicUser)
	return user, ok
}

// Authenticate guards protected routes. It extracts the access token from the
// accessToken cookie or the Authorization header (cookie wins), validates it,
// loads the user with credential fields stripped, and attaches the identity
// to the request context.
func Authenticate(users UserFinder, tokens AccessTokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			logger := logging.FromContext(ctx)

			token := tokenFromRequest(r)
			if token == "" {
				unauthorized(w, "Unauthorized request.")
				return
			}

			claims, err := tokens.ParseAccessToken(token)
			if err != nil {
				logger.Warn("access token rejected", "error", err)
				unauthorized(w, "Invalid access token.")
				return
			}

			user, err := users.FindByID(ctx, claims.UserID)
			if err != nil {
				logger.Warn("token user lookup failed", "userId", claims.UserID, "error", err)
				unauthorized(w, "Invalid access token.")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(ctx, user.Public())))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if rest, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(rest)
	}
	return ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  false,
		"message": message,
	})
}
