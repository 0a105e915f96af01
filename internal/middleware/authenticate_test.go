package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/models"
)

type stubUserFinder struct {
	user models.User
	err  error
}

func (f stubUserFinder) FindByID(_ context.Context, id string) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	if f.user.ID != id {
		return models.User{}, errors.New("not found")
	}
	return f.user, nil
}

func authTestUser() models.User {
	return models.User{
		ID:           "user-1",
		Username:     "alice",
		Email:        "alice@example.com",
		FullName:     "Alice Anders",
		PasswordHash: "hash",
		PasswordSalt: "salt",
		RefreshToken: "refresh",
	}
}

func issueTestToken(t *testing.T, issuer *auth.TokenIssuer, user models.User) string {
	t.Helper()
	token, _, err := issuer.IssueAccessToken(user.ID, user.Email, user.Username, user.FullName)
	if err != nil {
		t.Fatalf("issue access token: %v", err)
	}
	return token
}

func TestAuthenticateAttachesUser(t *testing.T) {
	issuer := auth.NewTokenIssuer("access", "refresh", time.Hour, time.Hour)
	user := authTestUser()
	token := issueTestToken(t, issuer, user)

	var got models.PublicUser
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewer, ok := CurrentUser(r.Context())
		if !ok {
			t.Fatalf("no user on context")
		}
		got = viewer
	})

	handler := Authenticate(stubUserFinder{user: user}, issuer)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if got.ID != user.ID || got.Username != user.Username {
		t.Fatalf("context user = %+v, want %s", got, user.ID)
	}
}

func TestAuthenticateBearerFallback(t *testing.T) {
	issuer := auth.NewTokenIssuer("access", "refresh", time.Hour, time.Hour)
	user := authTestUser()
	token := issueTestToken(t, issuer, user)

	called := false
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })
	handler := Authenticate(stubUserFinder{user: user}, issuer)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !called {
		t.Fatalf("next handler not invoked")
	}
}

func TestAuthenticateCookieWinsOverHeader(t *testing.T) {
	issuer := auth.NewTokenIssuer("access", "refresh", time.Hour, time.Hour)
	user := authTestUser()
	token := issueTestToken(t, issuer, user)

	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	handler := Authenticate(stubUserFinder{user: user}, issuer)(next)

	// A garbage header must not matter when the cookie carries a valid token.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func TestAuthenticateMissingToken(t *testing.T) {
	issuer := auth.NewTokenIssuer("access", "refresh", time.Hour, time.Hour)
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("next handler must not run")
	})
	handler := Authenticate(stubUserFinder{}, issuer)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if !strings.Contains(rec.Body.String(), "Unauthorized request.") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestAuthenticateRejectsForeignToken(t *testing.T) {
	issuer := auth.NewTokenIssuer("access", "refresh", time.Hour, time.Hour)
	other := auth.NewTokenIssuer("other", "refresh", time.Hour, time.Hour)
	user := authTestUser()
	token := issueTestToken(t, other, user)

	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("next handler must not run")
	})
	handler := Authenticate(stubUserFinder{user: user}, issuer)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if !strings.Contains(rec.Body.String(), "Invalid access token.") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestAuthenticateRejectsUnknownUser(t *testing.T) {
	issuer := auth.NewTokenIssuer("access", "refresh", time.Hour, time.Hour)
	user := authTestUser()
	token := issueTestToken(t, issuer, user)

	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("next handler must not run")
	})
	handler := Authenticate(stubUserFinder{err: errors.New("gone")}, issuer)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
