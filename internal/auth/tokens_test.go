package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestIssuer() *TokenIssuer {
	return NewTokenIssuer("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
}

func TestIssueAccessTokenRoundTrip(t *testing.T) {
	issuer := newTestIssuer()

	token, expires, err := issuer.IssueAccessToken("user-1", "a@b.com", "alice", "Alice Example")
	if err != nil {
		t.Fatalf("issue access token: %v", err)
	}
	if !expires.After(time.Now()) {
		t.Fatalf("expected expiry in the future, got %v", expires)
	}

	claims, err := issuer.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.UserID != "user-1" || claims.Email != "a@b.com" || claims.Username != "alice" || claims.FullName != "Alice Example" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestIssueRefreshTokenRoundTrip(t *testing.T) {
	issuer := newTestIssuer()

	token, _, err := issuer.IssueRefreshToken("user-7")
	if err != nil {
		t.Fatalf("issue refresh token: %v", err)
	}

	userID, err := issuer.ParseRefreshToken(token)
	if err != nil {
		t.Fatalf("parse refresh token: %v", err)
	}
	if userID != "user-7" {
		t.Fatalf("expected user-7 got %q", userID)
	}
}

func TestParseRejectsCrossSecretTokens(t *testing.T) {
	issuer := newTestIssuer()

	refresh, _, err := issuer.IssueRefreshToken("user-1")
	if err != nil {
		t.Fatalf("issue refresh token: %v", err)
	}

	if _, err := issuer.ParseAccessToken(refresh); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for refresh token parsed as access, got %v", err)
	}

	other := NewTokenIssuer("different", "different", time.Minute, time.Hour)
	access, _, err := other.IssueAccessToken("user-1", "a@b.com", "alice", "Alice")
	if err != nil {
		t.Fatalf("issue access token: %v", err)
	}
	if _, err := issuer.ParseAccessToken(access); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for foreign signature, got %v", err)
	}
}

func TestParseExpiredToken(t *testing.T) {
	issuer := newTestIssuer()

	past := time.Now().UTC().Add(-48 * time.Hour)
	issuer.WithNowFunc(func() time.Time { return past })

	token, _, err := issuer.IssueAccessToken("user-1", "a@b.com", "alice", "Alice")
	if err != nil {
		t.Fatalf("issue access token: %v", err)
	}

	issuer.WithNowFunc(func() time.Time { return time.Now().UTC() })
	if _, err := issuer.ParseAccessToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}
