package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

func TestToggleSubscription(t *testing.T) {
	subs := newFakeSubscriptionStore()
	handler := SubscriptionHandler{Subscriptions: subs}

	toggle := func() toggleResponse {
		req := withViewer(httptest.NewRequest(http.MethodPost, "/api/v1/subscription/add-subscriber?channel=user-2", nil), testViewer())
		rec := httptest.NewRecorder()
		handler.Toggle(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
		}

		var resp toggleResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		return resp
	}

	first := toggle()
	if !first.IsSubscribed {
		t.Fatalf("first toggle: isSubscribed = false, want true")
	}
	if first.Message != "Channel subscribed." {
		t.Fatalf("first toggle message = %q", first.Message)
	}

	second := toggle()
	if second.IsSubscribed {
		t.Fatalf("second toggle: isSubscribed = true, want false")
	}
	if second.Message != "Channel unsubscribed." {
		t.Fatalf("second toggle message = %q", second.Message)
	}
}

func TestToggleRequiresChannel(t *testing.T) {
	handler := SubscriptionHandler{Subscriptions: newFakeSubscriptionStore()}

	req := withViewer(httptest.NewRequest(http.MethodPost, "/api/v1/subscription/add-subscriber", nil), testViewer())
	rec := httptest.NewRecorder()
	handler.Toggle(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestToggleUnknownChannel(t *testing.T) {
	subs := newFakeSubscriptionStore()
	subs.toggleErr = repositories.ErrNotFound
	handler := SubscriptionHandler{Subscriptions: subs}

	req := withViewer(httptest.NewRequest(http.MethodPost, "/api/v1/subscription/add-subscriber?channel=ghost", nil), testViewer())
	rec := httptest.NewRecorder()
	handler.Toggle(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestChannelListings(t *testing.T) {
	subs := newFakeSubscriptionStore()
	subs.listings = []models.ChannelListing{
		{ID: "user-2", Name: "bob", Subscribers: 3, IsSubscribed: true},
		{ID: "user-3", Name: "carol", Subscribers: 0, IsSubscribed: false},
	}
	handler := SubscriptionHandler{Subscriptions: subs}

	req := withViewer(httptest.NewRequest(http.MethodGet, "/api/v1/subscription/get-subscriber", nil), testViewer())
	rec := httptest.NewRecorder()
	handler.Channels(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp channelsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("listings = %d, want 2", len(resp.Data))
	}
	if resp.Data[0].Name != "bob" || !resp.Data[0].IsSubscribed {
		t.Fatalf("listing = %+v, want subscribed bob first", resp.Data[0])
	}
	if !strings.Contains(resp.Message, "subscription info") {
		t.Fatalf("message = %q", resp.Message)
	}
}

func TestChannelsRequireAuth(t *testing.T) {
	handler := SubscriptionHandler{Subscriptions: newFakeSubscriptionStore()}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/subscription/get-subscriber", nil)
	rec := httptest.NewRecorder()
	handler.Channels(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
