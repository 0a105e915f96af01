package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

// SubscriptionHandler provides the channel listing and subscribe toggle
// endpoints.
type SubscriptionHandler struct {
	Subscriptions SubscriptionStore
}

// Channels handles GET /api/v1/subscription/get-subscriber: every user except
// the viewer, annotated with subscriber counts and the viewer's follow state.
func (h SubscriptionHandler) Channels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	viewer, ok := middleware.CurrentUser(ctx)
	if !ok {
		fail(ctx, w, http.StatusUnauthorized, "Unauthorized request.")
		return
	}

	if h.Subscriptions == nil {
		logger.Error("subscription store unavailable")
		fail(ctx, w, http.StatusInternalServerError, "Subscription services unavailable.")
		return
	}

	listings, err := h.Subscriptions.ChannelsForViewer(ctx, viewer.ID)
	if err != nil {
		logger.Error("channel listing failed", "error", err, "userId", viewer.ID)
		fail(ctx, w, http.StatusInternalServerError, "Failed to fetch channels.")
		return
	}

	respondJSON(ctx, w, http.StatusOK, channelsResponse{
		Status:  true,
		Message: "Users fetched with subscription info.",
		Data:    listings,
	})
}

// Toggle handles POST /api/v1/subscription/add-subscriber?channel=. A first
// call subscribes, a second call on the same pair unsubscribes.
func (h SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	viewer, ok := middleware.CurrentUser(ctx)
	if !ok {
		fail(ctx, w, http.StatusUnauthorized, "Unauthorized request.")
		return
	}

	if h.Subscriptions == nil {
		logger.Error("subscription store unavailable")
		fail(ctx, w, http.StatusInternalServerError, "Subscription services unavailable.")
		return
	}

	channelID := strings.TrimSpace(r.URL.Query().Get("channel"))
	if channelID == "" {
		fail(ctx, w, http.StatusBadRequest, "Channel ID is required.")
		return
	}

	subscribed, err := h.Subscriptions.Toggle(ctx, viewer.ID, channelID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			fail(ctx, w, http.StatusNotFound, "Channel does not exist.")
			return
		}
		logger.Error("subscription toggle failed", "error", err, "channelId", channelID)
		fail(ctx, w, http.StatusInternalServerError, "Failed to toggle subscription.")
		return
	}

	message := "Channel unsubscribed."
	if subscribed {
		message = "Channel subscribed."
	}

	respondJSON(ctx, w, http.StatusOK, toggleResponse{
		Status:       true,
		Message:      message,
		IsSubscribed: subscribed,
	})
}

type channelsResponse struct {
	Status  bool                    `json:"status"`
	Message string                  `json:"message"`
	Data    []models.ChannelListing `json:"data"`
}

type toggleResponse struct {
	Status       bool   `json:"status"`
	Message      string `json:"message"`
	IsSubscribed bool   `json:"isSubscribed"`
}
