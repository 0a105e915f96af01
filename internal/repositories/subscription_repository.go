package repositories

import (
	"context"

	"github.com/vidtube/backend/internal/models"
)

// SubscriptionRepository exposes data access for channel subscriptions.
type SubscriptionRepository interface {
	Toggle(ctx context.Context, subscriberID, channelID string) (bool, error)
	CountForChannel(ctx context.Context, channelID string) (int64, error)
	ChannelsForViewer(ctx context.Context, viewerID string) ([]models.ChannelListing, error)
}
