package repositories

import (
	"context"

	"github.com/vidtube/backend/internal/models"
)

// VideoRepository exposes data access for uploaded videos.
type VideoRepository interface {
	Create(ctx context.Context, video models.Video) error
	ListByOwner(ctx context.Context, ownerID string) ([]models.Video, error)
	ListPublished(ctx context.Context, viewerID string) ([]models.FeedVideo, error)
	IncrementViews(ctx context.Context, videoID string) (int64, error)
}
