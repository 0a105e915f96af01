package repositories

import (
	"context"

	"github.com/vidtube/backend/internal/models"
)

// CommentRepository exposes data access for video comments.
type CommentRepository interface {
	Create(ctx context.Context, comment models.Comment) (models.CommentView, error)
	ListForVideo(ctx context.Context, videoID string) ([]models.CommentView, error)
}
