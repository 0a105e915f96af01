package handlers

import (
	"context"
	"io"
	"time"

	"github.com/vidtube/backend/internal/models"
)

// UserStore captures the persistence operations required by the user handlers.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	UpdateRefreshToken(ctx context.Context, userID, refreshToken string) error
	UpdatePassword(ctx context.Context, userID, hash, salt string) error
	UpdateAvatar(ctx context.Context, userID, avatarURL string) error
	RecordWatch(ctx context.Context, userID, videoID string) error
	ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error)
	WatchHistory(ctx context.Context, userID string) ([]models.WatchedVideo, error)
}

// VideoStore captures persistence for video upload and listing workflows.
type VideoStore interface {
	Create(ctx context.Context, video models.Video) error
	ListByOwner(ctx context.Context, ownerID string) ([]models.Video, error)
	ListPublished(ctx context.Context, viewerID string) ([]models.FeedVideo, error)
	IncrementViews(ctx context.Context, videoID string) (int64, error)
}

// CommentStore captures persistence for video comments.
type CommentStore interface {
	Create(ctx context.Context, comment models.Comment) (models.CommentView, error)
	ListForVideo(ctx context.Context, videoID string) ([]models.CommentView, error)
}

// SubscriptionStore captures persistence for channel subscriptions.
type SubscriptionStore interface {
	Toggle(ctx context.Context, subscriberID, channelID string) (bool, error)
	ChannelsForViewer(ctx context.Context, viewerID string) ([]models.ChannelListing, error)
}

// TokenIssuer mints and validates the signed session credentials.
type TokenIssuer interface {
	IssueAccessToken(userID, email, username, fullName string) (string, time.Time, error)
	IssueRefreshToken(userID string) (string, time.Time, error)
	ParseRefreshToken(token string) (string, error)
}

// MediaStore persists uploaded files and returns their public URL.
type MediaStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// DurationProber resolves the playback duration of an uploaded video file.
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}
