package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/models"
)

// PostgresVideoRepository provides PostgreSQL-backed persistence for videos.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

// Create stores a new video record.
func (r *PostgresVideoRepository) Create(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO videos (id, owner_id, video_url, thumbnail_url, title, description,
                duration, views, is_published, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `, video.ID, video.OwnerID, video.VideoURL, video.ThumbnailURL, video.Title,
		video.Description, video.Duration, video.Views, video.Published, video.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert video: %w", err)
	}

	return nil
}

// ListByOwner returns the owner's videos, newest first.
func (r *PostgresVideoRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT id, owner_id, video_url, thumbnail_url, title, description,
               duration, views, is_published, created_at
        FROM videos
        WHERE owner_id = $1
        ORDER BY created_at DESC
    `, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query videos by owner: %w", err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		var v models.Video
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.VideoURL, &v.ThumbnailURL, &v.Title,
			&v.Description, &v.Duration, &v.Views, &v.Published, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}

	return videos, nil
}

// ListPublished returns the feed of published videos, newest first, each
// joined with the owner's public profile, the owner's subscriber count, and
// whether the viewer follows the owner. One query, no per-row round-trips.
func (r *PostgresVideoRepository) ListPublished(ctx context.Context, viewerID string) ([]models.FeedVideo, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT v.id, v.owner_id, v.video_url, v.thumbnail_url, v.title, v.description,
               v.duration, v.views, v.is_published, v.created_at,
               u.username, u.full_name, u.avatar_url,
               (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = v.owner_id) AS owner_subscribers,
               EXISTS (
                   SELECT 1 FROM subscriptions s
                   WHERE s.channel_id = v.owner_id AND s.subscriber_id = $1
               ) AS is_subscribed
        FROM videos v
        JOIN users u ON u.id = v.owner_id
        WHERE v.is_published
        ORDER BY v.created_at DESC
    `, viewerID)
	if err != nil {
		return nil, fmt.Errorf("query video feed: %w", err)
	}
	defer rows.Close()

	var feed []models.FeedVideo
	for rows.Next() {
		var fv models.FeedVideo
		if err := rows.Scan(&fv.ID, &fv.OwnerID, &fv.VideoURL, &fv.ThumbnailURL, &fv.Title,
			&fv.Description, &fv.Duration, &fv.Views, &fv.Published, &fv.CreatedAt,
			&fv.OwnerUsername, &fv.OwnerFullName, &fv.OwnerAvatarURL,
			&fv.OwnerSubscribers, &fv.IsSubscribed); err != nil {
			return nil, fmt.Errorf("scan feed video: %w", err)
		}
		feed = append(feed, fv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate video feed: %w", err)
	}

	return feed, nil
}

// IncrementViews bumps the view counter by one as a single atomic update and
// returns the new count. Concurrent increments are never lost.
func (r *PostgresVideoRepository) IncrementViews(ctx context.Context, videoID string) (int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var views int64
	row := conn.QueryRow(ctx, `
        UPDATE videos
        SET views = views + 1
        WHERE id = $1
        RETURNING views
    `, videoID)
	if err := row.Scan(&views); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("increment video views: %w", err)
	}

	return views, nil
}

var _ VideoRepository = (*PostgresVideoRepository)(nil)
