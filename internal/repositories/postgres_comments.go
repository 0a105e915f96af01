package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/models"
)

// PostgresCommentRepository provides PostgreSQL-backed persistence for comments.
type PostgresCommentRepository struct {
	pool db.Pool
}

// NewPostgresCommentRepository constructs a comment repository backed by PostgreSQL.
func NewPostgresCommentRepository(pool db.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{pool: pool}
}

// Create stores a comment and returns it joined with the author's username
// and avatar, in the same round-trip as the insert.
func (r *PostgresCommentRepository) Create(ctx context.Context, comment models.Comment) (models.CommentView, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.CommentView{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        WITH inserted AS (
            INSERT INTO comments (id, video_id, author_id, content, created_at)
            VALUES ($1, $2, $3, $4, $5)
            RETURNING id, video_id, author_id, content, created_at
        )
        SELECT i.id, i.video_id, i.content, i.created_at, u.username, u.avatar_url
        FROM inserted i
        JOIN users u ON u.id = i.author_id
    `, comment.ID, comment.VideoID, comment.AuthorID, comment.Content, comment.CreatedAt)

	var view models.CommentView
	if err := row.Scan(&view.ID, &view.VideoID, &view.Content, &view.CreatedAt,
		&view.Username, &view.AvatarURL); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return models.CommentView{}, ErrNotFound
		}
		return models.CommentView{}, fmt.Errorf("insert comment: %w", err)
	}

	return view, nil
}

// ListForVideo returns a video's comments joined with each author's username
// and avatar, newest first.
func (r *PostgresCommentRepository) ListForVideo(ctx context.Context, videoID string) ([]models.CommentView, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT c.id, c.video_id, c.content, c.created_at, u.username, u.avatar_url
        FROM comments c
        JOIN users u ON u.id = c.author_id
        WHERE c.video_id = $1
        ORDER BY c.created_at DESC, c.id DESC
    `, videoID)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	var comments []models.CommentView
	for rows.Next() {
		var view models.CommentView
		if err := rows.Scan(&view.ID, &view.VideoID, &view.Content, &view.CreatedAt,
			&view.Username, &view.AvatarURL); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}

var _ CommentRepository = (*PostgresCommentRepository)(nil)
