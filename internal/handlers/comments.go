package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

// CommentHandler provides endpoints for adding and fetching video comments.
type CommentHandler struct {
	Comments CommentStore
	NowFunc  func() time.Time
}

// Add handles POST /api/v1/comment/add-comment. The created comment comes
// back joined with the author's username and avatar.
func (h CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
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

	if h.Comments == nil {
		logger.Error("comment store unavailable")
		fail(ctx, w, http.StatusInternalServerError, "Comment services unavailable.")
		return
	}

	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid comment payload", "error", err)
		fail(ctx, w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	req.Content = strings.TrimSpace(req.Content)
	req.VideoID = strings.TrimSpace(req.VideoID)
	if req.Content == "" || req.VideoID == "" {
		fail(ctx, w, http.StatusBadRequest, "Content and videoId are required.")
		return
	}

	view, err := h.Comments.Create(ctx, models.Comment{
		ID:        uuid.NewString(),
		VideoID:   req.VideoID,
		AuthorID:  viewer.ID,
		Content:   req.Content,
		CreatedAt: h.now(),
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			fail(ctx, w, http.StatusNotFound, "Video does not exist.")
			return
		}
		logger.Error("comment create failed", "error", err, "videoId", req.VideoID)
		fail(ctx, w, http.StatusInternalServerError, "Failed to submit comment.")
		return
	}

	respondJSON(ctx, w, http.StatusOK, commentResponse{
		Status:  true,
		Message: "Comment submitted successfully.",
		Data:    view,
	})
}

// List handles GET /api/v1/comment/get-comments?videoId=.
func (h CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Comments == nil {
		logger.Error("comment store unavailable")
		fail(ctx, w, http.StatusInternalServerError, "Comment services unavailable.")
		return
	}

	videoID := strings.TrimSpace(r.URL.Query().Get("videoId"))
	if videoID == "" {
		fail(ctx, w, http.StatusBadRequest, "VideoId is required.")
		return
	}

	comments, err := h.Comments.ListForVideo(ctx, videoID)
	if err != nil {
		logger.Error("comment list failed", "error", err, "videoId", videoID)
		fail(ctx, w, http.StatusInternalServerError, "Failed to fetch comments.")
		return
	}

	respondJSON(ctx, w, http.StatusOK, commentsResponse{
		Status:  true,
		Message: "Comments fetched successfully.",
		Data:    comments,
	})
}

func (h CommentHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

type addCommentRequest struct {
	Content string `json:"content"`
	VideoID string `json:"videoId"`
}

type commentResponse struct {
	Status  bool               `json:"status"`
	Message string             `json:"message"`
	Data    models.CommentView `json:"data"`
}

type commentsResponse struct {
	Status  bool                 `json:"status"`
	Message string               `json:"message"`
	Data    []models.CommentView `json:"data"`
}
