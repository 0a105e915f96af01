package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

// VideoHandler provides endpoints for uploading and listing videos.
type VideoHandler struct {
	Videos  VideoStore
	Users   UserStore
	Media   MediaStore
	Prober  DurationProber
	NowFunc func() time.Time
}

// Upload handles POST /api/v1/video/upload-video. The video file is spooled
// to disk so its duration can be probed, then both the video and thumbnail
// are pushed to the media store before the record is persisted.
func (h VideoHandler) Upload(w http.ResponseWriter, r *http.Request) {
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

	if h.Videos == nil || h.Media == nil || h.Prober == nil {
		logger.Error("video upload dependencies unavailable")
		fail(ctx, w, http.StatusInternalServerError, "Video services unavailable.")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		logger.Warn("invalid upload payload", "error", err)
		fail(ctx, w, http.StatusBadRequest, "Invalid multipart request body.")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	if title == "" || description == "" {
		fail(ctx, w, http.StatusBadRequest, "Title and description are required.")
		return
	}

	videoFiles := r.MultipartForm.File["video"]
	thumbnailFiles := r.MultipartForm.File["thumbnail"]
	if len(videoFiles) == 0 || len(thumbnailFiles) == 0 {
		fail(ctx, w, http.StatusBadRequest, "Video and thumbnail files are required.")
		return
	}

	spooled, err := spoolToTemp(videoFiles[0])
	if err != nil {
		logger.Error("spool video upload failed", "error", err)
		fail(ctx, w, http.StatusInternalServerError, "Failed to store video.")
		return
	}
	defer os.Remove(spooled)

	duration, err := h.Prober.Duration(ctx, spooled)
	if err != nil {
		logger.Warn("video duration probe failed", "error", err)
		fail(ctx, w, http.StatusBadRequest, "Unsupported or corrupt video file.")
		return
	}

	videoURL, err := storeFile(ctx, h.Media, "videos", spooled)
	if err != nil {
		logger.Error("video upload failed", "error", err)
		fail(ctx, w, http.StatusInternalServerError, "Failed to store video.")
		return
	}

	thumbnailURL, err := storeUpload(ctx, h.Media, "thumbnails", thumbnailFiles[0])
	if err != nil {
		logger.Error("thumbnail upload failed", "error", err)
		fail(ctx, w, http.StatusInternalServerError, "Failed to store thumbnail.")
		return
	}

	video := models.Video{
		ID:           uuid.NewString(),
		OwnerID:      viewer.ID,
		VideoURL:     videoURL,
		ThumbnailURL: thumbnailURL,
		Title:        title,
		Description:  description,
		Duration:     duration,
		Published:    true,
		CreatedAt:    h.now(),
	}

	if err := h.Videos.Create(ctx, video); err != nil {
		logger.Error("video create failed", "error", err, "videoId", video.ID)
		fail(ctx, w, http.StatusInternalServerError, "Video was not added to the database.")
		return
	}

	respondJSON(ctx, w, http.StatusCreated, videoResponse{
		Status:  true,
		Message: "Video uploaded successfully.",
		Video:   video,
	})
}

// MyVideos handles GET /api/v1/video/my-videos.
func (h VideoHandler) MyVideos(w http.ResponseWriter, r *http.Request) {
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

	videos, err := h.Videos.ListByOwner(ctx, viewer.ID)
	if err != nil {
		logger.Error("list own videos failed", "error", err, "userId", viewer.ID)
		fail(ctx, w, http.StatusInternalServerError, "Failed to fetch videos.")
		return
	}

	respondJSON(ctx, w, http.StatusOK, videosResponse{
		Status:  true,
		Message: "Videos fetched successfully.",
		Videos:  videos,
	})
}

// AllVideos handles GET /api/v1/video/all-videos: the published feed with
// each owner's public profile, subscriber count, and follow state attached.
func (h VideoHandler) AllVideos(w http.ResponseWriter, r *http.Request) {
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

	feed, err := h.Videos.ListPublished(ctx, viewer.ID)
	if err != nil {
		logger.Error("list feed failed", "error", err, "userId", viewer.ID)
		fail(ctx, w, http.StatusInternalServerError, "Failed to fetch videos.")
		return
	}

	respondJSON(ctx, w, http.StatusOK, feedResponse{
		Status:  true,
		Message: "Videos fetched successfully.",
		Videos:  feed,
	})
}

// IncrementViews handles POST /api/v1/video/increment-views. The counter is
// bumped with a single atomic update, and the view is appended to the
// caller's watch history.
func (h VideoHandler) IncrementViews(w http.ResponseWriter, r *http.Request) {
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

	videoID := strings.TrimSpace(r.URL.Query().Get("videoId"))
	if videoID == "" {
		var req incrementViewsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			videoID = strings.TrimSpace(req.VideoID)
		}
	}
	if videoID == "" {
		fail(ctx, w, http.StatusBadRequest, "VideoId is required.")
		return
	}

	views, err := h.Videos.IncrementViews(ctx, videoID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			fail(ctx, w, http.StatusNotFound, "Video does not exist.")
			return
		}
		logger.Error("increment views failed", "error", err, "videoId", videoID)
		fail(ctx, w, http.StatusInternalServerError, "Failed to increment views.")
		return
	}

	if h.Users != nil {
		if err := h.Users.RecordWatch(ctx, viewer.ID, videoID); err != nil {
			// The view counter is already bumped; history is best-effort.
			logger.Warn("record watch failed", "error", err, "videoId", videoID, "userId", viewer.ID)
		}
	}

	respondJSON(ctx, w, http.StatusOK, viewsResponse{
		Status:  true,
		Message: "View count incremented.",
		Views:   views,
	})
}

func (h VideoHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

type incrementViewsRequest struct {
	VideoID string `json:"videoId"`
}

type videoResponse struct {
	Status  bool         `json:"status"`
	Message string       `json:"message"`
	Video   models.Video `json:"video"`
}

type videosResponse struct {
	Status  bool           `json:"status"`
	Message string         `json:"message"`
	Videos  []models.Video `json:"videos"`
}

type feedResponse struct {
	Status  bool               `json:"status"`
	Message string             `json:"message"`
	Videos  []models.FeedVideo `json:"videos"`
}

type viewsResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Views   int64  `json:"views"`
}
