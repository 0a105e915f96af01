package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

// UserHandler implements registration, authentication, and profile endpoints.
type UserHandler struct {
	Users   UserStore
	Tokens  TokenIssuer
	Media   MediaStore
	Limiter RateLimiter
	NowFunc func() time.Time
}

// Register handles POST /api/v1/users/register. Registration is a multipart
// request: profile fields plus a required avatar image and an optional cover
// image, both proxied to the media store.
func (h UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Users == nil || h.Tokens == nil || h.Media == nil {
		logger.Error("registration dependencies unavailable")
		fail(ctx, w, http.StatusInternalServerError, "Registration services unavailable.")
		return
	}

	if !allowRequest(h.Limiter, r, "register") {
		fail(ctx, w, http.StatusTooManyRequests, "Too many registration attempts.")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		logger.Warn("invalid register payload", "error", err)
		fail(ctx, w, http.StatusBadRequest, "Invalid multipart request body.")
		return
	}

	username := strings.TrimSpace(strings.ToLower(r.FormValue("userName")))
	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	fullName := strings.TrimSpace(r.FormValue("fullName"))
	password := r.FormValue("password")

	if username == "" || email == "" || fullName == "" || password == "" {
		fail(ctx, w, http.StatusBadRequest, "All fields (userName, email, fullName, password) are required.")
		return
	}

	if _, err := mail.ParseAddress(email); err != nil {
		fail(ctx, w, http.StatusBadRequest, "Invalid email address.")
		return
	}

	if len(password) < 8 {
		fail(ctx, w, http.StatusBadRequest, "Password must be at least 8 characters.")
		return
	}

	avatars := r.MultipartForm.File["avatar"]
	if len(avatars) == 0 {
		fail(ctx, w, http.StatusBadRequest, "Avatar file is required.")
		return
	}

	avatarURL, err := storeUpload(ctx, h.Media, "avatars", avatars[0])
	if err != nil {
		logger.Error("avatar upload failed", "error", err)
		fail(ctx, w, http.StatusInternalServerError, "Failed to store avatar.")
		return
	}

	var coverImageURL string
	if covers := r.MultipartForm.File["coverImage"]; len(covers) > 0 {
		coverImageURL, err = storeUpload(ctx, h.Media, "covers", covers[0])
		if err != nil {
			logger.Error("cover image upload failed", "error", err)
			fail(ctx, w, http.StatusInternalServerError, "Failed to store cover image.")
			return
		}
	}

	hash, salt, err := auth.HashPassword(password)
	if err != nil {
		logger.Error("register failed to hash password", "error", err)
		fail(ctx, w, http.StatusInternalServerError, "Failed to secure password.")
		return
	}

	now := h.now()
	user := models.User{
		ID:            uuid.NewString(),
		Username:      username,
		Email:         email,
		FullName:      fullName,
		AvatarURL:     avatarURL,
		CoverImageURL: coverImageURL,
		PasswordHash:  hash,
		PasswordSalt:  salt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := h.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			fail(ctx, w, http.StatusConflict, "User with email or username already exists.")
			return
		}
		logger.Error("register failed to create user", "error", err, "email", email)
		fail(ctx, w, http.StatusInternalServerError, "Failed to register user.")
		return
	}

	respondJSON(ctx, w, http.StatusCreated, registerResponse{
		Status:  true,
		Message: "User registered successfully.",
		User:    user.Public(),
	})
}

// Login handles POST /api/v1/users/login.
func (h UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Users == nil || h.Tokens == nil {
		logger.Error("authentication dependencies unavailable")
		fail(ctx, w, http.StatusInternalServerError, "Authentication services unavailable.")
		return
	}

	if !allowRequest(h.Limiter, r, "login") {
		fail(ctx, w, http.StatusTooManyRequests, "Too many login attempts.")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login payload", "error", err)
		fail(ctx, w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		fail(ctx, w, http.StatusBadRequest, "Email and password are required.")
		return
	}

	user, err := h.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			fail(ctx, w, http.StatusNotFound, "User does not exist.")
			return
		}
		logger.Error("login user lookup failed", "error", err)
		fail(ctx, w, http.StatusInternalServerError, "Failed to log in.")
		return
	}

	if !auth.VerifyPassword(req.Password, user.PasswordHash, user.PasswordSalt) {
		logger.Warn("login password mismatch", "userId", user.ID)
		fail(ctx, w, http.StatusUnauthorized, "Invalid user credentials.")
		return
	}

	tokens, err := h.issueTokens(user)
	if err != nil {
		logger.Error("failed to issue tokens", "error", err, "userId", user.ID)
		fail(ctx, w, http.StatusInternalServerError, "Failed to create session.")
		return
	}

	if err := h.Users.UpdateRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		logger.Error("failed to store refresh token", "error", err, "userId", user.ID)
		fail(ctx, w, http.StatusInternalServerError, "Failed to create session.")
		return
	}

	setAuthCookies(w, tokens)
	respondJSON(ctx, w, http.StatusOK, sessionResponse{
		Status:  true,
		Message: "User logged in successfully.",
		Data: sessionData{
			User:         user.Public(),
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
		},
	})
}

// Logout handles POST /api/v1/users/logout. The stored refresh token is
// cleared so it can never be replayed, and both cookies are dropped.
func (h UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Users.UpdateRefreshToken(ctx, viewer.ID, ""); err != nil {
		logger.Error("logout failed to clear refresh token", "error", err, "userId", viewer.ID)
		fail(ctx, w, http.StatusInternalServerError, "Failed to log out.")
		return
	}

	clearAuthCookies(w)
	respondJSON(ctx, w, http.StatusOK, statusMessage{Status: true, Message: "User logged out."})
}

// Refresh handles POST /api/v1/users/refresh-token. The presented refresh
// token must match the one currently stored for the user: logging in
// elsewhere rotates the stored token, invalidating earlier sessions.
func (h UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Users == nil || h.Tokens == nil {
		logger.Error("authentication dependencies unavailable")
		fail(ctx, w, http.StatusInternalServerError, "Authentication services unavailable.")
		return
	}

	token := refreshTokenFromRequest(r)
	if token == "" {
		fail(ctx, w, http.StatusUnauthorized, "Unauthorized request.")
		return
	}

	userID, err := h.Tokens.ParseRefreshToken(token)
	if err != nil {
		logger.Warn("refresh token rejected", "error", err)
		fail(ctx, w, http.StatusUnauthorized, "Invalid refresh token.")
		return
	}

	user, err := h.Users.FindByID(ctx, userID)
	if err != nil {
		logger.Warn("refresh user lookup failed", "userId", userID, "error", err)
		fail(ctx, w, http.StatusUnauthorized, "Invalid refresh token.")
		return
	}

	if user.RefreshToken == "" || user.RefreshToken != token {
		fail(ctx, w, http.StatusUnauthorized, "Refresh token is expired or used.")
		return
	}

	tokens, err := h.issueTokens(user)
	if err != nil {
		logger.Error("failed to issue tokens", "error", err, "userId", user.ID)
		fail(ctx, w, http.StatusInternalServerError, "Failed to refresh session.")
		return
	}

	if err := h.Users.UpdateRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		logger.Error("failed to rotate refresh token", "error", err, "userId", user.ID)
		fail(ctx, w, http.StatusInternalServerError, "Failed to refresh session.")
		return
	}

	setAuthCookies(w, tokens)
	respondJSON(ctx, w, http.StatusOK, sessionResponse{
		Status:  true,
		Message: "Access token refreshed.",
		Data: sessionData{
			User:         user.Public(),
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
		},
	})
}

// ChangePassword handles POST /api/v1/users/change-password.
func (h UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
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

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid change password payload", "error", err)
		fail(ctx, w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if req.OldPassword == "" || req.NewPassword == "" {
		fail(ctx, w, http.StatusBadRequest, "Old and new passwords are required.")
		return
	}

	if len(req.NewPassword) < 8 {
		fail(ctx, w, http.StatusBadRequest, "Password must be at least 8 characters.")
		return
	}

	user, err := h.Users.FindByID(ctx, viewer.ID)
	if err != nil {
		logger.Error("change password lookup failed", "error", err, "userId", viewer.ID)
		fail(ctx, w, http.StatusInternalServerError, "Failed to change password.")
		return
	}

	if !auth.VerifyPassword(req.OldPassword, user.PasswordHash, user.PasswordSalt) {
		fail(ctx, w, http.StatusUnauthorized, "Invalid user credentials.")
		return
	}

	hash, salt, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		logger.Error("change password hash failed", "error", err)
		fail(ctx, w, http.StatusInternalServerError, "Failed to change password.")
		return
	}

	if err := h.Users.UpdatePassword(ctx, user.ID, hash, salt); err != nil {
		logger.Error("change password update failed", "error", err, "userId", user.ID)
		fail(ctx, w, http.StatusInternalServerError, "Failed to change password.")
		return
	}

	respondJSON(ctx, w, http.StatusOK, statusMessage{Status: true, Message: "Password changed successfully."})
}

// CurrentUser handles GET /api/v1/users/current-user.
func (h UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	viewer, ok := middleware.CurrentUser(ctx)
	if !ok {
		fail(ctx, w, http.StatusUnauthorized, "Unauthorized request.")
		return
	}

	respondJSON(ctx, w, http.StatusOK, userResponse{
		Status:  true,
		Message: "User fetched successfully.",
		User:    viewer,
	})
}

// UpdateAvatar handles PATCH /api/v1/users/update-avatar.
func (h UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
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

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		logger.Warn("invalid avatar payload", "error", err)
		fail(ctx, w, http.StatusBadRequest, "Invalid multipart request body.")
		return
	}

	avatars := r.MultipartForm.File["avatar"]
	if len(avatars) == 0 {
		fail(ctx, w, http.StatusBadRequest, "Avatar file is required.")
		return
	}

	avatarURL, err := storeUpload(ctx, h.Media, "avatars", avatars[0])
	if err != nil {
		logger.Error("avatar upload failed", "error", err, "userId", viewer.ID)
		fail(ctx, w, http.StatusInternalServerError, "Failed to store avatar.")
		return
	}

	if err := h.Users.UpdateAvatar(ctx, viewer.ID, avatarURL); err != nil {
		logger.Error("avatar update failed", "error", err, "userId", viewer.ID)
		fail(ctx, w, http.StatusInternalServerError, "Failed to update avatar.")
		return
	}

	viewer.AvatarURL = avatarURL
	respondJSON(ctx, w, http.StatusOK, userResponse{
		Status:  true,
		Message: "Avatar updated successfully.",
		User:    viewer,
	})
}

// Channel handles GET /api/v1/users/get-user-channel?username=.
func (h UserHandler) Channel(w http.ResponseWriter, r *http.Request) {
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

	username := strings.TrimSpace(strings.ToLower(r.URL.Query().Get("username")))
	if username == "" {
		fail(ctx, w, http.StatusBadRequest, "Username is required.")
		return
	}

	profile, err := h.Users.ChannelProfile(ctx, username, viewer.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			fail(ctx, w, http.StatusNotFound, "Channel does not exist.")
			return
		}
		logger.Error("channel profile query failed", "error", err, "username", username)
		fail(ctx, w, http.StatusInternalServerError, "Failed to fetch channel.")
		return
	}

	respondJSON(ctx, w, http.StatusOK, channelResponse{
		Status:  true,
		Message: "Channel fetched successfully.",
		Data:    profile,
	})
}

// WatchHistory handles GET /api/v1/users/watch-history.
func (h UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
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

	watched, err := h.Users.WatchHistory(ctx, viewer.ID)
	if err != nil {
		logger.Error("watch history query failed", "error", err, "userId", viewer.ID)
		fail(ctx, w, http.StatusInternalServerError, "Failed to fetch watch history.")
		return
	}

	respondJSON(ctx, w, http.StatusOK, watchHistoryResponse{
		Status:  true,
		Message: "Watch history fetched successfully.",
		Data:    watched,
	})
}

func (h UserHandler) issueTokens(user models.User) (models.TokenPair, error) {
	access, accessExpires, err := h.Tokens.IssueAccessToken(user.ID, user.Email, user.Username, user.FullName)
	if err != nil {
		return models.TokenPair{}, err
	}

	refresh, refreshExpires, err := h.Tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return models.TokenPair{}, err
	}

	return models.TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExpires,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExpires,
	}, nil
}

func (h UserHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

func refreshTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(RefreshTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		return strings.TrimSpace(req.RefreshToken)
	}
	return ""
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type registerResponse struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	User    models.PublicUser `json:"user"`
}

type userResponse struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	User    models.PublicUser `json:"user"`
}

type sessionData struct {
	User         models.PublicUser `json:"user"`
	AccessToken  string            `json:"accessToken"`
	RefreshToken string            `json:"refreshToken"`
}

type sessionResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    sessionData `json:"data"`
}

type channelResponse struct {
	Status  bool                  `json:"status"`
	Message string                `json:"message"`
	Data    models.ChannelProfile `json:"data"`
}

type watchHistoryResponse struct {
	Status  bool                  `json:"status"`
	Message string                `json:"message"`
	Data    []models.WatchedVideo `json:"data"`
}
