package handlers

import (
	"net/http"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/middleware"
)

// TokenService combines token issuance with access-token validation so the
// same issuer serves both the handlers and the session middleware.
type TokenService interface {
	TokenIssuer
	ParseAccessToken(token string) (*auth.AccessClaims, error)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users         UserStore
	Videos        VideoStore
	Comments      CommentStore
	Subscriptions SubscriptionStore
	Tokens        TokenService
	Media         MediaStore
	Prober        DurationProber
	AuthLimiter   RateLimiter
}

// RegisterRoutes wires HTTP handlers into the provided ServeMux. Routes are
// grouped by resource under the versioned prefix; protected routes run behind
// the session middleware.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	users := UserHandler{Users: deps.Users, Tokens: deps.Tokens, Media: deps.Media, Limiter: deps.AuthLimiter}
	videos := VideoHandler{Videos: deps.Videos, Users: deps.Users, Media: deps.Media, Prober: deps.Prober}
	comments := CommentHandler{Comments: deps.Comments}
	subscriptions := SubscriptionHandler{Subscriptions: deps.Subscriptions}

	protect := middleware.Authenticate(deps.Users, deps.Tokens)
	guard := func(h http.HandlerFunc) http.Handler { return protect(h) }

	mux.HandleFunc("/healthz", health.Handle)

	mux.HandleFunc("/api/v1/users/register", users.Register)
	mux.HandleFunc("/api/v1/users/login", users.Login)
	mux.HandleFunc("/api/v1/users/refresh-token", users.Refresh)
	mux.Handle("/api/v1/users/logout", guard(users.Logout))
	mux.Handle("/api/v1/users/change-password", guard(users.ChangePassword))
	mux.Handle("/api/v1/users/current-user", guard(users.CurrentUser))
	mux.Handle("/api/v1/users/update-avatar", guard(users.UpdateAvatar))
	mux.Handle("/api/v1/users/get-user-channel", guard(users.Channel))
	mux.Handle("/api/v1/users/watch-history", guard(users.WatchHistory))

	mux.Handle("/api/v1/video/upload-video", guard(videos.Upload))
	mux.Handle("/api/v1/video/my-videos", guard(videos.MyVideos))
	mux.Handle("/api/v1/video/all-videos", guard(videos.AllVideos))
	mux.Handle("/api/v1/video/increment-views", guard(videos.IncrementViews))

	mux.Handle("/api/v1/comment/add-comment", guard(comments.Add))
	mux.Handle("/api/v1/comment/get-comments", guard(comments.List))

	mux.Handle("/api/v1/subscription/get-subscriber", guard(subscriptions.Channels))
	mux.Handle("/api/v1/subscription/add-subscriber", guard(subscriptions.Toggle))
}
