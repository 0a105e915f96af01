package app

import (
	"context"
	"fmt"
	"time"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/handlers"
	"github.com/vidtube/backend/internal/media"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/repositories"
)

const (
	authRateLimitRequests = 10
	authRateLimitWindow   = time.Minute
	authRateLimitBurst    = 5
	authRateLimitTTL      = 10 * time.Minute
)

func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, error) {
	store, err := media.NewS3Store(ctx, cfg.ObjectStore)
	if err != nil {
		return handlers.Dependencies{}, fmt.Errorf("configure media store: %w", err)
	}

	return handlers.Dependencies{
		Users:         repositories.NewPostgresUserRepository(pool),
		Videos:        repositories.NewPostgresVideoRepository(pool),
		Comments:      repositories.NewPostgresCommentRepository(pool),
		Subscriptions: repositories.NewPostgresSubscriptionRepository(pool),
		Tokens:        auth.NewTokenIssuer(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		Media:         store,
		Prober:        media.NewFFProbe(cfg.FFProbePath, cfg.FFProbeTimeout),
		AuthLimiter:   middleware.NewIPRateLimiter(authRateLimitRequests, authRateLimitWindow, authRateLimitBurst, authRateLimitTTL),
	}, nil
}
