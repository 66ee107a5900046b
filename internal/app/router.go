package app

import (
	"github.com/listora/listora-backend/internal/http"
	"github.com/listora/listora-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, handlers Handlers, middleware Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:            log,
		AuthMiddleware: middleware.Auth,

		HealthHandler:     handlers.Health,
		ModerationHandler: handlers.Moderation,
		EntityHandler:     handlers.Entity,
		SEOHandler:        handlers.SEO,
	})
}
