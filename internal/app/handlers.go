package app

import (
	httpH "github.com/listora/listora-backend/internal/http/handlers"
	"github.com/listora/listora-backend/internal/platform/logger"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Moderation *httpH.ModerationHandler
	Entity     *httpH.EntityHandler
	SEO        *httpH.SEOHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(),
		Moderation: httpH.NewModerationHandler(log, services.Moderation),
		Entity:     httpH.NewEntityHandler(log, services.Moderation),
		SEO:        httpH.NewSEOHandler(log, services.SEO),
	}
}
