package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/listora/listora-backend/internal/clients/openai"
	"github.com/listora/listora-backend/internal/clients/redis"
	"github.com/listora/listora-backend/internal/platform/logger"
	"github.com/listora/listora-backend/internal/seo/scoring"
	"github.com/listora/listora-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	Moderation services.ModerationService
	SEO        services.SEOService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) (Services, error) {
	log.Info("Wiring services...")

	authService, err := services.NewAuthService(log)
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}

	generator, err := openai.NewClient(log)
	if err != nil {
		return Services{}, fmt.Errorf("init openai client: %w", err)
	}

	// A missing or unreachable redis only costs us the report cache.
	cache, err := redis.NewCache(log)
	if err != nil {
		log.Warn("redis cache unavailable, report caching disabled", "error", err)
		cache = nil
	}

	scoringCfg, err := scoring.LoadConfig(cfg.ScoringConfigPath)
	if err != nil {
		return Services{}, fmt.Errorf("load scoring config: %w", err)
	}

	moderationService := services.NewModerationService(
		db,
		log,
		r.Profile,
		r.Business,
		r.Photo,
		r.Favorite,
		r.Review,
		r.ServiceOffering,
		r.PendingChange,
		r.ContentMetadata,
	)

	seoService := services.NewSEOService(
		db,
		log,
		r.Profile,
		r.Business,
		r.Photo,
		r.ServiceOffering,
		r.ContentMetadata,
		scoringCfg,
		generator,
		cache,
	)

	return Services{
		Auth:       authService,
		Moderation: moderationService,
		SEO:        seoService,
	}, nil
}
