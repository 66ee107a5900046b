package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/listora/listora-backend/internal/http/handlers"
	httpMW "github.com/listora/listora-backend/internal/http/middleware"
	"github.com/listora/listora-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler     *httpH.HealthHandler
	ModerationHandler *httpH.ModerationHandler
	EntityHandler     *httpH.EntityHandler
	SEOHandler        *httpH.SEOHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// Entity-scoped routes: owners and moderators.
	if cfg.ModerationHandler != nil {
		api.POST("/entities/:type/:id/changes", cfg.ModerationHandler.SubmitChange)
	}
	if cfg.EntityHandler != nil {
		api.DELETE("/entities/:type/:id", cfg.EntityHandler.Delete)
	}
	if cfg.SEOHandler != nil {
		api.GET("/entities/:type/:id/seo", cfg.SEOHandler.Get)
	}

	// Moderation console routes.
	mod := api.Group("/moderation")
	if cfg.AuthMiddleware != nil {
		mod.Use(cfg.AuthMiddleware.RequireModerator())
	}
	{
		if cfg.ModerationHandler != nil {
			mod.GET("/changes", cfg.ModerationHandler.ListChanges)
			mod.POST("/changes/:id/review", cfg.ModerationHandler.Review)
		}
		if cfg.EntityHandler != nil {
			mod.PUT("/entities/:type/:id/approval", cfg.EntityHandler.SetApproval)
			mod.PUT("/entities/:type/:id/verification", cfg.EntityHandler.SetVerification)
			mod.POST("/entities/bulk/approval", cfg.EntityHandler.BulkSetApproval)
			mod.POST("/entities/bulk/verification", cfg.EntityHandler.BulkSetVerification)
		}
		if cfg.SEOHandler != nil {
			mod.PUT("/entities/:type/:id/seo", cfg.SEOHandler.Update)
			mod.PUT("/entities/:type/:id/seo/variant", cfg.SEOHandler.SetActiveVariant)
			mod.POST("/entities/:type/:id/seo/regenerate", cfg.SEOHandler.Regenerate)
			mod.POST("/entities/:type/:id/seo/rescore", cfg.SEOHandler.Rescore)
			mod.POST("/seo/regenerate", cfg.SEOHandler.BulkRegenerate)
			mod.GET("/seo/report", cfg.SEOHandler.SitewideReport)
		}
	}

	return r
}
