package db

import (
	types "github.com/listora/listora-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Catalog entities + dependents
		// =========================
		&types.Profile{},
		&types.Business{},
		&types.Photo{},
		&types.Favorite{},
		&types.Review{},
		&types.ServiceOffering{},

		// =========================
		// Moderation queue
		// =========================
		&types.PendingChange{},

		// =========================
		// SEO metadata
		// =========================
		&types.ContentMetadata{},
	)
}
