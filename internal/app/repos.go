package app

import (
	"gorm.io/gorm"

	"github.com/listora/listora-backend/internal/data/repos"
	"github.com/listora/listora-backend/internal/platform/logger"
)

type Repos struct {
	Profile         repos.ProfileRepo
	Business        repos.BusinessRepo
	Photo           repos.PhotoRepo
	Favorite        repos.FavoriteRepo
	Review          repos.ReviewRepo
	ServiceOffering repos.ServiceOfferingRepo
	PendingChange   repos.PendingChangeRepo
	ContentMetadata repos.ContentMetadataRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Profile:         repos.NewProfileRepo(db, log),
		Business:        repos.NewBusinessRepo(db, log),
		Photo:           repos.NewPhotoRepo(db, log),
		Favorite:        repos.NewFavoriteRepo(db, log),
		Review:          repos.NewReviewRepo(db, log),
		ServiceOffering: repos.NewServiceOfferingRepo(db, log),
		PendingChange:   repos.NewPendingChangeRepo(db, log),
		ContentMetadata: repos.NewContentMetadataRepo(db, log),
	}
}
