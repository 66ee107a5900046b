package repos

import (
	"github.com/listora/listora-backend/internal/data/repos/catalog"
	"github.com/listora/listora-backend/internal/data/repos/moderation"
	"github.com/listora/listora-backend/internal/data/repos/seo"
)

type ProfileRepo = catalog.ProfileRepo
type BusinessRepo = catalog.BusinessRepo
type PhotoRepo = catalog.PhotoRepo
type FavoriteRepo = catalog.FavoriteRepo
type ReviewRepo = catalog.ReviewRepo
type ServiceOfferingRepo = catalog.ServiceOfferingRepo

type PendingChangeRepo = moderation.PendingChangeRepo
type PendingChangeListFilter = moderation.ListFilter

const StatusAll = moderation.StatusAll

type ContentMetadataRepo = seo.ContentMetadataRepo
type ScoreAggregate = seo.ScoreAggregate

var NewProfileRepo = catalog.NewProfileRepo
var NewBusinessRepo = catalog.NewBusinessRepo
var NewPhotoRepo = catalog.NewPhotoRepo
var NewFavoriteRepo = catalog.NewFavoriteRepo
var NewReviewRepo = catalog.NewReviewRepo
var NewServiceOfferingRepo = catalog.NewServiceOfferingRepo
var NewPendingChangeRepo = moderation.NewPendingChangeRepo
var NewContentMetadataRepo = seo.NewContentMetadataRepo
