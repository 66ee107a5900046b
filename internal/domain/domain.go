// Package domain re-exports the model types so callers can import a single
// package as `types`.
package domain

import (
	"github.com/listora/listora-backend/internal/domain/catalog"
	"github.com/listora/listora-backend/internal/domain/moderation"
	"github.com/listora/listora-backend/internal/domain/seo"
)

type (
	Profile         = catalog.Profile
	Business        = catalog.Business
	Photo           = catalog.Photo
	Favorite        = catalog.Favorite
	Review          = catalog.Review
	ServiceOffering = catalog.ServiceOffering

	PendingChange = moderation.PendingChange
	ChangeStatus  = moderation.ChangeStatus
	EntityRef     = moderation.EntityRef
	EntityType    = moderation.EntityType

	ContentMetadata = seo.ContentMetadata
	Variant         = seo.Variant
)

const (
	StatusPending  = moderation.StatusPending
	StatusApproved = moderation.StatusApproved
	StatusRejected = moderation.StatusRejected

	EntityProfile  = moderation.EntityProfile
	EntityBusiness = moderation.EntityBusiness

	VariantA = seo.VariantA
	VariantB = seo.VariantB
	VariantC = seo.VariantC
)

var (
	ParseEntityType = moderation.ParseEntityType
	ParseVariant    = seo.ParseVariant
)
