package catalog

import (
	"gorm.io/gorm"

	types "github.com/listora/listora-backend/internal/domain"
	"github.com/listora/listora-backend/internal/pkg/dbctx"
	"github.com/listora/listora-backend/internal/platform/logger"
)

type FavoriteRepo interface {
	Create(dbc dbctx.Context, favorites []*types.Favorite) ([]*types.Favorite, error)
	CountForEntity(dbc dbctx.Context, ref types.EntityRef) (int64, error)
	DeleteForEntity(dbc dbctx.Context, ref types.EntityRef) error
}

type favoriteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFavoriteRepo(db *gorm.DB, baseLog *logger.Logger) FavoriteRepo {
	return &favoriteRepo{db: db, log: baseLog.With("repo", "FavoriteRepo")}
}

func (r *favoriteRepo) Create(dbc dbctx.Context, favorites []*types.Favorite) ([]*types.Favorite, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(favorites) == 0 {
		return []*types.Favorite{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&favorites).Error; err != nil {
		return nil, err
	}
	return favorites, nil
}

func (r *favoriteRepo) CountForEntity(dbc dbctx.Context, ref types.EntityRef) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	err := transaction.WithContext(dbc.Ctx).
		Model(&types.Favorite{}).
		Where(refColumn(ref)+" = ?", ref.ID).
		Count(&count).Error
	return count, err
}

func (r *favoriteRepo) DeleteForEntity(dbc dbctx.Context, ref types.EntityRef) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Where(refColumn(ref)+" = ?", ref.ID).
		Delete(&types.Favorite{}).Error
}

type ReviewRepo interface {
	Create(dbc dbctx.Context, reviews []*types.Review) ([]*types.Review, error)
	ListByEntity(dbc dbctx.Context, ref types.EntityRef) ([]*types.Review, error)
	DeleteForEntity(dbc dbctx.Context, ref types.EntityRef) error
}

type reviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReviewRepo(db *gorm.DB, baseLog *logger.Logger) ReviewRepo {
	return &reviewRepo{db: db, log: baseLog.With("repo", "ReviewRepo")}
}

func (r *reviewRepo) Create(dbc dbctx.Context, reviews []*types.Review) ([]*types.Review, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(reviews) == 0 {
		return []*types.Review{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepo) ListByEntity(dbc dbctx.Context, ref types.EntityRef) ([]*types.Review, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Review
	if err := transaction.WithContext(dbc.Ctx).
		Where(refColumn(ref)+" = ?", ref.ID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *reviewRepo) DeleteForEntity(dbc dbctx.Context, ref types.EntityRef) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	// Hard delete: the cascade removes the listing entirely, soft-deleted
	// reviews would orphan.
	return transaction.WithContext(dbc.Ctx).
		Unscoped().
		Where(refColumn(ref)+" = ?", ref.ID).
		Delete(&types.Review{}).Error
}

type ServiceOfferingRepo interface {
	Create(dbc dbctx.Context, offerings []*types.ServiceOffering) ([]*types.ServiceOffering, error)
	ListByEntity(dbc dbctx.Context, ref types.EntityRef) ([]*types.ServiceOffering, error)
	DeleteForEntity(dbc dbctx.Context, ref types.EntityRef) error
}

type serviceOfferingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewServiceOfferingRepo(db *gorm.DB, baseLog *logger.Logger) ServiceOfferingRepo {
	return &serviceOfferingRepo{db: db, log: baseLog.With("repo", "ServiceOfferingRepo")}
}

func (r *serviceOfferingRepo) Create(dbc dbctx.Context, offerings []*types.ServiceOffering) ([]*types.ServiceOffering, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(offerings) == 0 {
		return []*types.ServiceOffering{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&offerings).Error; err != nil {
		return nil, err
	}
	return offerings, nil
}

func (r *serviceOfferingRepo) ListByEntity(dbc dbctx.Context, ref types.EntityRef) ([]*types.ServiceOffering, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ServiceOffering
	if err := transaction.WithContext(dbc.Ctx).
		Where(refColumn(ref)+" = ?", ref.ID).
		Order("name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *serviceOfferingRepo) DeleteForEntity(dbc dbctx.Context, ref types.EntityRef) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Where(refColumn(ref)+" = ?", ref.ID).
		Delete(&types.ServiceOffering{}).Error
}
