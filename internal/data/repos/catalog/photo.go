package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/listora/listora-backend/internal/domain"
	"github.com/listora/listora-backend/internal/pkg/dbctx"
	"github.com/listora/listora-backend/internal/platform/logger"
)

// refColumn maps an entity ref onto the FK column dependent rows use.
func refColumn(ref types.EntityRef) string {
	if ref.Type == types.EntityBusiness {
		return "business_id"
	}
	return "profile_id"
}

type PhotoRepo interface {
	Create(dbc dbctx.Context, photos []*types.Photo) ([]*types.Photo, error)
	ListByEntity(dbc dbctx.Context, ref types.EntityRef) ([]*types.Photo, error)
	DeleteByIDs(dbc dbctx.Context, ref types.EntityRef, ids []uuid.UUID) (int64, error)
	DeleteForEntity(dbc dbctx.Context, ref types.EntityRef) error
}

type photoRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPhotoRepo(db *gorm.DB, baseLog *logger.Logger) PhotoRepo {
	return &photoRepo{db: db, log: baseLog.With("repo", "PhotoRepo")}
}

func (r *photoRepo) Create(dbc dbctx.Context, photos []*types.Photo) ([]*types.Photo, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(photos) == 0 {
		return []*types.Photo{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&photos).Error; err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *photoRepo) ListByEntity(dbc dbctx.Context, ref types.EntityRef) ([]*types.Photo, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Photo
	if err := transaction.WithContext(dbc.Ctx).
		Where(refColumn(ref)+" = ?", ref.ID).
		Order("position ASC, created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByIDs removes only photos that belong to the given entity, so a
// change payload cannot delete another listing's photos.
func (r *photoRepo) DeleteByIDs(dbc dbctx.Context, ref types.EntityRef, ids []uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Where(refColumn(ref)+" = ?", ref.ID).
		Where("id IN ?", ids).
		Delete(&types.Photo{})
	return res.RowsAffected, res.Error
}

func (r *photoRepo) DeleteForEntity(dbc dbctx.Context, ref types.EntityRef) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Where(refColumn(ref)+" = ?", ref.ID).
		Delete(&types.Photo{}).Error
}
