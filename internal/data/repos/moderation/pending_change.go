package moderation

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/listora/listora-backend/internal/domain"
	pkgerr "github.com/listora/listora-backend/internal/pkg/errors"
	"github.com/listora/listora-backend/internal/pkg/dbctx"
	"github.com/listora/listora-backend/internal/platform/logger"
)

// StatusAll is a ListFilter sentinel matching every status. It is never
// stored on a row.
const StatusAll types.ChangeStatus = "all"

// ListFilter narrows ListPendingChanges. Zero values mean "no constraint".
type ListFilter struct {
	Status     types.ChangeStatus
	EntityType types.EntityType
	Limit      int
}

type PendingChangeRepo interface {
	Create(dbc dbctx.Context, changes []*types.PendingChange) ([]*types.PendingChange, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.PendingChange, error)
	// GetByIDForUpdate locks the row for the review transaction so two
	// moderators cannot approve the same change concurrently.
	GetByIDForUpdate(dbc dbctx.Context, id uuid.UUID) (*types.PendingChange, error)
	List(dbc dbctx.Context, filter ListFilter) ([]*types.PendingChange, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	CountSubmittedSince(dbc dbctx.Context, submitterID uuid.UUID, since time.Time) (int64, error)
	DeleteForEntity(dbc dbctx.Context, ref types.EntityRef) error
}

type pendingChangeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPendingChangeRepo(db *gorm.DB, baseLog *logger.Logger) PendingChangeRepo {
	return &pendingChangeRepo{db: db, log: baseLog.With("repo", "PendingChangeRepo")}
}

func (r *pendingChangeRepo) Create(dbc dbctx.Context, changes []*types.PendingChange) ([]*types.PendingChange, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(changes) == 0 {
		return []*types.PendingChange{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&changes).Error; err != nil {
		return nil, err
	}
	return changes, nil
}

func (r *pendingChangeRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.PendingChange, error) {
	return r.get(dbc, id, false)
}

func (r *pendingChangeRepo) GetByIDForUpdate(dbc dbctx.Context, id uuid.UUID) (*types.PendingChange, error) {
	return r.get(dbc, id, true)
}

func (r *pendingChangeRepo) get(dbc dbctx.Context, id uuid.UUID, forUpdate bool) (*types.PendingChange, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var change types.PendingChange
	if err := q.Where("id = ?", id).First(&change).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerr.ErrNotFound
		}
		return nil, err
	}
	return &change, nil
}

func (r *pendingChangeRepo) List(dbc dbctx.Context, filter ListFilter) ([]*types.PendingChange, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).Model(&types.PendingChange{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	switch filter.EntityType {
	case types.EntityProfile:
		q = q.Where("profile_id IS NOT NULL")
	case types.EntityBusiness:
		q = q.Where("business_id IS NOT NULL")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var out []*types.PendingChange
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *pendingChangeRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.PendingChange{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerr.ErrNotFound
	}
	return nil
}

func (r *pendingChangeRepo) CountSubmittedSince(dbc dbctx.Context, submitterID uuid.UUID, since time.Time) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	err := transaction.WithContext(dbc.Ctx).
		Model(&types.PendingChange{}).
		Where("submitted_by_user_id = ?", submitterID).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *pendingChangeRepo) DeleteForEntity(dbc dbctx.Context, ref types.EntityRef) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	column := "profile_id"
	if ref.Type == types.EntityBusiness {
		column = "business_id"
	}
	return transaction.WithContext(dbc.Ctx).
		Where(column+" = ?", ref.ID).
		Delete(&types.PendingChange{}).Error
}
