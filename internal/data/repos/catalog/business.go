package catalog

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/listora/listora-backend/internal/domain"
	pkgerr "github.com/listora/listora-backend/internal/pkg/errors"
	"github.com/listora/listora-backend/internal/pkg/dbctx"
	"github.com/listora/listora-backend/internal/platform/logger"
)

type BusinessRepo interface {
	Create(dbc dbctx.Context, businesses []*types.Business) ([]*types.Business, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Business, error)
	GetByIDForUpdate(dbc dbctx.Context, id uuid.UUID) (*types.Business, error)
	Save(dbc dbctx.Context, business *types.Business) error
	SetApproved(dbc dbctx.Context, id uuid.UUID, approved bool) error
	SetVerified(dbc dbctx.Context, id uuid.UUID, verified bool) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type businessRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBusinessRepo(db *gorm.DB, baseLog *logger.Logger) BusinessRepo {
	return &businessRepo{db: db, log: baseLog.With("repo", "BusinessRepo")}
}

func (r *businessRepo) Create(dbc dbctx.Context, businesses []*types.Business) ([]*types.Business, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(businesses) == 0 {
		return []*types.Business{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&businesses).Error; err != nil {
		return nil, err
	}
	return businesses, nil
}

func (r *businessRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Business, error) {
	return r.get(dbc, id, false)
}

func (r *businessRepo) GetByIDForUpdate(dbc dbctx.Context, id uuid.UUID) (*types.Business, error) {
	return r.get(dbc, id, true)
}

func (r *businessRepo) get(dbc dbctx.Context, id uuid.UUID, forUpdate bool) (*types.Business, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var business types.Business
	if err := q.Where("id = ?", id).First(&business).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerr.ErrNotFound
		}
		return nil, err
	}
	return &business, nil
}

func (r *businessRepo) Save(dbc dbctx.Context, business *types.Business) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Save(business).Error
}

func (r *businessRepo) SetApproved(dbc dbctx.Context, id uuid.UUID, approved bool) error {
	return r.setGate(dbc, id, "approved", approved)
}

func (r *businessRepo) SetVerified(dbc dbctx.Context, id uuid.UUID, verified bool) error {
	return r.setGate(dbc, id, "verified", verified)
}

func (r *businessRepo) setGate(dbc dbctx.Context, id uuid.UUID, column string, value bool) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Business{}).
		Where("id = ?", id).
		Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerr.ErrNotFound
	}
	return nil
}

func (r *businessRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.Business{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerr.ErrNotFound
	}
	return nil
}
