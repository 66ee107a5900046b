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

type ProfileRepo interface {
	Create(dbc dbctx.Context, profiles []*types.Profile) ([]*types.Profile, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Profile, error)
	GetByIDForUpdate(dbc dbctx.Context, id uuid.UUID) (*types.Profile, error)
	Save(dbc dbctx.Context, profile *types.Profile) error
	SetApproved(dbc dbctx.Context, id uuid.UUID, approved bool) error
	SetVerified(dbc dbctx.Context, id uuid.UUID, verified bool) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	return &profileRepo{db: db, log: baseLog.With("repo", "ProfileRepo")}
}

func (r *profileRepo) Create(dbc dbctx.Context, profiles []*types.Profile) ([]*types.Profile, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(profiles) == 0 {
		return []*types.Profile{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *profileRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Profile, error) {
	return r.get(dbc, id, false)
}

func (r *profileRepo) GetByIDForUpdate(dbc dbctx.Context, id uuid.UUID) (*types.Profile, error) {
	return r.get(dbc, id, true)
}

func (r *profileRepo) get(dbc dbctx.Context, id uuid.UUID, forUpdate bool) (*types.Profile, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var profile types.Profile
	if err := q.Where("id = ?", id).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerr.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) Save(dbc dbctx.Context, profile *types.Profile) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Save(profile).Error
}

func (r *profileRepo) SetApproved(dbc dbctx.Context, id uuid.UUID, approved bool) error {
	return r.setGate(dbc, id, "approved", approved)
}

func (r *profileRepo) SetVerified(dbc dbctx.Context, id uuid.UUID, verified bool) error {
	return r.setGate(dbc, id, "verified", verified)
}

func (r *profileRepo) setGate(dbc dbctx.Context, id uuid.UUID, column string, value bool) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Profile{}).
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

func (r *profileRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.Profile{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerr.ErrNotFound
	}
	return nil
}
