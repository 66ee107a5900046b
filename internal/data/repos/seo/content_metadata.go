package seo

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/listora/listora-backend/internal/domain"
	pkgerr "github.com/listora/listora-backend/internal/pkg/errors"
	"github.com/listora/listora-backend/internal/pkg/dbctx"
	"github.com/listora/listora-backend/internal/platform/logger"
)

// ScoreAggregate is the sitewide read-only report over persisted scores.
// It never feeds back into per-entity scoring.
type ScoreAggregate struct {
	Total        int64   `json:"total"`
	AverageScore float64 `json:"average_score"`
	Below50      int64   `json:"below_50"`
	From50To79   int64   `json:"from_50_to_79"`
	From80Up     int64   `json:"from_80_up"`
}

type ContentMetadataRepo interface {
	GetByEntity(dbc dbctx.Context, ref types.EntityRef) (*types.ContentMetadata, error)
	GetByEntityForUpdate(dbc dbctx.Context, ref types.EntityRef) (*types.ContentMetadata, error)
	Create(dbc dbctx.Context, meta *types.ContentMetadata) (*types.ContentMetadata, error)
	Save(dbc dbctx.Context, meta *types.ContentMetadata) error
	Aggregate(dbc dbctx.Context) (*ScoreAggregate, error)
	DeleteForEntity(dbc dbctx.Context, ref types.EntityRef) error
}

type contentMetadataRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentMetadataRepo(db *gorm.DB, baseLog *logger.Logger) ContentMetadataRepo {
	return &contentMetadataRepo{db: db, log: baseLog.With("repo", "ContentMetadataRepo")}
}

func refColumn(ref types.EntityRef) string {
	if ref.Type == types.EntityBusiness {
		return "business_id"
	}
	return "profile_id"
}

func (r *contentMetadataRepo) GetByEntity(dbc dbctx.Context, ref types.EntityRef) (*types.ContentMetadata, error) {
	return r.get(dbc, ref, false)
}

func (r *contentMetadataRepo) GetByEntityForUpdate(dbc dbctx.Context, ref types.EntityRef) (*types.ContentMetadata, error) {
	return r.get(dbc, ref, true)
}

func (r *contentMetadataRepo) get(dbc dbctx.Context, ref types.EntityRef, forUpdate bool) (*types.ContentMetadata, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var meta types.ContentMetadata
	if err := q.Where(refColumn(ref)+" = ?", ref.ID).First(&meta).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerr.ErrNotFound
		}
		return nil, err
	}
	return &meta, nil
}

func (r *contentMetadataRepo) Create(dbc dbctx.Context, meta *types.ContentMetadata) (*types.ContentMetadata, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Ctx).Create(meta).Error; err != nil {
		return nil, err
	}
	return meta, nil
}

func (r *contentMetadataRepo) Save(dbc dbctx.Context, meta *types.ContentMetadata) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Save(meta).Error
}

func (r *contentMetadataRepo) Aggregate(dbc dbctx.Context) (*ScoreAggregate, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var agg ScoreAggregate
	row := transaction.WithContext(dbc.Ctx).
		Model(&types.ContentMetadata{}).
		Select(`COUNT(*) AS total,
			COALESCE(AVG(quality_score), 0) AS average_score,
			COUNT(*) FILTER (WHERE quality_score < 50) AS below_50,
			COUNT(*) FILTER (WHERE quality_score >= 50 AND quality_score < 80) AS from_50_to_79,
			COUNT(*) FILTER (WHERE quality_score >= 80) AS from_80_up`).
		Row()
	if err := row.Scan(&agg.Total, &agg.AverageScore, &agg.Below50, &agg.From50To79, &agg.From80Up); err != nil {
		return nil, err
	}
	return &agg, nil
}

func (r *contentMetadataRepo) DeleteForEntity(dbc dbctx.Context, ref types.EntityRef) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Where(refColumn(ref)+" = ?", ref.ID).
		Delete(&types.ContentMetadata{}).Error
}
