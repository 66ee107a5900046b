package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/listora/listora-backend/internal/clients/openai"
	"github.com/listora/listora-backend/internal/clients/redis"
	"github.com/listora/listora-backend/internal/data/repos"
	types "github.com/listora/listora-backend/internal/domain"
	"github.com/listora/listora-backend/internal/pkg/dbctx"
	pkgerr "github.com/listora/listora-backend/internal/pkg/errors"
	"github.com/listora/listora-backend/internal/pkg/pointers"
	"github.com/listora/listora-backend/internal/platform/logger"
	"github.com/listora/listora-backend/internal/requestdata"
	"github.com/listora/listora-backend/internal/seo/scoring"
	"github.com/listora/listora-backend/internal/seo/slug"
)

const (
	sitewideReportKey = "seo:sitewide_report"
	sitewideReportTTL = 5 * time.Minute

	bulkRegenerateConcurrency = 4
)

// MetadataUpdate carries a moderator's manual edit. Nil fields keep the
// stored value; any accepted edit marks the record as manually overridden.
type MetadataUpdate struct {
	SeoTitle     *string `json:"seo_title,omitempty"`
	DescriptionA *string `json:"description_a,omitempty"`
	DescriptionB *string `json:"description_b,omitempty"`
	DescriptionC *string `json:"description_c,omitempty"`
	SeoKeywords  *string `json:"seo_keywords,omitempty"`
}

func (u MetadataUpdate) isZero() bool {
	return u.SeoTitle == nil &&
		u.DescriptionA == nil &&
		u.DescriptionB == nil &&
		u.DescriptionC == nil &&
		u.SeoKeywords == nil
}

// RegenerateOptions controls automated regeneration. Force pushes past a
// manual override without clearing the flag; ClearOverride additionally
// returns the record to automated ownership.
type RegenerateOptions struct {
	Force         bool `json:"force"`
	ClearOverride bool `json:"clear_override"`
}

type SEOService interface {
	Get(ctx context.Context, ref types.EntityRef) (*types.ContentMetadata, error)
	Update(ctx context.Context, ref types.EntityRef, update MetadataUpdate) (*types.ContentMetadata, error)
	SetActiveVariant(ctx context.Context, ref types.EntityRef, variant types.Variant) (*types.ContentMetadata, error)
	Regenerate(ctx context.Context, ref types.EntityRef, opts RegenerateOptions) (*types.ContentMetadata, error)
	BulkRegenerate(ctx context.Context, refs []types.EntityRef, opts RegenerateOptions) []BulkResult
	SitewideReport(ctx context.Context) (*repos.ScoreAggregate, error)
	RescoreEntity(ctx context.Context, ref types.EntityRef) (*types.ContentMetadata, error)
}

type seoService struct {
	db  *gorm.DB
	log *logger.Logger

	profileRepo  repos.ProfileRepo
	businessRepo repos.BusinessRepo
	photoRepo    repos.PhotoRepo
	offeringRepo repos.ServiceOfferingRepo
	metadataRepo repos.ContentMetadataRepo

	engine    *scoring.Engine
	cfg       scoring.Config
	generator openai.Client
	cache     redis.Cache
}

func NewSEOService(
	db *gorm.DB,
	baseLog *logger.Logger,
	profileRepo repos.ProfileRepo,
	businessRepo repos.BusinessRepo,
	photoRepo repos.PhotoRepo,
	offeringRepo repos.ServiceOfferingRepo,
	metadataRepo repos.ContentMetadataRepo,
	cfg scoring.Config,
	generator openai.Client,
	cache redis.Cache,
) SEOService {
	return &seoService{
		db:           db,
		log:          baseLog.With("service", "SEOService"),
		profileRepo:  profileRepo,
		businessRepo: businessRepo,
		photoRepo:    photoRepo,
		offeringRepo: offeringRepo,
		metadataRepo: metadataRepo,
		engine:       scoring.NewEngine(cfg),
		cfg:          cfg,
		generator:    generator,
		cache:        cache,
	}
}

// Get returns the metadata record, creating an empty one on first touch so
// every live entity always has a row to edit or score.
func (ss *seoService) Get(ctx context.Context, ref types.EntityRef) (*types.ContentMetadata, error) {
	dbc := dbctx.Context{Ctx: ctx}
	meta, err := ss.metadataRepo.GetByEntity(dbc, ref)
	if err == nil {
		return meta, nil
	}
	if !errors.Is(err, pkgerr.ErrNotFound) {
		return nil, err
	}

	// First touch: confirm the entity itself exists before creating.
	if _, err := ss.loadContext(dbc, ref); err != nil {
		return nil, err
	}

	var out *types.ContentMetadata
	err = runInTx(ctx, ss.db, func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		existing, err := ss.metadataRepo.GetByEntityForUpdate(txc, ref)
		if err == nil {
			out = existing
			return nil
		}
		if !errors.Is(err, pkgerr.ErrNotFound) {
			return err
		}
		fresh := &types.ContentMetadata{ActiveVariant: types.VariantA}
		if ref.Type == types.EntityBusiness {
			fresh.BusinessID = pointers.Ptr(ref.ID)
		} else {
			fresh.ProfileID = pointers.Ptr(ref.ID)
		}
		if _, err := ss.metadataRepo.Create(txc, fresh); err != nil {
			return err
		}
		out = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// entityContext is what scoring and generation need from the live entity.
type entityContext struct {
	name        string
	city        string
	description string
	structural  float64
	media       float64
	services    []string
}

func (ss *seoService) loadContext(dbc dbctx.Context, ref types.EntityRef) (*entityContext, error) {
	ec := &entityContext{}

	var filled, fields int
	countField := func(v string) {
		fields++
		if v != "" {
			filled++
		}
	}

	switch ref.Type {
	case types.EntityProfile:
		p, err := ss.profileRepo.GetByID(dbc, ref.ID)
		if err != nil {
			return nil, err
		}
		ec.name, ec.city, ec.description = p.Name, p.City, p.Description
		countField(p.Name)
		countField(p.Description)
		countField(p.Phone)
		countField(p.Street)
		countField(p.City)
		countField(p.Zip)
	case types.EntityBusiness:
		b, err := ss.businessRepo.GetByID(dbc, ref.ID)
		if err != nil {
			return nil, err
		}
		ec.name, ec.city, ec.description = b.Name, b.City, b.Description
		countField(b.Name)
		countField(b.Description)
		countField(b.Phone)
		countField(b.Website)
		countField(b.RegistrationNo)
		countField(b.Street)
		countField(b.City)
		countField(b.Zip)
	default:
		return nil, fmt.Errorf("%w: unknown entity type %q", pkgerr.ErrInvalidArgument, ref.Type)
	}
	ec.structural = float64(filled) / float64(fields)

	photos, err := ss.photoRepo.ListByEntity(dbc, ref)
	if err != nil {
		return nil, err
	}
	// Full media credit at 4 photos with a designated main one.
	mediaCount := float64(len(photos)) / 4
	if mediaCount > 1 {
		mediaCount = 1
	}
	hasMain := 0.0
	for _, p := range photos {
		if p.IsMain {
			hasMain = 1
			break
		}
	}
	ec.media = 0.75*mediaCount + 0.25*hasMain

	offerings, err := ss.offeringRepo.ListByEntity(dbc, ref)
	if err != nil {
		return nil, err
	}
	for _, o := range offerings {
		ec.services = append(ec.services, o.Name)
	}
	return ec, nil
}

func (ss *seoService) score(meta *types.ContentMetadata, ec *entityContext) int {
	return ss.engine.Score(scoring.Input{
		Title:        meta.SeoTitle,
		Descriptions: [3]string{meta.DescriptionA, meta.DescriptionB, meta.DescriptionC},
		Keywords:     meta.SeoKeywords,
		EntityName:   ec.name,
		City:         ec.city,
	}, scoring.Signals{Structural: ec.structural, Media: ec.media})
}

// ==========================================
// Manual edits
// ==========================================

// Update applies a moderator edit and recomputes the quality score in the
// same transaction, so the stored score can never lag the stored text.
// Any accepted edit sets ManualOverride.
func (ss *seoService) Update(ctx context.Context, ref types.EntityRef, update MetadataUpdate) (*types.ContentMetadata, error) {
	rd := requestdata.GetRequestData(ctx)
	if !rd.IsModerator() {
		return nil, pkgerr.ErrUnauthorized
	}
	if update.isZero() {
		return nil, fmt.Errorf("%w: no metadata fields to update", pkgerr.ErrInvalidArgument)
	}

	var out *types.ContentMetadata
	err := runInTx(ctx, ss.db, func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		meta, err := ss.metadataRepo.GetByEntityForUpdate(dbc, ref)
		if err != nil {
			return err
		}
		ec, err := ss.loadContext(dbc, ref)
		if err != nil {
			return err
		}

		if update.SeoTitle != nil {
			meta.SeoTitle = *update.SeoTitle
		}
		if update.DescriptionA != nil {
			meta.DescriptionA = *update.DescriptionA
		}
		if update.DescriptionB != nil {
			meta.DescriptionB = *update.DescriptionB
		}
		if update.DescriptionC != nil {
			meta.DescriptionC = *update.DescriptionC
		}
		if update.SeoKeywords != nil {
			meta.SeoKeywords = *update.SeoKeywords
		}

		meta.ManualOverride = true
		meta.QualityScore = ss.score(meta, ec)
		meta.LastReviewedAt = pointers.Ptr(time.Now().UTC())

		if err := ss.metadataRepo.Save(dbc, meta); err != nil {
			return err
		}
		out = meta
		return nil
	})
	if err != nil {
		return nil, err
	}

	ss.invalidateReport(ctx)
	ss.log.Info("metadata updated manually",
		"entity_type", ref.Type,
		"entity_id", ref.ID,
		"quality_score", out.QualityScore,
	)
	return out, nil
}

func (ss *seoService) SetActiveVariant(ctx context.Context, ref types.EntityRef, variant types.Variant) (*types.ContentMetadata, error) {
	rd := requestdata.GetRequestData(ctx)
	if !rd.IsModerator() {
		return nil, pkgerr.ErrUnauthorized
	}
	if _, ok := types.ParseVariant(string(variant)); !ok {
		return nil, fmt.Errorf("%w: unknown variant %q", pkgerr.ErrInvalidArgument, variant)
	}

	var out *types.ContentMetadata
	err := runInTx(ctx, ss.db, func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		meta, err := ss.metadataRepo.GetByEntityForUpdate(dbc, ref)
		if err != nil {
			return err
		}
		meta.ActiveVariant = variant
		// Pinning is a human decision; regeneration must not undo it.
		meta.ManualOverride = true
		if err := ss.metadataRepo.Save(dbc, meta); err != nil {
			return err
		}
		out = meta
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ==========================================
// Regeneration
// ==========================================

// Regenerate drafts fresh metadata via the AI collaborator and persists it.
// A manual override blocks regeneration unless forced. A generation failure
// is reported as ErrExternalService and leaves the stored record untouched.
func (ss *seoService) Regenerate(ctx context.Context, ref types.EntityRef, opts RegenerateOptions) (*types.ContentMetadata, error) {
	rd := requestdata.GetRequestData(ctx)
	if !rd.IsModerator() {
		return nil, pkgerr.ErrUnauthorized
	}

	dbc := dbctx.Context{Ctx: ctx}
	existing, err := ss.metadataRepo.GetByEntity(dbc, ref)
	if err != nil && !errors.Is(err, pkgerr.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.ManualOverride && !opts.Force {
		return nil, pkgerr.ErrManualOverride
	}

	ec, err := ss.loadContext(dbc, ref)
	if err != nil {
		return nil, err
	}

	candidate, err := ss.generator.GenerateListingMetadata(ctx, openai.MetadataRequest{
		EntityName:  ec.name,
		City:        ec.city,
		Description: ec.description,
		Services:    ec.services,
		BrandToken:  ss.cfg.BrandToken,
	})
	if err != nil {
		ss.log.Error("metadata generation failed", "entity_type", ref.Type, "entity_id", ref.ID, "error", err)
		return nil, fmt.Errorf("%w: %v", pkgerr.ErrExternalService, err)
	}

	var out *types.ContentMetadata
	err = runInTx(ctx, ss.db, func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}

		meta, err := ss.metadataRepo.GetByEntityForUpdate(txc, ref)
		if errors.Is(err, pkgerr.ErrNotFound) {
			meta = &types.ContentMetadata{ActiveVariant: types.VariantA}
			if ref.Type == types.EntityBusiness {
				meta.BusinessID = pointers.Ptr(ref.ID)
			} else {
				meta.ProfileID = pointers.Ptr(ref.ID)
			}
			if _, err := ss.metadataRepo.Create(txc, meta); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		if meta.ManualOverride && !opts.Force {
			return pkgerr.ErrManualOverride
		}

		meta.SeoTitle = candidate.Title
		meta.DescriptionA = candidate.Descriptions[0]
		meta.DescriptionB = candidate.Descriptions[1]
		meta.DescriptionC = candidate.Descriptions[2]
		meta.SeoKeywords = candidate.Keywords
		meta.Slug = slug.Make(ec.name + " " + ec.city)
		meta.QualityScore = ss.score(meta, ec)
		// A pinned variant survives even a forced regeneration; auto-select
		// only when nothing is pinned or the pin is being cleared.
		if !meta.ManualOverride || opts.ClearOverride {
			meta.ActiveVariant = ss.engine.BestVariant(scoring.Input{
				Descriptions: [3]string{meta.DescriptionA, meta.DescriptionB, meta.DescriptionC},
			})
		}
		meta.LastGeneratedAt = pointers.Ptr(time.Now().UTC())
		if opts.ClearOverride {
			meta.ManualOverride = false
		}

		if err := ss.metadataRepo.Save(txc, meta); err != nil {
			return err
		}
		out = meta
		return nil
	})
	if err != nil {
		return nil, err
	}

	ss.invalidateReport(ctx)
	ss.log.Info("metadata regenerated",
		"entity_type", ref.Type,
		"entity_id", ref.ID,
		"quality_score", out.QualityScore,
		"active_variant", out.ActiveVariant,
	)
	return out, nil
}

// BulkRegenerate fans out over a bounded worker pool. Items fail
// independently; the result slice is ordered like the input.
func (ss *seoService) BulkRegenerate(ctx context.Context, refs []types.EntityRef, opts RegenerateOptions) []BulkResult {
	results := make([]BulkResult, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkRegenerateConcurrency)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			_, err := ss.Regenerate(gctx, ref, opts)
			results[i] = BulkResult{Ref: ref, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// RescoreEntity recomputes the score against current entity state without
// touching the text. Called after an approved change alters scored inputs
// (name, city, photos).
func (ss *seoService) RescoreEntity(ctx context.Context, ref types.EntityRef) (*types.ContentMetadata, error) {
	rd := requestdata.GetRequestData(ctx)
	if !rd.IsModerator() {
		return nil, pkgerr.ErrUnauthorized
	}

	var out *types.ContentMetadata
	err := runInTx(ctx, ss.db, func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		meta, err := ss.metadataRepo.GetByEntityForUpdate(dbc, ref)
		if err != nil {
			return err
		}
		ec, err := ss.loadContext(dbc, ref)
		if err != nil {
			return err
		}
		meta.QualityScore = ss.score(meta, ec)
		if err := ss.metadataRepo.Save(dbc, meta); err != nil {
			return err
		}
		out = meta
		return nil
	})
	if err != nil {
		return nil, err
	}

	ss.invalidateReport(ctx)
	return out, nil
}

// ==========================================
// Sitewide report
// ==========================================

// SitewideReport aggregates persisted scores across all entities. The result
// is cached for a few minutes; a cache outage degrades to hitting postgres.
func (ss *seoService) SitewideReport(ctx context.Context) (*repos.ScoreAggregate, error) {
	if ss.cache != nil {
		var cached repos.ScoreAggregate
		err := ss.cache.GetJSON(ctx, sitewideReportKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			ss.log.Warn("report cache read failed", "error", err)
		}
	}

	agg, err := ss.metadataRepo.Aggregate(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, err
	}

	if ss.cache != nil {
		if err := ss.cache.SetJSON(ctx, sitewideReportKey, agg, sitewideReportTTL); err != nil {
			ss.log.Warn("report cache write failed", "error", err)
		}
	}
	return agg, nil
}

func (ss *seoService) invalidateReport(ctx context.Context) {
	if ss.cache == nil {
		return
	}
	if err := ss.cache.Delete(ctx, sitewideReportKey); err != nil {
		ss.log.Warn("report cache invalidation failed", "error", err)
	}
}
