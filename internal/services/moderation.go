package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/listora/listora-backend/internal/data/repos"
	types "github.com/listora/listora-backend/internal/domain"
	"github.com/listora/listora-backend/internal/moderation/diff"
	"github.com/listora/listora-backend/internal/pkg/dbctx"
	pkgerr "github.com/listora/listora-backend/internal/pkg/errors"
	"github.com/listora/listora-backend/internal/platform/logger"
	"github.com/listora/listora-backend/internal/requestdata"
)

// PendingChangeSummary is a queue row enriched with the submitter's rolling
// calendar-month submission count. The count is informational for the
// moderator UI and never blocks a submission.
type PendingChangeSummary struct {
	Change                *types.PendingChange `json:"change"`
	SubmitterMonthlyCount int64                `json:"submitter_monthly_count"`
}

// BulkResult reports one item of a bulk gate operation. Items fail
// independently; one bad ID never aborts the rest.
type BulkResult struct {
	Ref types.EntityRef `json:"ref"`
	Err error           `json:"-"`
}

type ModerationService interface {
	SubmitChange(ctx context.Context, ref types.EntityRef, proposal diff.ChangeSet) (*types.PendingChange, error)
	Review(ctx context.Context, changeID uuid.UUID, approve bool, notes string) (*types.PendingChange, error)
	// ListPending returns the moderation queue, newest first. An empty
	// status filter defaults to pending; pass repos.StatusAll to include
	// reviewed history.
	ListPending(ctx context.Context, filter repos.PendingChangeListFilter) ([]*PendingChangeSummary, error)
	MonthlySubmissionCount(ctx context.Context, submitterID uuid.UUID) (int64, error)

	SetApproval(ctx context.Context, ref types.EntityRef, approved bool) error
	SetVerification(ctx context.Context, ref types.EntityRef, verified bool) error
	BulkSetApproval(ctx context.Context, refs []types.EntityRef, approved bool) []BulkResult
	BulkSetVerification(ctx context.Context, refs []types.EntityRef, verified bool) []BulkResult

	DeleteEntity(ctx context.Context, ref types.EntityRef) error
}

type moderationService struct {
	db  *gorm.DB
	log *logger.Logger

	profileRepo  repos.ProfileRepo
	businessRepo repos.BusinessRepo
	photoRepo    repos.PhotoRepo
	favoriteRepo repos.FavoriteRepo
	reviewRepo   repos.ReviewRepo
	offeringRepo repos.ServiceOfferingRepo
	pendingRepo  repos.PendingChangeRepo
	metadataRepo repos.ContentMetadataRepo

	sanitizer *bluemonday.Policy
}

func NewModerationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	profileRepo repos.ProfileRepo,
	businessRepo repos.BusinessRepo,
	photoRepo repos.PhotoRepo,
	favoriteRepo repos.FavoriteRepo,
	reviewRepo repos.ReviewRepo,
	offeringRepo repos.ServiceOfferingRepo,
	pendingRepo repos.PendingChangeRepo,
	metadataRepo repos.ContentMetadataRepo,
) ModerationService {
	return &moderationService{
		db:           db,
		log:          baseLog.With("service", "ModerationService"),
		profileRepo:  profileRepo,
		businessRepo: businessRepo,
		photoRepo:    photoRepo,
		favoriteRepo: favoriteRepo,
		reviewRepo:   reviewRepo,
		offeringRepo: offeringRepo,
		pendingRepo:  pendingRepo,
		metadataRepo: metadataRepo,
		sanitizer:    bluemonday.StrictPolicy(),
	}
}

// entityState is the slice of a live entity the workflow decisions need.
type entityState struct {
	owner    uuid.UUID
	approved bool
	verified bool
	profile  *types.Profile
	business *types.Business
}

func (ms *moderationService) loadEntity(dbc dbctx.Context, ref types.EntityRef, forUpdate bool) (*entityState, error) {
	switch ref.Type {
	case types.EntityProfile:
		var (
			p   *types.Profile
			err error
		)
		if forUpdate {
			p, err = ms.profileRepo.GetByIDForUpdate(dbc, ref.ID)
		} else {
			p, err = ms.profileRepo.GetByID(dbc, ref.ID)
		}
		if err != nil {
			return nil, err
		}
		return &entityState{owner: p.OwnerUserID, approved: p.Approved, verified: p.Verified, profile: p}, nil
	case types.EntityBusiness:
		var (
			b   *types.Business
			err error
		)
		if forUpdate {
			b, err = ms.businessRepo.GetByIDForUpdate(dbc, ref.ID)
		} else {
			b, err = ms.businessRepo.GetByID(dbc, ref.ID)
		}
		if err != nil {
			return nil, err
		}
		return &entityState{owner: b.OwnerUserID, approved: b.Approved, verified: b.Verified, business: b}, nil
	default:
		return nil, fmt.Errorf("%w: unknown entity type %q", pkgerr.ErrInvalidArgument, ref.Type)
	}
}

// ==========================================
// Change submission
// ==========================================

func (ms *moderationService) SubmitChange(ctx context.Context, ref types.EntityRef, proposal diff.ChangeSet) (*types.PendingChange, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, pkgerr.ErrUnauthorized
	}

	if ref.Type == types.EntityProfile && proposal.Business != nil {
		return nil, fmt.Errorf("%w: business fields proposed against a profile", pkgerr.ErrInvalidArgument)
	}
	if ref.Type == types.EntityBusiness && proposal.Profile != nil {
		return nil, fmt.Errorf("%w: profile fields proposed against a business", pkgerr.ErrInvalidArgument)
	}

	ms.sanitizeProposal(&proposal)

	if proposal.IsEmpty() {
		return nil, pkgerr.ErrEmptyChange
	}

	dbc := dbctx.Context{Ctx: ctx}
	state, err := ms.loadEntity(dbc, ref, false)
	if err != nil {
		return nil, err
	}
	if state.owner != rd.UserID && !rd.IsModerator() {
		return nil, pkgerr.ErrUnauthorized
	}

	var oldPayload, newPayload diff.Payload
	if proposal.Profile != nil {
		oldFields, newFields := diff.ComputeProfile(state.profile, *proposal.Profile)
		if !oldFields.IsZero() || !newFields.IsZero() {
			oldPayload.Profile, newPayload.Profile = &oldFields, &newFields
		}
	}
	if proposal.Business != nil {
		oldFields, newFields := diff.ComputeBusiness(state.business, *proposal.Business)
		if !oldFields.IsZero() || !newFields.IsZero() {
			oldPayload.Business, newPayload.Business = &oldFields, &newFields
		}
	}
	if !proposal.Photos.IsZero() {
		newPayload.PhotoChanges = proposal.Photos
	}

	oldRaw, err := diff.EncodePayload(oldPayload)
	if err != nil {
		return nil, fmt.Errorf("encode old payload: %w", err)
	}
	newRaw, err := diff.EncodePayload(newPayload)
	if err != nil {
		return nil, fmt.Errorf("encode new payload: %w", err)
	}

	change := &types.PendingChange{
		ID:                uuid.New(),
		SubmittedByUserID: rd.UserID,
		Status:            types.StatusPending,
		OldData:           datatypes.JSON(oldRaw),
		NewData:           datatypes.JSON(newRaw),
	}
	if ref.Type == types.EntityBusiness {
		change.BusinessID = &ref.ID
	} else {
		change.ProfileID = &ref.ID
	}

	if _, err := ms.pendingRepo.Create(dbc, []*types.PendingChange{change}); err != nil {
		ms.log.Error("SubmitChange failed", "entity_type", ref.Type, "entity_id", ref.ID, "error", err)
		return nil, fmt.Errorf("create pending change: %w", err)
	}

	ms.log.Info("change submitted",
		"change_id", change.ID,
		"entity_type", ref.Type,
		"entity_id", ref.ID,
		"submitted_by", rd.UserID,
	)
	return change, nil
}

// sanitizeProposal strips any HTML from submitted free-text fields before the
// diff is computed, so the stored snapshot is already clean.
func (ms *moderationService) sanitizeProposal(proposal *diff.ChangeSet) {
	clean := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := ms.sanitizer.Sanitize(*s)
		return &v
	}
	if p := proposal.Profile; p != nil {
		p.Name = clean(p.Name)
		p.Description = clean(p.Description)
		p.Phone = clean(p.Phone)
		p.Street = clean(p.Street)
		p.City = clean(p.City)
		p.Zip = clean(p.Zip)
	}
	if b := proposal.Business; b != nil {
		b.Name = clean(b.Name)
		b.Description = clean(b.Description)
		b.Phone = clean(b.Phone)
		b.Website = clean(b.Website)
		b.RegistrationNo = clean(b.RegistrationNo)
		b.Street = clean(b.Street)
		b.City = clean(b.City)
		b.Zip = clean(b.Zip)
	}
}

// ==========================================
// Review
// ==========================================

// Review resolves one pending change. Approval applies the stored new_data to
// the live entity and the photo store inside the same transaction that flips
// the status, so a failed apply leaves the change pending and the entity
// untouched.
func (ms *moderationService) Review(ctx context.Context, changeID uuid.UUID, approve bool, notes string) (*types.PendingChange, error) {
	rd := requestdata.GetRequestData(ctx)
	if !rd.IsModerator() {
		return nil, pkgerr.ErrUnauthorized
	}

	var reviewed *types.PendingChange
	err := runInTx(ctx, ms.db, func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		change, err := ms.pendingRepo.GetByIDForUpdate(dbc, changeID)
		if err != nil {
			return err
		}
		if change.IsTerminal() {
			return pkgerr.ErrAlreadyReviewed
		}

		if approve {
			if err := ms.applyChange(dbc, change); err != nil {
				return err
			}
		}

		status := types.StatusRejected
		if approve {
			status = types.StatusApproved
		}
		now := time.Now().UTC()
		if err := ms.pendingRepo.UpdateFields(dbc, change.ID, map[string]interface{}{
			"status":              status,
			"reviewed_by_user_id": rd.UserID,
			"reviewed_at":         &now,
			"review_notes":        notes,
		}); err != nil {
			return err
		}

		reviewed, err = ms.pendingRepo.GetByID(dbc, change.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	ms.log.Info("change reviewed",
		"change_id", changeID,
		"approved", approve,
		"reviewed_by", rd.UserID,
	)
	return reviewed, nil
}

func (ms *moderationService) applyChange(dbc dbctx.Context, change *types.PendingChange) error {
	payload, err := diff.DecodePayload(change.NewData)
	if err != nil {
		return fmt.Errorf("decode new payload: %w", err)
	}

	ref := change.EntityRef()
	state, err := ms.loadEntity(dbc, ref, true)
	if err != nil {
		return err
	}

	if payload.Profile != nil {
		diff.ApplyProfile(state.profile, *payload.Profile)
		if err := ms.profileRepo.Save(dbc, state.profile); err != nil {
			return fmt.Errorf("apply profile fields: %w", err)
		}
	}
	if payload.Business != nil {
		diff.ApplyBusiness(state.business, *payload.Business)
		if err := ms.businessRepo.Save(dbc, state.business); err != nil {
			return fmt.Errorf("apply business fields: %w", err)
		}
	}

	if pc := payload.PhotoChanges; !pc.IsZero() {
		if _, err := ms.photoRepo.DeleteByIDs(dbc, ref, pc.PhotosToDelete); err != nil {
			return fmt.Errorf("delete photos: %w", err)
		}
		photos := make([]*types.Photo, len(pc.NewPhotos))
		for i, np := range pc.NewPhotos {
			photo := &types.Photo{
				ID:       uuid.New(),
				URL:      np.URL,
				Position: np.Position,
				IsMain:   np.IsMain,
			}
			if ref.Type == types.EntityBusiness {
				photo.BusinessID = &ref.ID
			} else {
				photo.ProfileID = &ref.ID
			}
			photos[i] = photo
		}
		if _, err := ms.photoRepo.Create(dbc, photos); err != nil {
			return fmt.Errorf("create photos: %w", err)
		}
	}
	return nil
}

// ==========================================
// Queue reads
// ==========================================

func (ms *moderationService) ListPending(ctx context.Context, filter repos.PendingChangeListFilter) ([]*PendingChangeSummary, error) {
	rd := requestdata.GetRequestData(ctx)
	if !rd.IsModerator() {
		return nil, pkgerr.ErrUnauthorized
	}
	switch filter.Status {
	case "":
		filter.Status = types.StatusPending
	case repos.StatusAll:
		filter.Status = ""
	}

	dbc := dbctx.Context{Ctx: ctx}
	changes, err := ms.pendingRepo.List(dbc, filter)
	if err != nil {
		return nil, err
	}

	// One count query per distinct submitter in the page.
	counts := make(map[uuid.UUID]int64)
	since := monthStart(time.Now().UTC())
	out := make([]*PendingChangeSummary, len(changes))
	for i, change := range changes {
		count, ok := counts[change.SubmittedByUserID]
		if !ok {
			count, err = ms.pendingRepo.CountSubmittedSince(dbc, change.SubmittedByUserID, since)
			if err != nil {
				return nil, err
			}
			counts[change.SubmittedByUserID] = count
		}
		out[i] = &PendingChangeSummary{Change: change, SubmitterMonthlyCount: count}
	}
	return out, nil
}

func (ms *moderationService) MonthlySubmissionCount(ctx context.Context, submitterID uuid.UUID) (int64, error) {
	dbc := dbctx.Context{Ctx: ctx}
	return ms.pendingRepo.CountSubmittedSince(dbc, submitterID, monthStart(time.Now().UTC()))
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ==========================================
// Publication gates
// ==========================================

func (ms *moderationService) SetApproval(ctx context.Context, ref types.EntityRef, approved bool) error {
	return ms.setGate(ctx, ref, "approved", approved)
}

// SetVerification flips the trust badge. Verified is tracked independently of
// Approved: verifying an unapproved entity is legal and only logged.
func (ms *moderationService) SetVerification(ctx context.Context, ref types.EntityRef, verified bool) error {
	return ms.setGate(ctx, ref, "verified", verified)
}

func (ms *moderationService) setGate(ctx context.Context, ref types.EntityRef, gate string, value bool) error {
	rd := requestdata.GetRequestData(ctx)
	if !rd.IsModerator() {
		return pkgerr.ErrUnauthorized
	}

	dbc := dbctx.Context{Ctx: ctx}
	if gate == "verified" && value {
		state, err := ms.loadEntity(dbc, ref, false)
		if err != nil {
			return err
		}
		if !state.approved {
			ms.log.Warn("verifying an unapproved entity",
				"entity_type", ref.Type,
				"entity_id", ref.ID,
			)
		}
	}

	var err error
	switch {
	case ref.Type == types.EntityBusiness && gate == "approved":
		err = ms.businessRepo.SetApproved(dbc, ref.ID, value)
	case ref.Type == types.EntityBusiness:
		err = ms.businessRepo.SetVerified(dbc, ref.ID, value)
	case gate == "approved":
		err = ms.profileRepo.SetApproved(dbc, ref.ID, value)
	default:
		err = ms.profileRepo.SetVerified(dbc, ref.ID, value)
	}
	if err != nil {
		return err
	}

	ms.log.Info("gate updated",
		"entity_type", ref.Type,
		"entity_id", ref.ID,
		"gate", gate,
		"value", value,
	)
	return nil
}

func (ms *moderationService) BulkSetApproval(ctx context.Context, refs []types.EntityRef, approved bool) []BulkResult {
	return ms.bulkGate(ctx, refs, func(ref types.EntityRef) error {
		return ms.SetApproval(ctx, ref, approved)
	})
}

func (ms *moderationService) BulkSetVerification(ctx context.Context, refs []types.EntityRef, verified bool) []BulkResult {
	return ms.bulkGate(ctx, refs, func(ref types.EntityRef) error {
		return ms.SetVerification(ctx, ref, verified)
	})
}

func (ms *moderationService) bulkGate(ctx context.Context, refs []types.EntityRef, op func(types.EntityRef) error) []BulkResult {
	results := make([]BulkResult, len(refs))
	for i, ref := range refs {
		results[i] = BulkResult{Ref: ref, Err: op(ref)}
	}
	return results
}

// ==========================================
// Cascade delete
// ==========================================

// DeleteEntity removes a listing and every dependent row in one transaction:
// photos, favorites, reviews, offerings, its moderation history and its SEO
// metadata. Any failure rolls the whole cascade back.
func (ms *moderationService) DeleteEntity(ctx context.Context, ref types.EntityRef) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return pkgerr.ErrUnauthorized
	}

	err := runInTx(ctx, ms.db, func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		state, err := ms.loadEntity(dbc, ref, true)
		if err != nil {
			return err
		}
		if state.owner != rd.UserID && !rd.IsModerator() {
			return pkgerr.ErrUnauthorized
		}

		if err := ms.photoRepo.DeleteForEntity(dbc, ref); err != nil {
			return fmt.Errorf("delete photos: %w", err)
		}
		if err := ms.favoriteRepo.DeleteForEntity(dbc, ref); err != nil {
			return fmt.Errorf("delete favorites: %w", err)
		}
		if err := ms.reviewRepo.DeleteForEntity(dbc, ref); err != nil {
			return fmt.Errorf("delete reviews: %w", err)
		}
		if err := ms.offeringRepo.DeleteForEntity(dbc, ref); err != nil {
			return fmt.Errorf("delete offerings: %w", err)
		}
		if err := ms.pendingRepo.DeleteForEntity(dbc, ref); err != nil {
			return fmt.Errorf("delete pending changes: %w", err)
		}
		if err := ms.metadataRepo.DeleteForEntity(dbc, ref); err != nil {
			return fmt.Errorf("delete metadata: %w", err)
		}

		if ref.Type == types.EntityBusiness {
			return ms.businessRepo.Delete(dbc, ref.ID)
		}
		return ms.profileRepo.Delete(dbc, ref.ID)
	})
	if err != nil {
		if isDomainErr(err) {
			return err
		}
		ms.log.Error("DeleteEntity cascade failed", "entity_type", ref.Type, "entity_id", ref.ID, "error", err)
		return fmt.Errorf("%w: %v", pkgerr.ErrConflict, err)
	}

	ms.log.Info("entity deleted", "entity_type", ref.Type, "entity_id", ref.ID)
	return nil
}
