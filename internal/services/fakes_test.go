package services

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/listora/listora-backend/internal/clients/openai"
	"github.com/listora/listora-backend/internal/clients/redis"
	moderationrepo "github.com/listora/listora-backend/internal/data/repos/moderation"
	"github.com/listora/listora-backend/internal/data/repos/seo"
	types "github.com/listora/listora-backend/internal/domain"
	"github.com/listora/listora-backend/internal/pkg/dbctx"
	pkgerr "github.com/listora/listora-backend/internal/pkg/errors"
)

// fakeStore is a shared in-memory backing for the fake repos. Failure
// injection is per operation name; the first matching call consumes nothing
// and every call keeps failing until the entry is removed.
type fakeStore struct {
	mu sync.Mutex

	profiles   map[uuid.UUID]*types.Profile
	businesses map[uuid.UUID]*types.Business
	photos     map[uuid.UUID]*types.Photo
	favorites  map[uuid.UUID]*types.Favorite
	reviews    map[uuid.UUID]*types.Review
	offerings  map[uuid.UUID]*types.ServiceOffering
	changes    map[uuid.UUID]*types.PendingChange
	metadata   map[uuid.UUID]*types.ContentMetadata // keyed by entity ID

	failures map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles:   map[uuid.UUID]*types.Profile{},
		businesses: map[uuid.UUID]*types.Business{},
		photos:     map[uuid.UUID]*types.Photo{},
		favorites:  map[uuid.UUID]*types.Favorite{},
		reviews:    map[uuid.UUID]*types.Review{},
		offerings:  map[uuid.UUID]*types.ServiceOffering{},
		changes:    map[uuid.UUID]*types.PendingChange{},
		metadata:   map[uuid.UUID]*types.ContentMetadata{},
		failures:   map[string]error{},
	}
}

func (s *fakeStore) failOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

func (s *fakeStore) failure(op string) error {
	return s.failures[op]
}

func photoMatches(p *types.Photo, ref types.EntityRef) bool {
	if ref.Type == types.EntityBusiness {
		return p.BusinessID != nil && *p.BusinessID == ref.ID
	}
	return p.ProfileID != nil && *p.ProfileID == ref.ID
}

func changeMatches(pc *types.PendingChange, ref types.EntityRef) bool {
	if ref.Type == types.EntityBusiness {
		return pc.BusinessID != nil && *pc.BusinessID == ref.ID
	}
	return pc.ProfileID != nil && *pc.ProfileID == ref.ID
}

// ---------- profiles ----------

type fakeProfileRepo struct{ s *fakeStore }

func (r *fakeProfileRepo) Create(_ dbctx.Context, profiles []*types.Profile) ([]*types.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range profiles {
		r.s.profiles[p.ID] = p
	}
	return profiles, nil
}

func (r *fakeProfileRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*types.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, pkgerr.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) GetByIDForUpdate(dbc dbctx.Context, id uuid.UUID) (*types.Profile, error) {
	return r.GetByID(dbc, id)
}

func (r *fakeProfileRepo) Save(_ dbctx.Context, profile *types.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("profile.save"); err != nil {
		return err
	}
	cp := *profile
	r.s.profiles[profile.ID] = &cp
	return nil
}

func (r *fakeProfileRepo) SetApproved(_ dbctx.Context, id uuid.UUID, approved bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return pkgerr.ErrNotFound
	}
	p.Approved = approved
	return nil
}

func (r *fakeProfileRepo) SetVerified(_ dbctx.Context, id uuid.UUID, verified bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return pkgerr.ErrNotFound
	}
	p.Verified = verified
	return nil
}

func (r *fakeProfileRepo) Delete(_ dbctx.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.profiles[id]; !ok {
		return pkgerr.ErrNotFound
	}
	delete(r.s.profiles, id)
	return nil
}

// ---------- businesses ----------

type fakeBusinessRepo struct{ s *fakeStore }

func (r *fakeBusinessRepo) Create(_ dbctx.Context, businesses []*types.Business) ([]*types.Business, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range businesses {
		r.s.businesses[b.ID] = b
	}
	return businesses, nil
}

func (r *fakeBusinessRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*types.Business, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.businesses[id]
	if !ok {
		return nil, pkgerr.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBusinessRepo) GetByIDForUpdate(dbc dbctx.Context, id uuid.UUID) (*types.Business, error) {
	return r.GetByID(dbc, id)
}

func (r *fakeBusinessRepo) Save(_ dbctx.Context, business *types.Business) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *business
	r.s.businesses[business.ID] = &cp
	return nil
}

func (r *fakeBusinessRepo) SetApproved(_ dbctx.Context, id uuid.UUID, approved bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.businesses[id]
	if !ok {
		return pkgerr.ErrNotFound
	}
	b.Approved = approved
	return nil
}

func (r *fakeBusinessRepo) SetVerified(_ dbctx.Context, id uuid.UUID, verified bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.businesses[id]
	if !ok {
		return pkgerr.ErrNotFound
	}
	b.Verified = verified
	return nil
}

func (r *fakeBusinessRepo) Delete(_ dbctx.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.businesses[id]; !ok {
		return pkgerr.ErrNotFound
	}
	delete(r.s.businesses, id)
	return nil
}

// ---------- photos ----------

type fakePhotoRepo struct{ s *fakeStore }

func (r *fakePhotoRepo) Create(_ dbctx.Context, photos []*types.Photo) ([]*types.Photo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("photo.create"); err != nil {
		return nil, err
	}
	for _, p := range photos {
		r.s.photos[p.ID] = p
	}
	return photos, nil
}

func (r *fakePhotoRepo) ListByEntity(_ dbctx.Context, ref types.EntityRef) ([]*types.Photo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*types.Photo
	for _, p := range r.s.photos {
		if photoMatches(p, ref) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *fakePhotoRepo) DeleteByIDs(_ dbctx.Context, ref types.EntityRef, ids []uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, id := range ids {
		if p, ok := r.s.photos[id]; ok && photoMatches(p, ref) {
			delete(r.s.photos, id)
			n++
		}
	}
	return n, nil
}

func (r *fakePhotoRepo) DeleteForEntity(_ dbctx.Context, ref types.EntityRef) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("photo.deleteForEntity"); err != nil {
		return err
	}
	for id, p := range r.s.photos {
		if photoMatches(p, ref) {
			delete(r.s.photos, id)
		}
	}
	return nil
}

// ---------- favorites / reviews / offerings ----------

type fakeFavoriteRepo struct{ s *fakeStore }

func (r *fakeFavoriteRepo) Create(_ dbctx.Context, favorites []*types.Favorite) ([]*types.Favorite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, f := range favorites {
		r.s.favorites[f.ID] = f
	}
	return favorites, nil
}

func (r *fakeFavoriteRepo) CountForEntity(_ dbctx.Context, ref types.EntityRef) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, f := range r.s.favorites {
		if ref.Type == types.EntityBusiness {
			if f.BusinessID != nil && *f.BusinessID == ref.ID {
				n++
			}
		} else if f.ProfileID != nil && *f.ProfileID == ref.ID {
			n++
		}
	}
	return n, nil
}

func (r *fakeFavoriteRepo) DeleteForEntity(_ dbctx.Context, ref types.EntityRef) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("favorite.deleteForEntity"); err != nil {
		return err
	}
	for id, f := range r.s.favorites {
		if ref.Type == types.EntityBusiness {
			if f.BusinessID != nil && *f.BusinessID == ref.ID {
				delete(r.s.favorites, id)
			}
		} else if f.ProfileID != nil && *f.ProfileID == ref.ID {
			delete(r.s.favorites, id)
		}
	}
	return nil
}

type fakeReviewRepo struct{ s *fakeStore }

func (r *fakeReviewRepo) Create(_ dbctx.Context, reviews []*types.Review) ([]*types.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rv := range reviews {
		r.s.reviews[rv.ID] = rv
	}
	return reviews, nil
}

func (r *fakeReviewRepo) ListByEntity(_ dbctx.Context, ref types.EntityRef) ([]*types.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*types.Review
	for _, rv := range r.s.reviews {
		if ref.Type == types.EntityBusiness {
			if rv.BusinessID != nil && *rv.BusinessID == ref.ID {
				out = append(out, rv)
			}
		} else if rv.ProfileID != nil && *rv.ProfileID == ref.ID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) DeleteForEntity(_ dbctx.Context, ref types.EntityRef) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, rv := range r.s.reviews {
		if ref.Type == types.EntityBusiness {
			if rv.BusinessID != nil && *rv.BusinessID == ref.ID {
				delete(r.s.reviews, id)
			}
		} else if rv.ProfileID != nil && *rv.ProfileID == ref.ID {
			delete(r.s.reviews, id)
		}
	}
	return nil
}

type fakeOfferingRepo struct{ s *fakeStore }

func (r *fakeOfferingRepo) Create(_ dbctx.Context, offerings []*types.ServiceOffering) ([]*types.ServiceOffering, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range offerings {
		r.s.offerings[o.ID] = o
	}
	return offerings, nil
}

func (r *fakeOfferingRepo) ListByEntity(_ dbctx.Context, ref types.EntityRef) ([]*types.ServiceOffering, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*types.ServiceOffering
	for _, o := range r.s.offerings {
		if ref.Type == types.EntityBusiness {
			if o.BusinessID != nil && *o.BusinessID == ref.ID {
				out = append(out, o)
			}
		} else if o.ProfileID != nil && *o.ProfileID == ref.ID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeOfferingRepo) DeleteForEntity(_ dbctx.Context, ref types.EntityRef) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, o := range r.s.offerings {
		if ref.Type == types.EntityBusiness {
			if o.BusinessID != nil && *o.BusinessID == ref.ID {
				delete(r.s.offerings, id)
			}
		} else if o.ProfileID != nil && *o.ProfileID == ref.ID {
			delete(r.s.offerings, id)
		}
	}
	return nil
}

// ---------- pending changes ----------

type fakePendingChangeRepo struct{ s *fakeStore }

func (r *fakePendingChangeRepo) Create(_ dbctx.Context, changes []*types.PendingChange) ([]*types.PendingChange, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now().UTC()
	for _, pc := range changes {
		if pc.CreatedAt.IsZero() {
			pc.CreatedAt = now
		}
		r.s.changes[pc.ID] = pc
	}
	return changes, nil
}

func (r *fakePendingChangeRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*types.PendingChange, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	pc, ok := r.s.changes[id]
	if !ok {
		return nil, pkgerr.ErrNotFound
	}
	cp := *pc
	return &cp, nil
}

func (r *fakePendingChangeRepo) GetByIDForUpdate(dbc dbctx.Context, id uuid.UUID) (*types.PendingChange, error) {
	return r.GetByID(dbc, id)
}

func (r *fakePendingChangeRepo) List(_ dbctx.Context, filter moderationrepo.ListFilter) ([]*types.PendingChange, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*types.PendingChange
	for _, pc := range r.s.changes {
		if filter.Status != "" && pc.Status != filter.Status {
			continue
		}
		switch filter.EntityType {
		case types.EntityProfile:
			if pc.ProfileID == nil {
				continue
			}
		case types.EntityBusiness:
			if pc.BusinessID == nil {
				continue
			}
		}
		cp := *pc
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *fakePendingChangeRepo) UpdateFields(_ dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	pc, ok := r.s.changes[id]
	if !ok {
		return pkgerr.ErrNotFound
	}
	if v, ok := updates["status"]; ok {
		pc.Status = v.(types.ChangeStatus)
	}
	if v, ok := updates["reviewed_by_user_id"]; ok {
		id := v.(uuid.UUID)
		pc.ReviewedByUserID = &id
	}
	if v, ok := updates["reviewed_at"]; ok {
		pc.ReviewedAt = v.(*time.Time)
	}
	if v, ok := updates["review_notes"]; ok {
		pc.ReviewNotes = v.(string)
	}
	return nil
}

func (r *fakePendingChangeRepo) CountSubmittedSince(_ dbctx.Context, submitterID uuid.UUID, since time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, pc := range r.s.changes {
		if pc.SubmittedByUserID == submitterID && !pc.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *fakePendingChangeRepo) DeleteForEntity(_ dbctx.Context, ref types.EntityRef) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, pc := range r.s.changes {
		if changeMatches(pc, ref) {
			delete(r.s.changes, id)
		}
	}
	return nil
}

// ---------- content metadata ----------

type fakeMetadataRepo struct{ s *fakeStore }

func metadataEntityID(meta *types.ContentMetadata) uuid.UUID {
	if meta.BusinessID != nil {
		return *meta.BusinessID
	}
	if meta.ProfileID != nil {
		return *meta.ProfileID
	}
	return uuid.Nil
}

func (r *fakeMetadataRepo) GetByEntity(_ dbctx.Context, ref types.EntityRef) (*types.ContentMetadata, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	meta, ok := r.s.metadata[ref.ID]
	if !ok {
		return nil, pkgerr.ErrNotFound
	}
	cp := *meta
	return &cp, nil
}

func (r *fakeMetadataRepo) GetByEntityForUpdate(dbc dbctx.Context, ref types.EntityRef) (*types.ContentMetadata, error) {
	return r.GetByEntity(dbc, ref)
}

func (r *fakeMetadataRepo) Create(_ dbctx.Context, meta *types.ContentMetadata) (*types.ContentMetadata, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if meta.ID == uuid.Nil {
		meta.ID = uuid.New()
	}
	cp := *meta
	r.s.metadata[metadataEntityID(meta)] = &cp
	return meta, nil
}

func (r *fakeMetadataRepo) Save(_ dbctx.Context, meta *types.ContentMetadata) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("metadata.save"); err != nil {
		return err
	}
	cp := *meta
	r.s.metadata[metadataEntityID(meta)] = &cp
	return nil
}

func (r *fakeMetadataRepo) Aggregate(_ dbctx.Context) (*seo.ScoreAggregate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	agg := &seo.ScoreAggregate{}
	var sum int64
	for _, meta := range r.s.metadata {
		agg.Total++
		sum += int64(meta.QualityScore)
		switch {
		case meta.QualityScore < 50:
			agg.Below50++
		case meta.QualityScore < 80:
			agg.From50To79++
		default:
			agg.From80Up++
		}
	}
	if agg.Total > 0 {
		agg.AverageScore = float64(sum) / float64(agg.Total)
	}
	return agg, nil
}

func (r *fakeMetadataRepo) DeleteForEntity(_ dbctx.Context, ref types.EntityRef) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.metadata, ref.ID)
	return nil
}

// ---------- collaborator and cache fakes ----------

type fakeGenerator struct {
	mu        sync.Mutex
	calls     int
	err       error
	candidate openai.MetadataCandidate
}

func (g *fakeGenerator) GenerateListingMetadata(_ context.Context, _ openai.MetadataRequest) (*openai.MetadataCandidate, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	cp := g.candidate
	return &cp, nil
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	hits int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	raw, ok := c.data[key]
	if !ok {
		return redis.ErrCacheMiss
	}
	c.hits++
	return json.Unmarshal(raw, out)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *fakeCache) Close() error { return nil }
