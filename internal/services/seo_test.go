package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listora/listora-backend/internal/clients/openai"
	types "github.com/listora/listora-backend/internal/domain"
	pkgerr "github.com/listora/listora-backend/internal/pkg/errors"
	"github.com/listora/listora-backend/internal/pkg/pointers"
	"github.com/listora/listora-backend/internal/requestdata"
	"github.com/listora/listora-backend/internal/seo/scoring"
)

func newSEOFixture(t *testing.T) (*fakeStore, *fakeGenerator, *fakeCache, SEOService) {
	t.Helper()
	s := newFakeStore()
	gen := &fakeGenerator{
		candidate: openai.MetadataCandidate{
			Title: "Anna Novakova | uklid Praha | Listora katalog sluzeb",
			Descriptions: [3]string{
				"too short",
				strings.Repeat("b", 155),
				strings.Repeat("c", 300),
			},
			Keywords: "uklid, praha, uklidove sluzby, cisteni, domacnost, kancelar, okna, podlahy, koberce, zehleni, pravidelny uklid, jednorazovy uklid, desinfekce",
		},
	}
	cache := newFakeCache()
	svc := NewSEOService(
		nil,
		testLogger(t),
		&fakeProfileRepo{s},
		&fakeBusinessRepo{s},
		&fakePhotoRepo{s},
		&fakeOfferingRepo{s},
		&fakeMetadataRepo{s},
		scoring.DefaultConfig(),
		gen,
		cache,
	)
	return s, gen, cache, svc
}

func TestRegenerateCreatesMetadata(t *testing.T) {
	s, gen, _, svc := newSEOFixture(t)
	profile := seedProfile(s, uuid.New())
	ref := types.EntityRef{Type: types.EntityProfile, ID: profile.ID}
	ctx := userCtx(uuid.New(), requestdata.RoleModerator)

	meta, err := svc.Regenerate(ctx, ref, RegenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)

	assert.Equal(t, gen.candidate.Title, meta.SeoTitle)
	assert.Equal(t, gen.candidate.Descriptions[1], meta.DescriptionB)
	assert.Equal(t, types.VariantB, meta.ActiveVariant, "only B hits the length window")
	assert.Equal(t, "anna-novakova-praha", meta.Slug)
	assert.False(t, meta.ManualOverride)
	assert.NotNil(t, meta.LastGeneratedAt)
	assert.Greater(t, meta.QualityScore, 0)
	assert.LessOrEqual(t, meta.QualityScore, 100)

	stored := s.metadata[profile.ID]
	require.NotNil(t, stored)
	assert.Equal(t, meta.QualityScore, stored.QualityScore)
}

func TestRegenerateRequiresModerator(t *testing.T) {
	s, _, _, svc := newSEOFixture(t)
	profile := seedProfile(s, uuid.New())
	ref := types.EntityRef{Type: types.EntityProfile, ID: profile.ID}

	_, err := svc.Regenerate(userCtx(uuid.New(), requestdata.RoleUser), ref, RegenerateOptions{})
	assert.ErrorIs(t, err, pkgerr.ErrUnauthorized)
}

func TestRegenerateRespectsManualOverride(t *testing.T) {
	s, gen, _, svc := newSEOFixture(t)
	profile := seedProfile(s, uuid.New())
	ref := types.EntityRef{Type: types.EntityProfile, ID: profile.ID}
	ctx := userCtx(uuid.New(), requestdata.RoleModerator)

	s.metadata[profile.ID] = &types.ContentMetadata{
		ID:             uuid.New(),
		ProfileID:      &profile.ID,
		SeoTitle:       "Hand-tuned title",
		ActiveVariant:  types.VariantA,
		ManualOverride: true,
	}

	_, err := svc.Regenerate(ctx, ref, RegenerateOptions{})
	require.ErrorIs(t, err, pkgerr.ErrManualOverride)
	assert.Equal(t, 0, gen.calls, "a blocked regeneration never calls the collaborator")
	assert.Equal(t, "Hand-tuned title", s.metadata[profile.ID].SeoTitle)

	forced, err := svc.Regenerate(ctx, ref, RegenerateOptions{Force: true})
	require.NoError(t, err)
	assert.Equal(t, gen.candidate.Title, forced.SeoTitle)
	assert.True(t, forced.ManualOverride, "force alone keeps the override flag")

	cleared, err := svc.Regenerate(ctx, ref, RegenerateOptions{Force: true, ClearOverride: true})
	require.NoError(t, err)
	assert.False(t, cleared.ManualOverride)
}

func TestRegenerateFailureLeavesMetadataUntouched(t *testing.T) {
	s, gen, _, svc := newSEOFixture(t)
	profile := seedProfile(s, uuid.New())
	ref := types.EntityRef{Type: types.EntityProfile, ID: profile.ID}
	ctx := userCtx(uuid.New(), requestdata.RoleModerator)

	existing := &types.ContentMetadata{
		ID:            uuid.New(),
		ProfileID:     &profile.ID,
		SeoTitle:      "Existing title",
		QualityScore:  42,
		ActiveVariant: types.VariantA,
	}
	s.metadata[profile.ID] = existing
	gen.err = assert.AnError

	_, err := svc.Regenerate(ctx, ref, RegenerateOptions{})
	require.ErrorIs(t, err, pkgerr.ErrExternalService)

	stored := s.metadata[profile.ID]
	assert.Equal(t, "Existing title", stored.SeoTitle)
	assert.Equal(t, 42, stored.QualityScore)
	assert.Nil(t, stored.LastGeneratedAt)
}

func TestUpdateSetsOverrideAndRescores(t *testing.T) {
	s, _, _, svc := newSEOFixture(t)
	profile := seedProfile(s, uuid.New())
	ref := types.EntityRef{Type: types.EntityProfile, ID: profile.ID}
	ctx := userCtx(uuid.New(), requestdata.RoleModerator)

	s.metadata[profile.ID] = &types.ContentMetadata{
		ID:            uuid.New(),
		ProfileID:     &profile.ID,
		SeoTitle:      "Old title",
		ActiveVariant: types.VariantA,
		QualityScore:  10,
	}

	meta, err := svc.Update(ctx, ref, MetadataUpdate{
		SeoTitle: pointers.String("Anna Novakova | uklid Praha 5 | Listora katalog.."),
	})
	require.NoError(t, err)
	assert.True(t, meta.ManualOverride)
	assert.NotNil(t, meta.LastReviewedAt)
	assert.NotEqual(t, 10, meta.QualityScore, "score is recomputed with the edit")
	assert.Equal(t, meta.QualityScore, s.metadata[profile.ID].QualityScore)
}

func TestUpdateValidation(t *testing.T) {
	s, _, _, svc := newSEOFixture(t)
	profile := seedProfile(s, uuid.New())
	ref := types.EntityRef{Type: types.EntityProfile, ID: profile.ID}

	_, err := svc.Update(userCtx(uuid.New(), requestdata.RoleModerator), ref, MetadataUpdate{})
	assert.ErrorIs(t, err, pkgerr.ErrInvalidArgument)

	_, err = svc.Update(userCtx(uuid.New(), requestdata.RoleUser), ref, MetadataUpdate{SeoTitle: pointers.String("x")})
	assert.ErrorIs(t, err, pkgerr.ErrUnauthorized)
}

func TestSetActiveVariant(t *testing.T) {
	s, _, _, svc := newSEOFixture(t)
	profile := seedProfile(s, uuid.New())
	ref := types.EntityRef{Type: types.EntityProfile, ID: profile.ID}
	ctx := userCtx(uuid.New(), requestdata.RoleModerator)

	s.metadata[profile.ID] = &types.ContentMetadata{
		ID:            uuid.New(),
		ProfileID:     &profile.ID,
		ActiveVariant: types.VariantA,
	}

	meta, err := svc.SetActiveVariant(ctx, ref, types.VariantC)
	require.NoError(t, err)
	assert.Equal(t, types.VariantC, meta.ActiveVariant)
	assert.True(t, meta.ManualOverride, "pinning marks the record overridden")

	_, err = svc.SetActiveVariant(ctx, ref, types.Variant("D"))
	assert.ErrorIs(t, err, pkgerr.ErrInvalidArgument)
}

func TestRegeneratePreservesPinnedVariant(t *testing.T) {
	s, gen, _, svc := newSEOFixture(t)
	profile := seedProfile(s, uuid.New())
	ref := types.EntityRef{Type: types.EntityProfile, ID: profile.ID}
	ctx := userCtx(uuid.New(), requestdata.RoleModerator)

	s.metadata[profile.ID] = &types.ContentMetadata{
		ID:            uuid.New(),
		ProfileID:     &profile.ID,
		SeoTitle:      "Hand-checked title",
		ActiveVariant: types.VariantA,
	}

	pinned, err := svc.SetActiveVariant(ctx, ref, types.VariantC)
	require.NoError(t, err)
	require.True(t, pinned.ManualOverride)

	// Pinning blocks unforced regeneration outright.
	_, err = svc.Regenerate(ctx, ref, RegenerateOptions{})
	require.ErrorIs(t, err, pkgerr.ErrManualOverride)
	assert.Equal(t, 0, gen.calls)
	assert.Equal(t, "Hand-checked title", s.metadata[profile.ID].SeoTitle)

	// A forced regeneration rewrites the text but keeps the pinned variant.
	forced, err := svc.Regenerate(ctx, ref, RegenerateOptions{Force: true})
	require.NoError(t, err)
	assert.Equal(t, gen.candidate.Title, forced.SeoTitle)
	assert.Equal(t, types.VariantC, forced.ActiveVariant)
	assert.True(t, forced.ManualOverride)

	// Clearing the pin hands variant selection back to the scorer.
	cleared, err := svc.Regenerate(ctx, ref, RegenerateOptions{Force: true, ClearOverride: true})
	require.NoError(t, err)
	assert.Equal(t, types.VariantB, cleared.ActiveVariant, "only B hits the length window")
	assert.False(t, cleared.ManualOverride)
}

func TestBulkRegeneratePartialFailure(t *testing.T) {
	s, _, _, svc := newSEOFixture(t)
	a := seedProfile(s, uuid.New())
	b := seedProfile(s, uuid.New())
	ctx := userCtx(uuid.New(), requestdata.RoleModerator)

	refs := []types.EntityRef{
		{Type: types.EntityProfile, ID: a.ID},
		{Type: types.EntityProfile, ID: uuid.New()},
		{Type: types.EntityProfile, ID: b.ID},
	}
	results := svc.BulkRegenerate(ctx, refs, RegenerateOptions{})
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, pkgerr.ErrNotFound)
	assert.NoError(t, results[2].Err)

	assert.Contains(t, s.metadata, a.ID)
	assert.Contains(t, s.metadata, b.ID)
}

func TestSitewideReportUsesCache(t *testing.T) {
	s, _, cache, svc := newSEOFixture(t)
	ctx := userCtx(uuid.New(), requestdata.RoleModerator)

	p := seedProfile(s, uuid.New())
	s.metadata[p.ID] = &types.ContentMetadata{ID: uuid.New(), ProfileID: &p.ID, QualityScore: 90, ActiveVariant: types.VariantA}

	first, err := svc.SitewideReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Total)
	assert.Equal(t, int64(1), first.From80Up)

	// A second read within the TTL is served from the cache and does not see
	// fresh rows.
	q := seedProfile(s, uuid.New())
	s.metadata[q.ID] = &types.ContentMetadata{ID: uuid.New(), ProfileID: &q.ID, QualityScore: 10, ActiveVariant: types.VariantA}

	second, err := svc.SitewideReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), second.Total)
	assert.Equal(t, 1, cache.hits)

	// A metadata write invalidates the report.
	ref := types.EntityRef{Type: types.EntityProfile, ID: p.ID}
	_, err = svc.Update(ctx, ref, MetadataUpdate{SeoKeywords: pointers.String("a, b, c")})
	require.NoError(t, err)

	third, err := svc.SitewideReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), third.Total)
}

func TestGetCreatesEmptyMetadataOnFirstTouch(t *testing.T) {
	s, gen, _, svc := newSEOFixture(t)
	profile := seedProfile(s, uuid.New())
	ref := types.EntityRef{Type: types.EntityProfile, ID: profile.ID}
	ctx := userCtx(uuid.New(), requestdata.RoleUser)

	meta, err := svc.Get(ctx, ref)
	require.NoError(t, err)
	assert.Empty(t, meta.SeoTitle)
	assert.Equal(t, types.VariantA, meta.ActiveVariant)
	assert.Equal(t, 0, gen.calls, "first touch never calls the generator")
	require.NotNil(t, s.metadata[profile.ID])

	again, err := svc.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, meta.ID, again.ID)

	_, err = svc.Get(ctx, types.EntityRef{Type: types.EntityProfile, ID: uuid.New()})
	assert.ErrorIs(t, err, pkgerr.ErrNotFound)
}

func TestRescoreEntityKeepsTextAndOverride(t *testing.T) {
	s, gen, _, svc := newSEOFixture(t)
	profile := seedProfile(s, uuid.New())
	ref := types.EntityRef{Type: types.EntityProfile, ID: profile.ID}
	ctx := userCtx(uuid.New(), requestdata.RoleModerator)

	s.metadata[profile.ID] = &types.ContentMetadata{
		ID:             uuid.New(),
		ProfileID:      &profile.ID,
		SeoTitle:       "Anna Novakova | uklid Praha | Listora katalog sluzeb",
		ActiveVariant:  types.VariantA,
		ManualOverride: true,
		QualityScore:   1,
	}

	meta, err := svc.RescoreEntity(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, 0, gen.calls)
	assert.Equal(t, "Anna Novakova | uklid Praha | Listora katalog sluzeb", meta.SeoTitle)
	assert.True(t, meta.ManualOverride)
	assert.NotEqual(t, 1, meta.QualityScore, "stale score recomputed from live state")
	assert.Equal(t, meta.QualityScore, s.metadata[profile.ID].QualityScore)
}
