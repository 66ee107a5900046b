package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/listora/listora-backend/internal/domain"
)

func SeedProfile(tb testing.TB, ctx context.Context, tx *gorm.DB, owner uuid.UUID) *types.Profile {
	tb.Helper()
	p := &types.Profile{
		ID:          uuid.New(),
		OwnerUserID: owner,
		Name:        "Anna Novakova",
		Description: "Uklidove sluzby",
		Phone:       "+420123456789",
		City:        "Praha",
		Zip:         "11000",
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return p
}

func SeedBusiness(tb testing.TB, ctx context.Context, tx *gorm.DB, owner uuid.UUID) *types.Business {
	tb.Helper()
	b := &types.Business{
		ID:             uuid.New(),
		OwnerUserID:    owner,
		Name:           "Okna Plus s.r.o.",
		City:           "Brno",
		RegistrationNo: "12345678",
	}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed business: %v", err)
	}
	return b
}

func SeedPhoto(tb testing.TB, ctx context.Context, tx *gorm.DB, ref types.EntityRef, position int) *types.Photo {
	tb.Helper()
	p := &types.Photo{
		ID:       uuid.New(),
		URL:      "https://cdn.listora.example/photo.jpg",
		Position: position,
	}
	if ref.Type == types.EntityBusiness {
		p.BusinessID = &ref.ID
	} else {
		p.ProfileID = &ref.ID
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed photo: %v", err)
	}
	return p
}

func SeedFavorite(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, ref types.EntityRef) *types.Favorite {
	tb.Helper()
	f := &types.Favorite{
		ID:     uuid.New(),
		UserID: userID,
	}
	if ref.Type == types.EntityBusiness {
		f.BusinessID = &ref.ID
	} else {
		f.ProfileID = &ref.ID
	}
	if err := tx.WithContext(ctx).Create(f).Error; err != nil {
		tb.Fatalf("seed favorite: %v", err)
	}
	return f
}

func SeedPendingChange(tb testing.TB, ctx context.Context, tx *gorm.DB, ref types.EntityRef, submitter uuid.UUID) *types.PendingChange {
	tb.Helper()
	pc := &types.PendingChange{
		ID:                uuid.New(),
		SubmittedByUserID: submitter,
		Status:            types.StatusPending,
		OldData:           datatypes.JSON(`{}`),
		NewData:           datatypes.JSON(`{}`),
	}
	if ref.Type == types.EntityBusiness {
		pc.BusinessID = &ref.ID
	} else {
		pc.ProfileID = &ref.ID
	}
	if err := tx.WithContext(ctx).Create(pc).Error; err != nil {
		tb.Fatalf("seed pending change: %v", err)
	}
	return pc
}
