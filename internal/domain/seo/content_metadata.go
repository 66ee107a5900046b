package seo

import (
	"time"

	"github.com/google/uuid"
)

type Variant string

const (
	VariantA Variant = "A"
	VariantB Variant = "B"
	VariantC Variant = "C"
)

func ParseVariant(s string) (Variant, bool) {
	switch Variant(s) {
	case VariantA, VariantB, VariantC:
		return Variant(s), true
	default:
		return "", false
	}
}

// ContentMetadata is the per-entity SEO record: title, three description
// variants, keywords and the derived quality score. QualityScore is
// recomputed in the same transaction as any write to the scored fields, so
// it is never stale. ManualOverride freezes the row against silent
// automated regeneration once a human has edited it.
type ContentMetadata struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProfileID  *uuid.UUID `gorm:"type:uuid;column:profile_id;uniqueIndex" json:"profile_id,omitempty"`
	BusinessID *uuid.UUID `gorm:"type:uuid;column:business_id;uniqueIndex" json:"business_id,omitempty"`

	SeoTitle     string `gorm:"column:seo_title" json:"seo_title"`
	DescriptionA string `gorm:"column:description_a;type:text" json:"description_a"`
	DescriptionB string `gorm:"column:description_b;type:text" json:"description_b"`
	DescriptionC string `gorm:"column:description_c;type:text" json:"description_c"`
	SeoKeywords  string `gorm:"column:seo_keywords;type:text" json:"seo_keywords"`

	ActiveVariant  Variant `gorm:"column:active_variant;not null;default:'A'" json:"active_variant"`
	QualityScore   int     `gorm:"column:quality_score;not null;default:0" json:"quality_score"`
	ManualOverride bool    `gorm:"column:manual_override;not null;default:false" json:"manual_override"`

	Slug string `gorm:"column:slug;index" json:"slug"`

	LastGeneratedAt *time.Time `gorm:"column:last_generated_at" json:"last_generated_at,omitempty"`
	LastReviewedAt  *time.Time `gorm:"column:last_reviewed_at" json:"last_reviewed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ContentMetadata) TableName() string { return "content_metadata" }

// Description returns the text for a variant, defaulting to A.
func (m *ContentMetadata) Description(v Variant) string {
	switch v {
	case VariantB:
		return m.DescriptionB
	case VariantC:
		return m.DescriptionC
	default:
		return m.DescriptionA
	}
}
