package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Photo belongs to exactly one of Profile or Business. Upload and storage are
// handled upstream; rows here only carry the served URL and ordering.
type Photo struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProfileID  *uuid.UUID `gorm:"type:uuid;column:profile_id;index" json:"profile_id,omitempty"`
	BusinessID *uuid.UUID `gorm:"type:uuid;column:business_id;index" json:"business_id,omitempty"`

	URL      string `gorm:"not null;column:url" json:"url"`
	Position int    `gorm:"column:position;default:0" json:"position"`
	IsMain   bool   `gorm:"column:is_main;default:false" json:"is_main"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Photo) TableName() string { return "photo" }
