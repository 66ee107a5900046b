package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AuthorUserID uuid.UUID  `gorm:"type:uuid;not null;index" json:"author_user_id"`
	ProfileID    *uuid.UUID `gorm:"type:uuid;column:profile_id;index" json:"profile_id,omitempty"`
	BusinessID   *uuid.UUID `gorm:"type:uuid;column:business_id;index" json:"business_id,omitempty"`

	Rating int    `gorm:"not null;column:rating" json:"rating"`
	Text   string `gorm:"column:text;type:text" json:"text"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Review) TableName() string { return "review" }
