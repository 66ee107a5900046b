package catalog

import (
	"time"

	"github.com/google/uuid"
)

type Favorite struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	ProfileID  *uuid.UUID `gorm:"type:uuid;column:profile_id;index" json:"profile_id,omitempty"`
	BusinessID *uuid.UUID `gorm:"type:uuid;column:business_id;index" json:"business_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Favorite) TableName() string { return "favorite" }
