package catalog

import (
	"time"

	"github.com/google/uuid"
)

// ServiceOffering is one service a listing advertises (e.g. "window cleaning").
// Cascade-deleted with its entity.
type ServiceOffering struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProfileID  *uuid.UUID `gorm:"type:uuid;column:profile_id;index" json:"profile_id,omitempty"`
	BusinessID *uuid.UUID `gorm:"type:uuid;column:business_id;index" json:"business_id,omitempty"`

	Name     string `gorm:"not null;column:name" json:"name"`
	PriceCZK *int   `gorm:"column:price_czk" json:"price_czk,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ServiceOffering) TableName() string { return "service_offering" }
