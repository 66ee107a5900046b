package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Business is a company listing. Same dual gate as Profile.
type Business struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerUserID uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_user_id"`

	Name           string `gorm:"not null;column:name" json:"name"`
	Description    string `gorm:"column:description;type:text" json:"description"`
	Phone          string `gorm:"column:phone" json:"phone"`
	Website        string `gorm:"column:website" json:"website"`
	RegistrationNo string `gorm:"column:registration_no" json:"registration_no"`
	Street         string `gorm:"column:street" json:"street"`
	City           string `gorm:"column:city;index" json:"city"`
	Zip            string `gorm:"column:zip" json:"zip"`

	Approved bool `gorm:"not null;default:false;index" json:"approved"`
	Verified bool `gorm:"not null;default:false;index" json:"verified"`

	Photos []Photo `gorm:"foreignKey:BusinessID" json:"photos,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Business) TableName() string { return "business" }
