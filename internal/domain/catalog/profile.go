package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is an individual provider listed in the directory. It is publicly
// visible only once a moderator sets Approved; Verified adds the trust badge
// and is tracked independently.
type Profile struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerUserID uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_user_id"`

	Name        string `gorm:"not null;column:name" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description"`
	Phone       string `gorm:"column:phone" json:"phone"`
	Street      string `gorm:"column:street" json:"street"`
	City        string `gorm:"column:city;index" json:"city"`
	Zip         string `gorm:"column:zip" json:"zip"`

	YearsExperience int `gorm:"column:years_experience;default:0" json:"years_experience"`

	Approved bool `gorm:"not null;default:false;index" json:"approved"`
	Verified bool `gorm:"not null;default:false;index" json:"verified"`

	Photos []Photo `gorm:"foreignKey:ProfileID" json:"photos,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Profile) TableName() string { return "profile" }
