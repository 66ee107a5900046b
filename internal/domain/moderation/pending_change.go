package moderation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChangeStatus string

const (
	StatusPending  ChangeStatus = "pending"
	StatusApproved ChangeStatus = "approved"
	StatusRejected ChangeStatus = "rejected"
)

// PendingChange is a queued edit proposal against exactly one entity
// (profile XOR business). OldData is the point-in-time snapshot of the
// proposed fields captured at submission; NewData carries the replacement
// values plus an optional nested photo_changes block. Status moves from
// pending to approved or rejected exactly once and is terminal after that;
// a re-submission is always a new row.
type PendingChange struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProfileID  *uuid.UUID `gorm:"type:uuid;column:profile_id;index" json:"profile_id,omitempty"`
	BusinessID *uuid.UUID `gorm:"type:uuid;column:business_id;index" json:"business_id,omitempty"`

	SubmittedByUserID uuid.UUID `gorm:"type:uuid;not null;column:submitted_by_user_id;index" json:"submitted_by_user_id"`

	Status ChangeStatus `gorm:"not null;default:'pending';index" json:"status"`

	OldData datatypes.JSON `gorm:"column:old_data;type:jsonb;not null;default:'{}'" json:"old_data"`
	NewData datatypes.JSON `gorm:"column:new_data;type:jsonb;not null;default:'{}'" json:"new_data"`

	ReviewedByUserID *uuid.UUID `gorm:"type:uuid;column:reviewed_by_user_id" json:"reviewed_by_user_id,omitempty"`
	ReviewedAt       *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	ReviewNotes      string     `gorm:"column:review_notes;type:text" json:"review_notes"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (PendingChange) TableName() string { return "pending_change" }

func (pc *PendingChange) IsTerminal() bool {
	return pc.Status == StatusApproved || pc.Status == StatusRejected
}

// EntityRef resolves which entity the change targets.
func (pc *PendingChange) EntityRef() EntityRef {
	if pc.BusinessID != nil {
		return EntityRef{Type: EntityBusiness, ID: *pc.BusinessID}
	}
	if pc.ProfileID != nil {
		return EntityRef{Type: EntityProfile, ID: *pc.ProfileID}
	}
	return EntityRef{}
}
