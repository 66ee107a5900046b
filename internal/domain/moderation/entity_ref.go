package moderation

import (
	"fmt"

	"github.com/google/uuid"
)

type EntityType string

const (
	EntityProfile  EntityType = "profile"
	EntityBusiness EntityType = "business"
)

// EntityRef names one moderated entity.
type EntityRef struct {
	Type EntityType `json:"type"`
	ID   uuid.UUID  `json:"id"`
}

func ParseEntityType(s string) (EntityType, error) {
	switch EntityType(s) {
	case EntityProfile:
		return EntityProfile, nil
	case EntityBusiness:
		return EntityBusiness, nil
	default:
		return "", fmt.Errorf("unknown entity type %q", s)
	}
}

func (r EntityRef) String() string {
	return fmt.Sprintf("%s/%s", r.Type, r.ID)
}
