// Package diff computes and applies moderated change payloads. A change is
// expressed as typed per-entity field sets (nil pointer = field not proposed)
// so the applier is exhaustively checked at compile time instead of walking
// untyped maps.
package diff

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/listora/listora-backend/internal/domain/catalog"
)

// ProfileFields covers the mutable public fields of a Profile. A nil field is
// absent from the proposal and appears in neither old_data nor new_data.
type ProfileFields struct {
	Name            *string `json:"name,omitempty"`
	Description     *string `json:"description,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Street          *string `json:"street,omitempty"`
	City            *string `json:"city,omitempty"`
	Zip             *string `json:"zip,omitempty"`
	YearsExperience *int    `json:"years_experience,omitempty"`
}

// BusinessFields covers the mutable public fields of a Business.
type BusinessFields struct {
	Name           *string `json:"name,omitempty"`
	Description    *string `json:"description,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Website        *string `json:"website,omitempty"`
	RegistrationNo *string `json:"registration_no,omitempty"`
	Street         *string `json:"street,omitempty"`
	City           *string `json:"city,omitempty"`
	Zip            *string `json:"zip,omitempty"`
}

// NewPhoto is a photo blob already placed by the upload pipeline; only the
// served URL and ordering reach this core.
type NewPhoto struct {
	URL      string `json:"url"`
	Position int    `json:"position"`
	IsMain   bool   `json:"is_main"`
}

// PhotoChanges is supplied by the caller verbatim and nested under new_data
// only. The "old" photo state is whatever the live entity holds and is not
// duplicated into the snapshot.
type PhotoChanges struct {
	PhotosToDelete []uuid.UUID `json:"photos_to_delete,omitempty"`
	NewPhotos      []NewPhoto  `json:"new_photos,omitempty"`
}

// ChangeSet is a submitter's full proposal against one entity. Exactly one of
// Profile/Business is set, matching the target ref.
type ChangeSet struct {
	Profile  *ProfileFields  `json:"profile,omitempty"`
	Business *BusinessFields `json:"business,omitempty"`
	Photos   *PhotoChanges   `json:"photo_changes,omitempty"`
}

// Payload is the stored shape of old_data and new_data. PhotoChanges is
// present on new_data only.
type Payload struct {
	Profile      *ProfileFields  `json:"profile,omitempty"`
	Business     *BusinessFields `json:"business,omitempty"`
	PhotoChanges *PhotoChanges   `json:"photo_changes,omitempty"`
}

func (f ProfileFields) IsZero() bool {
	return f.Name == nil &&
		f.Description == nil &&
		f.Phone == nil &&
		f.Street == nil &&
		f.City == nil &&
		f.Zip == nil &&
		f.YearsExperience == nil
}

func (f BusinessFields) IsZero() bool {
	return f.Name == nil &&
		f.Description == nil &&
		f.Phone == nil &&
		f.Website == nil &&
		f.RegistrationNo == nil &&
		f.Street == nil &&
		f.City == nil &&
		f.Zip == nil
}

func (pc *PhotoChanges) IsZero() bool {
	return pc == nil || (len(pc.PhotosToDelete) == 0 && len(pc.NewPhotos) == 0)
}

// IsEmpty reports whether the proposal changes nothing at all. The service
// must reject empty proposals before creating a PendingChange row.
func (cs ChangeSet) IsEmpty() bool {
	fieldsEmpty := true
	if cs.Profile != nil && !cs.Profile.IsZero() {
		fieldsEmpty = false
	}
	if cs.Business != nil && !cs.Business.IsZero() {
		fieldsEmpty = false
	}
	return fieldsEmpty && cs.Photos.IsZero()
}

// ComputeProfile snapshots the before-values of every proposed field into old
// and the proposed values into new. Unproposed fields stay nil on both sides,
// keeping the stored diff minimal for audit display.
func ComputeProfile(before *catalog.Profile, proposed ProfileFields) (old, new ProfileFields) {
	if proposed.Name != nil {
		old.Name, new.Name = ptr(before.Name), proposed.Name
	}
	if proposed.Description != nil {
		old.Description, new.Description = ptr(before.Description), proposed.Description
	}
	if proposed.Phone != nil {
		old.Phone, new.Phone = ptr(before.Phone), proposed.Phone
	}
	if proposed.Street != nil {
		old.Street, new.Street = ptr(before.Street), proposed.Street
	}
	if proposed.City != nil {
		old.City, new.City = ptr(before.City), proposed.City
	}
	if proposed.Zip != nil {
		old.Zip, new.Zip = ptr(before.Zip), proposed.Zip
	}
	if proposed.YearsExperience != nil {
		old.YearsExperience, new.YearsExperience = ptr(before.YearsExperience), proposed.YearsExperience
	}
	return old, new
}

func ComputeBusiness(before *catalog.Business, proposed BusinessFields) (old, new BusinessFields) {
	if proposed.Name != nil {
		old.Name, new.Name = ptr(before.Name), proposed.Name
	}
	if proposed.Description != nil {
		old.Description, new.Description = ptr(before.Description), proposed.Description
	}
	if proposed.Phone != nil {
		old.Phone, new.Phone = ptr(before.Phone), proposed.Phone
	}
	if proposed.Website != nil {
		old.Website, new.Website = ptr(before.Website), proposed.Website
	}
	if proposed.RegistrationNo != nil {
		old.RegistrationNo, new.RegistrationNo = ptr(before.RegistrationNo), proposed.RegistrationNo
	}
	if proposed.Street != nil {
		old.Street, new.Street = ptr(before.Street), proposed.Street
	}
	if proposed.City != nil {
		old.City, new.City = ptr(before.City), proposed.City
	}
	if proposed.Zip != nil {
		old.Zip, new.Zip = ptr(before.Zip), proposed.Zip
	}
	return old, new
}

// ApplyProfile overwrites every set field onto the live entity. This is the
// exact inverse of ComputeProfile and is what the moderator's approve action
// runs; photo changes are applied separately against the photo store inside
// the same transaction.
func ApplyProfile(p *catalog.Profile, fields ProfileFields) {
	if fields.Name != nil {
		p.Name = *fields.Name
	}
	if fields.Description != nil {
		p.Description = *fields.Description
	}
	if fields.Phone != nil {
		p.Phone = *fields.Phone
	}
	if fields.Street != nil {
		p.Street = *fields.Street
	}
	if fields.City != nil {
		p.City = *fields.City
	}
	if fields.Zip != nil {
		p.Zip = *fields.Zip
	}
	if fields.YearsExperience != nil {
		p.YearsExperience = *fields.YearsExperience
	}
}

func ApplyBusiness(b *catalog.Business, fields BusinessFields) {
	if fields.Name != nil {
		b.Name = *fields.Name
	}
	if fields.Description != nil {
		b.Description = *fields.Description
	}
	if fields.Phone != nil {
		b.Phone = *fields.Phone
	}
	if fields.Website != nil {
		b.Website = *fields.Website
	}
	if fields.RegistrationNo != nil {
		b.RegistrationNo = *fields.RegistrationNo
	}
	if fields.Street != nil {
		b.Street = *fields.Street
	}
	if fields.City != nil {
		b.City = *fields.City
	}
	if fields.Zip != nil {
		b.Zip = *fields.Zip
	}
}

// EncodePayload serializes a payload for the jsonb columns.
func EncodePayload(p Payload) ([]byte, error) {
	return json.Marshal(p)
}

// DecodePayload parses a stored old_data/new_data blob.
func DecodePayload(raw []byte) (Payload, error) {
	var p Payload
	if len(raw) == 0 {
		return p, nil
	}
	err := json.Unmarshal(raw, &p)
	return p, err
}

func ptr[T any](v T) *T { return &v }
