package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing entities or changes.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when the actor may not modify the target entity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrEmptyChange is returned when a submitted change proposes nothing.
	ErrEmptyChange = errors.New("empty change")
	// ErrAlreadyReviewed is returned when reviewing a change that is no longer pending.
	ErrAlreadyReviewed = errors.New("change already reviewed")
	// ErrConflict is returned when a cascade delete cannot complete and rolls back.
	ErrConflict = errors.New("conflict")
	// ErrManualOverride is returned when regeneration would overwrite a hand-edited record.
	ErrManualOverride = errors.New("metadata is under manual override")
	// ErrExternalService is returned when the AI collaborator fails; existing state stays untouched.
	ErrExternalService = errors.New("external service failure")
)
