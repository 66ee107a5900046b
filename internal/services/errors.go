package services

import (
	"errors"

	pkgerr "github.com/listora/listora-backend/internal/pkg/errors"
)

// isDomainErr reports whether err already carries one of the workflow
// sentinels, so callers don't re-wrap it into a different HTTP status.
func isDomainErr(err error) bool {
	for _, sentinel := range []error{
		pkgerr.ErrNotFound,
		pkgerr.ErrUnauthorized,
		pkgerr.ErrInvalidArgument,
		pkgerr.ErrEmptyChange,
		pkgerr.ErrAlreadyReviewed,
		pkgerr.ErrManualOverride,
		pkgerr.ErrExternalService,
		pkgerr.ErrConflict,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
