package apierr

import (
	"errors"
	"fmt"
	"net/http"

	pkgerr "github.com/listora/listora-backend/internal/pkg/errors"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// FromDomain maps the service-layer sentinels onto HTTP status codes.
// Anything unrecognized is a 500.
func FromDomain(err error) *Error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pkgerr.ErrEmptyChange):
		return New(http.StatusBadRequest, "empty_change", err)
	case errors.Is(err, pkgerr.ErrInvalidArgument):
		return New(http.StatusBadRequest, "invalid_argument", err)
	case errors.Is(err, pkgerr.ErrUnauthorized):
		return New(http.StatusForbidden, "forbidden", err)
	case errors.Is(err, pkgerr.ErrNotFound):
		return New(http.StatusNotFound, "not_found", err)
	case errors.Is(err, pkgerr.ErrAlreadyReviewed):
		return New(http.StatusConflict, "already_reviewed", err)
	case errors.Is(err, pkgerr.ErrManualOverride):
		return New(http.StatusConflict, "manual_override", err)
	case errors.Is(err, pkgerr.ErrConflict):
		return New(http.StatusConflict, "conflict", err)
	case errors.Is(err, pkgerr.ErrExternalService):
		return New(http.StatusBadGateway, "external_service", err)
	default:
		return New(http.StatusInternalServerError, "internal", err)
	}
}
