package requestdata

import (
	"context"

	"github.com/google/uuid"
)

type requestDataKey struct{}

const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
)

// RequestData carries the authenticated actor through the request context.
// The surrounding application owns login/session handling; this core only
// consumes the resulting identity and role.
type RequestData struct {
	UserID uuid.UUID
	Role   string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	val := ctx.Value(requestDataKey{})
	if rd, ok := val.(*RequestData); ok {
		return rd
	}
	return nil
}

func (rd *RequestData) IsModerator() bool {
	if rd == nil {
		return false
	}
	return rd.Role == RoleAdmin || rd.Role == RoleModerator
}
