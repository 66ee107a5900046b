package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	pkgerr "github.com/listora/listora-backend/internal/pkg/errors"
	"github.com/listora/listora-backend/internal/platform/envutil"
	"github.com/listora/listora-backend/internal/platform/logger"
	"github.com/listora/listora-backend/internal/requestdata"
)

// AuthService resolves a bearer token into the request identity. The
// surrounding platform issues the tokens; this core only verifies them and
// reads the subject and role claims.
type AuthService interface {
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	log    *logger.Logger
	secret []byte
}

func NewAuthService(baseLog *logger.Logger) (AuthService, error) {
	secret := strings.TrimSpace(envutil.String("JWT_SECRET", ""))
	if secret == "" {
		return nil, fmt.Errorf("missing JWT_SECRET")
	}
	return &authService{
		log:    baseLog.With("service", "AuthService"),
		secret: []byte(secret),
	}, nil
}

type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return as.secret, nil
	})
	if err != nil || !token.Valid {
		return ctx, fmt.Errorf("%w: invalid token", pkgerr.ErrUnauthorized)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return ctx, fmt.Errorf("%w: invalid subject", pkgerr.ErrUnauthorized)
	}

	role := claims.Role
	switch role {
	case requestdata.RoleAdmin, requestdata.RoleModerator, requestdata.RoleUser:
	default:
		role = requestdata.RoleUser
	}

	return requestdata.WithRequestData(ctx, &requestdata.RequestData{
		UserID: userID,
		Role:   role,
	}), nil
}
