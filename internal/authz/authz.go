// Package authz implements the authorization collaborator for privileged
// booking operations. The engine only sees a yes/no answer; this package
// derives it from the role claims of the caller's bearer token.
package authz

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/golang-jwt/jwt/v5"

	id "placements/pkg/domain"
	"placements/pkg/requestcontext"
)

// RoleWorkflowManager permits bed moves.
const RoleWorkflowManager = "workflow-manager"

// Claims is the token payload: standard registered claims plus the roles
// granted to the subject.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// JWTAuthorizer answers authorization questions from HMAC-signed bearer
// tokens carried on the request context.
type JWTAuthorizer struct {
	signingKey []byte
	logger     *slog.Logger
}

func NewJWTAuthorizer(signingKey []byte, logger *slog.Logger) *JWTAuthorizer {
	return &JWTAuthorizer{signingKey: signingKey, logger: logger}
}

// CanMoveBed reports whether the acting user holds the workflow-manager
// role. The token's subject must match the acting user id; an absent or
// invalid token denies.
func (a *JWTAuthorizer) CanMoveBed(ctx context.Context, userID id.UserID) (bool, error) {
	claims, err := a.parse(requestcontext.Token(ctx))
	if err != nil {
		if a.logger != nil {
			a.logger.WarnContext(ctx, "token rejected", "error", err)
		}
		return false, nil
	}
	if claims.Subject != userID.String() {
		return false, nil
	}
	for _, role := range claims.Roles {
		if role == RoleWorkflowManager {
			return true, nil
		}
	}
	return false, nil
}

func (a *JWTAuthorizer) parse(raw string) (*Claims, error) {
	if raw == "" {
		return nil, fmt.Errorf("no bearer token on request")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return a.signingKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// AllowAll grants every request. For tests and trusted internal callers.
type AllowAll struct{}

func (AllowAll) CanMoveBed(context.Context, id.UserID) (bool, error) { return true, nil }

// DenyAll refuses every request.
type DenyAll struct{}

func (DenyAll) CanMoveBed(context.Context, id.UserID) (bool, error) { return false, nil }
