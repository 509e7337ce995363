// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them, services consume them, and
// tests inject fixed values (including a fixed clock) without touching
// net/http.
package requestcontext

import (
	"context"
	"time"

	id "placements/pkg/domain"
)

type (
	userIDKey      struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
	tokenKey       struct{}
)

// WithUserID records the acting user on the context.
func WithUserID(ctx context.Context, userID id.UserID) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserID returns the acting user, or the zero id when unset.
func UserID(ctx context.Context) id.UserID {
	v, _ := ctx.Value(userIDKey{}).(id.UserID)
	return v
}

// WithRequestID records the correlation id for the current request.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID returns the correlation id, or empty when unset.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey{}).(string)
	return v
}

// WithToken records the caller's raw bearer token for collaborators that
// need to inspect its claims (the authorization collaborator does).
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// Token returns the raw bearer token, or empty when unset.
func Token(ctx context.Context) string {
	v, _ := ctx.Value(tokenKey{}).(string)
	return v
}

// WithTime pins the request clock. Tests use this to make "now" deterministic.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}

// Now returns the pinned request time when present, otherwise time.Now().
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}
