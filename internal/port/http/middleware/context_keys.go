package middleware

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/auth"
)

// ContextKey is a private type for request context keys.
type ContextKey string

const (
	// ClaimsCtxKey holds the verified *auth.Claims of the caller.
	ClaimsCtxKey = ContextKey("claims")

	// RequestIDCtxKey holds the request id echoed in X-Request-ID.
	RequestIDCtxKey = ContextKey("request_id")
)

func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ClaimsCtxKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// CallerEmail returns the verified email of the caller or "".
func CallerEmail(ctx context.Context) string {
	if claims, ok := ClaimsFromContext(ctx); ok {
		return claims.Email
	}
	return ""
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDCtxKey).(string)
	return id
}

func withClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, ClaimsCtxKey, claims)
}
