package middlewares

import (
	"context"

	"github.com/skycast-dev/skycast/internal/jwt"
)

type requestIDKey struct{}
type claimsKey struct{}

func setRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// GetRequestID extrae el request ID del contexto ("" si no hay).
func GetRequestID(ctx context.Context) string {
	rid, _ := ctx.Value(requestIDKey{}).(string)
	return rid
}

func setClaims(ctx context.Context, c *jwt.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// GetClaims extrae los claims verificados que inyectó RequireAuth.
func GetClaims(ctx context.Context) *jwt.Claims {
	c, _ := ctx.Value(claimsKey{}).(*jwt.Claims)
	return c
}
