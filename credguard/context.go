package credguard

import "context"

// contextKey is an unexported type for context keys to prevent collisions
type contextKey string

const (
	claimsContextKey    contextKey = "github.com/user/credential-guard-go/credguard:claims"
	requestIDContextKey contextKey = "github.com/user/credential-guard-go/credguard:request_id"
)

// WithClaims stores verified claims in the request context.
// Claims are read-only for the duration of the request and must not be
// modified by downstream handlers.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// GetClaims retrieves verified claims from the request context.
// Returns nil, false if claims are not present or have wrong type.
// Always check the ok return value before using claims.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok
}

// MustGetClaims retrieves claims from context and panics if not present.
// Use only behind the guard, where claims are guaranteed to exist.
func MustGetClaims(ctx context.Context) *Claims {
	claims, ok := GetClaims(ctx)
	if !ok {
		panic("credguard: claims not found in context")
	}
	return claims
}

// WithRequestID stores a request ID in context for correlation
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey).(string)
	return id, ok
}
