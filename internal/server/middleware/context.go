package middleware

import (
	"context"

	identitydomain "github.com/Sepehr-khosravi/mazeh-backend/internal/identity/domain"
)

type contextKey struct{ name string }

var (
	identityKey  = contextKey{"identity"}
	requestIDKey = contextKey{"request_id"}
)

// WithIdentity returns a context carrying the authenticated caller.
// Handlers read it back with IdentityFrom.
func WithIdentity(ctx context.Context, id identitydomain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the authenticated caller and true if the bearer guard ran; otherwise false.
func IdentityFrom(ctx context.Context) (identitydomain.Identity, bool) {
	v, ok := ctx.Value(identityKey).(identitydomain.Identity)
	return v, ok
}

// UserID returns the caller's id, or 0 when unauthenticated.
func UserID(ctx context.Context) int64 {
	id, _ := IdentityFrom(ctx)
	return id.ID
}

// WithRequestID returns a context carrying the request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom returns the request id, or "" if none.
func RequestIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}
