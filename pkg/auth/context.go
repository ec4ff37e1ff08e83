package auth

import "context"

type contextKey string

const identityKey contextKey = "identity"

// WithIdentity stores the authenticated username in ctx
func WithIdentity(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, identityKey, username)
}

// IdentityFromContext returns the authenticated username, if any
func IdentityFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(identityKey).(string)
	return username, ok && username != ""
}
