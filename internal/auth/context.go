package auth

import "context"

type ctxKey int

const userIDKey ctxKey = iota

// WithUserID returns a context carrying the authenticated caller's id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the authenticated caller's id, or "" when unauthenticated.
func UserID(ctx context.Context) string {
	if val, ok := ctx.Value(userIDKey).(string); ok {
		return val
	}
	return ""
}
