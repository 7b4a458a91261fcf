package identity

import (
	"context"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserIDFromContext retrieves the user ID from the context
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// WithUserID sets the user ID in the context
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
