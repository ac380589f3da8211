package core

import "context"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	userIDKey contextKey = iota
)

// WithUserID stores the authorized principal in the context.
// Adapters call this after an Allow decision.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the principal stored by WithUserID.
//
// Example usage:
//
//	userID, err := core.UserID(ctx)
//	if err != nil {
//	    return err
//	}
func UserID(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", ErrUserIDNotFound
	}

	return userID, nil
}

// HasUserID checks if a principal exists in the context without retrieving it.
func HasUserID(ctx context.Context) bool {
	_, err := UserID(ctx)
	return err == nil
}
