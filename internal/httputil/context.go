package httputil

import (
	"context"
	"net/http"
)

// contextKey is unexported so no other package can collide with the
// values this one stashes on a request context.
type contextKey struct{ name string }

// userIDKey carries the verified caller identity, set by the auth
// middleware from the bearer token's subject. For patients this is the
// same ID the chat endpoints key history and extracted records by.
var userIDKey = contextKey{"user_id"}

// WithUserID returns a request whose context carries the verified user
// identity.
func WithUserID(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	return r.WithContext(ctx)
}

// GetUserID returns the verified user identity, or "" when the request
// is anonymous.
func GetUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}
