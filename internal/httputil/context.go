package httputil

import (
	"context"
	"net/http"

	models "scribe/internal/domain/models/workspace"
)

// Context key type to avoid collisions
type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal adds the authenticated principal to the request context
func WithPrincipal(r *http.Request, principal models.Principal) *http.Request {
	ctx := context.WithValue(r.Context(), principalKey, principal)
	return r.WithContext(ctx)
}

// GetPrincipal retrieves the principal from context; ok is false when the
// request was not authenticated.
func GetPrincipal(r *http.Request) (models.Principal, bool) {
	principal, ok := r.Context().Value(principalKey).(models.Principal)
	return principal, ok
}
