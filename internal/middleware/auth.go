package middleware

import (
	"net/http"
	"strings"

	"scribe/internal/auth"
	"scribe/internal/httputil"
	models "scribe/internal/domain/models/workspace"
)

// Auth verifies the bearer token and stores the resulting principal in the
// request context. Requests without a valid token get 401.
func Auth(verifier auth.JWTVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			principal := models.Principal{
				ID:    claims.GetUserID(),
				OrgID: claims.OrgID,
			}
			next.ServeHTTP(w, httputil.WithPrincipal(r, principal))
		})
	}
}
