package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"healthchain/internal/auth"
	"healthchain/internal/httputil"
)

// Auth attaches the authenticated user ID to the request context when a
// valid Bearer token is present. Requests without a token (or with an
// invalid one) proceed unauthenticated; handlers that require identity
// check httputil.GetUserID themselves. This keeps the patient-facing
// endpoints usable from kiosk and IVR channels that front their own auth.
func Auth(verifier auth.JWTVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.VerifyToken(tokenString)
			if err != nil {
				logger.Debug("bearer token rejected", "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, claims.GetUserID()))
		})
	}
}
