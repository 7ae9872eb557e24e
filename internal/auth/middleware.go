package auth

import (
	"net/http"
	"strings"
	"time"

	"rentalboard/internal/api"
)

// RequireSession verifies the bearer session token and attaches the actor
// to the request context.
func RequireSession(sessionSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if token == "" || token == header {
				api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
				return
			}

			actor, err := VerifySessionToken(sessionSecret, token, time.Now())
			if err != nil {
				api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session")
				return
			}

			next.ServeHTTP(w, r.WithContext(api.WithActor(r.Context(), actor)))
		})
	}
}

// RequireAdmin gates mutating endpoints to the admin role. Must run after
// RequireSession.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := api.ActorFromContext(r.Context())
		if !ok {
			api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
			return
		}
		if actor.Role != RoleAdmin {
			api.WriteError(w, http.StatusForbidden, "FORBIDDEN", "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
