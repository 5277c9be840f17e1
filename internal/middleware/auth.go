package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/ascendo/trainboard/internal/models"
	pkghttp "github.com/ascendo/trainboard/pkg/http"
)

// Authenticator resolves a bearer token to a username.
type Authenticator interface {
	Authenticate(token string) (string, error)
}

type contextKey string

const usernameContextKey contextKey = "username"

// RequireAuth rejects requests without a valid bearer token and stores the
// resolved username in the request context.
func RequireAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := pkghttp.ExtractBearerToken(r.Header.Get("Authorization"))

			username, err := auth.Authenticate(token)
			if err != nil {
				if errors.Is(err, models.ErrNotAuthenticated) {
					pkghttp.WriteUnauthorized(w, "NOT_AUTHENTICATED", "authentication required")
					return
				}
				pkghttp.WriteUnauthorized(w, "INVALID_TOKEN", "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), usernameContextKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UsernameFromContext returns the username stored by RequireAuth.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameContextKey).(string)
	return username, ok
}
