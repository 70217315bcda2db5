package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"campus-connect/models"
	"campus-connect/services"
)

// Key type for context
type contextKey string

const UserContextKey = contextKey("user")

// Authenticator resolves a bearer token to a user record
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware verifies the bearer token and attaches the user to the context
func AuthMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, services.KindUnauthorized, "Authorization header missing")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeError(w, http.StatusUnauthorized, services.KindUnauthorized, "Invalid Authorization header format")
				return
			}

			user, err := auth.Authenticate(r.Context(), parts[1])
			if err != nil {
				if services.KindOf(err) == services.KindUnauthorized {
					writeError(w, http.StatusUnauthorized, services.KindUnauthorized, "Invalid token")
					return
				}
				log.Printf("authenticate: %v", err)
				writeError(w, http.StatusInternalServerError, services.KindInternal, "Internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminMiddleware ensures that the user has admin privileges
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r.Context())
		if !ok || !user.IsAdmin {
			writeError(w, http.StatusForbidden, services.KindForbidden, "Admins only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentUser returns the user attached by AuthMiddleware
func CurrentUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	return user, ok && user != nil
}

// WithUser attaches a user to ctx the way AuthMiddleware does
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

func writeError(w http.ResponseWriter, status int, kind services.Kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"kind": string(kind), "message": message})
}
