package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/contractpro/contractpro/internal/model"
	"github.com/contractpro/contractpro/internal/service"
	"github.com/contractpro/contractpro/internal/storage"
)

type key string

const contextUserKey key = "current_user"

// CurrentUser returns the authenticated user placed in the request context
// by Authenticate.
func CurrentUser(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(contextUserKey).(*model.User)
	return u, ok
}

// Authenticate validates the bearer token and resolves the current user.
func Authenticate(tokens service.TokenService, users storage.UserStorage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				http.Error(w, "missing or malformed token", http.StatusUnauthorized)
				return
			}

			userID, err := tokens.Validate(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			u, err := users.FindByID(r.Context(), userID)
			if err != nil || !u.IsActive {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), contextUserKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole guards a route subtree to the given roles.
func RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			for _, role := range roles {
				if u.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "forbidden", http.StatusForbidden)
		})
	}
}
