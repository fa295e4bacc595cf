package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/siamcare/doctrackgo/internal/utils"
)

type contextKey string

// StaffContextKey holds the authenticated staff claims on the request context.
const StaffContextKey contextKey = "staff"

// Auth verifies Bearer JWT tokens signed with the given secret.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := utils.ValidateToken(parts[1], secret)
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), StaffContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
