package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"lompakko/internal/shared/auth"
	"lompakko/internal/shared/messages"
)

type ContextKey string

const (
	UserIDKey ContextKey = "user_id"
	EmailKey  ContextKey = "email"
)

// UserID extracts the authenticated user id placed in the context by Auth.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}

// Auth validates the bearer token and injects the user identity into the
// request context. Responses use the same {"detail": ...} error shape as
// the handlers so clients have a single error format to parse.
func Auth(jwt *auth.JWT) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, messages.AuthRequired)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, messages.AuthRequired)
				return
			}

			claims, err := jwt.Validate(parts[1])
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					unauthorized(w, messages.TokenExpired)
					return
				}
				unauthorized(w, messages.TokenInvalid)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, EmailKey, claims.Email)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"detail":"` + detail + `"}`))
}
