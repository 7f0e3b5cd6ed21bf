package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/placeshare/api/internal/model"
	"github.com/placeshare/api/pkg/jwt"
)

// AuthService defines the interface for token validation
type AuthService interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// Auth returns a middleware that requires a valid bearer token.
// Preflight requests pass through untouched.
func Auth(authService AuthService) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				model.NewUnauthorizedError("Authentication failed!").WriteJSON(w)
				return
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				model.NewUnauthorizedError("Authentication failed!").WriteJSON(w)
				return
			}

			claims, err := authService.ValidateAccessToken(token)
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					p := model.NewUnauthorizedError("token expired")
					p.Code = model.ErrCodeTokenExpired
					p.WriteJSON(w)
					return
				}
				model.NewUnauthorizedError("Authentication failed!").WriteJSON(w)
				return
			}

			userID := model.NormalizeID(model.TableUser, claims.UserID)
			ctx := context.WithValue(r.Context(), UserIDKey, userID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID returns the authenticated user id in canonical form
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}
