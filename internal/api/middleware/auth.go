package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/crewdeck/crewdeck/internal/api/response"
)

const (
	userIDKey contextKey = "userID"
	tokenKey  contextKey = "bearerToken"
)

// TokenVerifier resolves a bearer token to the id of the user it identifies.
type TokenVerifier interface {
	VerifyToken(token string) (uuid.UUID, error)
}

// Auth is middleware that extracts the Authorization bearer token, verifies
// it, and stores the user id and the raw token in the request context.
// Missing or invalid tokens return 401.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				response.Err(w, http.StatusUnauthorized, "authorization token is required")
				return
			}

			userID, err := verifier.VerifyToken(token)
			if err != nil {
				response.Err(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from the Authorization header. A "Bearer "
// prefix is stripped when present; a bare token is accepted too.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return strings.TrimSpace(header)
}

// GetUserID retrieves the authenticated user's id from the request context.
func GetUserID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(userIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// GetBearerToken retrieves the verified raw token from the request context.
func GetBearerToken(ctx context.Context) string {
	if token, ok := ctx.Value(tokenKey).(string); ok {
		return token
	}
	return ""
}
