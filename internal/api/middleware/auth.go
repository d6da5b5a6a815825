package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ariascm/task-manager-api/internal/api/shared"
	"github.com/ariascm/task-manager-api/internal/platform/logger"
	"github.com/ariascm/task-manager-api/internal/service/auth"
)

const bearerPrefix = "Bearer "

// AuthMiddleware validates the Authorization bearer token on each request
// and attaches the authenticated user and the raw token to the request
// context. Requests without a live token are rejected with 401.
type AuthMiddleware struct {
	tokens auth.TokenService
}

// NewAuthMiddleware creates a new AuthMiddleware using the given token
// service for verification.
func NewAuthMiddleware(tokens auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate is the middleware function that enforces authentication.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromContext(ctx)

		token, err := extractBearerToken(r)
		if err != nil {
			log.Debug("missing or malformed authorization header", "error", err)
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate")
			return
		}

		user, rawToken, err := m.tokens.Verify(ctx, token)
		if err != nil {
			log.Debug("token verification failed", "error", err)
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate")
			return
		}

		ctx = context.WithValue(ctx, shared.AuthUserContextKey, user)
		ctx = context.WithValue(ctx, shared.AuthTokenContextKey, rawToken)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", auth.ErrMissingToken
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", auth.ErrInvalidToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return "", auth.ErrMissingToken
	}
	return token, nil
}
