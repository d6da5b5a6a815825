package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ariascm/task-manager-api/internal/config"
	"github.com/ariascm/task-manager-api/internal/domain"
	"github.com/ariascm/task-manager-api/internal/platform/logger"
	"github.com/ariascm/task-manager-api/internal/store"
)

// hmacTokenService is an implementation of TokenService using HMAC-SHA
// signing for the token string and a TokenStore for liveness. The signature
// alone never expires a token: presence in the store is what keeps it valid.
type hmacTokenService struct {
	signingKey []byte
	userStore  store.UserStore
	tokenStore store.TokenStore
	timeFunc   func() time.Time // Injectable for testing
}

// tokenClaims defines the structure of the JWT claims we use.
// There is deliberately no expiry claim; see hmacTokenService.
type tokenClaims struct {
	UserID uuid.UUID `json:"uid"`
	jwt.RegisteredClaims
}

// Ensure hmacTokenService implements TokenService interface
var _ TokenService = (*hmacTokenService)(nil)

// NewTokenService creates a new token service using HMAC-SHA signing.
func NewTokenService(
	cfg config.AuthConfig,
	userStore store.UserStore,
	tokenStore store.TokenStore,
) (TokenService, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}
	if userStore == nil || tokenStore == nil {
		return nil, fmt.Errorf("token service requires user and token stores")
	}

	return &hmacTokenService{
		signingKey: []byte(cfg.JWTSecret),
		userStore:  userStore,
		tokenStore: tokenStore,
		timeFunc:   time.Now,
	}, nil
}

// Issue implements TokenService.Issue.
func (s *hmacTokenService) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	claims := tokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID.String(),
			IssuedAt: jwt.NewNumericDate(now),
			ID:       uuid.New().String(), // Unique token ID
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign session token",
			"error", err,
			"user_id", userID)
		return "", fmt.Errorf("failed to sign token with HMAC-SHA256: %w", err)
	}

	if err := s.tokenStore.Add(ctx, userID, signedToken); err != nil {
		log.Error("failed to record issued token",
			"error", err,
			"user_id", userID)
		return "", fmt.Errorf("failed to record issued token: %w", err)
	}

	return signedToken, nil
}

// Verify implements TokenService.Verify.
// Signature failure, an unknown user, and a revoked token all collapse into
// ErrInvalidToken so callers cannot tell them apart.
func (s *hmacTokenService) Verify(
	ctx context.Context,
	tokenString string,
) (*domain.User, string, error) {
	log := logger.FromContext(ctx)

	if tokenString == "" {
		return nil, "", ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&tokenClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	if err != nil {
		log.Debug("token validation failed", "error", err)
		return nil, "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid || claims.UserID == uuid.Nil {
		log.Debug("token validation failed: invalid claims")
		return nil, "", ErrInvalidToken
	}

	user, err := s.userStore.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("token references unknown user",
				"user_id", claims.UserID)
			return nil, "", ErrInvalidToken
		}
		return nil, "", fmt.Errorf("failed to resolve token user: %w", err)
	}

	live, err := s.tokenStore.Exists(ctx, user.ID, tokenString)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check token liveness: %w", err)
	}
	if !live {
		log.Debug("token is revoked",
			"user_id", user.ID)
		return nil, "", ErrInvalidToken
	}

	return user, tokenString, nil
}

// Revoke implements TokenService.Revoke.
func (s *hmacTokenService) Revoke(ctx context.Context, userID uuid.UUID, token string) error {
	return s.tokenStore.Delete(ctx, userID, token)
}

// RevokeAll implements TokenService.RevokeAll.
func (s *hmacTokenService) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	return s.tokenStore.DeleteAll(ctx, userID)
}
