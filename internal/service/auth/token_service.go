package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/ariascm/task-manager-api/internal/domain"
)

// TokenService manages the session-token lifecycle: signed tokens bound to a
// user at issuance, live only while present in the user's token set.
type TokenService interface {
	// Issue creates a signed token for the user, records it as live, and
	// returns the token string.
	Issue(ctx context.Context, userID uuid.UUID) (string, error)

	// Verify validates the token signature, resolves the encoded user, and
	// checks the token is still live. On success it returns the user and the
	// raw token string (so the caller can later revoke exactly this token).
	// Every failure mode returns ErrInvalidToken.
	Verify(ctx context.Context, token string) (*domain.User, string, error)

	// Revoke removes the one matching token from the user's live set.
	// Revoking an absent token is a no-op.
	Revoke(ctx context.Context, userID uuid.UUID, token string) error

	// RevokeAll clears the user's live token set.
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}
