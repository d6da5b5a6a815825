package store

import (
	"context"

	"github.com/google/uuid"
)

// TokenStore tracks the set of live session tokens per user. A signed token
// that is absent from this store is revoked regardless of its signature.
// Insertion order is preserved: ListByUser returns tokens in issuance order.
type TokenStore interface {
	// Add records a newly issued token for the user.
	Add(ctx context.Context, userID uuid.UUID, token string) error

	// Exists reports whether the exact token string is live for the user.
	Exists(ctx context.Context, userID uuid.UUID, token string) (bool, error)

	// Delete revokes the one matching token. Deleting an absent token is a
	// no-op, not an error.
	Delete(ctx context.Context, userID uuid.UUID, token string) error

	// DeleteAll revokes every token of the user.
	DeleteAll(ctx context.Context, userID uuid.UUID) error

	// ListByUser returns the user's live tokens in issuance order.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]string, error)
}
