package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/ariascm/task-manager-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// The user must already carry a hashed password; plaintext never reaches
	// the store. Returns ErrEmailExists if the email is already taken and
	// ErrInvalidEntity (wrapping the validation error) if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their normalized email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update persists the user's profile fields (name, email, age, hashed
	// password). The avatar blob is managed separately via UpdateAvatar.
	// Returns ErrUserNotFound if the user does not exist and ErrEmailExists
	// when updating to an email that already exists.
	Update(ctx context.Context, user *domain.User) error

	// UpdateAvatar replaces the user's avatar blob. A nil avatar clears it.
	// Returns ErrUserNotFound if the user does not exist.
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatar []byte) error

	// Delete removes a user from the store by their ID.
	// Session tokens cascade at the database level; task cleanup is the
	// caller's responsibility (see service.UserService.Delete).
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
