package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ariascm/task-manager-api/internal/domain"
	"github.com/ariascm/task-manager-api/internal/platform/logger"
	"github.com/ariascm/task-manager-api/internal/service/auth"
	"github.com/ariascm/task-manager-api/internal/store"
)

// ErrAvatarNotFound indicates the user exists but has no stored avatar, or
// the user itself is absent. Both map to the same not-found response.
var ErrAvatarNotFound = fmt.Errorf("%w: avatar", store.ErrNotFound)

// emailTimeout bounds each fire-and-forget notification send.
const emailTimeout = 10 * time.Second

// UserService implements the user account lifecycle: registration, login,
// whitelisted profile updates, avatar management, and deletion with its
// best-effort task cascade.
type UserService struct {
	users  store.UserStore
	tasks  store.TaskStore
	hasher auth.PasswordHasher
	verify auth.PasswordVerifier
	mailer Mailer
	avatar *AvatarProcessor
	logger *slog.Logger
}

// NewUserService creates a new UserService with the given dependencies.
// The mailer may be nil, in which case no notifications are attempted.
func NewUserService(
	users store.UserStore,
	tasks store.TaskStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	mailer Mailer,
	log *slog.Logger,
) *UserService {
	if log == nil {
		log = slog.Default()
	}

	return &UserService{
		users:  users,
		tasks:  tasks,
		hasher: hasher,
		verify: verifier,
		mailer: mailer,
		avatar: NewAvatarProcessor(),
		logger: log.With(slog.String("component", "user_service")),
	}
}

// Register validates and stores a new user. The plaintext password is hashed
// before the user reaches the store and is cleared from the returned entity.
// A welcome email is sent fire-and-forget on success.
func (s *UserService) Register(
	ctx context.Context,
	name, email string,
	age int,
	password string,
) (*domain.User, error) {
	user, err := domain.NewUser(name, email, age, password)
	if err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.sendAsync(ctx, "welcome", user.Email, user.Name, s.mailerWelcome)

	return user, nil
}

// Login resolves a user by credentials. An unknown email and a wrong password
// return the identical auth.ErrInvalidCredentials so callers cannot tell
// which part failed.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.verify.Compare(user.HashedPassword, password); err != nil {
		return nil, auth.ErrInvalidCredentials
	}

	return user, nil
}

// Update applies a whitelisted patch to the user and persists it. Any key
// outside {name, email, age, password} fails the whole patch with a
// validation error before any field changes. A password patch re-hashes; no
// other patch touches the stored hash.
func (s *UserService) Update(
	ctx context.Context,
	user *domain.User,
	patch map[string]any,
) (*domain.User, error) {
	if err := validatePatchKeys(patch, userPatchFields); err != nil {
		return nil, err
	}

	name, hasName, err := patchString(patch, "name")
	if err != nil {
		return nil, err
	}
	email, hasEmail, err := patchString(patch, "email")
	if err != nil {
		return nil, err
	}
	age, hasAge, err := patchInt(patch, "age")
	if err != nil {
		return nil, err
	}
	password, hasPassword, err := patchString(patch, "password")
	if err != nil {
		return nil, err
	}

	updated := *user
	if hasName {
		updated.Name = name
	}
	if hasEmail {
		updated.Email = domain.NormalizeEmail(email)
	}
	if hasAge {
		updated.Age = age
	}
	if hasPassword {
		if err := domain.ValidatePassword(password); err != nil {
			return nil, err
		}
		hashed, err := s.hasher.Hash(password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updated.HashedPassword = hashed
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

// Delete removes the user and cascades to their tasks. The cascade is
// deliberately best-effort and non-atomic: the user row (and, via the
// schema, their session tokens) goes first; a failure deleting tasks
// afterwards is logged and swallowed, leaving orphaned tasks rather than a
// half-deleted account. A cancelation email is sent fire-and-forget.
func (s *UserService) Delete(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.users.Delete(ctx, user.ID); err != nil {
		return err
	}

	deleted, err := s.tasks.DeleteByOwner(ctx, user.ID)
	if err != nil {
		log.Error("task cascade failed after user deletion, orphaned tasks may remain",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
	} else {
		log.Info("user tasks deleted",
			slog.String("user_id", user.ID.String()),
			slog.Int64("count", deleted))
	}

	s.sendAsync(ctx, "cancelation", user.Email, user.Name, s.mailerCancelation)

	return nil
}

// SetAvatar normalizes the uploaded image and stores it as the user's avatar.
func (s *UserService) SetAvatar(ctx context.Context, userID uuid.UUID, data []byte) error {
	normalized, err := s.avatar.Normalize(data)
	if err != nil {
		return err
	}
	return s.users.UpdateAvatar(ctx, userID, normalized)
}

// ClearAvatar removes the user's stored avatar.
func (s *UserService) ClearAvatar(ctx context.Context, userID uuid.UUID) error {
	return s.users.UpdateAvatar(ctx, userID, nil)
}

// GetAvatar returns the stored avatar bytes for any user ID. This is the one
// unauthenticated read path; absent users and absent avatars are identical.
func (s *UserService) GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrAvatarNotFound
		}
		return nil, err
	}
	if len(user.Avatar) == 0 {
		return nil, ErrAvatarNotFound
	}
	return user.Avatar, nil
}

func (s *UserService) mailerWelcome(ctx context.Context, email, name string) error {
	return s.mailer.SendWelcome(ctx, email, name)
}

func (s *UserService) mailerCancelation(ctx context.Context, email, name string) error {
	return s.mailer.SendCancelation(ctx, email, name)
}

// sendAsync dispatches a notification email without blocking the request and
// without ever surfacing a send failure to the caller. The send detaches from
// the request's cancellation but keeps a bounded timeout of its own.
func (s *UserService) sendAsync(
	ctx context.Context,
	kind, email, name string,
	send func(context.Context, string, string) error,
) {
	if s.mailer == nil {
		return
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	go func() {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), emailTimeout)
		defer cancel()

		if err := send(sendCtx, email, name); err != nil {
			log.Warn("failed to send notification email",
				slog.String("kind", kind),
				slog.String("error", err.Error()))
		}
	}()
}
