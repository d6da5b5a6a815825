package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ariascm/task-manager-api/internal/platform/logger"
	"github.com/ariascm/task-manager-api/internal/store"
)

// TokenStore implements the store.TokenStore interface using a PostgreSQL
// database as the storage backend. Tokens live in the user_tokens table; the
// bigserial position column preserves issuance order and the foreign key
// cascades deletion when the owning user is removed.
type TokenStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTokenStore creates a new PostgreSQL implementation of the TokenStore
// interface. If logger is nil, the default logger is used.
func NewTokenStore(db store.DBTX, log *slog.Logger) *TokenStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &TokenStore{
		db:     db,
		logger: log.With(slog.String("component", "token_store")),
	}
}

// Ensure TokenStore implements store.TokenStore interface
var _ store.TokenStore = (*TokenStore)(nil)

// Add implements store.TokenStore.Add.
func (s *TokenStore) Add(ctx context.Context, userID uuid.UUID, token string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO user_tokens (user_id, token, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := s.db.ExecContext(ctx, query, userID, token, time.Now().UTC())
	if err != nil {
		log.Error("failed to record session token",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return MapError(err)
	}
	return nil
}

// Exists implements store.TokenStore.Exists.
func (s *TokenStore) Exists(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM user_tokens WHERE user_id = $1 AND token = $2
		)
	`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, userID, token).Scan(&exists); err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// Delete implements store.TokenStore.Delete. Absent tokens are a no-op.
func (s *TokenStore) Delete(ctx context.Context, userID uuid.UUID, token string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM user_tokens WHERE user_id = $1 AND token = $2`
	if _, err := s.db.ExecContext(ctx, query, userID, token); err != nil {
		log.Error("failed to revoke session token",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return MapError(err)
	}
	return nil
}

// DeleteAll implements store.TokenStore.DeleteAll.
func (s *TokenStore) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM user_tokens WHERE user_id = $1`
	if _, err := s.db.ExecContext(ctx, query, userID); err != nil {
		log.Error("failed to revoke all session tokens",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return MapError(err)
	}

	log.Info("all session tokens revoked",
		slog.String("user_id", userID.String()))
	return nil
}

// ListByUser implements store.TokenStore.ListByUser.
// Tokens are returned in issuance order.
func (s *TokenStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := `
		SELECT token FROM user_tokens
		WHERE user_id = $1
		ORDER BY position ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tokens := make([]string, 0)
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, MapError(err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return tokens, nil
}
