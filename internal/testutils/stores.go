// Package testutils provides in-memory fakes for the store interfaces and the
// mailer, used by unit tests across the service and api packages.
package testutils

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/ariascm/task-manager-api/internal/domain"
	"github.com/ariascm/task-manager-api/internal/store"
)

// FakeStores bundles the in-memory store fakes with the cross-store behavior
// the real schema provides (token rows cascade when a user is deleted).
type FakeStores struct {
	Users  *FakeUserStore
	Tasks  *FakeTaskStore
	Tokens *FakeTokenStore
}

// NewFakeStores creates a linked set of in-memory stores.
func NewFakeStores() *FakeStores {
	tokens := NewFakeTokenStore()
	return &FakeStores{
		Users:  &FakeUserStore{users: make(map[uuid.UUID]*domain.User), tokens: tokens},
		Tasks:  &FakeTaskStore{tasks: make(map[uuid.UUID]*domain.Task)},
		Tokens: tokens,
	}
}

// FakeUserStore is an in-memory store.UserStore.
type FakeUserStore struct {
	mu     sync.Mutex
	users  map[uuid.UUID]*domain.User
	tokens *FakeTokenStore

	// FailCreate, when set, is returned from Create to simulate store outages.
	FailCreate error
}

var _ store.UserStore = (*FakeUserStore)(nil)

func copyUser(u *domain.User) *domain.User {
	cp := *u
	if u.Avatar != nil {
		cp.Avatar = append([]byte(nil), u.Avatar...)
	}
	return &cp
}

func (s *FakeUserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailCreate != nil {
		return s.FailCreate
	}
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	if user.HashedPassword == "" {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrEmptyHashedPassword)
	}
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	s.users[user.ID] = copyUser(user)
	return nil
}

func (s *FakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return copyUser(user), nil
}

func (s *FakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = domain.NormalizeEmail(email)
	for _, user := range s.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *FakeUserStore) Update(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return store.ErrUserNotFound
	}
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	for id, other := range s.users {
		if id != user.ID && other.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	updated := copyUser(user)
	updated.Avatar = existing.Avatar // avatar is managed via UpdateAvatar
	s.users[user.ID] = updated
	return nil
}

func (s *FakeUserStore) UpdateAvatar(ctx context.Context, id uuid.UUID, avatar []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	if avatar == nil {
		user.Avatar = nil
	} else {
		user.Avatar = append([]byte(nil), avatar...)
	}
	return nil
}

func (s *FakeUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	if _, ok := s.users[id]; !ok {
		s.mu.Unlock()
		return store.ErrUserNotFound
	}
	delete(s.users, id)
	s.mu.Unlock()

	// Mirror the schema's ON DELETE CASCADE for session tokens.
	if s.tokens != nil {
		_ = s.tokens.DeleteAll(ctx, id)
	}
	return nil
}

// FakeTaskStore is an in-memory store.TaskStore.
type FakeTaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task

	// FailDeleteByOwner, when set, is returned from DeleteByOwner to exercise
	// the best-effort user-delete cascade.
	FailDeleteByOwner error
}

var _ store.TaskStore = (*FakeTaskStore)(nil)

func copyTask(t *domain.Task) *domain.Task {
	cp := *t
	return &cp
}

func (s *FakeTaskStore) Create(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	s.tasks[task.ID] = copyTask(task)
	return nil
}

func (s *FakeTaskStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	return copyTask(task), nil
}

func (s *FakeTaskStore) List(
	ctx context.Context,
	ownerID uuid.UUID,
	opts store.TaskListOptions,
) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sortField := opts.SortField
	if sortField == "" {
		sortField = store.TaskSortCreatedAt
	}
	if !store.ValidTaskSortField(sortField) {
		return nil, fmt.Errorf("%w: unknown sort field %q", store.ErrInvalidEntity, sortField)
	}

	matched := make([]*domain.Task, 0)
	for _, task := range s.tasks {
		if task.OwnerID != ownerID {
			continue
		}
		if opts.Completed != nil && task.Completed != *opts.Completed {
			continue
		}
		matched = append(matched, copyTask(task))
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if opts.SortDesc {
			a, b = b, a
		}
		switch sortField {
		case store.TaskSortUpdatedAt:
			return a.UpdatedAt.Before(b.UpdatedAt)
		case store.TaskSortCompleted:
			return !a.Completed && b.Completed
		case store.TaskSortDescription:
			return a.Description < b.Description
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})

	if opts.Skip > 0 {
		if opts.Skip >= len(matched) {
			matched = matched[:0]
		} else {
			matched = matched[opts.Skip:]
		}
	}
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}

	return matched, nil
}

func (s *FakeTaskStore) Update(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[task.ID]
	if !ok || existing.OwnerID != task.OwnerID {
		return store.ErrTaskNotFound
	}
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	s.tasks[task.ID] = copyTask(task)
	return nil
}

func (s *FakeTaskStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return store.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *FakeTaskStore) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailDeleteByOwner != nil {
		return 0, s.FailDeleteByOwner
	}

	var deleted int64
	for id, task := range s.tasks {
		if task.OwnerID == ownerID {
			delete(s.tasks, id)
			deleted++
		}
	}
	return deleted, nil
}

// FakeTokenStore is an in-memory store.TokenStore preserving issuance order.
type FakeTokenStore struct {
	mu     sync.Mutex
	tokens map[uuid.UUID][]string
}

var _ store.TokenStore = (*FakeTokenStore)(nil)

// NewFakeTokenStore creates an empty FakeTokenStore.
func NewFakeTokenStore() *FakeTokenStore {
	return &FakeTokenStore{tokens: make(map[uuid.UUID][]string)}
}

func (s *FakeTokenStore) Add(ctx context.Context, userID uuid.UUID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[userID] = append(s.tokens[userID], token)
	return nil
}

func (s *FakeTokenStore) Exists(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tokens[userID] {
		if t == token {
			return true, nil
		}
	}
	return false, nil
}

func (s *FakeTokenStore) Delete(ctx context.Context, userID uuid.UUID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.tokens[userID]
	for i, t := range live {
		if t == token {
			s.tokens[userID] = append(live[:i], live[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *FakeTokenStore) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, userID)
	return nil
}

func (s *FakeTokenStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.tokens[userID]...), nil
}
