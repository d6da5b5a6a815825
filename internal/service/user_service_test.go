package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariascm/task-manager-api/internal/domain"
	"github.com/ariascm/task-manager-api/internal/service"
	"github.com/ariascm/task-manager-api/internal/service/auth"
	"github.com/ariascm/task-manager-api/internal/store"
	"github.com/ariascm/task-manager-api/internal/testutils"
)

type serviceFixture struct {
	stores *testutils.FakeStores
	mailer *testutils.RecordingMailer
	users  *service.UserService
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	stores := testutils.NewFakeStores()
	mailer := testutils.NewRecordingMailer()
	hasher := auth.NewBcryptHasher()

	return &serviceFixture{
		stores: stores,
		mailer: mailer,
		users:  service.NewUserService(stores.Users, stores.Tasks, hasher, hasher, mailer, nil),
	}
}

func (f *serviceFixture) register(t *testing.T, email, password string) *domain.User {
	t.Helper()

	user, err := f.users.Register(context.Background(), "Andrew Mead", email, 27, password)
	require.NoError(t, err)
	return user
}

func (f *serviceFixture) waitForMail(t *testing.T) testutils.SentMail {
	t.Helper()

	select {
	case mail := <-f.mailer.Delivered:
		return mail
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification email")
		return testutils.SentMail{}
	}
}

func TestUserService_Register(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	user := f.register(t, "andrew@example.com", "red12345")

	assert.Empty(t, user.Password, "plaintext password must be cleared")
	assert.NotEmpty(t, user.HashedPassword)
	assert.NotEqual(t, "red12345", user.HashedPassword)

	mail := f.waitForMail(t)
	assert.Equal(t, "welcome", mail.Kind)
	assert.Equal(t, "andrew@example.com", mail.Email)
	assert.Equal(t, "Andrew Mead", mail.Name)
}

func TestUserService_RegisterNormalizesEmail(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	user := f.register(t, "  Mike@Example.COM ", "red12345")

	assert.Equal(t, "mike@example.com", user.Email)
}

func TestUserService_RegisterRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	f.register(t, "dup@example.com", "red12345")

	_, err := f.users.Register(context.Background(), "Second", "dup@example.com", 30, "red12345")
	assert.ErrorIs(t, err, store.ErrEmailExists)
}

func TestUserService_RegisterRejectsBadPasswords(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)

	cases := []struct {
		name     string
		password string
	}{
		{"too short", "short"},
		{"contains password", "password123"},
		{"contains password mixed case", "myPassWord1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.users.Register(context.Background(), "Joker", "joker@example.com", 40, tc.password)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestUserService_Login(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	registered := f.register(t, "login@example.com", "red12345")

	user, err := f.users.Login(context.Background(), "login@example.com", "red12345")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
}

func TestUserService_LoginFailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	f.register(t, "known@example.com", "red12345")

	_, wrongPassword := f.users.Login(context.Background(), "known@example.com", "wrong-pass")
	_, unknownEmail := f.users.Login(context.Background(), "nobody@example.com", "red12345")

	assert.ErrorIs(t, wrongPassword, auth.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, auth.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestUserService_UpdateAllowedFields(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	user := f.register(t, "patch@example.com", "red12345")

	updated, err := f.users.Update(context.Background(), user, map[string]any{
		"name": "Jess",
		"age":  float64(25),
	})
	require.NoError(t, err)
	assert.Equal(t, "Jess", updated.Name)
	assert.Equal(t, 25, updated.Age)

	stored, err := f.stores.Users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jess", stored.Name)
}

func TestUserService_UpdateRejectsUnknownField(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	user := f.register(t, "strict@example.com", "red12345")

	_, err := f.users.Update(context.Background(), user, map[string]any{
		"location": "Philadelphia",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	stored, err := f.stores.Users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Andrew Mead", stored.Name, "a rejected patch must not change anything")
}

func TestUserService_UpdateRejectsEmptyPatch(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	user := f.register(t, "empty@example.com", "red12345")

	_, err := f.users.Update(context.Background(), user, map[string]any{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserService_UpdatePasswordRehashes(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	user := f.register(t, "rehash@example.com", "red12345")

	updated, err := f.users.Update(context.Background(), user, map[string]any{
		"password": "newpass99",
	})
	require.NoError(t, err)
	assert.NotEqual(t, user.HashedPassword, updated.HashedPassword)

	_, err = f.users.Login(context.Background(), "rehash@example.com", "newpass99")
	assert.NoError(t, err)

	_, err = f.users.Login(context.Background(), "rehash@example.com", "red12345")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestUserService_DeleteCascadesToTasks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newServiceFixture(t)
	user := f.register(t, "cascade@example.com", "red12345")
	f.waitForMail(t) // drain the welcome mail

	for _, desc := range []string{"buy milk", "walk the dog"} {
		task, err := domain.NewTask(user.ID, desc)
		require.NoError(t, err)
		require.NoError(t, f.stores.Tasks.Create(ctx, task))
	}

	require.NoError(t, f.users.Delete(ctx, user))

	_, err := f.stores.Users.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	tasks, err := f.stores.Tasks.List(ctx, user.ID, store.TaskListOptions{})
	require.NoError(t, err)
	assert.Empty(t, tasks)

	mail := f.waitForMail(t)
	assert.Equal(t, "cancelation", mail.Kind)
	assert.Equal(t, "cascade@example.com", mail.Email)
}

func TestUserService_DeleteSwallowsTaskCascadeFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newServiceFixture(t)
	user := f.register(t, "orphan@example.com", "red12345")

	f.stores.Tasks.FailDeleteByOwner = assert.AnError

	require.NoError(t, f.users.Delete(ctx, user))

	_, err := f.stores.Users.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, store.ErrUserNotFound, "user deletion must stand even when the cascade fails")
}

func TestUserService_AvatarLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newServiceFixture(t)
	user := f.register(t, "avatar@example.com", "red12345")

	require.NoError(t, f.users.SetAvatar(ctx, user.ID, makeTestPNG(t, 600, 400)))

	stored, err := f.users.GetAvatar(ctx, user.ID)
	require.NoError(t, err)
	assertNormalizedPNG(t, stored)

	require.NoError(t, f.users.ClearAvatar(ctx, user.ID))

	_, err = f.users.GetAvatar(ctx, user.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUserService_GetAvatarUnknownUser(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)

	_, err := f.users.GetAvatar(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}
