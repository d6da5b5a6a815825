package api_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariascm/task-manager-api/internal/api"
)

func createTask(t *testing.T, f *apiFixture, token, description string, completed bool) api.TaskResponse {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/tasks/", token, map[string]any{
		"description": description,
		"completed":   completed,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeJSON[api.TaskResponse](t, rec)
}

func TestCreateTask(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	owner := f.signup(t, "Owner", "owner@example.com", "red12345")

	task := createTask(t, f, owner.Token, "buy milk", false)
	assert.Equal(t, "buy milk", task.Description)
	assert.False(t, task.Completed)
	assert.Equal(t, owner.User.ID, task.OwnerID)
	assert.NotEmpty(t, task.ID)
}

func TestCreateTask_RequiresDescription(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	owner := f.signup(t, "Owner", "owner@example.com", "red12345")

	rec := f.do(t, http.MethodPost, "/tasks/", owner.Token, map[string]any{
		"completed": true,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTask_OwnershipScoping(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	owner := f.signup(t, "Owner", "owner@example.com", "red12345")
	other := f.signup(t, "Other", "other@example.com", "red12345")

	task := createTask(t, f, owner.Token, "private task", false)

	mine := f.do(t, http.MethodGet, "/tasks/"+task.ID, owner.Token, nil)
	assert.Equal(t, http.StatusOK, mine.Code)

	// Someone else's task is indistinguishable from a missing one.
	foreign := f.do(t, http.MethodGet, "/tasks/"+task.ID, other.Token, nil)
	assert.Equal(t, http.StatusNotFound, foreign.Code)

	missing := f.do(t, http.MethodGet, "/tasks/"+uuid.NewString(), owner.Token, nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestListTasks(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	owner := f.signup(t, "Owner", "owner@example.com", "red12345")
	other := f.signup(t, "Other", "other@example.com", "red12345")

	first := createTask(t, f, owner.Token, "first", true)
	second := createTask(t, f, owner.Token, "second", false)
	third := createTask(t, f, owner.Token, "third", true)
	createTask(t, f, other.Token, "not mine", false)

	t.Run("returns only own tasks in creation order", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/tasks/", owner.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		tasks := decodeJSON[[]api.TaskResponse](t, rec)
		require.Len(t, tasks, 3)
		assert.Equal(t, first.ID, tasks[0].ID)
		assert.Equal(t, second.ID, tasks[1].ID)
		assert.Equal(t, third.ID, tasks[2].ID)
	})

	t.Run("completed filter", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/tasks/?completed=true", owner.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		tasks := decodeJSON[[]api.TaskResponse](t, rec)
		require.Len(t, tasks, 2)
		for _, task := range tasks {
			assert.True(t, task.Completed)
		}
	})

	t.Run("incomplete filter", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/tasks/?completed=false", owner.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		tasks := decodeJSON[[]api.TaskResponse](t, rec)
		require.Len(t, tasks, 1)
		assert.Equal(t, second.ID, tasks[0].ID)
	})

	t.Run("descending sort", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/tasks/?sortBy=createdAt:desc", owner.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		tasks := decodeJSON[[]api.TaskResponse](t, rec)
		require.Len(t, tasks, 3)
		assert.Equal(t, third.ID, tasks[0].ID)
		assert.Equal(t, first.ID, tasks[2].ID)
	})

	t.Run("pagination", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/tasks/?limit=2&skip=2", owner.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		tasks := decodeJSON[[]api.TaskResponse](t, rec)
		require.Len(t, tasks, 1)
		assert.Equal(t, third.ID, tasks[0].ID)
	})

	t.Run("malformed query values are ignored", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/tasks/?completed=maybe&limit=abc&skip=-2&sortBy=nope:desc", owner.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		tasks := decodeJSON[[]api.TaskResponse](t, rec)
		assert.Len(t, tasks, 3)
	})
}

func TestUpdateTask(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	owner := f.signup(t, "Owner", "owner@example.com", "red12345")
	task := createTask(t, f, owner.Token, "buy milk", false)

	rec := f.do(t, http.MethodPatch, "/tasks/"+task.ID, owner.Token, map[string]any{
		"completed": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	updated := decodeJSON[api.TaskResponse](t, rec)
	assert.True(t, updated.Completed)
	assert.Equal(t, "buy milk", updated.Description)
}

func TestUpdateTask_RejectsUnknownField(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	owner := f.signup(t, "Owner", "owner@example.com", "red12345")
	task := createTask(t, f, owner.Token, "buy milk", false)

	rec := f.do(t, http.MethodPatch, "/tasks/"+task.ID, owner.Token, map[string]any{
		"owner": uuid.NewString(),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Check nothing changed.
	current := f.do(t, http.MethodGet, "/tasks/"+task.ID, owner.Token, nil)
	require.Equal(t, http.StatusOK, current.Code)
	assert.False(t, decodeJSON[api.TaskResponse](t, current).Completed)
}

func TestUpdateTask_ForeignTask(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	owner := f.signup(t, "Owner", "owner@example.com", "red12345")
	other := f.signup(t, "Other", "other@example.com", "red12345")
	task := createTask(t, f, owner.Token, "buy milk", false)

	rec := f.do(t, http.MethodPatch, "/tasks/"+task.ID, other.Token, map[string]any{
		"completed": true,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	owner := f.signup(t, "Owner", "owner@example.com", "red12345")
	task := createTask(t, f, owner.Token, "short lived", false)

	rec := f.do(t, http.MethodDelete, "/tasks/"+task.ID, owner.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, task.ID, decodeJSON[api.TaskResponse](t, rec).ID)

	gone := f.do(t, http.MethodGet, "/tasks/"+task.ID, owner.Token, nil)
	assert.Equal(t, http.StatusNotFound, gone.Code)
}

func TestDeleteTask_ForeignTask(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	owner := f.signup(t, "Owner", "owner@example.com", "red12345")
	other := f.signup(t, "Other", "other@example.com", "red12345")
	task := createTask(t, f, owner.Token, "still mine", false)

	rec := f.do(t, http.MethodDelete, "/tasks/"+task.ID, other.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The task survives.
	still := f.do(t, http.MethodGet, "/tasks/"+task.ID, owner.Token, nil)
	assert.Equal(t, http.StatusOK, still.Code)
}
