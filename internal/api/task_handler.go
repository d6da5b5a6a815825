package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ariascm/task-manager-api/internal/api/shared"
	"github.com/ariascm/task-manager-api/internal/domain"
	"github.com/ariascm/task-manager-api/internal/platform/logger"
	"github.com/ariascm/task-manager-api/internal/service"
	"github.com/ariascm/task-manager-api/internal/store"
)

// taskSortFields maps the query-string sort names onto store sort fields.
var taskSortFields = map[string]string{
	"createdAt":   store.TaskSortCreatedAt,
	"updatedAt":   store.TaskSortUpdatedAt,
	"completed":   store.TaskSortCompleted,
	"description": store.TaskSortDescription,
}

// TaskHandler handles the owner-scoped task endpoints.
type TaskHandler struct {
	tasks    store.TaskStore
	validate *validator.Validate
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks store.TaskStore, validate *validator.Validate) *TaskHandler {
	return &TaskHandler{
		tasks:    tasks,
		validate: validate,
	}
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := shared.GetAuthUser(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "an internal error occurred", err)
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "task description is required")
		return
	}

	task, err := domain.NewTask(user.ID, req.Description)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	task.Completed = req.Completed

	if err := h.tasks.Create(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	logger.FromContext(r.Context()).Info("task created",
		"task_id", task.ID, "owner_id", user.ID)
	shared.RespondWithJSON(w, r, http.StatusCreated, NewTaskResponse(task))
}

// List handles GET /tasks. Supported query parameters: completed=true|false,
// sortBy=field[:desc], limit, skip. Unrecognized or malformed values are
// ignored rather than rejected.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := shared.GetAuthUser(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "an internal error occurred", err)
		return
	}

	opts := parseTaskListOptions(r)

	tasks, err := h.tasks.List(r.Context(), user.ID, opts)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskListResponse(tasks))
}

// Get handles GET /tasks/{id}. Tasks owned by other users are
// indistinguishable from missing ones.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := shared.GetAuthUser(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "an internal error occurred", err)
		return
	}

	id, err := shared.ParseUUIDParam(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "not found")
		return
	}

	task, err := h.tasks.GetByID(r.Context(), user.ID, id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// Update handles PATCH /tasks/{id}. The body is decoded as a raw map so a
// patch naming any key outside {description, completed} fails whole.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := shared.GetAuthUser(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "an internal error occurred", err)
		return
	}

	id, err := shared.ParseUUIDParam(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "not found")
		return
	}

	patch, err := shared.DecodeRawJSON(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.tasks.GetByID(r.Context(), user.ID, id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if err := service.ApplyTaskPatch(task, patch); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if err := h.tasks.Update(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// Delete handles DELETE /tasks/{id}. The response echoes the removed task.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := shared.GetAuthUser(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "an internal error occurred", err)
		return
	}

	id, err := shared.ParseUUIDParam(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "not found")
		return
	}

	task, err := h.tasks.GetByID(r.Context(), user.ID, id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if err := h.tasks.Delete(r.Context(), user.ID, id); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// parseTaskListOptions translates the list query string into store options.
func parseTaskListOptions(r *http.Request) store.TaskListOptions {
	query := r.URL.Query()
	opts := store.TaskListOptions{}

	switch query.Get("completed") {
	case "true":
		completed := true
		opts.Completed = &completed
	case "false":
		completed := false
		opts.Completed = &completed
	}

	if sortBy := query.Get("sortBy"); sortBy != "" {
		field := sortBy
		if name, dir, found := strings.Cut(sortBy, ":"); found {
			field = name
			opts.SortDesc = dir == "desc"
		}
		if mapped, ok := taskSortFields[field]; ok {
			opts.SortField = mapped
		} else {
			opts.SortDesc = false
		}
	}

	if limit, err := strconv.Atoi(query.Get("limit")); err == nil && limit > 0 {
		opts.Limit = limit
	}
	if skip, err := strconv.Atoi(query.Get("skip")); err == nil && skip > 0 {
		opts.Skip = skip
	}

	return opts
}
