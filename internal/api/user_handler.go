package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ariascm/task-manager-api/internal/api/shared"
	"github.com/ariascm/task-manager-api/internal/platform/logger"
	"github.com/ariascm/task-manager-api/internal/service"
)

// avatarFormField is the multipart form field carrying the avatar upload.
const avatarFormField = "avatar"

// UserHandler handles the authenticated profile endpoints and avatar
// management.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetProfile handles GET /users/me.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := shared.GetAuthUser(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "an internal error occurred", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// UpdateProfile handles PATCH /users/me. The patch body is decoded as a raw
// map so unknown keys fail the whole request instead of being dropped.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, err := shared.GetAuthUser(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "an internal error occurred", err)
		return
	}

	patch, err := shared.DecodeRawJSON(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.users.Update(r.Context(), user, patch)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(updated))
}

// DeleteProfile handles DELETE /users/me. The response echoes the removed
// profile.
func (h *UserHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	user, err := shared.GetAuthUser(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "an internal error occurred", err)
		return
	}

	if err := h.users.Delete(r.Context(), user); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log := logger.FromContext(r.Context())
	log.Info("user account deleted", "user_id", user.ID)
	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// UploadAvatar handles POST /users/me/avatar. The upload arrives as
// multipart form data in the "avatar" field and is normalized before
// storage. Oversized bodies are cut off by MaxBytesReader.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user, err := shared.GetAuthUser(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "an internal error occurred", err)
		return
	}

	// The multipart envelope adds overhead beyond the file itself, so the
	// reader cap leaves headroom above the per-file limit.
	r.Body = http.MaxBytesReader(w, r.Body, service.AvatarMaxBytes+64*1024)

	file, _, err := r.FormFile(avatarFormField)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			shared.RespondWithError(w, r, http.StatusBadRequest,
				service.ErrAvatarTooLarge.Error())
			return
		}
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"avatar file is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, service.AvatarMaxBytes+1))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusBadRequest, "failed to read avatar upload", err)
		return
	}
	if len(data) > service.AvatarMaxBytes {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			service.ErrAvatarTooLarge.Error())
		return
	}

	if err := h.users.SetAvatar(r.Context(), user.ID, data); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// DeleteAvatar handles DELETE /users/me/avatar. Clearing an already absent
// avatar succeeds.
func (h *UserHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	user, err := shared.GetAuthUser(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "an internal error occurred", err)
		return
	}

	if err := h.users.ClearAvatar(r.Context(), user.ID); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// GetAvatar handles GET /users/{id}/avatar. The endpoint is public and
// serves the stored PNG. Missing users and missing avatars both produce 404.
func (h *UserHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUIDParam(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "not found")
		return
	}

	avatar, err := h.users.GetAvatar(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(avatar); err != nil {
		logger.FromContext(r.Context()).Debug("failed to write avatar response", "error", err)
	}
}
