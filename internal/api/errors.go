package api

import (
	"errors"
	"net/http"

	"github.com/ariascm/task-manager-api/internal/domain"
	"github.com/ariascm/task-manager-api/internal/service"
	"github.com/ariascm/task-manager-api/internal/service/auth"
	"github.com/ariascm/task-manager-api/internal/store"
)

// MapErrorToStatusCode translates service and store errors into HTTP status
// codes. Validation failures and duplicate emails map to 400, authentication
// failures to 401, missing or foreign-owned records to 404, and everything
// else to 500.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, service.ErrAvatarTooLarge),
		errors.Is(err, service.ErrAvatarUnsupported):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for the error. Known
// error families pass their message through unchanged; anything unexpected is
// replaced with a generic message so internals never leak to clients.
func GetSafeErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return auth.ErrInvalidCredentials.Error()
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Please authenticate"
	case errors.Is(err, store.ErrEmailExists):
		return "email already in use"
	case errors.Is(err, store.ErrNotFound):
		return "not found"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, service.ErrAvatarTooLarge),
		errors.Is(err, service.ErrAvatarUnsupported):
		return err.Error()
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrInvalidEntity):
		return "invalid request"
	default:
		return "an internal error occurred"
	}
}
