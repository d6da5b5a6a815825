package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/ariascm/task-manager-api/internal/domain"
)

// DecodeJSON decodes the request body into the given destination struct.
// Unknown fields are preserved for callers that validate field names
// themselves, but malformed JSON is rejected.
func DecodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

// DecodeRawJSON decodes the request body into a generic map so the caller
// can inspect which keys the client actually sent.
func DecodeRawJSON(r *http.Request) (map[string]interface{}, error) {
	var raw map[string]interface{}
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// GetAuthUser extracts the authenticated user attached by the auth
// middleware. It returns an error when no user is present, which indicates
// the route was registered without the middleware.
func GetAuthUser(r *http.Request) (*domain.User, error) {
	user, ok := r.Context().Value(AuthUserContextKey).(*domain.User)
	if !ok || user == nil {
		return nil, errors.New("no authenticated user in request context")
	}
	return user, nil
}

// GetAuthToken extracts the raw bearer token attached by the auth middleware.
func GetAuthToken(r *http.Request) (string, error) {
	token, ok := r.Context().Value(AuthTokenContextKey).(string)
	if !ok || token == "" {
		return "", errors.New("no auth token in request context")
	}
	return token, nil
}

// ParseUUIDParam parses a UUID path parameter value. It maps parse failures
// to domain.ErrInvalidID so the handler layer can translate them uniformly.
func ParseUUIDParam(value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidID
	}
	return id, nil
}
