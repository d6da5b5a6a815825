package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/ariascm/task-manager-api/internal/api/shared"
	"github.com/ariascm/task-manager-api/internal/platform/logger"
	"github.com/ariascm/task-manager-api/internal/service"
	"github.com/ariascm/task-manager-api/internal/service/auth"
)

// AuthHandler handles account creation and session endpoints.
type AuthHandler struct {
	users    *service.UserService
	tokens   auth.TokenService
	validate *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users *service.UserService, tokens auth.TokenService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{
		users:    users,
		tokens:   tokens,
		validate: validate,
	}
}

// Signup handles POST /users. It creates the account and logs the new user
// in immediately, returning the user together with a fresh token.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req SignupRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Debug("signup validation failed", "error", err)
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid signup request")
		return
	}

	user, err := h.users.Register(r.Context(), req.Name, req.Email, req.Age, req.Password)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	token, err := h.tokens.Issue(r.Context(), user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "an internal error occurred", err)
		return
	}

	log.Info("user registered", "user_id", user.ID)
	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		User:  NewUserResponse(user),
		Token: token,
	})
}

// Login handles POST /users/login. Unknown emails and wrong passwords
// produce the same response so callers cannot probe for accounts.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Debug("login validation failed", "error", err)
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid login request")
		return
	}

	user, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	token, err := h.tokens.Issue(r.Context(), user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "an internal error occurred", err)
		return
	}

	log.Info("user logged in", "user_id", user.ID)
	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		User:  NewUserResponse(user),
		Token: token,
	})
}

// Logout handles POST /users/logout. It revokes only the token the request
// authenticated with; sessions on other devices stay live.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, err := shared.GetAuthUser(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "an internal error occurred", err)
		return
	}
	token, err := shared.GetAuthToken(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "an internal error occurred", err)
		return
	}

	if err := h.tokens.Revoke(r.Context(), user.ID, token); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// LogoutAll handles POST /users/logoutAll. It revokes every live token the
// user holds.
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	user, err := shared.GetAuthUser(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "an internal error occurred", err)
		return
	}

	if err := h.tokens.RevokeAll(r.Context(), user.ID); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
