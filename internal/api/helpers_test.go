package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/ariascm/task-manager-api/internal/api"
	apiMiddleware "github.com/ariascm/task-manager-api/internal/api/middleware"
	"github.com/ariascm/task-manager-api/internal/config"
	"github.com/ariascm/task-manager-api/internal/service"
	"github.com/ariascm/task-manager-api/internal/service/auth"
	"github.com/ariascm/task-manager-api/internal/testutils"
)

const testJWTSecret = "api-test-secret-at-least-32-characters!!"

// apiFixture wires the full HTTP surface against in-memory stores.
type apiFixture struct {
	router http.Handler
	stores *testutils.FakeStores
	mailer *testutils.RecordingMailer
	tokens auth.TokenService
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	stores := testutils.NewFakeStores()
	mailer := testutils.NewRecordingMailer()
	hasher := auth.NewBcryptHasher()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens, err := auth.NewTokenService(
		config.AuthConfig{JWTSecret: testJWTSecret},
		stores.Users,
		stores.Tokens,
	)
	require.NoError(t, err)

	users := service.NewUserService(stores.Users, stores.Tasks, hasher, hasher, mailer, log)
	validate := validator.New()

	authHandler := api.NewAuthHandler(users, tokens, validate)
	userHandler := api.NewUserHandler(users)
	taskHandler := api.NewTaskHandler(stores.Tasks, validate)
	authMiddleware := apiMiddleware.NewAuthMiddleware(tokens)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(log))

	r.Post("/users", authHandler.Signup)
	r.Post("/users/login", authHandler.Login)
	r.Get("/users/{id}/avatar", userHandler.GetAvatar)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/users/logout", authHandler.Logout)
		r.Post("/users/logoutAll", authHandler.LogoutAll)

		r.Get("/users/me", userHandler.GetProfile)
		r.Patch("/users/me", userHandler.UpdateProfile)
		r.Delete("/users/me", userHandler.DeleteProfile)
		r.Post("/users/me/avatar", userHandler.UploadAvatar)
		r.Delete("/users/me/avatar", userHandler.DeleteAvatar)

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", taskHandler.Create)
			r.Get("/", taskHandler.List)
			r.Get("/{id}", taskHandler.Get)
			r.Patch("/{id}", taskHandler.Update)
			r.Delete("/{id}", taskHandler.Delete)
		})
	})

	return &apiFixture{
		router: r,
		stores: stores,
		mailer: mailer,
		tokens: tokens,
	}
}

// do executes a JSON request against the fixture router.
func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

// doMultipart executes a multipart upload with the given file in the
// "avatar" field.
func (f *apiFixture) doMultipart(
	t *testing.T,
	path, token, field string,
	file []byte,
) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, "upload.png")
	require.NoError(t, err)
	_, err = part.Write(file)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

// signup registers an account through the API and returns the response body.
func (f *apiFixture) signup(t *testing.T, name, email, password string) api.AuthResponse {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/users", "", map[string]any{
		"name":     name,
		"email":    email,
		"age":      27,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, "signup failed: %s", rec.Body.String())

	var resp api.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// decodeJSON unmarshals a recorded response body.
func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
