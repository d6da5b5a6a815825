package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/ariascm/task-manager-api/internal/config"
	"github.com/ariascm/task-manager-api/internal/platform/email"
	"github.com/ariascm/task-manager-api/internal/platform/postgres"
	"github.com/ariascm/task-manager-api/internal/service"
	"github.com/ariascm/task-manager-api/internal/service/auth"
	"github.com/ariascm/task-manager-api/internal/store"
)

// application holds the wired dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger

	db *sql.DB

	userStore  store.UserStore
	taskStore  store.TaskStore
	tokenStore store.TokenStore

	tokenService auth.TokenService
	userService  *service.UserService

	validate *validator.Validate
}

// newApplication connects to the database, runs pending migrations, and
// wires the stores and services.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	log *slog.Logger,
) (*application, error) {
	db, err := postgres.Open(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := postgres.MigrateUp(ctx, db); err != nil {
		closeDB(db, log)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	userStore := postgres.NewUserStore(db, log)
	taskStore := postgres.NewTaskStore(db, log)
	tokenStore := postgres.NewTokenStore(db, log)

	tokenService, err := auth.NewTokenService(cfg.Auth, userStore, tokenStore)
	if err != nil {
		closeDB(db, log)
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	mailer, err := buildMailer(cfg.Email, log)
	if err != nil {
		closeDB(db, log)
		return nil, fmt.Errorf("failed to create mailer: %w", err)
	}

	hasher := auth.NewBcryptHasher()
	userService := service.NewUserService(userStore, taskStore, hasher, hasher, mailer, log)

	return &application{
		config:       cfg,
		logger:       log,
		db:           db,
		userStore:    userStore,
		taskStore:    taskStore,
		tokenStore:   tokenStore,
		tokenService: tokenService,
		userService:  userService,
		validate:     validator.New(),
	}, nil
}

// buildMailer returns the SMTP mailer when email delivery is enabled, and a
// log-only mailer otherwise.
func buildMailer(cfg config.EmailConfig, log *slog.Logger) (service.Mailer, error) {
	if !cfg.Enabled {
		log.Info("email delivery disabled, notifications will only be logged")
		return email.NewLogMailer(log), nil
	}
	return email.NewSMTPMailer(cfg, log)
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	closeDB(app.db, app.logger)
}

func closeDB(db *sql.DB, log *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		log.Error("failed to close database connection", "error", err)
	}
}
