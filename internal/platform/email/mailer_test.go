package email_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariascm/task-manager-api/internal/config"
	"github.com/ariascm/task-manager-api/internal/platform/email"
)

func TestNewSMTPMailer(t *testing.T) {
	t.Parallel()

	mailer, err := email.NewSMTPMailer(config.EmailConfig{
		Enabled:  true,
		Host:     "smtp.example.com",
		Port:     587,
		Username: "mailer",
		Password: "secret",
		From:     "noreply@example.com",
	}, nil)
	require.NoError(t, err)
	assert.NotNil(t, mailer)
}

func TestLogMailer_NeverFails(t *testing.T) {
	t.Parallel()

	mailer := email.NewLogMailer(nil)

	assert.NoError(t, mailer.SendWelcome(context.Background(), "a@example.com", "A"))
	assert.NoError(t, mailer.SendCancelation(context.Background(), "a@example.com", "A"))
}
