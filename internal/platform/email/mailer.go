// Package email implements the service.Mailer interface over SMTP.
package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"

	"github.com/ariascm/task-manager-api/internal/config"
	"github.com/ariascm/task-manager-api/internal/service"
)

// SMTPMailer sends account notification emails through an SMTP relay.
type SMTPMailer struct {
	client *mail.Client
	from   string
	logger *slog.Logger
}

// Ensure SMTPMailer implements service.Mailer interface
var _ service.Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates a mailer from the email configuration.
func NewSMTPMailer(cfg config.EmailConfig, log *slog.Logger) (*SMTPMailer, error) {
	if log == nil {
		log = slog.Default()
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTPMailer{
		client: client,
		from:   cfg.From,
		logger: log.With(slog.String("component", "mailer")),
	}, nil
}

// SendWelcome implements service.Mailer.SendWelcome.
func (m *SMTPMailer) SendWelcome(ctx context.Context, email, name string) error {
	body := fmt.Sprintf(
		"Welcome to the app, %s. Let me know how you get along with the app.",
		name,
	)
	return m.send(ctx, email, "Thanks for signing up!", body)
}

// SendCancelation implements service.Mailer.SendCancelation.
func (m *SMTPMailer) SendCancelation(ctx context.Context, email, name string) error {
	body := fmt.Sprintf("Goodbye, %s. I hope to see you back sometime soon.", name)
	return m.send(ctx, email, "Sorry to see you go!", body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Debug("notification email sent",
		slog.String("subject", subject))
	return nil
}

// LogMailer is the service.Mailer used when outbound email is disabled: it
// records the notification in the log instead of contacting an SMTP host.
type LogMailer struct {
	logger *slog.Logger
}

// Ensure LogMailer implements service.Mailer interface
var _ service.Mailer = (*LogMailer)(nil)

// NewLogMailer creates a log-only mailer.
func NewLogMailer(log *slog.Logger) *LogMailer {
	if log == nil {
		log = slog.Default()
	}
	return &LogMailer{logger: log.With(slog.String("component", "mailer"))}
}

// SendWelcome implements service.Mailer.SendWelcome.
func (m *LogMailer) SendWelcome(ctx context.Context, email, name string) error {
	m.logger.Info("email sending disabled, skipping welcome email",
		slog.String("name", name))
	return nil
}

// SendCancelation implements service.Mailer.SendCancelation.
func (m *LogMailer) SendCancelation(ctx context.Context, email, name string) error {
	m.logger.Info("email sending disabled, skipping cancelation email",
		slog.String("name", name))
	return nil
}
