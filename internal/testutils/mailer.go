package testutils

import (
	"context"
	"sync"
)

// SentMail records one delivery request made against the RecordingMailer.
type SentMail struct {
	Kind  string
	Email string
	Name  string
}

// RecordingMailer collects notification requests instead of sending them.
// Notifications are sent from background goroutines, so recording is
// mutex-guarded and exposed through a signal channel for tests that need to
// wait for delivery.
type RecordingMailer struct {
	mu sync.Mutex

	sent []SentMail

	// Delivered receives one value per recorded mail.
	Delivered chan SentMail

	// FailSend, when set, is returned from both send methods.
	FailSend error
}

// NewRecordingMailer creates a RecordingMailer with a buffered delivery
// channel.
func NewRecordingMailer() *RecordingMailer {
	return &RecordingMailer{
		Delivered: make(chan SentMail, 16),
	}
}

func (m *RecordingMailer) record(kind, email, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailSend != nil {
		return m.FailSend
	}

	mail := SentMail{Kind: kind, Email: email, Name: name}
	m.sent = append(m.sent, mail)
	select {
	case m.Delivered <- mail:
	default:
	}
	return nil
}

// SendWelcome records a welcome notification.
func (m *RecordingMailer) SendWelcome(ctx context.Context, email, name string) error {
	return m.record("welcome", email, name)
}

// SendCancelation records a cancelation notification.
func (m *RecordingMailer) SendCancelation(ctx context.Context, email, name string) error {
	return m.record("cancelation", email, name)
}

// Sent returns a copy of the recorded deliveries.
func (m *RecordingMailer) Sent() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]SentMail, len(m.sent))
	copy(out, m.sent)
	return out
}
