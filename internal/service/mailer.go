package service

import "context"

// Mailer sends account-lifecycle notification emails. Implementations must be
// safe for concurrent use; callers treat sends as fire-and-forget and never
// fail a request on a send error.
type Mailer interface {
	// SendWelcome notifies a newly registered user.
	SendWelcome(ctx context.Context, email, name string) error

	// SendCancelation notifies a user whose account was deleted.
	SendCancelation(ctx context.Context, email, name string) error
}
