// Package mail delivers outbound notification email. The password-reset
// flow is its only consumer; delivery failures are logged by the caller and
// never surfaced to the requester.
package mail

import "context"

// Mailer sends a single message with both plain-text and HTML bodies.
type Mailer interface {
	Send(ctx context.Context, to, subject, textBody, htmlBody string) error
}
