// Package mail sends transactional email for the federation API: password
// resets, contact-form notifications, and enrollment updates.
package mail

import (
	"context"
	"time"

	"github.com/mahatkd/federation-api/internal/domain"
)

// Mailer sends transactional emails.
type Mailer interface {
	// SendPasswordReset emails a reset link containing the raw token.
	SendPasswordReset(ctx context.Context, toEmail, name, token string, expiresIn time.Duration) error

	// SendContactNotification notifies the federation admin of a new
	// contact-form submission.
	SendContactNotification(ctx context.Context, contact *domain.Contact) error

	// SendEnrollmentReceived acknowledges a new application to the
	// applicant, quoting their reference number.
	SendEnrollmentReceived(ctx context.Context, enrollment *domain.Enrollment) error

	// SendEnrollmentDecision informs the applicant of an admin decision.
	SendEnrollmentDecision(ctx context.Context, enrollment *domain.Enrollment) error
}

// NopMailer discards all outbound email. Used when SMTP is not configured.
type NopMailer struct{}

func (NopMailer) SendPasswordReset(context.Context, string, string, string, time.Duration) error {
	return nil
}

func (NopMailer) SendContactNotification(context.Context, *domain.Contact) error { return nil }

func (NopMailer) SendEnrollmentReceived(context.Context, *domain.Enrollment) error { return nil }

func (NopMailer) SendEnrollmentDecision(context.Context, *domain.Enrollment) error { return nil }
