package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/mahatkd/federation-api/internal/domain"
)

// SMTPConfig holds all configuration for SMTPMailer.
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	AdminEmail  string
	FrontendURL string
}

// SMTPMailer sends transactional email via SMTP with enforced STARTTLS.
// Compatible with any SMTP provider: SES, Mailgun, Mailpit (local dev), etc.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer creates an SMTPMailer with the given config.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// sendMail dials the SMTP server, enforces STARTTLS (rejects plaintext
// sessions), authenticates, and delivers msg. The connection respects ctx
// cancellation.
func (m *SMTPMailer) sendMail(ctx context.Context, toEmail, msg string) error {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); !ok {
		return fmt.Errorf("smtp server does not advertise STARTTLS: refusing plaintext session")
	}
	if err := c.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
		return fmt.Errorf("smtp starttls: %w", err)
	}

	if m.cfg.Username != "" {
		if err := c.Auth(smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := c.Mail(m.cfg.FromAddress); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	if err := c.Rcpt(toEmail); err != nil {
		return fmt.Errorf("smtp RCPT TO: %w", err)
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := fmt.Fprint(wc, msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("smtp data close: %w", err)
	}

	return c.Quit()
}

func (m *SMTPMailer) message(toEmail, subject, body string) string {
	return "From: " + m.cfg.FromAddress + "\r\n" +
		"To: " + toEmail + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body
}

// formatDuration renders a duration as a human-readable expiry string,
// e.g. time.Hour → "1 hour", 30*time.Minute → "30 minutes".
func formatDuration(d time.Duration) string {
	switch {
	case d >= 24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	case d >= time.Hour:
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	default:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
}

// SendPasswordReset emails a reset link to toEmail. token is the raw
// (unhashed) token; only its digest is persisted server-side.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, toEmail, name, token string, expiresIn time.Duration) error {
	link := m.cfg.FrontendURL + "/reset-password/" + token

	body := "Hi " + name + ",\n\n" +
		"You requested a password reset for your federation account.\n\n" +
		"Click the link below to choose a new password:\n\n" +
		link + "\n\n" +
		"This link expires in " + formatDuration(expiresIn) + ". " +
		"If you did not request a reset, ignore this email."

	if err := m.sendMail(ctx, toEmail, m.message(toEmail, "Reset your password", body)); err != nil {
		return fmt.Errorf("sending password reset email: %w", err)
	}
	return nil
}

// SendContactNotification forwards a contact-form submission to the
// federation admin inbox.
func (m *SMTPMailer) SendContactNotification(ctx context.Context, contact *domain.Contact) error {
	if m.cfg.AdminEmail == "" {
		return nil
	}

	body := "New contact form submission.\n\n" +
		"Name: " + contact.Name + "\n" +
		"Email: " + contact.Email + "\n" +
		"Phone: " + contact.Phone + "\n" +
		"Subject: " + contact.Subject + "\n\n" +
		contact.Message

	if err := m.sendMail(ctx, m.cfg.AdminEmail, m.message(m.cfg.AdminEmail, "Contact form: "+contact.Subject, body)); err != nil {
		return fmt.Errorf("sending contact notification: %w", err)
	}
	return nil
}

// SendEnrollmentReceived acknowledges a new application to the applicant.
func (m *SMTPMailer) SendEnrollmentReceived(ctx context.Context, e *domain.Enrollment) error {
	body := "Hi " + e.FullName + ",\n\n" +
		"We received your enrollment application for the " + e.Program + " program.\n\n" +
		"Your reference number is " + e.ReferenceNumber + ". " +
		"Keep it handy to check the status of your application.\n\n" +
		"We will review your application and get back to you soon."

	if err := m.sendMail(ctx, e.Email, m.message(e.Email, "Enrollment application received", body)); err != nil {
		return fmt.Errorf("sending enrollment acknowledgment: %w", err)
	}
	return nil
}

// SendEnrollmentDecision informs the applicant of an admin decision.
func (m *SMTPMailer) SendEnrollmentDecision(ctx context.Context, e *domain.Enrollment) error {
	var subject, verdict string
	switch e.Status {
	case domain.EnrollmentApproved:
		subject = "Your enrollment has been approved"
		verdict = "Congratulations! Your application (" + e.ReferenceNumber + ") has been approved. " +
			"We will contact you with next steps for your first class."
	case domain.EnrollmentRejected:
		subject = "Update on your enrollment application"
		verdict = "We are sorry to inform you that your application (" + e.ReferenceNumber + ") was not approved at this time."
	default:
		return nil
	}

	body := "Hi " + e.FullName + ",\n\n" + verdict
	if e.AdminNotes != "" {
		body += "\n\nNotes from our team:\n" + e.AdminNotes
	}

	if err := m.sendMail(ctx, e.Email, m.message(e.Email, subject, body)); err != nil {
		return fmt.Errorf("sending enrollment decision: %w", err)
	}
	return nil
}
