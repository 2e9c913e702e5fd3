package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mahatkd/federation-api/internal/database"
	"github.com/mahatkd/federation-api/internal/domain"
	"github.com/mahatkd/federation-api/internal/mail"
	"github.com/mahatkd/federation-api/internal/repository"
	apperrors "github.com/mahatkd/federation-api/pkg/errors"
)

// ContactService handles contact form submissions and their triage.
type ContactService struct {
	contacts repository.ContactRepository
	mailer   mail.Mailer
	logger   *slog.Logger
}

// NewContactService creates a new contact service.
func NewContactService(contacts repository.ContactRepository, mailer mail.Mailer, logger *slog.Logger) *ContactService {
	return &ContactService{contacts: contacts, mailer: mailer, logger: logger}
}

// SubmitContactInput holds a contact form submission.
type SubmitContactInput struct {
	Name        string
	Email       string
	Phone       string
	Subject     string
	Message     string
	EnquiryType string
}

// Submit records a new contact message and notifies the admin mailbox.
// The notification is best effort: a mail failure never fails the submission.
func (s *ContactService) Submit(ctx context.Context, input SubmitContactInput) (*domain.Contact, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if input.Message == "" {
		return nil, apperrors.InvalidInput("message is required")
	}
	if input.EnquiryType == "" {
		input.EnquiryType = domain.EnquiryGeneral
	}
	if !domain.IsValidEnquiryType(input.EnquiryType) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid enquiry type %q", input.EnquiryType))
	}

	contact := &domain.Contact{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Email:       strings.ToLower(input.Email),
		Phone:       input.Phone,
		Subject:     input.Subject,
		Message:     input.Message,
		EnquiryType: input.EnquiryType,
		Status:      domain.ContactNew,
		CreatedAt:   time.Now().UTC(),
	}

	err := database.WithRetry(ctx, func(ctx context.Context) error {
		return s.contacts.Create(ctx, contact)
	})
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}

	if err := s.mailer.SendContactNotification(ctx, contact); err != nil {
		s.logger.WarnContext(ctx, "contact notification mail failed",
			slog.String("contact_id", contact.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "contact message received", slog.String("contact_id", contact.ID))
	return contact, nil
}

// Get returns a single contact message.
func (s *ContactService) Get(ctx context.Context, id string) (*domain.Contact, error) {
	var contact *domain.Contact
	err := database.WithRetry(ctx, func(ctx context.Context) error {
		var err error
		contact, err = s.contacts.GetByID(ctx, id)
		return err
	})
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("contact", id)
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return contact, nil
}

// List returns all contact messages, newest first.
func (s *ContactService) List(ctx context.Context) ([]domain.Contact, error) {
	var contacts []domain.Contact
	err := database.WithRetry(ctx, func(ctx context.Context) error {
		var err error
		contacts, err = s.contacts.List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

// UpdateStatus moves a contact message through the triage workflow. Replying
// to or closing a message records the responding admin and the time.
func (s *ContactService) UpdateStatus(ctx context.Context, id, status string, actor *domain.User) (*domain.Contact, error) {
	if !domain.IsValidContactStatus(status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid status %q", status))
	}

	var respondedBy *string
	var responseDate *time.Time
	if (status == domain.ContactReplied || status == domain.ContactClosed) && actor != nil {
		now := time.Now().UTC()
		respondedBy = &actor.ID
		responseDate = &now
	}

	if err := s.contacts.UpdateStatus(ctx, id, status, respondedBy, responseDate); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("contact", id)
		}
		return nil, fmt.Errorf("update contact status: %w", err)
	}

	return s.contacts.GetByID(ctx, id)
}

// Delete removes a contact message.
func (s *ContactService) Delete(ctx context.Context, id string) error {
	if err := s.contacts.Delete(ctx, id); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NotFound("contact", id)
		}
		return fmt.Errorf("delete contact: %w", err)
	}
	s.logger.InfoContext(ctx, "contact message deleted", slog.String("contact_id", id))
	return nil
}
