package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mahatkd/federation-api/internal/database"
	"github.com/mahatkd/federation-api/internal/domain"
	"github.com/mahatkd/federation-api/internal/mail"
	"github.com/mahatkd/federation-api/internal/repository"
	apperrors "github.com/mahatkd/federation-api/pkg/errors"
)

// Alphabet for reference numbers. Excludes 0, O, 1 and I so the code
// survives being read over the phone.
const referenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const referenceLength = 8

// referenceAttempts bounds regeneration when an insert collides on the
// unique reference number.
const referenceAttempts = 3

// EnrollmentService handles membership applications and their review.
type EnrollmentService struct {
	enrollments repository.EnrollmentRepository
	mailer      mail.Mailer
	logger      *slog.Logger
}

// NewEnrollmentService creates a new enrollment service.
func NewEnrollmentService(enrollments repository.EnrollmentRepository, mailer mail.Mailer, logger *slog.Logger) *EnrollmentService {
	return &EnrollmentService{enrollments: enrollments, mailer: mailer, logger: logger}
}

// SubmitEnrollmentInput holds a membership application.
type SubmitEnrollmentInput struct {
	FullName        string
	Email           string
	Phone           string
	DateOfBirth     time.Time
	Gender          string
	Program         string
	ExperienceLevel string
	CurrentBeltRank string
	MedicalInfo     string
	HowDidYouHear   string
	EmergencyName   string
	EmergencyPhone  string
}

func (in SubmitEnrollmentInput) validate() error {
	if in.FullName == "" {
		return apperrors.InvalidInput("full name is required")
	}
	if in.Email == "" {
		return apperrors.InvalidInput("email is required")
	}
	if in.Phone == "" {
		return apperrors.InvalidInput("phone is required")
	}
	if in.DateOfBirth.IsZero() {
		return apperrors.InvalidInput("date of birth is required")
	}
	if !domain.IsValidProgram(in.Program) {
		return apperrors.InvalidInput(fmt.Sprintf("invalid program %q", in.Program))
	}
	if in.CurrentBeltRank != "" && !domain.IsValidBeltRank(in.CurrentBeltRank) {
		return apperrors.InvalidInput(fmt.Sprintf("invalid belt rank %q", in.CurrentBeltRank))
	}
	if in.HowDidYouHear != "" && !domain.IsValidReferralSource(in.HowDidYouHear) {
		return apperrors.InvalidInput(fmt.Sprintf("invalid referral source %q", in.HowDidYouHear))
	}
	if in.EmergencyName == "" || in.EmergencyPhone == "" {
		return apperrors.InvalidInput("emergency contact name and phone are required")
	}
	return nil
}

// Submit records a membership application and returns it with its
// reference number. The acknowledgment mail is best effort.
func (s *EnrollmentService) Submit(ctx context.Context, applicant *domain.User, input SubmitEnrollmentInput) (*domain.Enrollment, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	enrollment := &domain.Enrollment{
		ID:              uuid.New().String(),
		FullName:        input.FullName,
		Email:           strings.ToLower(input.Email),
		Phone:           input.Phone,
		DateOfBirth:     input.DateOfBirth,
		Gender:          input.Gender,
		Program:         input.Program,
		ExperienceLevel: input.ExperienceLevel,
		CurrentBeltRank: input.CurrentBeltRank,
		MedicalInfo:     input.MedicalInfo,
		HowDidYouHear:   input.HowDidYouHear,
		EmergencyName:   input.EmergencyName,
		EmergencyPhone:  input.EmergencyPhone,
		Status:          domain.EnrollmentPending,
		CreatedAt:       time.Now().UTC(),
	}
	if applicant != nil {
		enrollment.UserID = &applicant.ID
	}

	// Reference numbers are generated blind, so an insert can collide with
	// an existing one. Regenerate and try again a bounded number of times.
	for attempt := 1; ; attempt++ {
		ref, err := generateReferenceNumber()
		if err != nil {
			return nil, apperrors.Internal(fmt.Errorf("generate reference number: %w", err))
		}
		enrollment.ReferenceNumber = ref

		err = database.WithRetry(ctx, func(ctx context.Context) error {
			return s.enrollments.Create(ctx, enrollment)
		})
		if err == nil {
			break
		}
		if errors.Is(err, apperrors.ErrAlreadyExists) && attempt < referenceAttempts {
			s.logger.WarnContext(ctx, "reference number collision, regenerating",
				slog.String("reference", ref),
				slog.Int("attempt", attempt),
			)
			continue
		}
		return nil, fmt.Errorf("create enrollment: %w", err)
	}

	if err := s.mailer.SendEnrollmentReceived(ctx, enrollment); err != nil {
		s.logger.WarnContext(ctx, "enrollment acknowledgment mail failed",
			slog.String("reference", enrollment.ReferenceNumber),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "enrollment submitted",
		slog.String("enrollment_id", enrollment.ID),
		slog.String("reference", enrollment.ReferenceNumber),
		slog.String("program", enrollment.Program),
	)

	return enrollment, nil
}

// Get returns a single enrollment by id.
func (s *EnrollmentService) Get(ctx context.Context, id string, viewer *domain.User) (*domain.Enrollment, error) {
	var enrollment *domain.Enrollment
	err := database.WithRetry(ctx, func(ctx context.Context) error {
		var err error
		enrollment, err = s.enrollments.GetByID(ctx, id)
		return err
	})
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("enrollment", id)
		}
		return nil, fmt.Errorf("get enrollment: %w", err)
	}

	// Applications are visible to admins and to the applicant.
	if viewer == nil || (viewer.Role != domain.RoleAdmin && !strings.EqualFold(viewer.Email, enrollment.Email)) {
		return nil, apperrors.Forbidden("not authorized to view this enrollment")
	}

	return enrollment, nil
}

// GetByReference looks up an application by its reference number. This is
// the public status check, so it matches case-insensitively.
func (s *EnrollmentService) GetByReference(ctx context.Context, reference string) (*domain.Enrollment, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, apperrors.InvalidInput("reference number is required")
	}

	var enrollment *domain.Enrollment
	err := database.WithRetry(ctx, func(ctx context.Context) error {
		var err error
		enrollment, err = s.enrollments.GetByReference(ctx, reference)
		return err
	})
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("enrollment", reference)
		}
		return nil, fmt.Errorf("get enrollment by reference: %w", err)
	}
	return enrollment, nil
}

// List returns all enrollments, newest first.
func (s *EnrollmentService) List(ctx context.Context) ([]domain.Enrollment, error) {
	var enrollments []domain.Enrollment
	err := database.WithRetry(ctx, func(ctx context.Context) error {
		var err error
		enrollments, err = s.enrollments.List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// ListByEmail returns the applications submitted with the given email.
func (s *EnrollmentService) ListByEmail(ctx context.Context, email string) ([]domain.Enrollment, error) {
	var enrollments []domain.Enrollment
	err := database.WithRetry(ctx, func(ctx context.Context) error {
		var err error
		enrollments, err = s.enrollments.ListByEmail(ctx, strings.ToLower(email))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list enrollments by email: %w", err)
	}
	return enrollments, nil
}

// Decide approves or rejects a pending application. The applicant is
// notified by mail on a best-effort basis.
func (s *EnrollmentService) Decide(ctx context.Context, id, status, notes string, reviewer *domain.User) (*domain.Enrollment, error) {
	if status != domain.EnrollmentApproved && status != domain.EnrollmentRejected {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid decision %q", status))
	}

	enrollment, err := s.enrollments.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("enrollment", id)
		}
		return nil, fmt.Errorf("get enrollment: %w", err)
	}

	now := time.Now().UTC()
	if err := s.enrollments.UpdateStatus(ctx, id, status, notes, reviewer.ID, now); err != nil {
		return nil, fmt.Errorf("update enrollment status: %w", err)
	}

	enrollment.Status = status
	enrollment.AdminNotes = notes
	enrollment.ReviewedBy = &reviewer.ID
	enrollment.ReviewedAt = &now

	if err := s.mailer.SendEnrollmentDecision(ctx, enrollment); err != nil {
		s.logger.WarnContext(ctx, "enrollment decision mail failed",
			slog.String("reference", enrollment.ReferenceNumber),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "enrollment decided",
		slog.String("enrollment_id", id),
		slog.String("status", status),
		slog.String("reviewed_by", reviewer.ID),
	)

	return enrollment, nil
}

// generateReferenceNumber produces an 8 character code from an alphabet
// without ambiguous characters.
func generateReferenceNumber() (string, error) {
	var b strings.Builder
	b.Grow(referenceLength)
	max := big.NewInt(int64(len(referenceAlphabet)))
	for i := 0; i < referenceLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(referenceAlphabet[n.Int64()])
	}
	return b.String(), nil
}
