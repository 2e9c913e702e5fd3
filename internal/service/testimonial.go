package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mahatkd/federation-api/internal/database"
	"github.com/mahatkd/federation-api/internal/domain"
	"github.com/mahatkd/federation-api/internal/repository"
	apperrors "github.com/mahatkd/federation-api/pkg/errors"
)

// TestimonialService handles member testimonials and their moderation.
type TestimonialService struct {
	testimonials repository.TestimonialRepository
	logger       *slog.Logger
}

// NewTestimonialService creates a new testimonial service.
func NewTestimonialService(testimonials repository.TestimonialRepository, logger *slog.Logger) *TestimonialService {
	return &TestimonialService{testimonials: testimonials, logger: logger}
}

// SubmitTestimonialInput holds a testimonial submission.
type SubmitTestimonialInput struct {
	AuthorName string
	BeltRank   string
	Quote      string
	Rating     int
	PhotoURL   string
}

// Submit records a testimonial. It stays hidden until an admin approves it.
func (s *TestimonialService) Submit(ctx context.Context, author *domain.User, input SubmitTestimonialInput) (*domain.Testimonial, error) {
	if input.AuthorName == "" {
		return nil, apperrors.InvalidInput("author name is required")
	}
	if input.Quote == "" {
		return nil, apperrors.InvalidInput("quote is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}
	if input.BeltRank != "" && !domain.IsValidBeltRank(input.BeltRank) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid belt rank %q", input.BeltRank))
	}

	testimonial := &domain.Testimonial{
		ID:         uuid.New().String(),
		AuthorName: input.AuthorName,
		BeltRank:   input.BeltRank,
		Quote:      input.Quote,
		Rating:     input.Rating,
		PhotoURL:   input.PhotoURL,
		IsApproved: false,
		CreatedAt:  time.Now().UTC(),
	}
	if author != nil {
		testimonial.CreatedBy = &author.ID
	}

	err := database.WithRetry(ctx, func(ctx context.Context) error {
		return s.testimonials.Create(ctx, testimonial)
	})
	if err != nil {
		return nil, fmt.Errorf("create testimonial: %w", err)
	}

	s.logger.InfoContext(ctx, "testimonial submitted", slog.String("testimonial_id", testimonial.ID))
	return testimonial, nil
}

// Get returns a single testimonial.
func (s *TestimonialService) Get(ctx context.Context, id string) (*domain.Testimonial, error) {
	var testimonial *domain.Testimonial
	err := database.WithRetry(ctx, func(ctx context.Context) error {
		var err error
		testimonial, err = s.testimonials.GetByID(ctx, id)
		return err
	})
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("testimonial", id)
		}
		return nil, fmt.Errorf("get testimonial: %w", err)
	}
	return testimonial, nil
}

// List returns testimonials. Non-admin viewers see only approved ones.
func (s *TestimonialService) List(ctx context.Context, viewer *domain.User) ([]domain.Testimonial, error) {
	approvedOnly := viewer == nil || viewer.Role != domain.RoleAdmin

	var testimonials []domain.Testimonial
	err := database.WithRetry(ctx, func(ctx context.Context) error {
		var err error
		testimonials, err = s.testimonials.List(ctx, approvedOnly)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	return testimonials, nil
}

// SetApproved toggles a testimonial's visibility and featured placement.
func (s *TestimonialService) SetApproved(ctx context.Context, id string, approved, featured bool) (*domain.Testimonial, error) {
	if err := s.testimonials.SetApproved(ctx, id, approved, featured); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("testimonial", id)
		}
		return nil, fmt.Errorf("set testimonial approval: %w", err)
	}

	s.logger.InfoContext(ctx, "testimonial moderated",
		slog.String("testimonial_id", id),
		slog.Bool("approved", approved),
		slog.Bool("featured", featured),
	)

	return s.testimonials.GetByID(ctx, id)
}

// Delete removes a testimonial.
func (s *TestimonialService) Delete(ctx context.Context, id string) error {
	if err := s.testimonials.Delete(ctx, id); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NotFound("testimonial", id)
		}
		return fmt.Errorf("delete testimonial: %w", err)
	}
	s.logger.InfoContext(ctx, "testimonial deleted", slog.String("testimonial_id", id))
	return nil
}
