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

// EventService implements the business logic for federation events.
type EventService struct {
	events repository.EventRepository
	logger *slog.Logger
}

// NewEventService creates a new event service.
func NewEventService(events repository.EventRepository, logger *slog.Logger) *EventService {
	return &EventService{events: events, logger: logger}
}

// CreateEventInput holds the parameters for creating an event.
type CreateEventInput struct {
	Title                string
	Description          string
	EventType            string
	Address              string
	City                 string
	State                string
	Country              string
	VenueDetails         string
	StartDate            time.Time
	EndDate              time.Time
	StartTime            string
	EndTime              string
	BeltRanks            []string
	AgeGroups            []string
	RegistrationRequired bool
	RegistrationLink     string
	RegistrationDeadline *time.Time
	FeeAmount            *float64
	FeeCurrency          string
	ContactName          string
	ContactEmail         string
	ContactPhone         string
	Image                string
}

func (in *CreateEventInput) validate() error {
	if in.Title == "" {
		return apperrors.InvalidInput("title is required")
	}
	if in.Description == "" {
		return apperrors.InvalidInput("description is required")
	}
	if !domain.IsValidEventType(in.EventType) {
		return apperrors.InvalidInput(fmt.Sprintf("invalid event type %q", in.EventType))
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return apperrors.InvalidInput("start and end dates are required")
	}
	if in.EndDate.Before(in.StartDate) {
		return apperrors.InvalidInput("end date must not precede start date")
	}
	for _, r := range in.BeltRanks {
		if !domain.IsValidBeltRank(r) {
			return apperrors.InvalidInput(fmt.Sprintf("invalid belt rank %q", r))
		}
	}
	for _, g := range in.AgeGroups {
		if !domain.IsValidAgeGroup(g) {
			return apperrors.InvalidInput(fmt.Sprintf("invalid age group %q", g))
		}
	}
	return nil
}

// Create adds a new event on behalf of creatorID.
func (s *EventService) Create(ctx context.Context, creatorID string, input CreateEventInput) (*domain.Event, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	currency := input.FeeCurrency
	if currency == "" {
		currency = "USD"
	}

	event := &domain.Event{
		ID:                   uuid.New().String(),
		Title:                input.Title,
		Description:          input.Description,
		EventType:            input.EventType,
		Address:              input.Address,
		City:                 input.City,
		State:                input.State,
		Country:              input.Country,
		VenueDetails:         input.VenueDetails,
		StartDate:            input.StartDate,
		EndDate:              input.EndDate,
		StartTime:            input.StartTime,
		EndTime:              input.EndTime,
		BeltRanks:            input.BeltRanks,
		AgeGroups:            input.AgeGroups,
		RegistrationRequired: input.RegistrationRequired,
		RegistrationLink:     input.RegistrationLink,
		RegistrationDeadline: input.RegistrationDeadline,
		FeeAmount:            input.FeeAmount,
		FeeCurrency:          currency,
		ContactName:          input.ContactName,
		ContactEmail:         input.ContactEmail,
		ContactPhone:         input.ContactPhone,
		Image:                input.Image,
		CreatedBy:            creatorID,
		CreatedAt:            time.Now().UTC(),
	}

	err := database.WithRetry(ctx, func(ctx context.Context) error {
		return s.events.Create(ctx, event)
	})
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.logger.InfoContext(ctx, "event created",
		slog.String("event_id", event.ID),
		slog.String("event_type", event.EventType),
	)

	return event, nil
}

// Get returns a single event by id.
func (s *EventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	var event *domain.Event
	err := database.WithRetry(ctx, func(ctx context.Context) error {
		var err error
		event, err = s.events.GetByID(ctx, id)
		return err
	})
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("event", id)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// List returns all events ordered by start date.
func (s *EventService) List(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event
	err := database.WithRetry(ctx, func(ctx context.Context) error {
		var err error
		events, err = s.events.List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// ListUpcoming returns events that have not yet started.
func (s *EventService) ListUpcoming(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event
	err := database.WithRetry(ctx, func(ctx context.Context) error {
		var err error
		events, err = s.events.ListUpcoming(ctx, time.Now().UTC())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	return events, nil
}

// Update replaces an event's details.
func (s *EventService) Update(ctx context.Context, id string, input CreateEventInput) (*domain.Event, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	event.Title = input.Title
	event.Description = input.Description
	event.EventType = input.EventType
	event.Address = input.Address
	event.City = input.City
	event.State = input.State
	event.Country = input.Country
	event.VenueDetails = input.VenueDetails
	event.StartDate = input.StartDate
	event.EndDate = input.EndDate
	event.StartTime = input.StartTime
	event.EndTime = input.EndTime
	event.BeltRanks = input.BeltRanks
	event.AgeGroups = input.AgeGroups
	event.RegistrationRequired = input.RegistrationRequired
	event.RegistrationLink = input.RegistrationLink
	event.RegistrationDeadline = input.RegistrationDeadline
	event.FeeAmount = input.FeeAmount
	if input.FeeCurrency != "" {
		event.FeeCurrency = input.FeeCurrency
	}
	event.ContactName = input.ContactName
	event.ContactEmail = input.ContactEmail
	event.ContactPhone = input.ContactPhone
	event.Image = input.Image

	if err := s.events.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	return event, nil
}

// Delete removes an event.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if err := s.events.Delete(ctx, id); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NotFound("event", id)
		}
		return fmt.Errorf("delete event: %w", err)
	}

	s.logger.InfoContext(ctx, "event deleted", slog.String("event_id", id))
	return nil
}
