package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mahatkd/federation-api/internal/database"
	"github.com/mahatkd/federation-api/internal/domain"
	apperrors "github.com/mahatkd/federation-api/pkg/errors"
)

const eventColumns = `id, title, description, event_type, address, city, state, country, venue_details,
	start_date, end_date, start_time, end_time, belt_ranks, age_groups,
	registration_required, registration_link, registration_deadline, fee_amount, fee_currency,
	contact_name, contact_email, contact_phone, image, created_by, created_at`

// EventRepository implements repository.EventRepository using PostgreSQL.
type EventRepository struct {
	db database.Pool
}

// NewEventRepository creates a new PostgreSQL-backed event repository.
func NewEventRepository(db database.Pool) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a new event into the database.
func (r *EventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (id, title, description, event_type, address, city, state, country, venue_details,
			start_date, end_date, start_time, end_time, belt_ranks, age_groups,
			registration_required, registration_link, registration_deadline, fee_amount, fee_currency,
			contact_name, contact_email, contact_phone, image, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`

	_, err := r.db.Exec(ctx, query,
		e.ID, e.Title, e.Description, e.EventType,
		e.Address, e.City, e.State, e.Country, e.VenueDetails,
		e.StartDate, e.EndDate, e.StartTime, e.EndTime,
		e.BeltRanks, e.AgeGroups,
		e.RegistrationRequired, e.RegistrationLink, e.RegistrationDeadline,
		e.FeeAmount, e.FeeCurrency,
		e.ContactName, e.ContactEmail, e.ContactPhone,
		e.Image, e.CreatedBy, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	return nil
}

// GetByID retrieves an event by its ID.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var e domain.Event
	err := r.db.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.Title, &e.Description, &e.EventType,
		&e.Address, &e.City, &e.State, &e.Country, &e.VenueDetails,
		&e.StartDate, &e.EndDate, &e.StartTime, &e.EndTime,
		&e.BeltRanks, &e.AgeGroups,
		&e.RegistrationRequired, &e.RegistrationLink, &e.RegistrationDeadline,
		&e.FeeAmount, &e.FeeCurrency,
		&e.ContactName, &e.ContactEmail, &e.ContactPhone,
		&e.Image, &e.CreatedBy, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}

	return &e, nil
}

// List returns all events ordered by start date.
func (r *EventRepository) List(ctx context.Context) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY start_date ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Description, &e.EventType,
			&e.Address, &e.City, &e.State, &e.Country, &e.VenueDetails,
			&e.StartDate, &e.EndDate, &e.StartTime, &e.EndTime,
			&e.BeltRanks, &e.AgeGroups,
			&e.RegistrationRequired, &e.RegistrationLink, &e.RegistrationDeadline,
			&e.FeeAmount, &e.FeeCurrency,
			&e.ContactName, &e.ContactEmail, &e.ContactPhone,
			&e.Image, &e.CreatedBy, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}

	return events, nil
}

// Update modifies an existing event.
func (r *EventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, event_type = $3, address = $4, city = $5, state = $6,
		    country = $7, venue_details = $8, start_date = $9, end_date = $10, start_time = $11,
		    end_time = $12, belt_ranks = $13, age_groups = $14, registration_required = $15,
		    registration_link = $16, registration_deadline = $17, fee_amount = $18, fee_currency = $19,
		    contact_name = $20, contact_email = $21, contact_phone = $22, image = $23
		WHERE id = $24`

	ct, err := r.db.Exec(ctx, query,
		e.Title, e.Description, e.EventType,
		e.Address, e.City, e.State, e.Country, e.VenueDetails,
		e.StartDate, e.EndDate, e.StartTime, e.EndTime,
		e.BeltRanks, e.AgeGroups,
		e.RegistrationRequired, e.RegistrationLink, e.RegistrationDeadline,
		e.FeeAmount, e.FeeCurrency,
		e.ContactName, e.ContactEmail, e.ContactPhone,
		e.Image, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("event", e.ID)
	}

	return nil
}

// Delete removes an event by its ID.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("event", id)
	}

	return nil
}

// ListUpcoming returns events whose start date is in the future.
func (r *EventRepository) ListUpcoming(ctx context.Context, from time.Time) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE start_date >= $1 ORDER BY start_date ASC`

	rows, err := r.db.Query(ctx, query, from)
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Description, &e.EventType,
			&e.Address, &e.City, &e.State, &e.Country, &e.VenueDetails,
			&e.StartDate, &e.EndDate, &e.StartTime, &e.EndTime,
			&e.BeltRanks, &e.AgeGroups,
			&e.RegistrationRequired, &e.RegistrationLink, &e.RegistrationDeadline,
			&e.FeeAmount, &e.FeeCurrency,
			&e.ContactName, &e.ContactEmail, &e.ContactPhone,
			&e.Image, &e.CreatedBy, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}

	return events, nil
}
