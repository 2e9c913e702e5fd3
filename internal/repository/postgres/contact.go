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

const contactColumns = `id, name, email, phone, subject, message, enquiry_type, status, responded_by, response_date, created_at`

// ContactRepository implements repository.ContactRepository using PostgreSQL.
type ContactRepository struct {
	db database.Pool
}

// NewContactRepository creates a new PostgreSQL-backed contact repository.
func NewContactRepository(db database.Pool) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create inserts a new contact message.
func (r *ContactRepository) Create(ctx context.Context, c *domain.Contact) error {
	query := `
		INSERT INTO contacts (id, name, email, phone, subject, message, enquiry_type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		c.ID, c.Name, c.Email, c.Phone, c.Subject, c.Message, c.EnquiryType, c.Status, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}

	return nil
}

// GetByID retrieves a contact message by its ID.
func (r *ContactRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`

	var c domain.Contact
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Subject, &c.Message, &c.EnquiryType, &c.Status,
		&c.RespondedBy, &c.ResponseDate, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan contact: %w", err)
	}

	return &c, nil
}

// List returns all contact messages, newest first.
func (r *ContactRepository) List(ctx context.Context) ([]domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []domain.Contact{}
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Email, &c.Phone, &c.Subject, &c.Message, &c.EnquiryType, &c.Status,
			&c.RespondedBy, &c.ResponseDate, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan contact row: %w", err)
		}
		contacts = append(contacts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contact rows: %w", err)
	}

	return contacts, nil
}

// UpdateStatus moves a contact message through its review lifecycle,
// recording who responded and when for statuses past new.
func (r *ContactRepository) UpdateStatus(ctx context.Context, id, status string, respondedBy *string, responseDate *time.Time) error {
	query := `
		UPDATE contacts
		SET status = $1, responded_by = $2, response_date = $3
		WHERE id = $4`

	ct, err := r.db.Exec(ctx, query, status, respondedBy, responseDate, id)
	if err != nil {
		return fmt.Errorf("update contact status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("contact", id)
	}

	return nil
}

// Delete removes a contact message by its ID.
func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("contact", id)
	}

	return nil
}
