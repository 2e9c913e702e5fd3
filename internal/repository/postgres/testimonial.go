package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mahatkd/federation-api/internal/database"
	"github.com/mahatkd/federation-api/internal/domain"
	apperrors "github.com/mahatkd/federation-api/pkg/errors"
)

const testimonialColumns = `id, author_name, belt_rank, quote, rating, photo_url, is_approved, featured, created_by, created_at`

// TestimonialRepository implements repository.TestimonialRepository using PostgreSQL.
type TestimonialRepository struct {
	db database.Pool
}

// NewTestimonialRepository creates a new PostgreSQL-backed testimonial repository.
func NewTestimonialRepository(db database.Pool) *TestimonialRepository {
	return &TestimonialRepository{db: db}
}

// Create inserts a new testimonial.
func (r *TestimonialRepository) Create(ctx context.Context, t *domain.Testimonial) error {
	query := `
		INSERT INTO testimonials (id, author_name, belt_rank, quote, rating, photo_url, is_approved, featured, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		t.ID, t.AuthorName, t.BeltRank, t.Quote, t.Rating, t.PhotoURL,
		t.IsApproved, t.Featured, t.CreatedBy, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert testimonial: %w", err)
	}

	return nil
}

// GetByID retrieves a testimonial by its ID.
func (r *TestimonialRepository) GetByID(ctx context.Context, id string) (*domain.Testimonial, error) {
	query := `SELECT ` + testimonialColumns + ` FROM testimonials WHERE id = $1`

	var t domain.Testimonial
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.AuthorName, &t.BeltRank, &t.Quote, &t.Rating, &t.PhotoURL,
		&t.IsApproved, &t.Featured, &t.CreatedBy, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan testimonial: %w", err)
	}

	return &t, nil
}

// List returns testimonials newest first, optionally only approved ones.
func (r *TestimonialRepository) List(ctx context.Context, approvedOnly bool) ([]domain.Testimonial, error) {
	query := `SELECT ` + testimonialColumns + ` FROM testimonials`
	if approvedOnly {
		query += ` WHERE is_approved = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	defer rows.Close()

	testimonials := []domain.Testimonial{}
	for rows.Next() {
		var t domain.Testimonial
		if err := rows.Scan(
			&t.ID, &t.AuthorName, &t.BeltRank, &t.Quote, &t.Rating, &t.PhotoURL,
			&t.IsApproved, &t.Featured, &t.CreatedBy, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan testimonial row: %w", err)
		}
		testimonials = append(testimonials, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate testimonial rows: %w", err)
	}

	return testimonials, nil
}

// SetApproved flips a testimonial's public visibility and featured flag.
func (r *TestimonialRepository) SetApproved(ctx context.Context, id string, approved, featured bool) error {
	ct, err := r.db.Exec(ctx, `UPDATE testimonials SET is_approved = $1, featured = $2 WHERE id = $3`, approved, featured, id)
	if err != nil {
		return fmt.Errorf("update testimonial approval: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("testimonial", id)
	}

	return nil
}

// Delete removes a testimonial by its ID.
func (r *TestimonialRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete testimonial: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("testimonial", id)
	}

	return nil
}
