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

const galleryColumns = `id, title, description, category, media_url, media_type, thumbnail_url, tags, event_id, is_public, uploaded_by, created_at`

// GalleryRepository implements repository.GalleryRepository using PostgreSQL.
type GalleryRepository struct {
	db database.Pool
}

// NewGalleryRepository creates a new PostgreSQL-backed gallery repository.
func NewGalleryRepository(db database.Pool) *GalleryRepository {
	return &GalleryRepository{db: db}
}

// Create inserts a new gallery item.
func (r *GalleryRepository) Create(ctx context.Context, g *domain.GalleryItem) error {
	query := `
		INSERT INTO gallery_items (id, title, description, category, media_url, media_type, thumbnail_url, tags, event_id, is_public, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Exec(ctx, query,
		g.ID, g.Title, g.Description, g.Category,
		g.MediaURL, g.MediaType, g.ThumbnailURL, g.Tags, g.EventID,
		g.IsPublic, g.UploadedBy, g.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert gallery item: %w", err)
	}

	return nil
}

// GetByID retrieves a gallery item by its ID.
func (r *GalleryRepository) GetByID(ctx context.Context, id string) (*domain.GalleryItem, error) {
	query := `SELECT ` + galleryColumns + ` FROM gallery_items WHERE id = $1`

	var g domain.GalleryItem
	err := r.db.QueryRow(ctx, query, id).Scan(
		&g.ID, &g.Title, &g.Description, &g.Category,
		&g.MediaURL, &g.MediaType, &g.ThumbnailURL, &g.Tags, &g.EventID,
		&g.IsPublic, &g.UploadedBy, &g.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan gallery item: %w", err)
	}

	return &g, nil
}

// List returns gallery items newest first, optionally only public ones.
func (r *GalleryRepository) List(ctx context.Context, publicOnly bool) ([]domain.GalleryItem, error) {
	query := `SELECT ` + galleryColumns + ` FROM gallery_items`
	if publicOnly {
		query += ` WHERE is_public = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	return r.queryItems(ctx, query)
}

// ListByCategory returns gallery items in the given category, newest first.
func (r *GalleryRepository) ListByCategory(ctx context.Context, category string, publicOnly bool) ([]domain.GalleryItem, error) {
	query := `SELECT ` + galleryColumns + ` FROM gallery_items WHERE category = $1`
	if publicOnly {
		query += ` AND is_public = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	return r.queryItems(ctx, query, category)
}

// Update modifies an existing gallery item.
func (r *GalleryRepository) Update(ctx context.Context, g *domain.GalleryItem) error {
	query := `
		UPDATE gallery_items
		SET title = $1, description = $2, category = $3, media_url = $4, media_type = $5,
		    thumbnail_url = $6, tags = $7, event_id = $8, is_public = $9
		WHERE id = $10`

	ct, err := r.db.Exec(ctx, query,
		g.Title, g.Description, g.Category, g.MediaURL, g.MediaType,
		g.ThumbnailURL, g.Tags, g.EventID, g.IsPublic, g.ID,
	)
	if err != nil {
		return fmt.Errorf("update gallery item: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("gallery item", g.ID)
	}

	return nil
}

// Delete removes a gallery item by its ID.
func (r *GalleryRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM gallery_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete gallery item: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("gallery item", id)
	}

	return nil
}

func (r *GalleryRepository) queryItems(ctx context.Context, query string, args ...any) ([]domain.GalleryItem, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list gallery items: %w", err)
	}
	defer rows.Close()

	items := []domain.GalleryItem{}
	for rows.Next() {
		var g domain.GalleryItem
		if err := rows.Scan(
			&g.ID, &g.Title, &g.Description, &g.Category,
			&g.MediaURL, &g.MediaType, &g.ThumbnailURL, &g.Tags, &g.EventID,
			&g.IsPublic, &g.UploadedBy, &g.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan gallery row: %w", err)
		}
		items = append(items, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gallery rows: %w", err)
	}

	return items, nil
}
