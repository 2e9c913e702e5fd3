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

// GalleryService implements the business logic for the media gallery.
type GalleryService struct {
	gallery repository.GalleryRepository
	logger  *slog.Logger
}

// NewGalleryService creates a new gallery service.
func NewGalleryService(gallery repository.GalleryRepository, logger *slog.Logger) *GalleryService {
	return &GalleryService{gallery: gallery, logger: logger}
}

// CreateGalleryItemInput holds the parameters for publishing a gallery item.
type CreateGalleryItemInput struct {
	Title        string
	Description  string
	Category     string
	MediaURL     string
	MediaType    string
	ThumbnailURL string
	Tags         []string
	EventID      *string
	IsPublic     *bool
}

// Create publishes a new gallery item on behalf of uploaderID.
func (s *GalleryService) Create(ctx context.Context, uploaderID string, input CreateGalleryItemInput) (*domain.GalleryItem, error) {
	if input.Title == "" {
		return nil, apperrors.InvalidInput("title is required")
	}
	if input.MediaURL == "" {
		return nil, apperrors.InvalidInput("media url is required")
	}
	if !domain.IsValidGalleryCategory(input.Category) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid category %q", input.Category))
	}

	mediaType := input.MediaType
	if mediaType == "" {
		mediaType = domain.MediaImage
	}
	if !domain.IsValidMediaType(mediaType) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid media type %q", mediaType))
	}
	// A video without a thumbnail renders as a blank tile in listings.
	if mediaType == domain.MediaVideo && input.ThumbnailURL == "" {
		return nil, apperrors.InvalidInput("thumbnail url is required for videos")
	}

	isPublic := true
	if input.IsPublic != nil {
		isPublic = *input.IsPublic
	}

	item := &domain.GalleryItem{
		ID:           uuid.New().String(),
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		MediaURL:     input.MediaURL,
		MediaType:    mediaType,
		ThumbnailURL: input.ThumbnailURL,
		Tags:         input.Tags,
		EventID:      input.EventID,
		IsPublic:     isPublic,
		UploadedBy:   uploaderID,
		CreatedAt:    time.Now().UTC(),
	}

	err := database.WithRetry(ctx, func(ctx context.Context) error {
		return s.gallery.Create(ctx, item)
	})
	if err != nil {
		return nil, fmt.Errorf("create gallery item: %w", err)
	}

	s.logger.InfoContext(ctx, "gallery item published",
		slog.String("item_id", item.ID),
		slog.String("category", item.Category),
	)

	return item, nil
}

// Get returns a gallery item. Private items are visible to staff and to
// the uploader, matching the listing rules.
func (s *GalleryService) Get(ctx context.Context, id string, viewer *domain.User) (*domain.GalleryItem, error) {
	var item *domain.GalleryItem
	err := database.WithRetry(ctx, func(ctx context.Context) error {
		var err error
		item, err = s.gallery.GetByID(ctx, id)
		return err
	})
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("gallery item", id)
		}
		return nil, fmt.Errorf("get gallery item: %w", err)
	}

	if !item.IsPublic && !canViewGalleryItem(viewer, item) {
		return nil, apperrors.NotFound("gallery item", id)
	}

	return item, nil
}

// List returns gallery items. Anonymous viewers and plain members see only
// public ones; staff see everything.
func (s *GalleryService) List(ctx context.Context, viewer *domain.User) ([]domain.GalleryItem, error) {
	publicOnly := !isStaff(viewer)

	var items []domain.GalleryItem
	err := database.WithRetry(ctx, func(ctx context.Context) error {
		var err error
		items, err = s.gallery.List(ctx, publicOnly)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list gallery items: %w", err)
	}
	return items, nil
}

// ListByCategory returns gallery items in the given category.
func (s *GalleryService) ListByCategory(ctx context.Context, category string, viewer *domain.User) ([]domain.GalleryItem, error) {
	if !domain.IsValidGalleryCategory(category) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid category %q", category))
	}

	publicOnly := !isStaff(viewer)

	var items []domain.GalleryItem
	err := database.WithRetry(ctx, func(ctx context.Context) error {
		var err error
		items, err = s.gallery.ListByCategory(ctx, category, publicOnly)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list gallery items by category: %w", err)
	}
	return items, nil
}

// Update modifies a gallery item. Only the uploader or an admin may edit.
func (s *GalleryService) Update(ctx context.Context, id string, actor *domain.User, input CreateGalleryItemInput) (*domain.GalleryItem, error) {
	item, err := s.gallery.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("gallery item", id)
		}
		return nil, fmt.Errorf("get gallery item: %w", err)
	}

	if !canModerateGallery(actor, item) {
		return nil, apperrors.Forbidden("only the uploader or an admin can modify this item")
	}

	if input.Title != "" {
		item.Title = input.Title
	}
	if input.Description != "" {
		item.Description = input.Description
	}
	if input.Category != "" {
		if !domain.IsValidGalleryCategory(input.Category) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid category %q", input.Category))
		}
		item.Category = input.Category
	}
	if input.MediaURL != "" {
		item.MediaURL = input.MediaURL
	}
	if input.MediaType != "" {
		if !domain.IsValidMediaType(input.MediaType) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid media type %q", input.MediaType))
		}
		item.MediaType = input.MediaType
	}
	if input.ThumbnailURL != "" {
		item.ThumbnailURL = input.ThumbnailURL
	}
	if input.Tags != nil {
		item.Tags = input.Tags
	}
	if input.EventID != nil {
		item.EventID = input.EventID
	}
	if input.IsPublic != nil {
		item.IsPublic = *input.IsPublic
	}
	if item.MediaType == domain.MediaVideo && item.ThumbnailURL == "" {
		return nil, apperrors.InvalidInput("thumbnail url is required for videos")
	}

	if err := s.gallery.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update gallery item: %w", err)
	}

	return item, nil
}

// Delete removes a gallery item. Only the uploader or an admin may delete.
func (s *GalleryService) Delete(ctx context.Context, id string, actor *domain.User) error {
	item, err := s.gallery.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NotFound("gallery item", id)
		}
		return fmt.Errorf("get gallery item: %w", err)
	}

	if !canModerateGallery(actor, item) {
		return apperrors.Forbidden("only the uploader or an admin can delete this item")
	}

	if err := s.gallery.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete gallery item: %w", err)
	}

	s.logger.InfoContext(ctx, "gallery item deleted", slog.String("item_id", id))
	return nil
}

// isStaff reports whether the viewer is an instructor or admin.
func isStaff(u *domain.User) bool {
	return u != nil && (u.Role == domain.RoleAdmin || u.Role == domain.RoleInstructor)
}

// canViewGalleryItem reports whether the viewer may see a private item.
// Anyone who would see it in a staff listing, plus the uploader.
func canViewGalleryItem(viewer *domain.User, item *domain.GalleryItem) bool {
	return isStaff(viewer) || (viewer != nil && viewer.ID == item.UploadedBy)
}

// canModerateGallery reports whether the actor may edit or delete the item.
func canModerateGallery(actor *domain.User, item *domain.GalleryItem) bool {
	if actor == nil {
		return false
	}
	return actor.Role == domain.RoleAdmin || actor.ID == item.UploadedBy
}
