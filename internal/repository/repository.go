// Package repository defines the persistence interfaces the services
// depend on. Implementations live in the postgres subpackage.
package repository

import (
	"context"
	"time"

	"github.com/mahatkd/federation-api/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by their lowercased email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByGoogleID retrieves a user by their Google account identifier.
	GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error)

	// GetByResetTokenHash retrieves a user holding an unconsumed reset grant.
	GetByResetTokenHash(ctx context.Context, tokenHash string) (*domain.User, error)

	// Update modifies an existing user in the store.
	Update(ctx context.Context, user *domain.User) error

	// UpdatePassword replaces the stored password hash and clears any
	// outstanding reset grant.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// SetResetToken stores a reset grant (token digest plus expiry).
	SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error

	// TouchLastLogin records a successful login timestamp.
	TouchLastLogin(ctx context.Context, id string, at time.Time) error

	// List returns all users, newest first.
	List(ctx context.Context) ([]domain.User, error)
}

// EventRepository defines the interface for event persistence operations.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)

	// ListUpcoming returns events starting at or after the given instant.
	ListUpcoming(ctx context.Context, from time.Time) ([]domain.Event, error)

	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id string) error
}

// GalleryRepository defines the interface for gallery persistence operations.
type GalleryRepository interface {
	Create(ctx context.Context, item *domain.GalleryItem) error
	GetByID(ctx context.Context, id string) (*domain.GalleryItem, error)

	// List returns gallery items, optionally restricted to public ones.
	List(ctx context.Context, publicOnly bool) ([]domain.GalleryItem, error)

	// ListByCategory returns gallery items in the given category.
	ListByCategory(ctx context.Context, category string, publicOnly bool) ([]domain.GalleryItem, error)

	Update(ctx context.Context, item *domain.GalleryItem) error
	Delete(ctx context.Context, id string) error
}

// ContactRepository defines the interface for contact-message persistence.
type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) error
	GetByID(ctx context.Context, id string) (*domain.Contact, error)
	List(ctx context.Context) ([]domain.Contact, error)
	// UpdateStatus moves a message through the triage workflow, stamping
	// who responded and when once it leaves the new state.
	UpdateStatus(ctx context.Context, id, status string, respondedBy *string, responseDate *time.Time) error

	Delete(ctx context.Context, id string) error
}

// EnrollmentRepository defines the interface for enrollment persistence.
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *domain.Enrollment) error
	GetByID(ctx context.Context, id string) (*domain.Enrollment, error)
	GetByReference(ctx context.Context, reference string) (*domain.Enrollment, error)
	List(ctx context.Context) ([]domain.Enrollment, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Enrollment, error)

	// UpdateStatus records an admin decision on an application.
	UpdateStatus(ctx context.Context, id, status, notes, reviewerID string, reviewedAt time.Time) error
}

// TestimonialRepository defines the interface for testimonial persistence.
type TestimonialRepository interface {
	Create(ctx context.Context, testimonial *domain.Testimonial) error
	GetByID(ctx context.Context, id string) (*domain.Testimonial, error)

	// List returns testimonials, optionally only approved ones.
	List(ctx context.Context, approvedOnly bool) ([]domain.Testimonial, error)

	// SetApproved flips public visibility and the featured flag together.
	SetApproved(ctx context.Context, id string, approved, featured bool) error
	Delete(ctx context.Context, id string) error
}
