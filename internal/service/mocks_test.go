package service

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/mahatkd/federation-api/internal/auth"
	"github.com/mahatkd/federation-api/internal/domain"
)

// --- Mock User Repository ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByResetTokenHash(ctx context.Context, tokenHash string) (*domain.User, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *mockUserRepository) SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, id, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *mockUserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *mockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

// --- Mock Event Repository ---

type mockEventRepository struct {
	mock.Mock
}

func (m *mockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *mockEventRepository) List(ctx context.Context) ([]domain.Event, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *mockEventRepository) ListUpcoming(ctx context.Context, from time.Time) ([]domain.Event, error) {
	args := m.Called(ctx, from)
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *mockEventRepository) Update(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockEventRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock Gallery Repository ---

type mockGalleryRepository struct {
	mock.Mock
}

func (m *mockGalleryRepository) Create(ctx context.Context, item *domain.GalleryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockGalleryRepository) GetByID(ctx context.Context, id string) (*domain.GalleryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GalleryItem), args.Error(1)
}

func (m *mockGalleryRepository) List(ctx context.Context, publicOnly bool) ([]domain.GalleryItem, error) {
	args := m.Called(ctx, publicOnly)
	return args.Get(0).([]domain.GalleryItem), args.Error(1)
}

func (m *mockGalleryRepository) ListByCategory(ctx context.Context, category string, publicOnly bool) ([]domain.GalleryItem, error) {
	args := m.Called(ctx, category, publicOnly)
	return args.Get(0).([]domain.GalleryItem), args.Error(1)
}

func (m *mockGalleryRepository) Update(ctx context.Context, item *domain.GalleryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockGalleryRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock Contact Repository ---

type mockContactRepository struct {
	mock.Mock
}

func (m *mockContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *mockContactRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *mockContactRepository) List(ctx context.Context) ([]domain.Contact, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Contact), args.Error(1)
}

func (m *mockContactRepository) UpdateStatus(ctx context.Context, id, status string, respondedBy *string, responseDate *time.Time) error {
	args := m.Called(ctx, id, status, respondedBy, responseDate)
	return args.Error(0)
}

func (m *mockContactRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock Enrollment Repository ---

type mockEnrollmentRepository struct {
	mock.Mock
}

func (m *mockEnrollmentRepository) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	args := m.Called(ctx, enrollment)
	return args.Error(0)
}

func (m *mockEnrollmentRepository) GetByID(ctx context.Context, id string) (*domain.Enrollment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Enrollment), args.Error(1)
}

func (m *mockEnrollmentRepository) GetByReference(ctx context.Context, reference string) (*domain.Enrollment, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Enrollment), args.Error(1)
}

func (m *mockEnrollmentRepository) List(ctx context.Context) ([]domain.Enrollment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Enrollment), args.Error(1)
}

func (m *mockEnrollmentRepository) ListByEmail(ctx context.Context, email string) ([]domain.Enrollment, error) {
	args := m.Called(ctx, email)
	return args.Get(0).([]domain.Enrollment), args.Error(1)
}

func (m *mockEnrollmentRepository) UpdateStatus(ctx context.Context, id, status, notes, reviewerID string, reviewedAt time.Time) error {
	args := m.Called(ctx, id, status, notes, reviewerID, reviewedAt)
	return args.Error(0)
}

// --- Mock Testimonial Repository ---

type mockTestimonialRepository struct {
	mock.Mock
}

func (m *mockTestimonialRepository) Create(ctx context.Context, testimonial *domain.Testimonial) error {
	args := m.Called(ctx, testimonial)
	return args.Error(0)
}

func (m *mockTestimonialRepository) GetByID(ctx context.Context, id string) (*domain.Testimonial, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Testimonial), args.Error(1)
}

func (m *mockTestimonialRepository) List(ctx context.Context, approvedOnly bool) ([]domain.Testimonial, error) {
	args := m.Called(ctx, approvedOnly)
	return args.Get(0).([]domain.Testimonial), args.Error(1)
}

func (m *mockTestimonialRepository) SetApproved(ctx context.Context, id string, approved, featured bool) error {
	args := m.Called(ctx, id, approved, featured)
	return args.Error(0)
}

func (m *mockTestimonialRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock Mailer ---

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendPasswordReset(ctx context.Context, toEmail, name, token string, expiresIn time.Duration) error {
	args := m.Called(ctx, toEmail, name, token, expiresIn)
	return args.Error(0)
}

func (m *mockMailer) SendContactNotification(ctx context.Context, contact *domain.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *mockMailer) SendEnrollmentReceived(ctx context.Context, enrollment *domain.Enrollment) error {
	args := m.Called(ctx, enrollment)
	return args.Error(0)
}

func (m *mockMailer) SendEnrollmentDecision(ctx context.Context, enrollment *domain.Enrollment) error {
	args := m.Called(ctx, enrollment)
	return args.Error(0)
}

// --- Mock Google Verifier ---

type mockGoogleVerifier struct {
	mock.Mock
}

func (m *mockGoogleVerifier) Verify(ctx context.Context, idToken string) (*auth.GoogleProfile, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.GoogleProfile), args.Error(1)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestTokenManager() *auth.TokenManager {
	return auth.NewTokenManager("test-secret-key-for-testing", 15*time.Minute)
}

func strPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}

// hashForTest creates a bcrypt hash with cost 4 for fast tests.
func hashForTest(password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), 4)
	if err != nil {
		panic(err)
	}
	return string(h)
}
