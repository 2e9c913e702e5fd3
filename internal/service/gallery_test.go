package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mahatkd/federation-api/internal/domain"
	apperrors "github.com/mahatkd/federation-api/pkg/errors"
)

func TestGalleryCreate_Defaults(t *testing.T) {
	galleryRepo := new(mockGalleryRepository)
	svc := NewGalleryService(galleryRepo, newTestLogger())
	ctx := context.Background()

	galleryRepo.On("Create", ctx, mock.AnythingOfType("*domain.GalleryItem")).Return(nil)

	item, err := svc.Create(ctx, "staff-1", CreateGalleryItemInput{
		Title:    "Belt test, March 2026",
		Category: domain.GalleryBeltTests,
		MediaURL: "https://cdn.example.com/belt-test.jpg",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.MediaImage, item.MediaType)
	assert.True(t, item.IsPublic)
	assert.Equal(t, "staff-1", item.UploadedBy)

	galleryRepo.AssertExpectations(t)
}

func TestGalleryCreate_Invalid(t *testing.T) {
	svc := NewGalleryService(new(mockGalleryRepository), newTestLogger())
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateGalleryItemInput
	}{
		{"missing title", CreateGalleryItemInput{Category: domain.GalleryOther, MediaURL: "x"}},
		{"missing url", CreateGalleryItemInput{Title: "t", Category: domain.GalleryOther}},
		{"bad category", CreateGalleryItemInput{Title: "t", Category: "memes", MediaURL: "x"}},
		{"bad media type", CreateGalleryItemInput{Title: "t", Category: domain.GalleryOther, MediaURL: "x", MediaType: "audio"}},
		{"video without thumbnail", CreateGalleryItemInput{Title: "t", Category: domain.GalleryOther, MediaURL: "x", MediaType: domain.MediaVideo}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := svc.Create(ctx, "staff-1", tt.input)
			assert.Nil(t, item)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestGalleryList_Visibility(t *testing.T) {
	tests := []struct {
		name       string
		viewer     *domain.User
		publicOnly bool
	}{
		{"anonymous", nil, true},
		{"member", &domain.User{ID: "u-1", Role: domain.RoleUser}, true},
		{"instructor", &domain.User{ID: "i-1", Role: domain.RoleInstructor}, false},
		{"admin", &domain.User{ID: "a-1", Role: domain.RoleAdmin}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			galleryRepo := new(mockGalleryRepository)
			svc := NewGalleryService(galleryRepo, newTestLogger())
			ctx := context.Background()

			galleryRepo.On("List", ctx, tt.publicOnly).Return([]domain.GalleryItem{}, nil)

			_, err := svc.List(ctx, tt.viewer)

			require.NoError(t, err)
			galleryRepo.AssertExpectations(t)
		})
	}
}

func TestGalleryGet_PrivateHiddenFromMembers(t *testing.T) {
	galleryRepo := new(mockGalleryRepository)
	svc := NewGalleryService(galleryRepo, newTestLogger())
	ctx := context.Background()

	private := &domain.GalleryItem{ID: "g-1", IsPublic: false, UploadedBy: "staff-1"}
	galleryRepo.On("GetByID", ctx, "g-1").Return(private, nil)

	member := &domain.User{ID: "u-1", Role: domain.RoleUser}
	item, err := svc.Get(ctx, "g-1", member)

	assert.Nil(t, item)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGalleryGet_PrivateVisibleToUploader(t *testing.T) {
	galleryRepo := new(mockGalleryRepository)
	svc := NewGalleryService(galleryRepo, newTestLogger())
	ctx := context.Background()

	private := &domain.GalleryItem{ID: "g-1", IsPublic: false, UploadedBy: "staff-1"}
	galleryRepo.On("GetByID", ctx, "g-1").Return(private, nil)

	uploader := &domain.User{ID: "staff-1", Role: domain.RoleInstructor}
	item, err := svc.Get(ctx, "g-1", uploader)

	require.NoError(t, err)
	assert.Equal(t, "g-1", item.ID)
}

// A private item that shows up in a staff listing must also open by id
// for the same viewer, uploader or not.
func TestGalleryGet_PrivateVisibleToStaff(t *testing.T) {
	private := &domain.GalleryItem{ID: "g-1", IsPublic: false, UploadedBy: "staff-1"}

	tests := []struct {
		name   string
		viewer *domain.User
	}{
		{"instructor who did not upload", &domain.User{ID: "i-2", Role: domain.RoleInstructor}},
		{"admin who did not upload", &domain.User{ID: "a-1", Role: domain.RoleAdmin}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			galleryRepo := new(mockGalleryRepository)
			svc := NewGalleryService(galleryRepo, newTestLogger())
			ctx := context.Background()

			galleryRepo.On("GetByID", ctx, "g-1").Return(private, nil)
			galleryRepo.On("List", ctx, false).Return([]domain.GalleryItem{*private}, nil)

			listed, err := svc.List(ctx, tt.viewer)
			require.NoError(t, err)
			require.Len(t, listed, 1)

			item, err := svc.Get(ctx, "g-1", tt.viewer)
			require.NoError(t, err)
			assert.Equal(t, "g-1", item.ID)
		})
	}
}

func TestGalleryDelete_NotUploader(t *testing.T) {
	galleryRepo := new(mockGalleryRepository)
	svc := NewGalleryService(galleryRepo, newTestLogger())
	ctx := context.Background()

	item := &domain.GalleryItem{ID: "g-1", UploadedBy: "staff-1"}
	galleryRepo.On("GetByID", ctx, "g-1").Return(item, nil)

	other := &domain.User{ID: "staff-2", Role: domain.RoleInstructor}
	err := svc.Delete(ctx, "g-1", other)

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	galleryRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestGalleryDelete_AdminOverride(t *testing.T) {
	galleryRepo := new(mockGalleryRepository)
	svc := NewGalleryService(galleryRepo, newTestLogger())
	ctx := context.Background()

	item := &domain.GalleryItem{ID: "g-1", UploadedBy: "staff-1"}
	galleryRepo.On("GetByID", ctx, "g-1").Return(item, nil)
	galleryRepo.On("Delete", ctx, "g-1").Return(nil)

	admin := &domain.User{ID: "a-1", Role: domain.RoleAdmin}
	err := svc.Delete(ctx, "g-1", admin)

	require.NoError(t, err)
	galleryRepo.AssertExpectations(t)
}

func TestGalleryUpdate_TogglesVisibility(t *testing.T) {
	galleryRepo := new(mockGalleryRepository)
	svc := NewGalleryService(galleryRepo, newTestLogger())
	ctx := context.Background()

	item := &domain.GalleryItem{ID: "g-1", Title: "old", IsPublic: true, UploadedBy: "staff-1"}
	galleryRepo.On("GetByID", ctx, "g-1").Return(item, nil)
	galleryRepo.On("Update", ctx, mock.AnythingOfType("*domain.GalleryItem")).Return(nil)

	uploader := &domain.User{ID: "staff-1", Role: domain.RoleInstructor}
	updated, err := svc.Update(ctx, "g-1", uploader, CreateGalleryItemInput{IsPublic: boolPtr(false)})

	require.NoError(t, err)
	assert.False(t, updated.IsPublic)
	assert.Equal(t, "old", updated.Title)
}
