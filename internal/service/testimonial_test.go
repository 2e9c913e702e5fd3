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

func TestTestimonialSubmit_StartsUnapproved(t *testing.T) {
	testimonialRepo := new(mockTestimonialRepository)
	svc := NewTestimonialService(testimonialRepo, newTestLogger())
	ctx := context.Background()

	testimonialRepo.On("Create", ctx, mock.AnythingOfType("*domain.Testimonial")).Return(nil)

	author := &domain.User{ID: "u-1", Role: domain.RoleUser}
	testimonial, err := svc.Submit(ctx, author, SubmitTestimonialInput{
		AuthorName: "Jane Smith",
		BeltRank:   domain.BeltGreen,
		Quote:      "Training here changed my life.",
		Rating:     5,
	})

	require.NoError(t, err)
	assert.False(t, testimonial.IsApproved)
	require.NotNil(t, testimonial.CreatedBy)
	assert.Equal(t, "u-1", *testimonial.CreatedBy)

	testimonialRepo.AssertExpectations(t)
}

func TestTestimonialSubmit_Anonymous(t *testing.T) {
	testimonialRepo := new(mockTestimonialRepository)
	svc := NewTestimonialService(testimonialRepo, newTestLogger())
	ctx := context.Background()

	testimonialRepo.On("Create", ctx, mock.AnythingOfType("*domain.Testimonial")).Return(nil)

	testimonial, err := svc.Submit(ctx, nil, SubmitTestimonialInput{
		AuthorName: "A happy parent",
		Quote:      "My kid loves the classes.",
		Rating:     4,
	})

	require.NoError(t, err)
	assert.Nil(t, testimonial.CreatedBy)
}

func TestTestimonialSubmit_Invalid(t *testing.T) {
	svc := NewTestimonialService(new(mockTestimonialRepository), newTestLogger())
	ctx := context.Background()

	tests := []struct {
		name  string
		input SubmitTestimonialInput
	}{
		{"missing author", SubmitTestimonialInput{Quote: "q", Rating: 3}},
		{"missing quote", SubmitTestimonialInput{AuthorName: "A", Rating: 3}},
		{"rating too low", SubmitTestimonialInput{AuthorName: "A", Quote: "q", Rating: 0}},
		{"rating too high", SubmitTestimonialInput{AuthorName: "A", Quote: "q", Rating: 6}},
		{"bad belt", SubmitTestimonialInput{AuthorName: "A", Quote: "q", Rating: 3, BeltRank: "purple"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testimonial, err := svc.Submit(ctx, nil, tt.input)
			assert.Nil(t, testimonial)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestTestimonialList_Visibility(t *testing.T) {
	tests := []struct {
		name         string
		viewer       *domain.User
		approvedOnly bool
	}{
		{"anonymous", nil, true},
		{"member", &domain.User{ID: "u-1", Role: domain.RoleUser}, true},
		{"instructor", &domain.User{ID: "i-1", Role: domain.RoleInstructor}, true},
		{"admin", &domain.User{ID: "a-1", Role: domain.RoleAdmin}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testimonialRepo := new(mockTestimonialRepository)
			svc := NewTestimonialService(testimonialRepo, newTestLogger())
			ctx := context.Background()

			testimonialRepo.On("List", ctx, tt.approvedOnly).Return([]domain.Testimonial{}, nil)

			_, err := svc.List(ctx, tt.viewer)

			require.NoError(t, err)
			testimonialRepo.AssertExpectations(t)
		})
	}
}

func TestTestimonialSetApproved(t *testing.T) {
	testimonialRepo := new(mockTestimonialRepository)
	svc := NewTestimonialService(testimonialRepo, newTestLogger())
	ctx := context.Background()

	approved := &domain.Testimonial{ID: "t-1", IsApproved: true}
	testimonialRepo.On("SetApproved", ctx, "t-1", true, false).Return(nil)
	testimonialRepo.On("GetByID", ctx, "t-1").Return(approved, nil)

	testimonial, err := svc.SetApproved(ctx, "t-1", true, false)

	require.NoError(t, err)
	assert.True(t, testimonial.IsApproved)

	testimonialRepo.AssertExpectations(t)
}

func TestTestimonialSetApproved_NotFound(t *testing.T) {
	testimonialRepo := new(mockTestimonialRepository)
	svc := NewTestimonialService(testimonialRepo, newTestLogger())
	ctx := context.Background()

	testimonialRepo.On("SetApproved", ctx, "nonexistent", true, false).Return(apperrors.ErrNotFound)

	testimonial, err := svc.SetApproved(ctx, "nonexistent", true, false)

	assert.Nil(t, testimonial)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
