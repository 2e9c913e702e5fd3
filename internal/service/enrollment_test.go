package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mahatkd/federation-api/internal/domain"
	"github.com/mahatkd/federation-api/internal/mail"
	apperrors "github.com/mahatkd/federation-api/pkg/errors"
)

func validEnrollmentInput() SubmitEnrollmentInput {
	return SubmitEnrollmentInput{
		FullName:        "Sam Rivera",
		Email:           "Sam@Example.com",
		Phone:           "+15559876543",
		DateOfBirth:     time.Date(2010, 6, 2, 0, 0, 0, 0, time.UTC),
		Gender:          "male",
		Program:         domain.ProgramKids,
		ExperienceLevel: "beginner",
		HowDidYouHear:   domain.ReferralFriend,
		EmergencyName:   "Alex Rivera",
		EmergencyPhone:  "+15551112222",
	}
}

func TestEnrollmentSubmit_Success(t *testing.T) {
	enrollRepo := new(mockEnrollmentRepository)
	mailer := new(mockMailer)
	svc := NewEnrollmentService(enrollRepo, mailer, newTestLogger())
	ctx := context.Background()

	enrollRepo.On("Create", ctx, mock.AnythingOfType("*domain.Enrollment")).Return(nil)
	mailer.On("SendEnrollmentReceived", ctx, mock.AnythingOfType("*domain.Enrollment")).Return(nil)

	applicant := &domain.User{ID: "u-1", Email: "sam@example.com", Role: domain.RoleUser}
	enrollment, err := svc.Submit(ctx, applicant, validEnrollmentInput())

	require.NoError(t, err)
	assert.NotEmpty(t, enrollment.ID)
	assert.Equal(t, "sam@example.com", enrollment.Email)
	require.NotNil(t, enrollment.UserID)
	assert.Equal(t, "u-1", *enrollment.UserID)
	assert.Equal(t, domain.EnrollmentPending, enrollment.Status)
	assert.Len(t, enrollment.ReferenceNumber, 8)
	assert.Equal(t, strings.ToUpper(enrollment.ReferenceNumber), enrollment.ReferenceNumber)
	for _, c := range enrollment.ReferenceNumber {
		assert.Contains(t, referenceAlphabet, string(c))
	}

	enrollRepo.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestEnrollmentSubmit_MailFailureIsNonFatal(t *testing.T) {
	enrollRepo := new(mockEnrollmentRepository)
	mailer := new(mockMailer)
	svc := NewEnrollmentService(enrollRepo, mailer, newTestLogger())
	ctx := context.Background()

	enrollRepo.On("Create", ctx, mock.AnythingOfType("*domain.Enrollment")).Return(nil)
	mailer.On("SendEnrollmentReceived", ctx, mock.AnythingOfType("*domain.Enrollment")).
		Return(assert.AnError)

	enrollment, err := svc.Submit(ctx, nil, validEnrollmentInput())

	require.NoError(t, err)
	assert.NotNil(t, enrollment)
}

func TestEnrollmentSubmit_ReferenceCollisionRegenerated(t *testing.T) {
	enrollRepo := new(mockEnrollmentRepository)
	mailer := new(mockMailer)
	svc := NewEnrollmentService(enrollRepo, mailer, newTestLogger())
	ctx := context.Background()

	var refs []string
	record := func(args mock.Arguments) {
		refs = append(refs, args.Get(1).(*domain.Enrollment).ReferenceNumber)
	}
	enrollRepo.On("Create", ctx, mock.AnythingOfType("*domain.Enrollment")).
		Run(record).
		Return(apperrors.AlreadyExists("enrollment", "reference_number", "taken")).Once()
	enrollRepo.On("Create", ctx, mock.AnythingOfType("*domain.Enrollment")).
		Run(record).
		Return(nil).Once()
	mailer.On("SendEnrollmentReceived", ctx, mock.AnythingOfType("*domain.Enrollment")).Return(nil)

	enrollment, err := svc.Submit(ctx, nil, validEnrollmentInput())

	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.NotEqual(t, refs[0], refs[1])
	assert.Equal(t, refs[1], enrollment.ReferenceNumber)

	enrollRepo.AssertExpectations(t)
}

func TestEnrollmentSubmit_ReferenceCollisionGivesUp(t *testing.T) {
	enrollRepo := new(mockEnrollmentRepository)
	svc := NewEnrollmentService(enrollRepo, new(mockMailer), newTestLogger())
	ctx := context.Background()

	enrollRepo.On("Create", ctx, mock.AnythingOfType("*domain.Enrollment")).
		Return(apperrors.AlreadyExists("enrollment", "reference_number", "taken")).
		Times(referenceAttempts)

	enrollment, err := svc.Submit(ctx, nil, validEnrollmentInput())

	assert.Nil(t, enrollment)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	enrollRepo.AssertExpectations(t)
}

func TestEnrollmentSubmit_Invalid(t *testing.T) {
	enrollRepo := new(mockEnrollmentRepository)
	svc := NewEnrollmentService(enrollRepo, new(mockMailer), newTestLogger())
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*SubmitEnrollmentInput)
	}{
		{"missing name", func(in *SubmitEnrollmentInput) { in.FullName = "" }},
		{"missing email", func(in *SubmitEnrollmentInput) { in.Email = "" }},
		{"missing phone", func(in *SubmitEnrollmentInput) { in.Phone = "" }},
		{"missing dob", func(in *SubmitEnrollmentInput) { in.DateOfBirth = time.Time{} }},
		{"bad program", func(in *SubmitEnrollmentInput) { in.Program = "masters" }},
		{"bad belt rank", func(in *SubmitEnrollmentInput) { in.CurrentBeltRank = "purple" }},
		{"missing emergency contact", func(in *SubmitEnrollmentInput) { in.EmergencyName = "" }},
		{"bad referral source", func(in *SubmitEnrollmentInput) { in.HowDidYouHear = "billboard" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validEnrollmentInput()
			tt.mutate(&input)

			enrollment, err := svc.Submit(ctx, nil, input)

			assert.Nil(t, enrollment)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}

	enrollRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEnrollmentGetByReference(t *testing.T) {
	enrollRepo := new(mockEnrollmentRepository)
	svc := NewEnrollmentService(enrollRepo, new(mockMailer), newTestLogger())
	ctx := context.Background()

	existing := &domain.Enrollment{
		ID:              "enr-1",
		ReferenceNumber: "ABCD2345",
		Status:          domain.EnrollmentPending,
	}

	enrollRepo.On("GetByReference", ctx, "ABCD2345").Return(existing, nil)

	enrollment, err := svc.GetByReference(ctx, "  ABCD2345  ")

	require.NoError(t, err)
	assert.Equal(t, "enr-1", enrollment.ID)

	enrollRepo.AssertExpectations(t)
}

func TestEnrollmentGetByReference_Unknown(t *testing.T) {
	enrollRepo := new(mockEnrollmentRepository)
	svc := NewEnrollmentService(enrollRepo, new(mockMailer), newTestLogger())
	ctx := context.Background()

	enrollRepo.On("GetByReference", ctx, "ZZZZ9999").Return(nil, apperrors.ErrNotFound)

	enrollment, err := svc.GetByReference(ctx, "ZZZZ9999")

	assert.Nil(t, enrollment)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestEnrollmentGet_OwnerOrAdmin(t *testing.T) {
	enrollmentRepo := new(mockEnrollmentRepository)
	svc := NewEnrollmentService(enrollmentRepo, mail.NopMailer{}, newTestLogger())
	ctx := context.Background()

	stored := &domain.Enrollment{ID: "e-1", Email: "sam@example.com"}
	enrollmentRepo.On("GetByID", ctx, "e-1").Return(stored, nil)

	tests := []struct {
		name    string
		viewer  *domain.User
		wantErr error
	}{
		{"owner", &domain.User{Email: "Sam@Example.com", Role: domain.RoleUser}, nil},
		{"admin", &domain.User{Email: "admin@example.com", Role: domain.RoleAdmin}, nil},
		{"other member", &domain.User{Email: "other@example.com", Role: domain.RoleUser}, apperrors.ErrForbidden},
		{"no viewer", nil, apperrors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enrollment, err := svc.Get(ctx, "e-1", tt.viewer)
			if tt.wantErr != nil {
				assert.Nil(t, enrollment)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "e-1", enrollment.ID)
		})
	}
}

func TestEnrollmentDecide_Approve(t *testing.T) {
	enrollRepo := new(mockEnrollmentRepository)
	mailer := new(mockMailer)
	svc := NewEnrollmentService(enrollRepo, mailer, newTestLogger())
	ctx := context.Background()

	existing := &domain.Enrollment{
		ID:              "enr-1",
		ReferenceNumber: "ABCD2345",
		Email:           "sam@example.com",
		Status:          domain.EnrollmentPending,
	}
	reviewer := &domain.User{ID: "admin-1", Role: domain.RoleAdmin}

	enrollRepo.On("GetByID", ctx, "enr-1").Return(existing, nil)
	enrollRepo.On("UpdateStatus", ctx, "enr-1", domain.EnrollmentApproved, "welcome aboard", "admin-1", mock.AnythingOfType("time.Time")).
		Return(nil)
	mailer.On("SendEnrollmentDecision", ctx, mock.AnythingOfType("*domain.Enrollment")).Return(nil)

	enrollment, err := svc.Decide(ctx, "enr-1", domain.EnrollmentApproved, "welcome aboard", reviewer)

	require.NoError(t, err)
	assert.Equal(t, domain.EnrollmentApproved, enrollment.Status)
	assert.Equal(t, "welcome aboard", enrollment.AdminNotes)
	require.NotNil(t, enrollment.ReviewedBy)
	assert.Equal(t, "admin-1", *enrollment.ReviewedBy)
	assert.NotNil(t, enrollment.ReviewedAt)

	enrollRepo.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestEnrollmentDecide_InvalidStatus(t *testing.T) {
	enrollRepo := new(mockEnrollmentRepository)
	svc := NewEnrollmentService(enrollRepo, new(mockMailer), newTestLogger())
	ctx := context.Background()

	reviewer := &domain.User{ID: "admin-1", Role: domain.RoleAdmin}

	enrollment, err := svc.Decide(ctx, "enr-1", "maybe", "", reviewer)

	assert.Nil(t, enrollment)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	enrollRepo.AssertNotCalled(t, "UpdateStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// A decision on pending is also invalid: applications go back to pending
// only by resubmitting.
func TestEnrollmentDecide_PendingRejected(t *testing.T) {
	svc := NewEnrollmentService(new(mockEnrollmentRepository), new(mockMailer), newTestLogger())

	reviewer := &domain.User{ID: "admin-1", Role: domain.RoleAdmin}
	enrollment, err := svc.Decide(context.Background(), "enr-1", domain.EnrollmentPending, "", reviewer)

	assert.Nil(t, enrollment)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestGenerateReferenceNumber_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref, err := generateReferenceNumber()
		require.NoError(t, err)
		assert.Len(t, ref, 8)
		assert.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}
