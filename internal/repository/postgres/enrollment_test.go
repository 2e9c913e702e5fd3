package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahatkd/federation-api/internal/domain"
	apperrors "github.com/mahatkd/federation-api/pkg/errors"
)

func enrollmentColumnNames() []string {
	return []string{
		"id", "reference_number", "user_id", "full_name", "email", "phone", "date_of_birth", "gender", "program",
		"experience_level", "current_belt_rank", "medical_info", "how_did_you_hear", "emergency_contact_name",
		"emergency_contact_phone", "status", "admin_notes", "reviewed_by", "reviewed_at", "created_at",
	}
}

func sampleEnrollment() *domain.Enrollment {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Enrollment{
		ID:              "e-1",
		ReferenceNumber: "AB12CD34",
		FullName:        "Bob Jones",
		Email:           "bob@example.com",
		Phone:           "+1987654321",
		DateOfBirth:     now.AddDate(-20, 0, 0),
		Program:         domain.ProgramAdults,
		HowDidYouHear:   domain.ReferralFriend,
		EmergencyName:   "Carol Jones",
		EmergencyPhone:  "+1987654322",
		Status:          domain.EnrollmentPending,
		CreatedAt:       now,
	}
}

func enrollmentRow(e *domain.Enrollment) *pgxmock.Rows {
	return pgxmock.NewRows(enrollmentColumnNames()).AddRow(
		e.ID, e.ReferenceNumber, e.UserID, e.FullName, e.Email, e.Phone, e.DateOfBirth, e.Gender, e.Program,
		e.ExperienceLevel, e.CurrentBeltRank, e.MedicalInfo, e.HowDidYouHear, e.EmergencyName,
		e.EmergencyPhone, e.Status, e.AdminNotes, e.ReviewedBy, e.ReviewedAt, e.CreatedAt,
	)
}

func TestEnrollmentRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewEnrollmentRepository(mock)

	e := sampleEnrollment()

	mock.ExpectExec("INSERT INTO enrollments").
		WithArgs(
			e.ID, e.ReferenceNumber, e.UserID, e.FullName, e.Email, e.Phone, e.DateOfBirth, e.Gender, e.Program,
			e.ExperienceLevel, e.CurrentBeltRank, e.MedicalInfo, e.HowDidYouHear, e.EmergencyName,
			e.EmergencyPhone, e.Status, e.AdminNotes, e.CreatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.Create(context.Background(), e))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_GetByReference_UppercasesInput(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewEnrollmentRepository(mock)

	e := sampleEnrollment()

	mock.ExpectQuery("SELECT .+ FROM enrollments WHERE reference_number =").
		WithArgs("AB12CD34").
		WillReturnRows(enrollmentRow(e))

	got, err := repo.GetByReference(context.Background(), "ab12cd34")
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_UpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewEnrollmentRepository(mock)

	reviewedAt := time.Now().UTC()

	mock.ExpectExec("UPDATE enrollments").
		WithArgs(domain.EnrollmentApproved, "welcome aboard", "admin-1", reviewedAt, "e-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.UpdateStatus(context.Background(), "e-1", domain.EnrollmentApproved, "welcome aboard", "admin-1", reviewedAt)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_UpdateStatus_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewEnrollmentRepository(mock)

	reviewedAt := time.Now().UTC()

	mock.ExpectExec("UPDATE enrollments").
		WithArgs(domain.EnrollmentRejected, "", "admin-1", reviewedAt, "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.UpdateStatus(context.Background(), "missing", domain.EnrollmentRejected, "", "admin-1", reviewedAt)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_ListByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewEnrollmentRepository(mock)

	e := sampleEnrollment()

	mock.ExpectQuery("SELECT .+ FROM enrollments WHERE email =").
		WithArgs("bob@example.com").
		WillReturnRows(enrollmentRow(e))

	got, err := repo.ListByEmail(context.Background(), "Bob@Example.com")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, e.ReferenceNumber, got[0].ReferenceNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}
