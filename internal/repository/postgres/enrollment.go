package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mahatkd/federation-api/internal/database"
	"github.com/mahatkd/federation-api/internal/domain"
	apperrors "github.com/mahatkd/federation-api/pkg/errors"
)

const enrollmentColumns = `id, reference_number, user_id, full_name, email, phone, date_of_birth, gender, program,
	experience_level, current_belt_rank, medical_info, how_did_you_hear, emergency_contact_name,
	emergency_contact_phone, status, admin_notes, reviewed_by, reviewed_at, created_at`

// EnrollmentRepository implements repository.EnrollmentRepository using PostgreSQL.
type EnrollmentRepository struct {
	db database.Pool
}

// NewEnrollmentRepository creates a new PostgreSQL-backed enrollment repository.
func NewEnrollmentRepository(db database.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create inserts a new enrollment application.
func (r *EnrollmentRepository) Create(ctx context.Context, e *domain.Enrollment) error {
	query := `
		INSERT INTO enrollments (id, reference_number, user_id, full_name, email, phone, date_of_birth, gender, program,
			experience_level, current_belt_rank, medical_info, how_did_you_hear, emergency_contact_name,
			emergency_contact_phone, status, admin_notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := r.db.Exec(ctx, query,
		e.ID, e.ReferenceNumber, e.UserID, e.FullName, e.Email, e.Phone, e.DateOfBirth, e.Gender, e.Program,
		e.ExperienceLevel, e.CurrentBeltRank, e.MedicalInfo, e.HowDidYouHear, e.EmergencyName,
		e.EmergencyPhone, e.Status, e.AdminNotes, e.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("enrollment", "reference_number", e.ReferenceNumber)
		}
		return fmt.Errorf("insert enrollment: %w", err)
	}

	return nil
}

// GetByID retrieves an enrollment by its ID.
func (r *EnrollmentRepository) GetByID(ctx context.Context, id string) (*domain.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE id = $1`
	return r.scanEnrollment(ctx, query, id)
}

// GetByReference retrieves an enrollment by its public reference number.
func (r *EnrollmentRepository) GetByReference(ctx context.Context, reference string) (*domain.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE reference_number = $1`
	return r.scanEnrollment(ctx, query, strings.ToUpper(reference))
}

// List returns all enrollment applications, newest first.
func (r *EnrollmentRepository) List(ctx context.Context) ([]domain.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments ORDER BY created_at DESC`
	return r.queryEnrollments(ctx, query)
}

// ListByEmail returns all applications submitted with the given email.
func (r *EnrollmentRepository) ListByEmail(ctx context.Context, email string) ([]domain.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE email = $1 ORDER BY created_at DESC`
	return r.queryEnrollments(ctx, query, strings.ToLower(email))
}

// UpdateStatus records an admin decision on an application.
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id, status, notes, reviewerID string, reviewedAt time.Time) error {
	query := `
		UPDATE enrollments
		SET status = $1, admin_notes = $2, reviewed_by = $3, reviewed_at = $4
		WHERE id = $5`

	ct, err := r.db.Exec(ctx, query, status, notes, reviewerID, reviewedAt, id)
	if err != nil {
		return fmt.Errorf("update enrollment status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("enrollment", id)
	}

	return nil
}

func (r *EnrollmentRepository) scanEnrollment(ctx context.Context, query string, args ...any) (*domain.Enrollment, error) {
	var e domain.Enrollment
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&e.ID, &e.ReferenceNumber, &e.UserID, &e.FullName, &e.Email, &e.Phone, &e.DateOfBirth, &e.Gender, &e.Program,
		&e.ExperienceLevel, &e.CurrentBeltRank, &e.MedicalInfo, &e.HowDidYouHear, &e.EmergencyName,
		&e.EmergencyPhone, &e.Status, &e.AdminNotes, &e.ReviewedBy, &e.ReviewedAt, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan enrollment: %w", err)
	}

	return &e, nil
}

func (r *EnrollmentRepository) queryEnrollments(ctx context.Context, query string, args ...any) ([]domain.Enrollment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []domain.Enrollment{}
	for rows.Next() {
		var e domain.Enrollment
		if err := rows.Scan(
			&e.ID, &e.ReferenceNumber, &e.UserID, &e.FullName, &e.Email, &e.Phone, &e.DateOfBirth, &e.Gender, &e.Program,
			&e.ExperienceLevel, &e.CurrentBeltRank, &e.MedicalInfo, &e.HowDidYouHear, &e.EmergencyName,
			&e.EmergencyPhone, &e.Status, &e.AdminNotes, &e.ReviewedBy, &e.ReviewedAt, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan enrollment row: %w", err)
		}
		enrollments = append(enrollments, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enrollment rows: %w", err)
	}

	return enrollments, nil
}
