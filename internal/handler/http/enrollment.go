package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mahatkd/federation-api/internal/service"
	"github.com/mahatkd/federation-api/pkg/httputil"
	"github.com/mahatkd/federation-api/pkg/validator"
)

// EnrollmentHandler handles HTTP requests for membership applications.
type EnrollmentHandler struct {
	service *service.EnrollmentService
	logger  *slog.Logger
}

// NewEnrollmentHandler creates a new enrollment HTTP handler.
func NewEnrollmentHandler(svc *service.EnrollmentService, logger *slog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{service: svc, logger: logger}
}

// EnrollmentRequest is the JSON request body for membership applications.
type EnrollmentRequest struct {
	FullName        string    `json:"full_name" validate:"required,max=100"`
	Email           string    `json:"email" validate:"required,email"`
	Phone           string    `json:"phone" validate:"required,max=20"`
	DateOfBirth     time.Time `json:"date_of_birth" validate:"required"`
	Gender          string    `json:"gender" validate:"omitempty,max=20"`
	Program         string    `json:"program" validate:"required"`
	ExperienceLevel string    `json:"experience_level" validate:"omitempty,max=50"`
	CurrentBeltRank string    `json:"current_belt_rank" validate:"omitempty,max=20"`
	MedicalInfo     string    `json:"medical_info" validate:"omitempty,max=2000"`
	HowDidYouHear   string    `json:"how_did_you_hear" validate:"omitempty,oneof=friend social-media search-engine event advertisement other"`
	EmergencyName   string    `json:"emergency_contact_name" validate:"required,max=100"`
	EmergencyPhone  string    `json:"emergency_contact_phone" validate:"required,max=20"`
}

// EnrollmentDecisionRequest is the JSON request body for admin decisions.
type EnrollmentDecisionRequest struct {
	Status     string `json:"status" validate:"required,oneof=approved rejected"`
	AdminNotes string `json:"admin_notes" validate:"omitempty,max=2000"`
}

// enrollmentStatusPayload is the public view of an application's progress.
type enrollmentStatusPayload struct {
	ReferenceNumber string `json:"reference_number"`
	FullName        string `json:"full_name"`
	Program         string `json:"program"`
	Status          string `json:"status"`
	AdminNotes      string `json:"admin_notes,omitempty"`
	SubmittedAt     string `json:"submitted_at"`
}

// Submit handles POST /api/enrollments
func (h *EnrollmentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req EnrollmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	enrollment, err := h.service.Submit(r.Context(), UserFromContext(r.Context()), service.SubmitEnrollmentInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Phone:           req.Phone,
		DateOfBirth:     req.DateOfBirth,
		Gender:          req.Gender,
		Program:         req.Program,
		ExperienceLevel: req.ExperienceLevel,
		CurrentBeltRank: req.CurrentBeltRank,
		MedicalInfo:     req.MedicalInfo,
		HowDidYouHear:   req.HowDidYouHear,
		EmergencyName:   req.EmergencyName,
		EmergencyPhone:  req.EmergencyPhone,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, enrollment)
}

// Status handles GET /api/enrollments/status/{reference}. Public: exposes
// only the application's progress, not the personal details on file.
func (h *EnrollmentHandler) Status(w http.ResponseWriter, r *http.Request) {
	enrollment, err := h.service.GetByReference(r.Context(), chi.URLParam(r, "reference"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, enrollmentStatusPayload{
		ReferenceNumber: enrollment.ReferenceNumber,
		FullName:        enrollment.FullName,
		Program:         enrollment.Program,
		Status:          enrollment.Status,
		AdminNotes:      enrollment.AdminNotes,
		SubmittedAt:     enrollment.CreatedAt.Format(time.RFC3339),
	})
}

// ListMine handles GET /api/enrollments/mine
func (h *EnrollmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeUnauthorized(w, "not authorized to access this route")
		return
	}

	enrollments, err := h.service.ListByEmail(r.Context(), user.Email)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteList(w, http.StatusOK, enrollments, len(enrollments))
}

// List handles GET /api/enrollments/all
func (h *EnrollmentHandler) List(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteList(w, http.StatusOK, enrollments, len(enrollments))
}

// Get handles GET /api/enrollments/{id}
func (h *EnrollmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	enrollment, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), UserFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, enrollment)
}

// Decide handles PUT /api/enrollments/{id}/status
func (h *EnrollmentHandler) Decide(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeUnauthorized(w, "not authorized to access this route")
		return
	}

	var req EnrollmentDecisionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	enrollment, err := h.service.Decide(r.Context(), chi.URLParam(r, "id"), req.Status, req.AdminNotes, user)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, enrollment)
}
