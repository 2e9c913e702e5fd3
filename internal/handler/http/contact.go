package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mahatkd/federation-api/internal/service"
	"github.com/mahatkd/federation-api/pkg/httputil"
	"github.com/mahatkd/federation-api/pkg/validator"
)

// ContactHandler handles HTTP requests for the contact form.
type ContactHandler struct {
	service *service.ContactService
	logger  *slog.Logger
}

// NewContactHandler creates a new contact HTTP handler.
func NewContactHandler(svc *service.ContactService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{service: svc, logger: logger}
}

// ContactRequest is the JSON request body for contact form submissions.
type ContactRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"omitempty,max=20"`
	Subject     string `json:"subject" validate:"omitempty,max=200"`
	Message     string `json:"message" validate:"required,max=5000"`
	EnquiryType string `json:"enquiry_type" validate:"omitempty,oneof=general membership events classes other"`
}

// UpdateContactStatusRequest is the JSON request body for triage updates.
type UpdateContactStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Submit handles POST /api/contact
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	contact, err := h.service.Submit(r.Context(), service.SubmitContactInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Subject:     req.Subject,
		Message:     req.Message,
		EnquiryType: req.EnquiryType,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, contact)
}

// List handles GET /api/contact
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteList(w, http.StatusOK, contacts, len(contacts))
}

// Get handles GET /api/contact/{id}
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	contact, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, contact)
}

// UpdateStatus handles PUT /api/contact/{id}
func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateContactStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	contact, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status, UserFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, contact)
}

// Delete handles DELETE /api/contact/{id}
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "contact message deleted")
}
