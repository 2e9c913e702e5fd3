package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mahatkd/federation-api/internal/service"
	"github.com/mahatkd/federation-api/pkg/httputil"
	"github.com/mahatkd/federation-api/pkg/validator"
)

// TestimonialHandler handles HTTP requests for member testimonials.
type TestimonialHandler struct {
	service *service.TestimonialService
	logger  *slog.Logger
}

// NewTestimonialHandler creates a new testimonial HTTP handler.
func NewTestimonialHandler(svc *service.TestimonialService, logger *slog.Logger) *TestimonialHandler {
	return &TestimonialHandler{service: svc, logger: logger}
}

// TestimonialRequest is the JSON request body for testimonial submissions.
type TestimonialRequest struct {
	AuthorName string `json:"author_name" validate:"required,max=100"`
	BeltRank   string `json:"belt_rank" validate:"omitempty,max=20"`
	Quote      string `json:"quote" validate:"required,max=2000"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	PhotoURL   string `json:"photo_url" validate:"omitempty,url"`
}

// ApproveTestimonialRequest is the JSON request body for moderation.
type ApproveTestimonialRequest struct {
	Approved bool `json:"approved"`
	Featured bool `json:"featured"`
}

// List handles GET /api/testimonials
func (h *TestimonialHandler) List(w http.ResponseWriter, r *http.Request) {
	testimonials, err := h.service.List(r.Context(), UserFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteList(w, http.StatusOK, testimonials, len(testimonials))
}

// Submit handles POST /api/testimonials
func (h *TestimonialHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req TestimonialRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	testimonial, err := h.service.Submit(r.Context(), UserFromContext(r.Context()), service.SubmitTestimonialInput{
		AuthorName: req.AuthorName,
		BeltRank:   req.BeltRank,
		Quote:      req.Quote,
		Rating:     req.Rating,
		PhotoURL:   req.PhotoURL,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, testimonial)
}

// Approve handles PUT /api/testimonials/{id}/approve
func (h *TestimonialHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req ApproveTestimonialRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	testimonial, err := h.service.SetApproved(r.Context(), chi.URLParam(r, "id"), req.Approved, req.Featured)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, testimonial)
}

// Delete handles DELETE /api/testimonials/{id}
func (h *TestimonialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "testimonial deleted")
}
