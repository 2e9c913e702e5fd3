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

// EventHandler handles HTTP requests for federation events.
type EventHandler struct {
	service *service.EventService
	logger  *slog.Logger
}

// NewEventHandler creates a new event HTTP handler.
func NewEventHandler(svc *service.EventService, logger *slog.Logger) *EventHandler {
	return &EventHandler{service: svc, logger: logger}
}

// EventRequest is the JSON request body for creating or updating an event.
type EventRequest struct {
	Title                string     `json:"title" validate:"required,max=200"`
	Description          string     `json:"description" validate:"required"`
	EventType            string     `json:"event_type" validate:"required"`
	Address              string     `json:"address" validate:"omitempty,max=300"`
	City                 string     `json:"city" validate:"omitempty,max=100"`
	State                string     `json:"state" validate:"omitempty,max=100"`
	Country              string     `json:"country" validate:"omitempty,max=100"`
	VenueDetails         string     `json:"venue_details" validate:"omitempty,max=500"`
	StartDate            time.Time  `json:"start_date" validate:"required"`
	EndDate              time.Time  `json:"end_date" validate:"required"`
	StartTime            string     `json:"start_time" validate:"omitempty,max=20"`
	EndTime              string     `json:"end_time" validate:"omitempty,max=20"`
	BeltRanks            []string   `json:"belt_ranks"`
	AgeGroups            []string   `json:"age_groups"`
	RegistrationRequired bool       `json:"registration_required"`
	RegistrationLink     string     `json:"registration_link" validate:"omitempty,url"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
	FeeAmount            *float64   `json:"fee_amount" validate:"omitempty,gte=0"`
	FeeCurrency          string     `json:"fee_currency" validate:"omitempty,len=3"`
	ContactName          string     `json:"contact_name" validate:"omitempty,max=100"`
	ContactEmail         string     `json:"contact_email" validate:"omitempty,email"`
	ContactPhone         string     `json:"contact_phone" validate:"omitempty,max=20"`
	Image                string     `json:"image" validate:"omitempty,url"`
}

func (req EventRequest) toInput() service.CreateEventInput {
	return service.CreateEventInput{
		Title:                req.Title,
		Description:          req.Description,
		EventType:            req.EventType,
		Address:              req.Address,
		City:                 req.City,
		State:                req.State,
		Country:              req.Country,
		VenueDetails:         req.VenueDetails,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		StartTime:            req.StartTime,
		EndTime:              req.EndTime,
		BeltRanks:            req.BeltRanks,
		AgeGroups:            req.AgeGroups,
		RegistrationRequired: req.RegistrationRequired,
		RegistrationLink:     req.RegistrationLink,
		RegistrationDeadline: req.RegistrationDeadline,
		FeeAmount:            req.FeeAmount,
		FeeCurrency:          req.FeeCurrency,
		ContactName:          req.ContactName,
		ContactEmail:         req.ContactEmail,
		ContactPhone:         req.ContactPhone,
		Image:                req.Image,
	}
}

// List handles GET /api/events
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteList(w, http.StatusOK, events, len(events))
}

// ListUpcoming handles GET /api/events/upcoming
func (h *EventHandler) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListUpcoming(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteList(w, http.StatusOK, events, len(events))
}

// Get handles GET /api/events/{id}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, event)
}

// Create handles POST /api/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeUnauthorized(w, "not authorized to access this route")
		return
	}

	var req EventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	event, err := h.service.Create(r.Context(), user.ID, req.toInput())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, event)
}

// Update handles PUT /api/events/{id}
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	event, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, event)
}

// Delete handles DELETE /api/events/{id}
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "event deleted")
}
