package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mahatkd/federation-api/internal/service"
	"github.com/mahatkd/federation-api/pkg/httputil"
	"github.com/mahatkd/federation-api/pkg/validator"
)

// GalleryHandler handles HTTP requests for the media gallery.
type GalleryHandler struct {
	service *service.GalleryService
	logger  *slog.Logger
}

// NewGalleryHandler creates a new gallery HTTP handler.
func NewGalleryHandler(svc *service.GalleryService, logger *slog.Logger) *GalleryHandler {
	return &GalleryHandler{service: svc, logger: logger}
}

// GalleryItemRequest is the JSON request body for gallery items.
type GalleryItemRequest struct {
	Title        string   `json:"title" validate:"required,max=200"`
	Description  string   `json:"description" validate:"omitempty,max=1000"`
	Category     string   `json:"category" validate:"required"`
	MediaURL     string   `json:"media_url" validate:"required,url"`
	MediaType    string   `json:"media_type" validate:"omitempty,oneof=image video"`
	ThumbnailURL string   `json:"thumbnail_url" validate:"omitempty,url"`
	Tags         []string `json:"tags" validate:"omitempty,max=20,dive,max=50"`
	EventID      *string  `json:"event_id" validate:"omitempty,uuid"`
	IsPublic     *bool    `json:"is_public"`
}

// UpdateGalleryItemRequest allows partial updates.
type UpdateGalleryItemRequest struct {
	Title        string   `json:"title" validate:"omitempty,max=200"`
	Description  string   `json:"description" validate:"omitempty,max=1000"`
	Category     string   `json:"category"`
	MediaURL     string   `json:"media_url" validate:"omitempty,url"`
	MediaType    string   `json:"media_type" validate:"omitempty,oneof=image video"`
	ThumbnailURL string   `json:"thumbnail_url" validate:"omitempty,url"`
	Tags         []string `json:"tags" validate:"omitempty,max=20,dive,max=50"`
	EventID      *string  `json:"event_id" validate:"omitempty,uuid"`
	IsPublic     *bool    `json:"is_public"`
}

// List handles GET /api/gallery
func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), UserFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteList(w, http.StatusOK, items, len(items))
}

// ListByCategory handles GET /api/gallery/category/{category}
func (h *GalleryHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	items, err := h.service.ListByCategory(r.Context(), category, UserFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteList(w, http.StatusOK, items, len(items))
}

// Get handles GET /api/gallery/{id}
func (h *GalleryHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), UserFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, item)
}

// Create handles POST /api/gallery
func (h *GalleryHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeUnauthorized(w, "not authorized to access this route")
		return
	}

	var req GalleryItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	item, err := h.service.Create(r.Context(), user.ID, service.CreateGalleryItemInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		MediaURL:     req.MediaURL,
		MediaType:    req.MediaType,
		ThumbnailURL: req.ThumbnailURL,
		Tags:         req.Tags,
		EventID:      req.EventID,
		IsPublic:     req.IsPublic,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, item)
}

// Update handles PUT /api/gallery/{id}
func (h *GalleryHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeUnauthorized(w, "not authorized to access this route")
		return
	}

	var req UpdateGalleryItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	item, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), user, service.CreateGalleryItemInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		MediaURL:     req.MediaURL,
		MediaType:    req.MediaType,
		ThumbnailURL: req.ThumbnailURL,
		Tags:         req.Tags,
		EventID:      req.EventID,
		IsPublic:     req.IsPublic,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, item)
}

// Delete handles DELETE /api/gallery/{id}
func (h *GalleryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeUnauthorized(w, "not authorized to access this route")
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), user); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "gallery item deleted")
}
