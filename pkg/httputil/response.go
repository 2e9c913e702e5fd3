package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/mahatkd/federation-api/pkg/errors"
	"github.com/mahatkd/federation-api/pkg/logger"
	"github.com/mahatkd/federation-api/pkg/validator"
)

// Response is the standard JSON envelope used by every endpoint.
// Success responses carry Data and/or Message; failures carry Message and,
// outside production, Error with internal detail.
type Response struct {
	Success bool              `json:"success"`
	Count   *int              `json:"count,omitempty"`
	Data    any               `json:"data,omitempty"`
	Message string            `json:"message,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// exposeInternal controls whether internal error text is included in
// failure responses. Enabled only in development mode.
var exposeInternal bool

// ExposeInternalErrors toggles inclusion of internal error detail in
// responses. Call once at startup.
func ExposeInternalErrors(on bool) {
	exposeInternal = on
}

// WriteJSON writes a JSON response with the given status code.
// Headers are already sent if encoding fails, so the error is dropped.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData writes a success envelope carrying data.
func WriteData(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, Response{Success: true, Data: data})
}

// WriteList writes a success envelope carrying a list and its count.
func WriteList(w http.ResponseWriter, status int, data any, count int) {
	WriteJSON(w, status, Response{Success: true, Count: &count, Data: data})
}

// WriteMessage writes a success envelope carrying only a message.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Response{Success: true, Message: message})
}

// WriteError writes a failure envelope based on the error type. AppError
// carries its own status and message; everything else is shaped through the
// sentinel mapping and reported as a generic failure. Internal errors are
// logged through the request-scoped logger when one is mounted.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}

	status := apperrors.HTTPStatus(err)
	message := "an internal error occurred"

	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		message = appErr.Message
	case errors.Is(err, apperrors.ErrNotFound):
		message = "resource not found"
	case errors.Is(err, apperrors.ErrInvalidInput):
		message = err.Error()
	case errors.Is(err, apperrors.ErrServiceUnavail):
		message = "service temporarily unavailable, please try again later"
	}

	if status == http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	resp := Response{Success: false, Message: message}
	if exposeInternal && status >= http.StatusInternalServerError {
		resp.Error = err.Error()
	}

	WriteJSON(w, status, resp)
}

// WriteValidationError writes a 400 envelope with field-level errors when the
// error is a validator.ValidationError.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Message: "request validation failed",
			Fields:  valErr.Fields(),
		})
		return
	}

	WriteJSON(w, http.StatusBadRequest, Response{Success: false, Message: err.Error()})
}
