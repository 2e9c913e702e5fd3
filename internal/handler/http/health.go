package http

import (
	"net/http"
	"time"

	"github.com/mahatkd/federation-api/internal/config"
	"github.com/mahatkd/federation-api/internal/database"
	"github.com/mahatkd/federation-api/pkg/httputil"
)

// HealthHandler reports the server's view of its own dependencies.
type HealthHandler struct {
	guardian *database.Guardian
	cfg      *config.Config
	started  time.Time
}

// NewHealthHandler creates a new health HTTP handler.
func NewHealthHandler(guardian *database.Guardian, cfg *config.Config) *HealthHandler {
	return &HealthHandler{guardian: guardian, cfg: cfg, started: time.Now().UTC()}
}

type healthPayload struct {
	Status    string          `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	UptimeSec int64           `json:"uptime_seconds"`
	Database  databaseHealth  `json:"database"`
	Features  featurePresence `json:"features"`
}

type databaseHealth struct {
	State     string `json:"state"`
	Reachable bool   `json:"reachable"`
}

// featurePresence reports which optional integrations are configured.
// Booleans only; never the values themselves.
type featurePresence struct {
	Mail        bool `json:"mail"`
	Redis       bool `json:"redis"`
	GoogleLogin bool `json:"google_login"`
}

// Health handles GET /api/health. Reachable database means 200; anything
// else is 503 so load balancers rotate the instance out.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	reachable := h.guardian.Healthy(r.Context())

	payload := healthPayload{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		UptimeSec: int64(time.Since(h.started).Seconds()),
		Database: databaseHealth{
			State:     h.guardian.State().String(),
			Reachable: reachable,
		},
		Features: featurePresence{
			Mail:        h.cfg.MailEnabled(),
			Redis:       h.cfg.RedisEnabled(),
			GoogleLogin: h.cfg.GoogleClientID != "",
		},
	}

	status := http.StatusOK
	if !reachable {
		payload.Status = "degraded"
		status = http.StatusServiceUnavailable
	}

	httputil.WriteJSON(w, status, httputil.Response{Success: reachable, Data: payload})
}
