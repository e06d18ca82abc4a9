package health

import (
	"net/http"
	"time"

	"github.com/kvist-io/settingstore/pkg/httputil"
)

// Handler serves the health check endpoint
type Handler struct {
	startedAt time.Time
}

// NewHandler creates a health handler anchored at the process start time
func NewHandler() *Handler {
	return &Handler{startedAt: time.Now()}
}

type healthResponse struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

// HandleHealth handles GET /health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondWithJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startedAt).Seconds(),
	})
}
