package handler

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"healthchain/internal/httputil"
)

// HealthHandler reports service liveness and database reachability
type HealthHandler struct {
	pool *pgxpool.Pool
}

func NewHealthHandler(pool *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{pool: pool}
}

// Health reports service status
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbStatus := "ok"
	status := http.StatusOK
	if err := h.pool.Ping(r.Context()); err != nil {
		dbStatus = "unreachable"
		status = http.StatusServiceUnavailable
	}

	httputil.RespondJSON(w, status, map[string]any{
		"service":  "healthchain",
		"status":   dbStatus,
		"features": []string{"chat", "pharmacy_agent", "voice", "rag", "health_analysis"},
	})
}
