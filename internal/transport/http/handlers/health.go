package http_handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/transport/http/response"
)

// Pinger is satisfied by *sql.DB and *bun.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	env     string
	version string
	now     func() time.Time
}

func NewHealthHandler(db Pinger, env, version string) *HealthHandler {
	return &HealthHandler{db: db, env: env, version: version, now: time.Now}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			logger.WithCtx(r.Context()).Warn().Err(err).Msg("health: database ping failed")
			status, code = "unavailable", http.StatusServiceUnavailable
		}
	}

	response.WriteJSON(w, code, dto.HealthResponse{
		Status:      status,
		Environment: h.env,
		Timestamp:   h.now().UTC(),
	})
}

// Info handles GET /
func (h *HealthHandler) Info(w http.ResponseWriter, r *http.Request) {
	response.OK(w, dto.InfoResponse{
		Message:     "user-service API",
		Environment: h.env,
		Version:     h.version,
	})
}
