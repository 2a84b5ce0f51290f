package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Pinger проверяет доступность базы данных
type Pinger interface {
	Ping(ctx context.Context) error
}

// QueueStats отдает состояние очереди асинхронной записи просмотров
type QueueStats interface {
	GetStats() map[string]interface{}
}

// HealthHandler обработчик health checks
type HealthHandler struct {
	pinger  Pinger
	queue   QueueStats
	version string
	started time.Time
	log     *zap.Logger
}

// NewHealthHandler создает новый health handler. queue может быть nil,
// если просмотры записываются синхронно.
func NewHealthHandler(pinger Pinger, queue QueueStats, version string, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		pinger:  pinger,
		queue:   queue,
		version: version,
		started: time.Now(),
		log:     log,
	}
}

// HealthResponse структура ответа health check
type HealthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	Version        string    `json:"version"`
	DatabaseStatus string    `json:"database_status"`
	Uptime         string    `json:"uptime,omitempty"`
}

// RegisterRoutes регистрирует /api/health и /api/ready
func (h *HealthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/health", h.Health).Methods(http.MethodGet)
	router.HandleFunc("/api/ready", h.Ready).Methods(http.MethodGet)
}

// Health основной health check endpoint
//
//	@Summary		Health check
//	@Description	Reports service and database health
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Failure		503	{object}	HealthResponse
//	@Router			/api/health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if h.pinger == nil {
		dbStatus = "unavailable"
	} else if err := h.pinger.Ping(ctx); err != nil {
		dbStatus = "unhealthy"
		h.log.Error("database health check failed", zap.Error(err))
	}

	status := "ok"
	statusCode := http.StatusOK
	if dbStatus != "healthy" {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
		h.log.Warn("health check failed", zap.String("database_status", dbStatus))
	}

	writeJSON(w, HealthResponse{
		Status:         status,
		Timestamp:      time.Now().UTC(),
		Version:        h.version,
		DatabaseStatus: dbStatus,
		Uptime:         time.Since(h.started).String(),
	}, statusCode)
}

// Ready readiness check endpoint
//
//	@Summary		Readiness check
//	@Description	Reports readiness and, with async page views, the page view queue state
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}
//	@Router			/api/ready [get]
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
	}
	if h.queue != nil {
		resp["page_view_queue"] = h.queue.GetStats()
	}
	writeJSON(w, resp, http.StatusOK)
}
