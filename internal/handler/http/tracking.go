package http

import (
	"EquiSplit-Backend/internal/domain"
	"EquiSplit-Backend/internal/metrics"
	"EquiSplit-Backend/internal/service"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// maxBodyBytes ограничивает размер тела запроса трекинга
const maxBodyBytes = 10 << 20

// EventRecorder записывает события клиента
type EventRecorder interface {
	RecordEvent(ctx context.Context, in service.EventInput) service.Outcome[string]
	RecordConversion(ctx context.Context, visitorID, sessionID, funnelStep string, workspaceID *string) service.Outcome[string]
	RecordFeatureUsage(ctx context.Context, visitorID, featureName string) service.Outcome[int64]
}

// StatsReporter строит отчеты для дашборда
type StatsReporter interface {
	DailyStats(ctx context.Context, days int) service.Outcome[[]domain.DailyStat]
	TopPages(ctx context.Context, limit int) service.Outcome[[]domain.PageStat]
	ConversionFunnel(ctx context.Context) service.Outcome[[]domain.FunnelStat]
	TopEvents(ctx context.Context, limit int) service.Outcome[[]domain.EventStat]
	FeatureUsageStats(ctx context.Context) service.Outcome[[]domain.FeatureStat]
	RecentEvents(ctx context.Context, limit int) service.Outcome[[]domain.EventRecord]
	Realtime(ctx context.Context) service.Outcome[domain.RealtimeSnapshot]
}

// TrackingHandler обработчик API трекинга
type TrackingHandler struct {
	recorder EventRecorder
	reporter StatsReporter
	metrics  *metrics.Metrics
	log      *zap.Logger
}

// NewTrackingHandler создает новый обработчик трекинга
func NewTrackingHandler(recorder EventRecorder, reporter StatsReporter, m *metrics.Metrics, log *zap.Logger) *TrackingHandler {
	return &TrackingHandler{
		recorder: recorder,
		reporter: reporter,
		metrics:  m,
		log:      log,
	}
}

// RegisterRoutes регистрирует маршруты /api/tracking
func (h *TrackingHandler) RegisterRoutes(router *mux.Router) {
	tracking := router.PathPrefix("/api/tracking").Subrouter()

	tracking.HandleFunc("/event", h.TrackEvent).Methods(http.MethodPost)
	tracking.HandleFunc("/conversion", h.TrackConversion).Methods(http.MethodPost)
	tracking.HandleFunc("/feature", h.TrackFeature).Methods(http.MethodPost)

	tracking.HandleFunc("/stats/daily", h.DailyStats).Methods(http.MethodGet)
	tracking.HandleFunc("/stats/pages", h.TopPages).Methods(http.MethodGet)
	tracking.HandleFunc("/stats/funnel", h.Funnel).Methods(http.MethodGet)
	tracking.HandleFunc("/stats/events", h.TopEvents).Methods(http.MethodGet)
	tracking.HandleFunc("/stats/features", h.Features).Methods(http.MethodGet)
	tracking.HandleFunc("/stats/realtime", h.Realtime).Methods(http.MethodGet)
	tracking.HandleFunc("/events/recent", h.RecentEvents).Methods(http.MethodGet)
}

type eventRequest struct {
	EventType     string          `json:"eventType"`
	EventCategory *string         `json:"eventCategory"`
	EventAction   *string         `json:"eventAction"`
	EventLabel    *string         `json:"eventLabel"`
	EventValue    *float64        `json:"eventValue"`
	PageURL       *string         `json:"pageUrl"`
	Metadata      json.RawMessage `json:"metadata" swaggertype:"object"`
}

type conversionRequest struct {
	FunnelStep  string  `json:"funnelStep"`
	WorkspaceID *string `json:"workspaceId"`
}

type featureRequest struct {
	FeatureName string `json:"featureName"`
}

// TrackEvent POST /api/tracking/event
//
//	@Summary		Track an event
//	@Description	Record a client event. Metadata may be any JSON value.
//	@Tags			Tracking
//	@Accept			json
//	@Produce		json
//	@Param			X-Session-ID	header		string			false	"Client session id"
//	@Param			request			body		eventRequest	true	"Event"
//	@Success		200		{object}	map[string]bool		"Accepted; X-Analytics-Degraded is set when the write failed"
//	@Failure		400		{object}	map[string]string	"Invalid request data"
//	@Router			/api/tracking/event [post]
func (h *TrackingHandler) TrackEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.EventType) == "" {
		writeError(w, "eventType is required", http.StatusBadRequest)
		return
	}

	// metadata сохраняется как есть: объект, массив или скаляр
	var metadata any
	if len(req.Metadata) > 0 {
		metadata = req.Metadata
	}

	visitorID, sessionID := identity(r)
	out := h.recorder.RecordEvent(r.Context(), service.EventInput{
		VisitorID:     visitorID,
		SessionID:     sessionID,
		EventType:     req.EventType,
		EventCategory: req.EventCategory,
		EventAction:   req.EventAction,
		EventLabel:    req.EventLabel,
		EventValue:    req.EventValue,
		PageURL:       req.PageURL,
		Metadata:      metadata,
	})

	h.markDegraded(w, r, out.Degraded())
	writeSuccess(w)
}

// TrackConversion POST /api/tracking/conversion
//
//	@Summary		Track a conversion
//	@Description	Record a funnel step. Repeated steps are stored as separate rows.
//	@Tags			Tracking
//	@Accept			json
//	@Produce		json
//	@Param			X-Session-ID	header		string				false	"Client session id"
//	@Param			request			body		conversionRequest	true	"Funnel step"
//	@Success		200		{object}	map[string]bool		"Accepted; X-Analytics-Degraded is set when the write failed"
//	@Failure		400		{object}	map[string]string	"Invalid request data"
//	@Router			/api/tracking/conversion [post]
func (h *TrackingHandler) TrackConversion(w http.ResponseWriter, r *http.Request) {
	var req conversionRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.FunnelStep) == "" {
		writeError(w, "funnelStep is required", http.StatusBadRequest)
		return
	}

	visitorID, sessionID := identity(r)
	out := h.recorder.RecordConversion(r.Context(), visitorID, sessionID, req.FunnelStep, req.WorkspaceID)

	h.markDegraded(w, r, out.Degraded())
	writeSuccess(w)
}

// TrackFeature POST /api/tracking/feature
//
//	@Summary		Track feature usage
//	@Description	Increment the per-visitor usage counter of a feature.
//	@Tags			Tracking
//	@Accept			json
//	@Produce		json
//	@Param			X-Session-ID	header		string			false	"Client session id"
//	@Param			request			body		featureRequest	true	"Feature"
//	@Success		200		{object}	map[string]bool		"Accepted; X-Analytics-Degraded is set when the write failed"
//	@Failure		400		{object}	map[string]string	"Invalid request data"
//	@Router			/api/tracking/feature [post]
func (h *TrackingHandler) TrackFeature(w http.ResponseWriter, r *http.Request) {
	var req featureRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.FeatureName) == "" {
		writeError(w, "featureName is required", http.StatusBadRequest)
		return
	}

	visitorID, _ := identity(r)
	out := h.recorder.RecordFeatureUsage(r.Context(), visitorID, req.FeatureName)

	h.markDegraded(w, r, out.Degraded())
	writeSuccess(w)
}

// DailyStats GET /api/tracking/stats/daily?days=N
//
//	@Summary		Daily visitor stats
//	@Description	Visitors grouped by the date of their first visit, newest first.
//	@Tags			Stats
//	@Produce		json
//	@Param			days	query	int	false	"Window in days (default 30, max 365)"
//	@Success		200	{array}	domain.DailyStat
//	@Router			/api/tracking/stats/daily [get]
func (h *TrackingHandler) DailyStats(w http.ResponseWriter, r *http.Request) {
	out := h.reporter.DailyStats(r.Context(), queryInt(r, "days"))
	respond(h, w, r, out)
}

// TopPages GET /api/tracking/stats/pages?limit=N
//
//	@Summary		Top pages
//	@Description	Most viewed pages over the last 30 days.
//	@Tags			Stats
//	@Produce		json
//	@Param			limit	query	int	false	"Number of rows (default 10, max 100)"
//	@Success		200	{array}	domain.PageStat
//	@Router			/api/tracking/stats/pages [get]
func (h *TrackingHandler) TopPages(w http.ResponseWriter, r *http.Request) {
	out := h.reporter.TopPages(r.Context(), queryInt(r, "limit"))
	respond(h, w, r, out)
}

// Funnel GET /api/tracking/stats/funnel
//
//	@Summary		Conversion funnel
//	@Description	Users and events per funnel step over the last 30 days, in funnel order.
//	@Tags			Stats
//	@Produce		json
//	@Success		200	{array}	domain.FunnelStat
//	@Router			/api/tracking/stats/funnel [get]
func (h *TrackingHandler) Funnel(w http.ResponseWriter, r *http.Request) {
	respond(h, w, r, h.reporter.ConversionFunnel(r.Context()))
}

// TopEvents GET /api/tracking/stats/events?limit=N
//
//	@Summary		Top events
//	@Description	Most frequent event type and action pairs over the last 30 days.
//	@Tags			Stats
//	@Produce		json
//	@Param			limit	query	int	false	"Number of rows (default 10, max 100)"
//	@Success		200	{array}	domain.EventStat
//	@Router			/api/tracking/stats/events [get]
func (h *TrackingHandler) TopEvents(w http.ResponseWriter, r *http.Request) {
	out := h.reporter.TopEvents(r.Context(), queryInt(r, "limit"))
	respond(h, w, r, out)
}

// Features GET /api/tracking/stats/features
//
//	@Summary		Feature usage
//	@Description	Usage totals per feature.
//	@Tags			Stats
//	@Produce		json
//	@Success		200	{array}	domain.FeatureStat
//	@Router			/api/tracking/stats/features [get]
func (h *TrackingHandler) Features(w http.ResponseWriter, r *http.Request) {
	respond(h, w, r, h.reporter.FeatureUsageStats(r.Context()))
}

// Realtime GET /api/tracking/stats/realtime
//
//	@Summary		Realtime snapshot
//	@Description	Active visitors, today totals and event counts for the last hour.
//	@Tags			Stats
//	@Produce		json
//	@Success		200	{object}	domain.RealtimeSnapshot
//	@Router			/api/tracking/stats/realtime [get]
func (h *TrackingHandler) Realtime(w http.ResponseWriter, r *http.Request) {
	respond(h, w, r, h.reporter.Realtime(r.Context()))
}

// RecentEvents GET /api/tracking/events/recent?limit=N
//
//	@Summary		Recent events
//	@Description	Newest raw events with decoded metadata.
//	@Tags			Stats
//	@Produce		json
//	@Param			limit	query	int	false	"Number of rows (default 10, max 100)"
//	@Success		200	{array}	domain.EventRecord
//	@Router			/api/tracking/events/recent [get]
func (h *TrackingHandler) RecentEvents(w http.ResponseWriter, r *http.Request) {
	out := h.reporter.RecentEvents(r.Context(), queryInt(r, "limit"))
	respond(h, w, r, out)
}

func respond[T any](h *TrackingHandler, w http.ResponseWriter, r *http.Request, out service.Outcome[T]) {
	h.markDegraded(w, r, out.Degraded())
	writeJSON(w, out.Value, http.StatusOK)
}

func (h *TrackingHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		h.log.Debug("invalid tracking request body",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func (h *TrackingHandler) markDegraded(w http.ResponseWriter, r *http.Request, degraded bool) {
	if !degraded {
		return
	}
	w.Header().Set(DegradedHeader, "true")

	route := r.URL.Path
	if current := mux.CurrentRoute(r); current != nil {
		if tpl, err := current.GetPathTemplate(); err == nil {
			route = tpl
		}
	}
	h.metrics.DegradedResponse(route)
}

// identity возвращает посетителя и сессию, определенные middleware.
// Без middleware посетитель получает временный ID.
func identity(r *http.Request) (visitorID, sessionID string) {
	visitorID, ok := GetVisitorIDFromContext(r.Context())
	if !ok {
		visitorID = uuid.NewString()
	}
	sessionID, _ = GetSessionIDFromContext(r.Context())
	return visitorID, sessionID
}

// queryInt возвращает 0 для отсутствующего или некорректного параметра, сервис подставит значение по умолчанию
func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return v
}
