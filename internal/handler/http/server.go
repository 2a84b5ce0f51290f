package http

import (
	"EquiSplit-Backend/internal/metrics"
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Dependencies сервисы, которые использует HTTP сервер
type Dependencies struct {
	Resolver  VisitorResolver
	Recorder  EventRecorder
	Reporter  StatsReporter
	PageViews PageViewTracker
	Pinger    Pinger
	Queue     QueueStats // nil при синхронной записи просмотров
	Metrics   *metrics.Metrics
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	APIPrefix      string
	SessionHeader  string
	AllowedOrigins []string
	Version        string
}

// Server HTTP сервер с обработчиками
type Server struct {
	trackingHandler *TrackingHandler
	healthHandler   *HealthHandler
	middleware      *Middleware
	metrics         *metrics.Metrics
	log             *zap.Logger
}

// NewServer создает новый HTTP сервер
func NewServer(deps Dependencies, cfg ServerConfig, log *zap.Logger) *Server {
	if cfg.Version == "" {
		cfg.Version = "1.0.0"
	}

	return &Server{
		trackingHandler: NewTrackingHandler(deps.Recorder, deps.Reporter, deps.Metrics, log),
		healthHandler:   NewHealthHandler(deps.Pinger, deps.Queue, cfg.Version, log),
		middleware: NewMiddleware(deps.Resolver, deps.PageViews, MiddlewareConfig{
			APIPrefix:      cfg.APIPrefix,
			SessionHeader:  cfg.SessionHeader,
			AllowedOrigins: cfg.AllowedOrigins,
		}, deps.Metrics, log),
		metrics: deps.Metrics,
		log:     log,
	}
}

// SetupRoutes настраивает маршруты.
// /metrics обслуживается вне цепочки трекинга, остальное проходит
// CORS -> логирование -> recovery -> сессия -> трекинг -> router.
func (s *Server) SetupRoutes() http.Handler {
	router := mux.NewRouter()

	s.healthHandler.RegisterRoutes(router)
	s.trackingHandler.RegisterRoutes(router)

	// Swagger документация, под префиксом API чтобы не считаться просмотром страницы
	router.PathPrefix("/api/docs/").Handler(httpSwagger.WrapHandler).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(notFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	var handler http.Handler = router
	handler = s.middleware.Tracking(handler)
	handler = s.middleware.Session(handler)
	handler = s.middleware.Recovery(handler)
	handler = s.middleware.RequestLogger(router, handler)
	handler = s.middleware.CORS(handler)

	root := http.NewServeMux()
	root.Handle("/metrics", s.metrics.Handler())
	root.Handle("/", handler)

	return root
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, "Endpoint not found", http.StatusNotFound)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
}
