package http

import (
	"EquiSplit-Backend/internal/metrics"
	"EquiSplit-Backend/internal/service"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// VisitorResolver определяет посетителя по сессии
type VisitorResolver interface {
	Resolve(ctx context.Context, in service.VisitorInput) service.Outcome[service.Resolution]
}

// PageViewTracker сохраняет просмотр страницы (синхронно или через очередь)
type PageViewTracker interface {
	TrackPageView(ctx context.Context, in service.PageViewInput) error
}

// MiddlewareConfig настройки middleware
type MiddlewareConfig struct {
	APIPrefix      string
	SessionHeader  string
	AllowedOrigins []string
}

// Middleware набор middleware для трекинга, CORS и логирования
type Middleware struct {
	resolver  VisitorResolver
	pageViews PageViewTracker
	cfg       MiddlewareConfig
	metrics   *metrics.Metrics
	log       *zap.Logger
}

// NewMiddleware создает middleware
func NewMiddleware(resolver VisitorResolver, pageViews PageViewTracker, cfg MiddlewareConfig, m *metrics.Metrics, log *zap.Logger) *Middleware {
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/"
	}
	if cfg.SessionHeader == "" {
		cfg.SessionHeader = "X-Session-ID"
	}
	return &Middleware{
		resolver:  resolver,
		pageViews: pageViews,
		cfg:       cfg,
		metrics:   m,
		log:       log,
	}
}

// CORS добавляет CORS заголовки и отвечает на preflight запросы
func (m *Middleware) CORS(next http.Handler) http.Handler {
	allowHeaders := "Origin, X-Requested-With, Content-Type, Accept, Authorization, " + m.cfg.SessionHeader
	exposeHeaders := m.cfg.SessionHeader + ", " + DegradedHeader

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := m.allowedOrigin(r.Header.Get("Origin")); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
		w.Header().Set("Access-Control-Expose-Headers", exposeHeaders)
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		// Preflight не доходит до трекинга
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) allowedOrigin(origin string) string {
	for _, allowed := range m.cfg.AllowedOrigins {
		if allowed == "*" {
			if origin == "" {
				return "*"
			}
			return origin
		}
		if origin != "" && strings.EqualFold(origin, allowed) {
			return origin
		}
	}
	return ""
}

// RequestLogger логирует запросы и пишет метрики. router нужен только для имени маршрута.
func (m *Middleware) RequestLogger(router *mux.Router, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		route := routeLabel(router, r)
		m.metrics.ObserveRequest(r.Method, route, rec.status, duration)

		m.log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("route", route),
			zap.Int("status", rec.status),
			zap.Duration("duration", duration),
		)
	})
}

// Recovery перехватывает панику обработчиков и отвечает 500
func (m *Middleware) Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				m.log.Error("panic while handling request",
					zap.Any("panic", rec),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
				)
				writeError(w, "Internal server error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// Session берет ID сессии из заголовка или выдает новый и возвращает его клиенту
func (m *Middleware) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := strings.TrimSpace(r.Header.Get(m.cfg.SessionHeader))
		if sessionID == "" {
			sessionID = uuid.NewString()
			w.Header().Set(m.cfg.SessionHeader, sessionID)
		}

		next.ServeHTTP(w, r.WithContext(withSessionID(r.Context(), sessionID)))
	})
}

// Tracking определяет посетителя и записывает просмотр страницы.
// Ошибки и паника трекинга не влияют на обработку запроса.
func (m *Middleware) Tracking(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, m.track(r))
	})
}

func (m *Middleware) track(r *http.Request) (out *http.Request) {
	out = r
	defer func() {
		if rec := recover(); rec != nil {
			m.log.Error("tracking middleware panic",
				zap.Any("panic", rec),
				zap.String("path", r.URL.Path),
			)
			m.metrics.StorageError("middleware", "panic")
		}
	}()

	sessionID, _ := GetSessionIDFromContext(r.Context())

	res := m.resolver.Resolve(r.Context(), service.VisitorInput{
		SessionID:   sessionID,
		IPAddress:   extractIPAddress(r),
		UserAgent:   r.UserAgent(),
		Referrer:    r.Referer(),
		LandingPage: r.URL.RequestURI(),
	})
	visitorID := res.Value.VisitorID

	ctx := withVisitorID(withSessionID(r.Context(), sessionID), visitorID)
	out = r.WithContext(ctx)

	if r.Method != http.MethodGet || strings.HasPrefix(r.URL.Path, m.cfg.APIPrefix) {
		return out
	}

	err := m.pageViews.TrackPageView(ctx, service.PageViewInput{
		VisitorID: visitorID,
		SessionID: sessionID,
		PageURL:   r.URL.RequestURI(),
	})
	if err != nil {
		m.log.Debug("page view not recorded",
			zap.String("visitor_id", visitorID),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}

	return out
}

// statusRecorder запоминает код ответа
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wroteHeader = true
	return s.ResponseWriter.Write(b)
}

func routeLabel(router *mux.Router, r *http.Request) string {
	if router == nil {
		return "unknown"
	}
	var match mux.RouteMatch
	if !router.Match(r, &match) || match.Route == nil {
		return "unmatched"
	}
	tpl, err := match.Route.GetPathTemplate()
	if err != nil {
		return "unknown"
	}
	return tpl
}
