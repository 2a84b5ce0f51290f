package http

import (
	"EquiSplit-Backend/internal/domain"
	"EquiSplit-Backend/internal/metrics"
	"EquiSplit-Backend/internal/service"
	"context"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type mockResolver struct{ mock.Mock }

func (m *mockResolver) Resolve(ctx context.Context, in service.VisitorInput) service.Outcome[service.Resolution] {
	args := m.Called(ctx, in)
	return args.Get(0).(service.Outcome[service.Resolution])
}

type mockPageViews struct{ mock.Mock }

func (m *mockPageViews) TrackPageView(ctx context.Context, in service.PageViewInput) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

type mockRecorder struct{ mock.Mock }

func (m *mockRecorder) RecordEvent(ctx context.Context, in service.EventInput) service.Outcome[string] {
	args := m.Called(ctx, in)
	return args.Get(0).(service.Outcome[string])
}

func (m *mockRecorder) RecordConversion(ctx context.Context, visitorID, sessionID, funnelStep string, workspaceID *string) service.Outcome[string] {
	args := m.Called(ctx, visitorID, sessionID, funnelStep, workspaceID)
	return args.Get(0).(service.Outcome[string])
}

func (m *mockRecorder) RecordFeatureUsage(ctx context.Context, visitorID, featureName string) service.Outcome[int64] {
	args := m.Called(ctx, visitorID, featureName)
	return args.Get(0).(service.Outcome[int64])
}

type mockReporter struct{ mock.Mock }

func (m *mockReporter) DailyStats(ctx context.Context, days int) service.Outcome[[]domain.DailyStat] {
	args := m.Called(ctx, days)
	return args.Get(0).(service.Outcome[[]domain.DailyStat])
}

func (m *mockReporter) TopPages(ctx context.Context, limit int) service.Outcome[[]domain.PageStat] {
	args := m.Called(ctx, limit)
	return args.Get(0).(service.Outcome[[]domain.PageStat])
}

func (m *mockReporter) ConversionFunnel(ctx context.Context) service.Outcome[[]domain.FunnelStat] {
	args := m.Called(ctx)
	return args.Get(0).(service.Outcome[[]domain.FunnelStat])
}

func (m *mockReporter) TopEvents(ctx context.Context, limit int) service.Outcome[[]domain.EventStat] {
	args := m.Called(ctx, limit)
	return args.Get(0).(service.Outcome[[]domain.EventStat])
}

func (m *mockReporter) FeatureUsageStats(ctx context.Context) service.Outcome[[]domain.FeatureStat] {
	args := m.Called(ctx)
	return args.Get(0).(service.Outcome[[]domain.FeatureStat])
}

func (m *mockReporter) RecentEvents(ctx context.Context, limit int) service.Outcome[[]domain.EventRecord] {
	args := m.Called(ctx, limit)
	return args.Get(0).(service.Outcome[[]domain.EventRecord])
}

func (m *mockReporter) Realtime(ctx context.Context) service.Outcome[domain.RealtimeSnapshot] {
	args := m.Called(ctx)
	return args.Get(0).(service.Outcome[domain.RealtimeSnapshot])
}

type mockPinger struct{ mock.Mock }

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// testServer is the full handler chain with every dependency mocked.
type testServer struct {
	handler   http.Handler
	resolver  *mockResolver
	pageViews *mockPageViews
	recorder  *mockRecorder
	reporter  *mockReporter
	pinger    *mockPinger
	metrics   *metrics.Metrics
}

// newTestServer resolves every request to visitor-1 and accepts every page view.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{
		resolver:  &mockResolver{},
		pageViews: &mockPageViews{},
		recorder:  &mockRecorder{},
		reporter:  &mockReporter{},
		pinger:    &mockPinger{},
		metrics:   metrics.NewMetrics(prometheus.NewRegistry()),
	}

	ts.resolver.On("Resolve", mock.Anything, mock.Anything).
		Return(service.Outcome[service.Resolution]{Value: service.Resolution{VisitorID: "visitor-1"}}).Maybe()
	ts.pageViews.On("TrackPageView", mock.Anything, mock.Anything).Return(nil).Maybe()
	ts.pinger.On("Ping", mock.Anything).Return(nil).Maybe()

	srv := NewServer(Dependencies{
		Resolver:  ts.resolver,
		Recorder:  ts.recorder,
		Reporter:  ts.reporter,
		PageViews: ts.pageViews,
		Pinger:    ts.pinger,
		Metrics:   ts.metrics,
	}, ServerConfig{
		APIPrefix:      "/api/",
		SessionHeader:  "X-Session-ID",
		AllowedOrigins: []string{"*"},
	}, zap.NewNop())
	ts.handler = srv.SetupRoutes()

	return ts
}
