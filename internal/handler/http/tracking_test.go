package http

import (
	"EquiSplit-Backend/internal/domain"
	"EquiSplit-Backend/internal/service"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

func (ts *testServer) do(method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("X-Session-ID", "session-1")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func TestTrackEvent(t *testing.T) {
	ts := newTestServer(t)
	ts.recorder.On("RecordEvent", mock.Anything, mock.MatchedBy(func(in service.EventInput) bool {
		return in.VisitorID == "visitor-1" &&
			in.SessionID == "session-1" &&
			in.EventType == "calculator" &&
			in.EventAction != nil && *in.EventAction == "calculate" &&
			in.EventCategory == nil &&
			in.EventValue != nil && *in.EventValue == 3 &&
			in.PageURL != nil && *in.PageURL == "/calculator" &&
			metadataJSON(in.Metadata) == `{"mode":"weighted"}`
	})).Return(service.Outcome[string]{Value: "event-1"})

	w := ts.do(http.MethodPost, "/api/tracking/event", jsonBody(`{
		"eventType": "calculator",
		"eventAction": "calculate",
		"eventValue": 3,
		"pageUrl": "/calculator",
		"metadata": {"mode": "weighted"}
	}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	assert.Empty(t, w.Header().Get(DegradedHeader))
	ts.recorder.AssertExpectations(t)
}

// metadataJSON returns the compact JSON of an event's metadata.
func metadataJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(raw)
}

func TestTrackEvent_AnyMetadataShape(t *testing.T) {
	tests := []struct {
		name     string
		metadata string
		want     string
	}{
		{"array", `["a","b"]`, `["a","b"]`},
		{"string", `"TypeError: x is undefined"`, `"TypeError: x is undefined"`},
		{"number", `42`, `42`},
		{"nested", `{"split":[50, 50]}`, `{"split":[50,50]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.recorder.On("RecordEvent", mock.Anything, mock.MatchedBy(func(in service.EventInput) bool {
				return metadataJSON(in.Metadata) == tt.want
			})).Return(service.Outcome[string]{Value: "event-1"})

			w := ts.do(http.MethodPost, "/api/tracking/event",
				jsonBody(`{"eventType":"click","metadata":`+tt.metadata+`}`))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"success":true}`, w.Body.String())
			ts.recorder.AssertExpectations(t)
		})
	}
}

func TestTrackEvent_WithoutMetadata(t *testing.T) {
	ts := newTestServer(t)
	ts.recorder.On("RecordEvent", mock.Anything, mock.MatchedBy(func(in service.EventInput) bool {
		return in.Metadata == nil
	})).Return(service.Outcome[string]{Value: "event-1"})

	w := ts.do(http.MethodPost, "/api/tracking/event", jsonBody(`{"eventType":"page_hidden"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	ts.recorder.AssertExpectations(t)
}

func TestTrackEvent_DegradedStillSucceeds(t *testing.T) {
	ts := newTestServer(t)
	ts.recorder.On("RecordEvent", mock.Anything, mock.Anything).
		Return(service.Outcome[string]{Err: errors.New("db down")})

	w := ts.do(http.MethodPost, "/api/tracking/event", jsonBody(`{"eventType":"page_hidden"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	assert.Equal(t, "true", w.Header().Get(DegradedHeader))
	assert.Equal(t, float64(1), testutil.ToFloat64(ts.metrics.DegradedResponses.WithLabelValues("/api/tracking/event")))
}

func TestTrackingWrites_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{"event malformed json", "/api/tracking/event", `{"eventType":`},
		{"event missing type", "/api/tracking/event", `{"eventAction":"click"}`},
		{"event blank type", "/api/tracking/event", `{"eventType":"   "}`},
		{"conversion missing step", "/api/tracking/conversion", `{"workspaceId":"ws-1"}`},
		{"feature missing name", "/api/tracking/feature", `{}`},
		{"feature empty body", "/api/tracking/feature", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)

			w := ts.do(http.MethodPost, tt.path, jsonBody(tt.body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
			assert.Empty(t, ts.recorder.Calls)
		})
	}
}

func TestTrackConversion(t *testing.T) {
	ts := newTestServer(t)
	ts.recorder.On("RecordConversion", mock.Anything, "visitor-1", "session-1", domain.FunnelDownloadedReport,
		mock.MatchedBy(func(ws *string) bool { return ws != nil && *ws == "ws-42" })).
		Return(service.Outcome[string]{Value: "conv-1"})

	w := ts.do(http.MethodPost, "/api/tracking/conversion", jsonBody(`{"funnelStep":"downloaded_report","workspaceId":"ws-42"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	ts.recorder.AssertExpectations(t)
}

func TestTrackConversion_WithoutWorkspace(t *testing.T) {
	ts := newTestServer(t)
	ts.recorder.On("RecordConversion", mock.Anything, "visitor-1", "session-1", domain.FunnelLanding, (*string)(nil)).
		Return(service.Outcome[string]{Value: "conv-1"})

	w := ts.do(http.MethodPost, "/api/tracking/conversion", jsonBody(`{"funnelStep":"landing"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	ts.recorder.AssertExpectations(t)
}

func TestTrackFeature(t *testing.T) {
	ts := newTestServer(t)
	ts.recorder.On("RecordFeatureUsage", mock.Anything, "visitor-1", "export_pdf").
		Return(service.Outcome[int64]{Value: 2})

	w := ts.do(http.MethodPost, "/api/tracking/feature", jsonBody(`{"featureName":"export_pdf"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	ts.recorder.AssertExpectations(t)
}

func TestTrackingWrites_MethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/api/tracking/event", nil)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"error":"Method not allowed"}`, w.Body.String())
}

func TestStatsQueryParameters(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		method string
		arg    int
	}{
		{"days given", "/api/tracking/stats/daily?days=7", "DailyStats", 7},
		{"days missing", "/api/tracking/stats/daily", "DailyStats", 0},
		{"days invalid", "/api/tracking/stats/daily?days=week", "DailyStats", 0},
		{"pages limit", "/api/tracking/stats/pages?limit=3", "TopPages", 3},
		{"events limit", "/api/tracking/stats/events?limit=25", "TopEvents", 25},
		{"recent limit", "/api/tracking/events/recent?limit=-4", "RecentEvents", -4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.reporter.On("DailyStats", mock.Anything, mock.Anything).
				Return(service.Outcome[[]domain.DailyStat]{Value: []domain.DailyStat{}}).Maybe()
			ts.reporter.On("TopPages", mock.Anything, mock.Anything).
				Return(service.Outcome[[]domain.PageStat]{Value: []domain.PageStat{}}).Maybe()
			ts.reporter.On("TopEvents", mock.Anything, mock.Anything).
				Return(service.Outcome[[]domain.EventStat]{Value: []domain.EventStat{}}).Maybe()
			ts.reporter.On("RecentEvents", mock.Anything, mock.Anything).
				Return(service.Outcome[[]domain.EventRecord]{Value: []domain.EventRecord{}}).Maybe()

			w := ts.do(http.MethodGet, tt.path, nil)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `[]`, w.Body.String())
			ts.reporter.AssertCalled(t, tt.method, mock.Anything, tt.arg)
		})
	}
}

func TestStatsResponses(t *testing.T) {
	ts := newTestServer(t)
	ts.reporter.On("DailyStats", mock.Anything, 0).Return(service.Outcome[[]domain.DailyStat]{
		Value: []domain.DailyStat{{Date: "2025-06-15", UniqueVisitors: 3, TotalVisits: 7, HumanVisitors: 2}},
	})
	ts.reporter.On("ConversionFunnel", mock.Anything).Return(service.Outcome[[]domain.FunnelStat]{
		Value: []domain.FunnelStat{
			{FunnelStep: domain.FunnelLanding, Users: 10, Events: 12},
			{FunnelStep: domain.FunnelStartedCalc, Users: 4, Events: 4},
		},
	})
	ts.reporter.On("FeatureUsageStats", mock.Anything).Return(service.Outcome[[]domain.FeatureStat]{
		Value: []domain.FeatureStat{},
		Err:   errors.New("db down"),
	})

	w := ts.do(http.MethodGet, "/api/tracking/stats/daily", nil)
	assert.JSONEq(t, `[{"date":"2025-06-15","unique_visitors":3,"total_visits":7,"human_visitors":2}]`, w.Body.String())

	w = ts.do(http.MethodGet, "/api/tracking/stats/funnel", nil)
	assert.JSONEq(t, `[{"funnel_step":"landing","users":10,"events":12},{"funnel_step":"started_calc","users":4,"events":4}]`, w.Body.String())

	w = ts.do(http.MethodGet, "/api/tracking/stats/features", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	assert.Equal(t, "true", w.Header().Get(DegradedHeader))
	assert.Equal(t, float64(1), testutil.ToFloat64(ts.metrics.DegradedResponses.WithLabelValues("/api/tracking/stats/features")))
}

func TestRealtime(t *testing.T) {
	ts := newTestServer(t)
	ts.reporter.On("Realtime", mock.Anything).Return(service.Outcome[domain.RealtimeSnapshot]{
		Value: domain.RealtimeSnapshot{
			ActiveVisitors: 2,
			Today:          domain.TodayStats{UniqueVisitors: 5, TotalVisits: 9, Conversions: 1},
			RecentEvents:   []domain.RecentEventStat{},
		},
	})

	w := ts.do(http.MethodGet, "/api/tracking/stats/realtime", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.JSONEq(t, `2`, string(body["activeVisitors"]))
	assert.JSONEq(t, `{"unique_visitors":5,"total_visits":9,"conversions":1}`, string(body["today"]))
	assert.JSONEq(t, `[]`, string(body["recentEvents"]))
}

func TestRecentEvents(t *testing.T) {
	ts := newTestServer(t)
	action := "calculate"
	ts.reporter.On("RecentEvents", mock.Anything, 5).Return(service.Outcome[[]domain.EventRecord]{
		Value: []domain.EventRecord{{
			ID:          "event-1",
			VisitorID:   "visitor-1",
			EventType:   "calculator",
			EventAction: &action,
			Metadata:    map[string]any{"founders": float64(3)},
			CreatedAt:   time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		}},
	})

	w := ts.do(http.MethodGet, "/api/tracking/events/recent?limit=5", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var events []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "calculator", events[0]["event_type"])
	assert.Equal(t, map[string]any{"founders": float64(3)}, events[0]["metadata"])
	assert.Equal(t, "2025-06-15T12:00:00Z", events[0]["timestamp"])
}

func TestIdentity_WithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/tracking/event", nil)

	first, session := identity(req)
	second, _ := identity(req)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
	assert.Empty(t, session)
}
