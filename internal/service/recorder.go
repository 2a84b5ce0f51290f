package service

import (
	"EquiSplit-Backend/internal/domain"
	"EquiSplit-Backend/internal/repository"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// EventInput is a client-emitted event. Nil optional fields are stored as NULL.
type EventInput struct {
	VisitorID     string
	SessionID     string
	EventType     string
	EventCategory *string
	EventAction   *string
	EventLabel    *string
	EventValue    *float64
	PageURL       *string
	Metadata      any // any JSON-encodable value; nil and JSON null are stored as NULL
}

// PageViewInput is a page view captured by the ingestion middleware.
type PageViewInput struct {
	VisitorID string
	SessionID string
	PageURL   string
}

// EventRecorder writes page views, events, conversions and feature usage.
// Every write is attempted once; failures are logged and returned in the Outcome.
type EventRecorder struct {
	store repository.Adapter
	log   *zap.Logger
	opts  options
}

// NewEventRecorder creates a recorder.
func NewEventRecorder(store repository.Adapter, log *zap.Logger, opts ...Option) *EventRecorder {
	return &EventRecorder{
		store: store,
		log:   log,
		opts:  newOptions(opts),
	}
}

// RecordPageView inserts a page view and returns its id. The title comes from the
// static page table keyed by the URL path.
func (r *EventRecorder) RecordPageView(ctx context.Context, visitorID, sessionID, pageURL string) Outcome[string] {
	id := uuid.NewString()
	err := r.exec(ctx, `INSERT INTO page_views (id, visitor_id, session_id, page_url, page_title, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, visitorID, sessionID, pageURL, domain.PageTitle(pathOf(pageURL)), r.opts.timestamp())
	if err != nil {
		return r.fail("page_view", err, zap.String("visitor_id", visitorID), zap.String("page_url", pageURL))
	}

	r.opts.metrics.Recorded("page_view")
	return ok(id)
}

// TrackPageView records a page view, returning only the error.
func (r *EventRecorder) TrackPageView(ctx context.Context, in PageViewInput) error {
	return r.RecordPageView(ctx, in.VisitorID, in.SessionID, in.PageURL).Err
}

// RecordEvent inserts a user event and returns its id.
func (r *EventRecorder) RecordEvent(ctx context.Context, in EventInput) Outcome[string] {
	var metadata any
	if in.Metadata != nil {
		raw, err := json.Marshal(in.Metadata)
		if err != nil {
			return r.fail("event", fmt.Errorf("failed to encode metadata: %w", err),
				zap.String("event_type", in.EventType))
		}
		if string(raw) != "null" {
			metadata = datatypes.JSON(raw)
		}
	}

	id := uuid.NewString()
	err := r.exec(ctx, `INSERT INTO user_events (
			id, visitor_id, session_id, event_type, event_category,
			event_action, event_label, event_value, page_url, metadata, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, in.VisitorID, in.SessionID, in.EventType, in.EventCategory,
		in.EventAction, in.EventLabel, in.EventValue, in.PageURL, metadata, r.opts.timestamp())
	if err != nil {
		return r.fail("event", err, zap.String("visitor_id", in.VisitorID), zap.String("event_type", in.EventType))
	}

	r.opts.metrics.Recorded("event")
	return ok(id)
}

// RecordConversion inserts a funnel-step conversion and returns its id. Repeated steps
// are stored as separate rows.
func (r *EventRecorder) RecordConversion(ctx context.Context, visitorID, sessionID, funnelStep string, workspaceID *string) Outcome[string] {
	id := uuid.NewString()
	err := r.exec(ctx, `INSERT INTO conversions (id, visitor_id, session_id, funnel_step, workspace_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, visitorID, sessionID, funnelStep, workspaceID, r.opts.timestamp())
	if err != nil {
		return r.fail("conversion", err, zap.String("visitor_id", visitorID), zap.String("funnel_step", funnelStep))
	}

	r.opts.metrics.Recorded("conversion")
	return ok(id)
}

// RecordFeatureUsage increments the visitor's counter for featureName, creating it at 1,
// and returns the resulting count.
//
// The read and the write are separate statements: concurrent calls for the same pair
// can lose an increment, and concurrent first calls hit the unique index.
func (r *EventRecorder) RecordFeatureUsage(ctx context.Context, visitorID, featureName string) Outcome[int64] {
	count, err := r.recordFeatureUsage(ctx, visitorID, featureName)
	if err != nil {
		return r.failCount("feature_usage", err, zap.String("visitor_id", visitorID), zap.String("feature_name", featureName))
	}

	r.opts.metrics.Recorded("feature_usage")
	return ok(count)
}

func (r *EventRecorder) recordFeatureUsage(ctx context.Context, visitorID, featureName string) (int64, error) {
	if r.store == nil {
		return 0, repository.ErrNoAdapter
	}

	var existing struct {
		ID         string `gorm:"column:id"`
		UsageCount int64  `gorm:"column:usage_count"`
	}
	found, err := r.store.GetOne(ctx, &existing,
		"SELECT id, usage_count FROM feature_usage WHERE visitor_id = ? AND feature_name = ? LIMIT 1",
		visitorID, featureName)
	if err != nil {
		return 0, fmt.Errorf("failed to look up feature usage: %w", err)
	}

	now := r.opts.timestamp()

	if found {
		_, err := r.store.Exec(ctx,
			"UPDATE feature_usage SET usage_count = usage_count + 1, last_used = ? WHERE id = ?",
			now, existing.ID)
		if err != nil {
			return 0, fmt.Errorf("failed to update feature usage: %w", err)
		}
		return existing.UsageCount + 1, nil
	}

	_, err = r.store.Exec(ctx,
		"INSERT INTO feature_usage (id, visitor_id, feature_name, usage_count, last_used) VALUES (?, ?, ?, 1, ?)",
		uuid.NewString(), visitorID, featureName, now)
	if err != nil {
		return 0, fmt.Errorf("failed to create feature usage: %w", err)
	}
	return 1, nil
}

func (r *EventRecorder) exec(ctx context.Context, query string, args ...any) error {
	if r.store == nil {
		return repository.ErrNoAdapter
	}
	_, err := r.store.Exec(ctx, query, args...)
	return err
}

func (r *EventRecorder) fail(kind string, err error, fields ...zap.Field) Outcome[string] {
	r.log.Warn("failed to record "+kind, append(fields, zap.Error(err))...)
	r.opts.metrics.StorageError("recorder", kind)
	return degraded("", err)
}

func (r *EventRecorder) failCount(kind string, err error, fields ...zap.Field) Outcome[int64] {
	r.log.Warn("failed to record "+kind, append(fields, zap.Error(err))...)
	r.opts.metrics.StorageError("recorder", kind)
	return degraded(int64(0), err)
}

// pathOf strips the query string and fragment from a request URI.
func pathOf(requestURI string) string {
	if i := strings.IndexAny(requestURI, "?#"); i >= 0 {
		return requestURI[:i]
	}
	return requestURI
}
