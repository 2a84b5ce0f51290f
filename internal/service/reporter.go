package service

import (
	"EquiSplit-Backend/internal/domain"
	"EquiSplit-Backend/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	maxLimit      = 100
	maxWindowDays = 365
)

// ReporterConfig holds report windows and limits. Zero fields take the defaults.
type ReporterConfig struct {
	DefaultWindowDays  int
	DefaultLimit       int
	ActiveWindow       time.Duration
	RecentEventsWindow time.Duration
	RecentEventsLimit  int
}

// DefaultReporterConfig returns the standard dashboard windows.
func DefaultReporterConfig() ReporterConfig {
	return ReporterConfig{
		DefaultWindowDays:  30,
		DefaultLimit:       10,
		ActiveWindow:       5 * time.Minute,
		RecentEventsWindow: time.Hour,
		RecentEventsLimit:  5,
	}
}

func (c ReporterConfig) withDefaults() ReporterConfig {
	d := DefaultReporterConfig()
	if c.DefaultWindowDays <= 0 {
		c.DefaultWindowDays = d.DefaultWindowDays
	}
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = d.DefaultLimit
	}
	if c.ActiveWindow <= 0 {
		c.ActiveWindow = d.ActiveWindow
	}
	if c.RecentEventsWindow <= 0 {
		c.RecentEventsWindow = d.RecentEventsWindow
	}
	if c.RecentEventsLimit <= 0 {
		c.RecentEventsLimit = d.RecentEventsLimit
	}
	return c
}

// Reporter serves read-only dashboard rollups. Every report degrades to an empty result
// on storage failure.
type Reporter struct {
	store repository.Adapter
	log   *zap.Logger
	cfg   ReporterConfig
	opts  options
}

// NewReporter creates a reporter.
func NewReporter(store repository.Adapter, log *zap.Logger, cfg ReporterConfig, opts ...Option) *Reporter {
	return &Reporter{
		store: store,
		log:   log,
		cfg:   cfg.withDefaults(),
		opts:  newOptions(opts),
	}
}

// DailyStats returns per-day visitor counts for visitors first seen in the last days,
// most recent date first.
func (r *Reporter) DailyStats(ctx context.Context, days int) Outcome[[]domain.DailyStat] {
	days = clamp(days, r.cfg.DefaultWindowDays, maxWindowDays)
	since := r.opts.timestamp().AddDate(0, 0, -days)

	var rows []domain.DailyStat
	err := r.getMany(ctx, &rows, `
		SELECT
			CAST(DATE(first_visit) AS TEXT) AS date,
			COUNT(DISTINCT id) AS unique_visitors,
			CAST(SUM(total_visits) AS BIGINT) AS total_visits,
			COUNT(CASE WHEN is_bot = ? THEN 1 END) AS human_visitors
		FROM visitors
		WHERE first_visit >= ?
		GROUP BY DATE(first_visit)
		ORDER BY date DESC`,
		false, since)
	return finish(r, "daily_stats", rows, err)
}

// TopPages returns the most viewed pages in the trailing window.
func (r *Reporter) TopPages(ctx context.Context, limit int) Outcome[[]domain.PageStat] {
	limit = clamp(limit, r.cfg.DefaultLimit, maxLimit)

	var rows []domain.PageStat
	err := r.getMany(ctx, &rows, `
		SELECT
			page_url,
			page_title,
			COUNT(*) AS views,
			COUNT(DISTINCT visitor_id) AS unique_visitors
		FROM page_views
		WHERE created_at >= ?
		GROUP BY page_url, page_title
		ORDER BY views DESC, page_url
		LIMIT ?`,
		r.windowStart(), limit)
	return finish(r, "top_pages", rows, err)
}

// ConversionFunnel returns per-step conversion counts in funnel order.
func (r *Reporter) ConversionFunnel(ctx context.Context) Outcome[[]domain.FunnelStat] {
	var rows []domain.FunnelStat
	err := r.getMany(ctx, &rows, `
		SELECT
			funnel_step,
			COUNT(DISTINCT visitor_id) AS users,
			COUNT(*) AS events
		FROM conversions
		WHERE created_at >= ?
		GROUP BY funnel_step`,
		r.windowStart())
	if err == nil {
		domain.SortFunnel(rows)
	}
	return finish(r, "conversion_funnel", rows, err)
}

// TopEvents returns the most frequent (event_type, event_action) pairs in the trailing window.
func (r *Reporter) TopEvents(ctx context.Context, limit int) Outcome[[]domain.EventStat] {
	limit = clamp(limit, r.cfg.DefaultLimit, maxLimit)

	var rows []domain.EventStat
	err := r.getMany(ctx, &rows, `
		SELECT
			event_type,
			event_action,
			COUNT(*) AS event_count,
			COUNT(DISTINCT visitor_id) AS unique_users
		FROM user_events
		WHERE created_at >= ?
		GROUP BY event_type, event_action
		ORDER BY event_count DESC, event_type
		LIMIT ?`,
		r.windowStart(), limit)
	return finish(r, "top_events", rows, err)
}

// FeatureUsageStats returns per-feature adoption over all time.
func (r *Reporter) FeatureUsageStats(ctx context.Context) Outcome[[]domain.FeatureStat] {
	var rows []domain.FeatureStat
	err := r.getMany(ctx, &rows, `
		SELECT
			feature_name,
			COUNT(DISTINCT visitor_id) AS unique_users,
			CAST(SUM(usage_count) AS BIGINT) AS total_usage,
			CAST(AVG(usage_count) AS DOUBLE PRECISION) AS avg_usage_per_user
		FROM feature_usage
		GROUP BY feature_name
		ORDER BY unique_users DESC, feature_name`)
	return finish(r, "feature_usage_stats", rows, err)
}

// RecentEvents returns the newest raw events with their decoded metadata.
func (r *Reporter) RecentEvents(ctx context.Context, limit int) Outcome[[]domain.EventRecord] {
	limit = clamp(limit, r.cfg.DefaultLimit, maxLimit)

	var rows []domain.EventRecord
	err := r.getMany(ctx, &rows, `
		SELECT
			id, visitor_id, session_id, event_type, event_category, event_action,
			event_label, event_value, page_url, metadata, created_at
		FROM user_events
		ORDER BY created_at DESC, id
		LIMIT ?`,
		limit)
	if err == nil {
		for i := range rows {
			if decodeErr := rows[i].DecodeMetadata(); decodeErr != nil {
				r.log.Warn("failed to decode event metadata",
					zap.String("event_id", rows[i].ID),
					zap.Error(decodeErr))
			}
		}
	}
	return finish(r, "recent_events", rows, err)
}

// Realtime returns the live dashboard snapshot. Each part is queried separately and
// falls back to zero on its own; the joined error lists every failed part.
func (r *Reporter) Realtime(ctx context.Context) Outcome[domain.RealtimeSnapshot] {
	now := r.opts.timestamp()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	snapshot := domain.RealtimeSnapshot{RecentEvents: []domain.RecentEventStat{}}
	var errs []error

	var active int64
	if _, err := r.getOne(ctx, &active, `
		SELECT COUNT(DISTINCT visitor_id)
		FROM page_views
		WHERE created_at >= ?`,
		now.Add(-r.cfg.ActiveWindow)); err != nil {
		errs = append(errs, fmt.Errorf("active visitors: %w", err))
	} else {
		snapshot.ActiveVisitors = active
	}

	var today domain.TodayStats
	if _, err := r.getOne(ctx, &today, `
		SELECT
			COUNT(DISTINCT id) AS unique_visitors,
			CAST(COALESCE(SUM(total_visits), 0) AS BIGINT) AS total_visits,
			(SELECT COUNT(*)
				FROM conversions
				WHERE created_at >= ?
					AND visitor_id IN (SELECT id FROM visitors WHERE first_visit >= ?)) AS conversions
		FROM visitors
		WHERE first_visit >= ?`,
		midnight, midnight, midnight); err != nil {
		errs = append(errs, fmt.Errorf("today stats: %w", err))
	} else {
		snapshot.Today = today
	}

	var recent []domain.RecentEventStat
	if err := r.getMany(ctx, &recent, `
		SELECT event_type, event_action, COUNT(*) AS count
		FROM user_events
		WHERE created_at >= ?
		GROUP BY event_type, event_action
		ORDER BY count DESC, event_type
		LIMIT ?`,
		now.Add(-r.cfg.RecentEventsWindow), r.cfg.RecentEventsLimit); err != nil {
		errs = append(errs, fmt.Errorf("recent events: %w", err))
	} else if recent != nil {
		snapshot.RecentEvents = recent
	}

	if err := errors.Join(errs...); err != nil {
		r.log.Warn("realtime snapshot degraded", zap.Error(err))
		r.opts.metrics.StorageError("reporter", "realtime")
		return degraded(snapshot, err)
	}
	return ok(snapshot)
}

func (r *Reporter) windowStart() time.Time {
	return r.opts.timestamp().AddDate(0, 0, -r.cfg.DefaultWindowDays)
}

func (r *Reporter) getOne(ctx context.Context, dest any, query string, args ...any) (bool, error) {
	if r.store == nil {
		return false, repository.ErrNoAdapter
	}
	return r.store.GetOne(ctx, dest, query, args...)
}

func (r *Reporter) getMany(ctx context.Context, dest any, query string, args ...any) error {
	if r.store == nil {
		return repository.ErrNoAdapter
	}
	return r.store.GetMany(ctx, dest, query, args...)
}

// finish turns a report result into an Outcome whose Value is never a nil slice.
func finish[T any](r *Reporter, report string, rows []T, err error) Outcome[[]T] {
	if err != nil {
		r.log.Warn("failed to build report", zap.String("report", report), zap.Error(err))
		r.opts.metrics.StorageError("reporter", report)
		return degraded([]T{}, err)
	}
	if rows == nil {
		rows = []T{}
	}
	return ok(rows)
}

// clamp maps non-positive values to def and caps at upper.
func clamp(v, def, upper int) int {
	if v <= 0 {
		return def
	}
	if v > upper {
		return upper
	}
	return v
}
