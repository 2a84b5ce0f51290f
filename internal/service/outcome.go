package service

import (
	"EquiSplit-Backend/internal/metrics"
	"errors"
	"time"
)

// ErrMissingSession is reported when a request carries no session id.
var ErrMissingSession = errors.New("missing session id")

// Outcome is the result of a fail-soft tracking operation: Value is always usable,
// Err records why it is a fallback.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Degraded reports whether Value is a fallback.
func (o Outcome[T]) Degraded() bool {
	return o.Err != nil
}

func ok[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

func degraded[T any](v T, err error) Outcome[T] {
	return Outcome[T]{Value: v, Err: err}
}

// Option configures the tracking services.
type Option func(*options)

type options struct {
	now     func() time.Time
	metrics *metrics.Metrics
}

// WithClock overrides time.Now. Returned times are normalized to UTC.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithMetrics attaches Prometheus counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func newOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// timestamp is stored at microsecond precision so both dialects round-trip it unchanged.
func (o options) timestamp() time.Time {
	return o.now().UTC().Truncate(time.Microsecond)
}
