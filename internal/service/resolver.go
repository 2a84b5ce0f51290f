package service

import (
	"EquiSplit-Backend/internal/repository"
	"EquiSplit-Backend/pkg/useragent"
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VisitorInput describes the request a visitor is resolved from.
type VisitorInput struct {
	SessionID   string
	IPAddress   string
	UserAgent   string
	Referrer    string
	LandingPage string
}

// Resolution is the resolved visitor id. Created is true when a new row was inserted.
type Resolution struct {
	VisitorID string
	Created   bool
}

// VisitorResolver maps a session id to a durable visitor id.
type VisitorResolver struct {
	store repository.Adapter
	ua    *useragent.Parser
	log   *zap.Logger
	opts  options
}

// NewVisitorResolver creates a resolver. ua may be nil, in which case only pattern bot
// detection is applied.
func NewVisitorResolver(store repository.Adapter, ua *useragent.Parser, log *zap.Logger, opts ...Option) *VisitorResolver {
	return &VisitorResolver{
		store: store,
		ua:    ua,
		log:   log,
		opts:  newOptions(opts),
	}
}

// Resolve finds the visitor for in.SessionID, bumping its visit counter, or creates it.
// On any failure the returned id is freshly generated and not persisted.
//
// Lookup and write are separate statements: two first requests for one session race on
// the unique index and the loser gets a temporary id.
func (r *VisitorResolver) Resolve(ctx context.Context, in VisitorInput) Outcome[Resolution] {
	if in.SessionID == "" {
		r.opts.metrics.VisitorResolved("degraded")
		return degraded(Resolution{VisitorID: uuid.NewString()}, ErrMissingSession)
	}

	res, err := r.resolve(ctx, in)
	if err != nil {
		r.log.Warn("failed to resolve visitor, using temporary id",
			zap.String("session_id", in.SessionID),
			zap.Error(err))
		r.opts.metrics.StorageError("resolver", "resolve")
		r.opts.metrics.VisitorResolved("degraded")
		return degraded(Resolution{VisitorID: uuid.NewString()}, err)
	}

	if res.Created {
		r.opts.metrics.VisitorResolved("created")
	} else {
		r.opts.metrics.VisitorResolved("returning")
	}
	return ok(res)
}

func (r *VisitorResolver) resolve(ctx context.Context, in VisitorInput) (Resolution, error) {
	if r.store == nil {
		return Resolution{}, repository.ErrNoAdapter
	}

	var existing struct {
		ID string `gorm:"column:id"`
	}
	found, err := r.store.GetOne(ctx, &existing,
		"SELECT id FROM visitors WHERE session_id = ? LIMIT 1", in.SessionID)
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to look up visitor: %w", err)
	}

	now := r.opts.timestamp()

	if found {
		_, err := r.store.Exec(ctx,
			"UPDATE visitors SET total_visits = total_visits + 1, last_visit = ? WHERE id = ?",
			now, existing.ID)
		if err != nil {
			return Resolution{}, fmt.Errorf("failed to update visitor: %w", err)
		}
		return Resolution{VisitorID: existing.ID}, nil
	}

	device := r.ua.Parse(in.UserAgent)
	id := uuid.NewString()

	_, err = r.store.Exec(ctx, `INSERT INTO visitors (
			id, session_id, ip_address, user_agent, referrer, landing_page,
			is_bot, browser, os, device_type, first_visit, last_visit, total_visits
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
		id, in.SessionID, in.IPAddress, in.UserAgent, in.Referrer, in.LandingPage,
		device.IsBot, device.Browser, device.OS, device.DeviceType, now, now)
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to create visitor: %w", err)
	}

	r.log.Debug("created visitor",
		zap.String("visitor_id", id),
		zap.String("session_id", in.SessionID),
		zap.Bool("is_bot", device.IsBot),
		zap.String("device_type", device.DeviceType))

	return Resolution{VisitorID: id, Created: true}, nil
}
