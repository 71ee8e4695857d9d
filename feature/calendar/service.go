package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"calendar-reconciler/core/availability"
	"calendar-reconciler/core/bookings"
	"calendar-reconciler/core/dates"
	"calendar-reconciler/core/feed"
	"calendar-reconciler/core/reconcile"

	"go.uber.org/zap"
)

// Store reads units and their bookings.
type Store interface {
	FindUnit(ctx context.Context, ref string) (*bookings.UnitRecord, error)
	reconcile.BookingLoader
}

// Request selects the availability to compute.
type Request struct {
	Unit             string
	From             string
	To               string
	Merge            bool
	ExcludeBookingID int64
}

// Result is the availability of one unit over a window.
type Result struct {
	Unit      reconcile.Unit
	Window    dates.Window
	Intervals []availability.Interval
	Spans     []availability.Span
	// FeedDegraded is set when the external feed could not be loaded.
	FeedDegraded bool
}

// Service computes availability timelines.
type Service struct {
	store    Store
	events   reconcile.EventLoader
	cfg      availability.Config
	timezone string
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new calendar service.
func NewService(store Store, events reconcile.EventLoader, cfg availability.Config, timezone string, logger *zap.Logger) *Service {
	if cfg.BackDays <= 0 {
		cfg.BackDays = 15
	}
	if cfg.ForwardDays <= 0 {
		cfg.ForwardDays = 60
	}
	return &Service{
		store:    store,
		events:   events,
		cfg:      cfg,
		timezone: timezone,
		logger:   logger,
		now:      time.Now,
	}
}

// Availability loads bookings and feed blocks for the unit and classifies them.
func (s *Service) Availability(ctx context.Context, req Request) (*Result, error) {
	row, err := s.store.FindUnit(ctx, req.Unit)
	if err != nil {
		return nil, err
	}
	unit := bookings.ToUnit(*row, s.timezone)

	today := dates.Today(s.now(), unit.Location)
	window, err := dates.ParseWindow(req.From, req.To, dates.DefaultWindow(today, s.cfg.BackDays, s.cfg.ForwardDays))
	if err != nil {
		return nil, err
	}

	snap, eventsErr, err := reconcile.Gather(ctx, unit, window, s.store, s.events)
	if err != nil {
		return nil, err
	}

	result := &Result{Unit: unit, Window: window}
	if eventsErr != nil && !errors.Is(eventsErr, feed.ErrNoFeed) {
		if s.cfg.RequireFeed {
			if errors.Is(eventsErr, feed.ErrFeedUnavailable) {
				return nil, eventsErr
			}
			return nil, fmt.Errorf("%w: %w", feed.ErrFeedUnavailable, eventsErr)
		}
		s.logger.Warn("External feed unavailable, answering from bookings only",
			zap.Int64("unit_id", unit.ID),
			zap.Error(eventsErr))
		result.FeedDegraded = true
	}

	result.Intervals = availability.Build(snap.Bookings, snap.Events, availability.Query{
		Window:           window,
		ExcludeBookingID: req.ExcludeBookingID,
	})
	if req.Merge {
		result.Spans = availability.Merge(result.Intervals)
	}
	return result, nil
}
