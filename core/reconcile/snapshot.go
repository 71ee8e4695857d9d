package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"calendar-reconciler/core/dates"
)

// LoadSnapshot reads bookings and the external feed for a unit concurrently.
// Either failure fails the snapshot.
func LoadSnapshot(ctx context.Context, unit Unit, window dates.Window, bookings BookingLoader, events EventLoader) (*Snapshot, error) {
	snap, feedErr, err := Gather(ctx, unit, window, bookings, events)
	if err != nil {
		return nil, err
	}
	if feedErr != nil {
		return nil, fmt.Errorf("load feed for unit %d: %w", unit.ID, feedErr)
	}
	return snap, nil
}

// Gather reads bookings and the external feed for a unit concurrently.
// A bookings failure is returned as err. A feed failure is returned as
// feedErr next to a snapshot without events, for callers that can do
// without the feed.
func Gather(ctx context.Context, unit Unit, window dates.Window, bookings BookingLoader, events EventLoader) (snap *Snapshot, feedErr error, err error) {
	var (
		rows      []InternalBooking
		evs       []ExternalEvent
		rowsErr   error
		eventsErr error
		wg        sync.WaitGroup
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		rows, rowsErr = bookings.ListBookings(ctx, unit.ID, window)
	}()

	go func() {
		defer wg.Done()
		evs, eventsErr = events.LoadEvents(ctx, unit)
	}()

	wg.Wait()

	if rowsErr != nil {
		return nil, nil, fmt.Errorf("load bookings for unit %d: %w", unit.ID, rowsErr)
	}
	if eventsErr != nil {
		evs = nil
	}

	return &Snapshot{Unit: unit, Window: window, Bookings: rows, Events: evs}, eventsErr, nil
}

// Engine loads snapshots and runs the matcher over them.
// It keeps no state between calls.
type Engine struct {
	Bookings  BookingLoader
	Events    EventLoader
	GraceDays int
	// Now defaults to time.Now.
	Now func() time.Time
}

// Today returns the current calendar date in the unit's time zone.
func (e *Engine) Today(unit Unit) time.Time {
	clock := time.Now
	if e.Now != nil {
		clock = e.Now
	}
	return dates.Today(clock(), unit.Location)
}

// Reconcile loads a fresh snapshot for the unit and matches it.
func (e *Engine) Reconcile(ctx context.Context, unit Unit, window dates.Window) ([]Item, error) {
	snap, err := LoadSnapshot(ctx, unit, window, e.Bookings, e.Events)
	if err != nil {
		return nil, err
	}
	return Match(*snap, Options{Today: e.Today(unit), GraceDays: e.GraceDays}), nil
}
