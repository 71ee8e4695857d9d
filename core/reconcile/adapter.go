package reconcile

import (
	"context"
	"errors"

	"calendar-reconciler/core/dates"
)

// ErrNoFeed is returned by an EventLoader when the unit has no external feed configured.
var ErrNoFeed = errors.New("unit has no external calendar feed")

// BookingLoader reads the internal bookings of a unit that touch a window.
// Implementations return rows already converted to InternalBooking and may
// include inactive bookings; Match filters them.
type BookingLoader interface {
	ListBookings(ctx context.Context, unitID int64, window dates.Window) ([]InternalBooking, error)
}

// EventLoader fetches and normalizes the external feed of a unit.
// A single malformed event must not fail the load.
type EventLoader interface {
	LoadEvents(ctx context.Context, unit Unit) ([]ExternalEvent, error)
}
