package availability

import (
	"sort"
	"time"

	"calendar-reconciler/core/dates"
	"calendar-reconciler/core/reconcile"
)

// ExternalBlockSource is the source label of feed blocks.
const ExternalBlockSource = "AirbnbIcal"

const defaultBlockSummary = "Airbnb (Not available)"

// Query narrows which bookings contribute intervals.
type Query struct {
	Window           dates.Window
	ExcludeBookingID int64
}

// touches reports whether any occupied day of [start, end) falls in the window.
func (q Query) touches(start, end time.Time) bool {
	if q.Window.From.IsZero() && q.Window.To.IsZero() {
		return true
	}
	last := dates.InclusiveEnd(start, end)
	return !last.Before(q.Window.From) && !start.After(q.Window.To)
}

// Build classifies bookings and external block events into intervals,
// sorted by start.
func Build(bookings []reconcile.InternalBooking, events []reconcile.ExternalEvent, q Query) []Interval {
	out := make([]Interval, 0, len(bookings)+len(events))

	for _, b := range bookings {
		if q.ExcludeBookingID != 0 && b.ID == q.ExcludeBookingID {
			continue
		}
		if reconcile.IsInactive(b.Status) || !reconcile.IsBlocking(b.Status) {
			continue
		}
		if !q.touches(b.CheckIn, b.CheckOut) {
			continue
		}
		out = append(out, FromBooking(b))
	}

	for _, ev := range events {
		if ev.Kind != reconcile.EventKindBlock {
			continue
		}
		if !q.touches(ev.Start, ev.End) {
			continue
		}
		out = append(out, FromEvent(ev))
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		if !out[i].End.Equal(out[j].End) {
			return out[i].End.Before(out[j].End)
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// FromBooking converts a booking into an interval.
func FromBooking(b reconcile.InternalBooking) Interval {
	return Interval{
		Start:     b.CheckIn,
		End:       dates.InclusiveEnd(b.CheckIn, b.CheckOut),
		Type:      b.Status,
		Source:    b.RawSource,
		GuestType: b.GuestType,
		Kind:      bookingKind(b.Source),
		Summary:   bookingSummary(b),
		HardBlock: IsHard(b.Source),
	}
}

// FromEvent converts an external block event into a soft interval.
func FromEvent(ev reconcile.ExternalEvent) Interval {
	summary := ev.Summary
	if summary == "" {
		summary = defaultBlockSummary
	}
	return Interval{
		Start:     ev.Start,
		End:       dates.InclusiveEnd(ev.Start, ev.End),
		Type:      "Block",
		Source:    ExternalBlockSource,
		GuestType: "Block",
		Kind:      KindExternalBlock,
		Summary:   summary,
		HardBlock: false,
	}
}

// IsHard is the fixed override policy: platform and private reservations
// cannot be overridden, operator holds and blocks can.
func IsHard(source reconcile.BookingSource) bool {
	return !source.IsManual()
}

func bookingKind(source reconcile.BookingSource) Kind {
	switch source {
	case reconcile.SourceManualHold:
		return KindHold
	case reconcile.SourceManualBlock:
		return KindBlock
	default:
		return KindReservation
	}
}

func bookingSummary(b reconcile.InternalBooking) string {
	switch b.Source {
	case reconcile.SourceExternalPlatform:
		return "Reserved"
	case reconcile.SourceManualHold:
		return "Hold"
	case reconcile.SourceManualBlock:
		return "Block"
	}
	return "Private Reservation"
}
