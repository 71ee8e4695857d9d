package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"calendar-reconciler/core/dates"
)

// Match compares the bookings of a snapshot with its external events.
// It returns one item per booking that has (or should have) an external
// counterpart, followed by one item per untracked external reservation.
// Match is a pure function of its input.
func Match(snap Snapshot, opts Options) []Item {
	grace := opts.GraceDays
	if grace <= 0 {
		grace = DefaultGraceDays
	}
	graceFloor := dates.AddDays(opts.Today, -grace)

	bookings := activeBookings(snap.Bookings, snap.Window)
	events := windowEvents(snap.Events, snap.Window)

	covered := make([]bool, len(events))
	items := make([]Item, 0, len(bookings))

	for _, b := range bookings {
		item := bookingItem(snap.Unit, b)

		if idx := codeMatch(b, events); idx >= 0 {
			covered[idx] = true
			for other, ev := range events {
				if other != idx && dates.Overlaps(b.CheckIn, b.CheckOut, ev.Start, ev.End) {
					covered[other] = true
				}
			}
			compare(&item, b, events[idx], MatchByCode)
			items = append(items, item)
			continue
		}

		var agreeing, conflicting []int
		for idx, ev := range events {
			if !dates.Overlaps(b.CheckIn, b.CheckOut, ev.Start, ev.End) {
				continue
			}
			covered[idx] = true
			if agrees(b, ev) {
				agreeing = append(agreeing, idx)
			} else {
				conflicting = append(conflicting, idx)
			}
		}

		switch {
		case len(agreeing) > 0:
			compare(&item, b, events[pickBest(b, events, agreeing)], MatchByOverlap)
		case len(conflicting) > 0:
			ev := events[pickBest(b, events, conflicting)]
			if b.PreviouslySynced() {
				replaced(&item, b, ev)
			} else {
				doubleBooked(&item, b, ev)
			}
		case b.PreviouslySynced() && !b.CheckOut.Before(graceFloor):
			item.Status = StatusSuspectedCancelled
			item.MatchMethod = MatchNone
			item.Summary = append(item.Summary, fmt.Sprintf("No external event found for %s to %s",
				dates.Format(b.CheckIn), dates.Format(b.CheckOut)))
		default:
			continue
		}
		items = append(items, item)
	}

	for idx, ev := range events {
		if covered[idx] || ev.Kind != EventKindReservation {
			continue
		}
		items = append(items, newExternalItem(snap.Unit, ev))
	}

	return items
}

// activeBookings drops inactive, malformed and out-of-window bookings and
// orders the rest by check-in.
func activeBookings(in []InternalBooking, w dates.Window) []InternalBooking {
	out := make([]InternalBooking, 0, len(in))
	for _, b := range in {
		if IsInactive(b.Status) || !b.CheckIn.Before(b.CheckOut) || !w.Contains(b.CheckIn, b.CheckOut) {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CheckIn.Equal(out[j].CheckIn) {
			return out[i].CheckIn.Before(out[j].CheckIn)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func windowEvents(in []ExternalEvent, w dates.Window) []ExternalEvent {
	out := make([]ExternalEvent, 0, len(in))
	for _, ev := range in {
		if ev.End.Before(ev.Start) || !w.Contains(ev.Start, ev.End) {
			continue
		}
		out = append(out, ev)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].UID < out[j].UID
	})
	return out
}

// codeMatch returns the index of the reservation event carrying the booking's code, or -1.
func codeMatch(b InternalBooking, events []ExternalEvent) int {
	if b.ReservationCode == "" {
		return -1
	}
	var hits []int
	for idx, ev := range events {
		if ev.ReservationCode != "" && strings.EqualFold(ev.ReservationCode, b.ReservationCode) {
			hits = append(hits, idx)
		}
	}
	if len(hits) == 0 {
		return -1
	}
	return pickBest(b, events, hits)
}

// agrees reports whether an overlapping event may describe the same reservation.
// Platform bookings with a code only accept events carrying that code; internal
// bookings never claim an event that carries a platform code of its own.
func agrees(b InternalBooking, ev ExternalEvent) bool {
	if b.ReservationCode != "" && ev.ReservationCode != "" {
		return strings.EqualFold(b.ReservationCode, ev.ReservationCode)
	}
	if b.Source == SourceExternalPlatform {
		return b.ReservationCode == ""
	}
	return ev.ReservationCode == ""
}

// pickBest prefers an exact date match, then the greatest overlap,
// then the lexically greatest UID.
func pickBest(b InternalBooking, events []ExternalEvent, candidates []int) int {
	best := candidates[0]
	for _, idx := range candidates[1:] {
		if better(b, events[idx], events[best]) {
			best = idx
		}
	}
	return best
}

func better(b InternalBooking, a, c ExternalEvent) bool {
	aExact := b.CheckIn.Equal(a.Start) && checkOutMatches(b, a)
	cExact := b.CheckIn.Equal(c.Start) && checkOutMatches(b, c)
	if aExact != cExact {
		return aExact
	}
	ao := dates.OverlapNights(b.CheckIn, b.CheckOut, a.Start, a.End)
	co := dates.OverlapNights(b.CheckIn, b.CheckOut, c.Start, c.End)
	if ao != co {
		return ao > co
	}
	return a.UID > c.UID
}

// checkOutMatches tolerates platform feeds that publish the last night
// instead of the checkout day.
func checkOutMatches(b InternalBooking, ev ExternalEvent) bool {
	if b.CheckOut.Equal(ev.End) {
		return true
	}
	return b.Source == SourceExternalPlatform && b.CheckOut.Equal(dates.AddDays(ev.End, -1))
}

func bookingItem(unit Unit, b InternalBooking) Item {
	id := b.ID
	unitID := b.UnitID
	if unitID == 0 {
		unitID = unit.ID
	}
	unitName := b.UnitName
	if unitName == "" {
		unitName = unit.Name
	}
	return Item{
		BookingID:             &id,
		UnitID:                unitID,
		UnitName:              unitName,
		GuestName:             b.GuestName,
		ReservationCode:       b.ReservationCode,
		CheckIn:               b.CheckIn,
		CheckOut:              b.CheckOut,
		BookingReservationURL: b.ReservationURL,
		LastSyncAt:            b.LastSyncAt,
		Summary:               []string{},
	}
}

func attachEvent(item *Item, ev ExternalEvent, method MatchMethod) {
	item.ExternalUID = ev.UID
	item.ExternalSummary = ev.Summary
	item.ReservationURL = ev.ReservationURL
	item.MatchMethod = method
}

// compare classifies a paired booking as matched or conflict.
func compare(item *Item, b InternalBooking, ev ExternalEvent, method MatchMethod) {
	attachEvent(item, ev, method)

	sameIn := b.CheckIn.Equal(ev.Start)
	sameOut := checkOutMatches(b, ev)
	if sameIn && sameOut {
		item.Status = StatusMatched
		return
	}

	item.Status = StatusConflict
	propose(item, b, ev, sameIn, sameOut)
}

// replaced marks a synced booking whose dates are now held by a different event.
func replaced(item *Item, b InternalBooking, ev ExternalEvent) {
	attachEvent(item, ev, MatchByOverlap)
	item.Status = StatusReplacedBy
	item.ReplacedByCode = ev.ReservationCode
	propose(item, b, ev, b.CheckIn.Equal(ev.Start), checkOutMatches(b, ev))

	label := ev.ReservationCode
	if label == "" {
		label = ev.UID
	}
	item.Summary = append([]string{fmt.Sprintf("Replaced by %s (%s to %s)", label,
		dates.Format(ev.Start), dates.Format(ev.End))}, item.Summary...)
}

// doubleBooked marks an unsynced internal booking sitting on another reservation.
func doubleBooked(item *Item, b InternalBooking, ev ExternalEvent) {
	attachEvent(item, ev, MatchByOverlap)
	item.Status = StatusConflict
	propose(item, b, ev, b.CheckIn.Equal(ev.Start), checkOutMatches(b, ev))
	item.Summary = append([]string{fmt.Sprintf("Calendar double-booked: overlaps %s (%s to %s)",
		ev.ReservationCode, dates.Format(ev.Start), dates.Format(ev.End))}, item.Summary...)
}

func propose(item *Item, b InternalBooking, ev ExternalEvent, sameIn, sameOut bool) {
	in := ev.Start
	out := ev.End
	if sameOut {
		out = b.CheckOut
	}
	item.ProposedCheckIn = &in
	item.ProposedCheckOut = &out
	item.Diffs = Diffs{CheckInChanged: !sameIn, CheckOutChanged: !sameOut}

	if !sameIn {
		item.Summary = append(item.Summary, fmt.Sprintf("Check-in %s -> %s",
			dates.Format(b.CheckIn), dates.Format(in)))
	}
	if !sameOut {
		item.Summary = append(item.Summary, fmt.Sprintf("Check-out %s -> %s",
			dates.Format(b.CheckOut), dates.Format(out)))
	}
}

func newExternalItem(unit Unit, ev ExternalEvent) Item {
	item := Item{
		UnitID:          unit.ID,
		UnitName:        unit.Name,
		ReservationCode: ev.ReservationCode,
		Status:          StatusNewExternal,
		CheckIn:         ev.Start,
		CheckOut:        ev.End,
		Summary: []string{fmt.Sprintf("Untracked external reservation %s to %s",
			dates.Format(ev.Start), dates.Format(ev.End))},
	}
	attachEvent(&item, ev, MatchNone)
	return item
}
