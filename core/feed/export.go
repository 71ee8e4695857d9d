package feed

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"time"

	"calendar-reconciler/core/reconcile"

	"github.com/emersion/go-ical"
)

// Exported reports whether a booking belongs in the unit export feed.
// Platform bookings are already on the platform; inactive ones occupy nothing.
func Exported(b reconcile.InternalBooking) bool {
	return b.Source != reconcile.SourceExternalPlatform &&
		!reconcile.IsInactive(b.Status) &&
		b.CheckIn.Before(b.CheckOut)
}

// Export renders the unit's own bookings as an iCalendar feed.
func Export(unit reconcile.Unit, bookings []reconcile.InternalBooking, cfg ExportConfig, now time.Time) ([]byte, error) {
	loc := unit.Location
	if loc == nil {
		loc = time.UTC
	}
	productID := cfg.ProductID
	if productID == "" {
		productID = "-//Calendar Reconciler//Unit Export 1.0//EN"
	}
	domain := cfg.UIDDomain
	if domain == "" {
		domain = "calendar-reconciler.local"
	}

	rows := make([]reconcile.InternalBooking, 0, len(bookings))
	for _, b := range bookings {
		if Exported(b) {
			rows = append(rows, b)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].CheckIn.Equal(rows[j].CheckIn) {
			return rows[i].CheckIn.Before(rows[j].CheckIn)
		}
		return rows[i].ID < rows[j].ID
	})

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText("CALSCALE", "GREGORIAN")
	if unit.Name != "" {
		cal.Props.SetText("X-WR-CALNAME", unit.Name)
	}

	stamp := now.UTC()
	for _, b := range rows {
		cal.Children = append(cal.Children, exportEvent(unit, b, domain, loc, stamp).Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode export for unit %d: %w", unit.ID, err)
	}
	return buf.Bytes(), nil
}

func exportEvent(unit reconcile.Unit, b reconcile.InternalBooking, domain string, loc *time.Location, stamp time.Time) *ical.Event {
	ev := ical.NewEvent()
	id := strconv.FormatInt(b.ID, 10)

	ev.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	ev.Props.SetDateTime(ical.PropDateTimeStart, atMidnight(b.CheckIn, loc))
	ev.Props.SetDateTime(ical.PropDateTimeEnd, atMidnight(b.CheckOut, loc))

	switch b.Source {
	case reconcile.SourceManualHold:
		ev.Props.SetText(ical.PropUID, "soft-"+id+"@"+domain)
		ev.Props.SetText(ical.PropSummary, "HOLD")
		ev.Props.SetText(ical.PropStatus, "TENTATIVE")
		ev.Props.SetText(ical.PropCategories, "HOLD")
	case reconcile.SourceManualBlock:
		ev.Props.SetText(ical.PropUID, "soft-"+id+"@"+domain)
		ev.Props.SetText(ical.PropSummary, "BLOCKED")
		ev.Props.SetText(ical.PropStatus, "CONFIRMED")
		ev.Props.SetText(ical.PropCategories, "BLOCK")
	default:
		ev.Props.SetText(ical.PropUID, "private-"+id+"@"+domain)
		ev.Props.SetText(ical.PropSummary, "Reserved")
		ev.Props.SetText(ical.PropStatus, "CONFIRMED")
		ev.Props.SetText(PropUnitID, strconv.FormatInt(unit.ID, 10))
		ev.Props.SetText(PropBookingID, id)
		if b.ReservationCode != "" {
			ev.Props.SetText(PropBookingCode, b.ReservationCode)
		}
	}
	return ev
}

// atMidnight places a calendar date at 00:00 in loc.
func atMidnight(day time.Time, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
}
