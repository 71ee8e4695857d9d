package bookings

import (
	"strings"
	"time"

	"calendar-reconciler/core/dates"
	"calendar-reconciler/core/reconcile"
)

func str(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

// calendarDate keeps the date printed on a DATE column regardless of the
// location the driver attached to it.
func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ToInternal converts a booking row. It reports false for rows whose
// check-in is not before their check-out.
func ToInternal(r BookingRecord, unitName string) (reconcile.InternalBooking, bool) {
	b := reconcile.InternalBooking{
		ID:              r.ID,
		UnitID:          r.UnitID,
		UnitName:        unitName,
		CheckIn:         calendarDate(r.CheckIn),
		CheckOut:        calendarDate(r.CheckOut),
		Status:          strings.TrimSpace(r.Status),
		RawSource:       str(r.Source),
		GuestType:       str(r.GuestType),
		ReservationCode: str(r.ReservationCode),
		GuestName:       str(r.GuestName),
		ReservationURL:  str(r.ReservationURL),
		LastSyncAt:      r.LastICalSyncAt,
	}
	b.Source = reconcile.ResolveSource(b.RawSource, b.GuestType)
	return b, b.CheckIn.Before(b.CheckOut)
}

// ToUnit converts a unit row. Units without a usable time zone use fallback.
func ToUnit(u UnitRecord, fallback string) reconcile.Unit {
	tz := str(u.Timezone)
	if tz == "" {
		tz = fallback
	}
	return reconcile.Unit{
		ID:       u.ID,
		Name:     u.Name,
		Code:     str(u.Code),
		FeedURL:  str(u.ICalImportURL),
		Location: dates.LoadLocation(tz),
	}
}
