// Package calendar serves the availability timeline of a unit.
//
// The timeline combines the unit's blocking bookings with the block markers of
// its external feed. Each interval is hard (cannot be overridden) or soft
// (override with a warning). With merge enabled, overlapping intervals of the
// same class are joined into spans.
//
// # HTTP Endpoints
//
//   - GET /units/:id/calendar : availability for a unit id or code
//     (supports ?merge=1, ?from, ?to, ?excludeBookingId).
//
// By default a failing feed degrades to bookings only. Set
// calendar.require_feed to answer 502 instead.
package calendar
