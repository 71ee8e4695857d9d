// Package ical exposes reconciliation against the external calendar feed.
//
// A run loads a unit's bookings and its feed, pairs them, and fingerprints
// each outcome. Operators review the actionable outcomes (conflicts,
// suspected cancellations and replacements) and acknowledge them. An
// acknowledgement suppresses the item until its fingerprint changes.
//
// # HTTP Endpoints
//
//   - GET  /ical/notifications     : actionable, unacknowledged items (?unit, ?from, ?to, ?loose).
//   - GET  /ical/reconcile         : every item with its ack state (?unit, ?from, ?to, ?hideAck).
//   - POST /ical/ack/:bookingId    : acknowledge the booking's current item.
//   - GET  /ical/export/unit/:file : the unit's own bookings as an .ics feed (?token).
//
// Without ?unit, every unit with a feed is reconciled, a few at a time.
package ical
