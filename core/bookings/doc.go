// Package bookings reads units and bookings from the operations database.
//
// The rows are owned by the rest of the property-management system; this
// package only reads them, except for the acknowledgement columns which the
// ack package writes. ToInternal is the single place where a raw booking row
// becomes a reconcile.InternalBooking, so the engine never inspects raw fields.
//
// CheckSchema verifies that the live tables carry every column the models map.
package bookings
