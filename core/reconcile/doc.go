// Package reconcile compares internally tracked bookings with the events of an
// external calendar feed and classifies every difference.
//
// The package is pure: it never reads a database or the network itself.
// Loading is delegated to a BookingLoader and an EventLoader, and every call
// recomputes its output from the snapshot it is given.
//
// # Statuses
//
// Each booking that has (or should have) an external counterpart yields one Item:
//
//   - matched: the paired event has the same dates.
//   - conflict: the paired event has different dates. Diffs and the proposed
//     dates describe the change.
//   - replaced_by: the booking's own event is gone but a different event now
//     holds an overlapping range.
//   - suspected_cancelled: a synced booking no longer overlaps any event.
//
// External reservations that no booking overlaps yield new_external items.
//
// # Matching
//
// A booking is first paired by reservation code. Failing that, overlapping
// events whose identity agrees with the booking are candidates. Ties are
// broken by exact dates, then greatest overlap, then the lexically greatest UID.
//
// # Fingerprints
//
// ExactFingerprint and LooseFingerprint hash an item's reviewable facts.
// Assemble drops items whose stored acknowledgement equals the fingerprint
// computed in the requested AckMode, so an acknowledged issue resurfaces as
// soon as any of its facts change.
//
// # Usage
//
//	engine := &reconcile.Engine{Bookings: repo, Events: feedLoader}
//	items, err := engine.Reconcile(ctx, unit, window)
//	notes := reconcile.Assemble(items, acks, reconcile.AckExact)
package reconcile
