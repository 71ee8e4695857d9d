// Package feed reads external calendar feeds and writes the unit export feed.
//
// # Reading
//
// Parse turns ICS text into normalized reconcile.ExternalEvent values. Each
// VEVENT is decoded on its own, so one malformed event is skipped and counted
// instead of failing the whole feed. Dates are reduced to calendar dates in the
// unit's time zone and ends stay exclusive.
//
// A Source delivers the raw payload of a unit:
//
//   - HTTPSource downloads the unit's feed URL behind a per-host circuit
//     breaker, coalescing concurrent downloads of the same URL.
//   - ArchivingSource wraps another Source and copies each payload to object storage.
//   - StoredSource replays the last archived payload.
//
// Loader combines a Source with Parse and implements reconcile.EventLoader.
//
// # Writing
//
// Export renders a unit's own internal bookings as an ICS feed so the external
// platform can import them as blocks.
package feed
