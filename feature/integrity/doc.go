// Package integrity provides system health checks.
//
// Unlike the 'ical' package which checks bookings against external feeds,
// this package validates the infrastructure the reconciler depends on.
//
// # Checks Provided
//
//   - Schema: Validates that the bookings database has the columns the reconciler reads and the acknowledgement store writes (columns, types).
//   - Storage: Checks that the feed archive bucket exists. Only available when feed archiving or storage mode is configured.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
package integrity
