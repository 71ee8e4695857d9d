// Package utils provides common utility functions for the calendar-reconciler application.
// It includes helpers for loose type conversion of query and body values, and the
// shared JSON error response used by every handler.
package utils
