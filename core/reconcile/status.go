package reconcile

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips accents and surrounding whitespace,
// so "Cancelada", "CANCELLED" and " cancelled " compare by content.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

var cancelledStatuses = map[string]struct{}{
	"cancelled": {},
	"canceled":  {},
	"cancelado": {},
	"cancelada": {},
}

// IsCancelled reports whether a raw booking status means the booking was cancelled.
func IsCancelled(status string) bool {
	_, ok := cancelledStatuses[Fold(status)]
	return ok
}

// IsExpired reports whether a raw booking status means a hold lapsed.
func IsExpired(status string) bool {
	switch Fold(status) {
	case "expired", "expirado", "expirada":
		return true
	}
	return false
}

// IsInactive reports whether the booking takes no part in reconciliation.
func IsInactive(status string) bool {
	return IsCancelled(status) || IsExpired(status)
}

// IsBlocking reports whether a status occupies the calendar.
func IsBlocking(status string) bool {
	switch Fold(status) {
	case "confirmed", "ongoing", "upcoming", "hold", "block":
		return true
	}
	return false
}

// ResolveSource maps raw source and guest type text to a BookingSource.
func ResolveSource(source, guestType string) BookingSource {
	switch Fold(source) {
	case "airbnb":
		return SourceExternalPlatform
	case "private":
		return SourceInternalPrivate
	}
	switch Fold(guestType) {
	case "hold":
		return SourceManualHold
	case "block":
		return SourceManualBlock
	}
	return SourceInternalPrivate
}
