package feed

import (
	"regexp"
	"strings"

	"calendar-reconciler/core/reconcile"
)

// Custom properties written into the unit export feed.
const (
	PropUnitID      = "X-RECONCILER-UNIT-ID"
	PropBookingID   = "X-RECONCILER-BOOKING-ID"
	PropBookingCode = "X-RECONCILER-BOOKING-CODE"
)

var (
	reservationURLPattern = regexp.MustCompile(`(?i)https?://(?:www\.)?airbnb\.[a-z.]+/hosting/reservations/details/([a-z0-9]+)`)
	reservationCodeText   = regexp.MustCompile(`\bHM[0-9A-Z]{8,}\b`)
	reservationCodeUID    = regexp.MustCompile(`HM[0-9A-Z]{8,}`)
)

var reservationWords = []string{"reserved", "reservation", "booked"}

var blockWords = []string{
	"not available", "unavailable", "blocked", "block", "owner stay", "owner",
	"hold", "maintenance", "private", "manual", "closed",
}

// extractCode finds the platform reservation code of an event.
// The first hit wins: reservation URL, code in text, code in UID, export property.
func extractCode(summary, description, link, uid, exported string) (code, reservationURL string) {
	for _, text := range []string{description, link} {
		if m := reservationURLPattern.FindStringSubmatch(text); m != nil {
			return strings.ToUpper(m[1]), m[0]
		}
	}
	for _, text := range []string{description, summary} {
		if m := reservationCodeText.FindString(text); m != "" {
			return m, ""
		}
	}
	if m := reservationCodeUID.FindString(strings.ToUpper(uid)); m != "" {
		return m, ""
	}
	return strings.TrimSpace(exported), ""
}

// classify decides whether an event is a reservation or a manual block.
// Unrecognized markers occupy dates, so they count as blocks.
func classify(summary, code string, exported bool) reconcile.EventKind {
	if code != "" || exported {
		return reconcile.EventKindReservation
	}
	folded := reconcile.Fold(summary)
	for _, w := range reservationWords {
		if strings.Contains(folded, w) {
			return reconcile.EventKindReservation
		}
	}
	for _, w := range blockWords {
		if strings.Contains(folded, w) {
			return reconcile.EventKindBlock
		}
	}
	return reconcile.EventKindBlock
}

// cleanText unescapes leftover ICS sequences and collapses whitespace.
func cleanText(s string) string {
	s = strings.NewReplacer(`\n`, " ", `\N`, " ", `\,`, ",", `\;`, ";", `\:`, ":", `\\`, `\`).Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
