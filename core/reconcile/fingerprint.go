package reconcile

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"calendar-reconciler/core/dates"
)

// ExactFingerprint hashes every fact of an item a reviewer would care about.
func ExactFingerprint(item Item) string {
	parts := []string{
		bookingKey(item.BookingID),
		string(item.Status),
		dates.Format(item.CheckIn),
		dates.Format(item.CheckOut),
		dates.FormatPtr(item.ProposedCheckIn),
		dates.FormatPtr(item.ProposedCheckOut),
		item.ReservationCode,
		item.ExternalUID,
		fmt.Sprintf(`{"checkIn":%t,"checkOut":%t}`, item.Diffs.CheckInChanged, item.Diffs.CheckOutChanged),
	}
	return digest(strings.Join(parts, "|"))
}

// LooseFingerprint hashes only the booking, status and reservation code,
// so it survives date jitter between feed fetches.
func LooseFingerprint(item Item) string {
	return digest(strings.Join([]string{"loose", bookingKey(item.BookingID), string(item.Status), item.ReservationCode}, "|"))
}

func bookingKey(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func digest(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
