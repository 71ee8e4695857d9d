package reconcile

import (
	"encoding/json"
	"time"

	"calendar-reconciler/core/dates"
)

// BookingSource is the resolved origin of an internal booking.
type BookingSource int

const (
	// SourceInternalPrivate is a booking taken directly by the operator.
	SourceInternalPrivate BookingSource = iota
	// SourceExternalPlatform is a booking imported from the external platform.
	SourceExternalPlatform
	// SourceManualHold is a tentative hold placed by the operator.
	SourceManualHold
	// SourceManualBlock is a manual block placed by the operator.
	SourceManualBlock
)

// String returns the wire name of the source.
func (s BookingSource) String() string {
	switch s {
	case SourceExternalPlatform:
		return "external_platform"
	case SourceManualHold:
		return "manual_hold"
	case SourceManualBlock:
		return "manual_block"
	default:
		return "internal_private"
	}
}

// IsManual reports whether the booking is an operator hold or block.
func (s BookingSource) IsManual() bool {
	return s == SourceManualHold || s == SourceManualBlock
}

// InternalBooking is the normalized view of a booking row.
// Values are produced by an adapter at the persistence boundary.
type InternalBooking struct {
	ID              int64
	UnitID          int64
	UnitName        string
	CheckIn         time.Time
	CheckOut        time.Time
	Status          string
	Source          BookingSource
	RawSource       string
	GuestType       string
	ReservationCode string
	GuestName       string
	ReservationURL  string
	LastSyncAt      *time.Time
}

// PreviouslySynced reports whether the booking is expected to appear in the external feed.
// Only platform bookings are; a private booking may carry its own code or a sync
// stamp from the export feed without ever being published by the platform.
func (b InternalBooking) PreviouslySynced() bool {
	return b.Source == SourceExternalPlatform
}

// EventKind classifies an external calendar event.
type EventKind string

const (
	// EventKindReservation is a guest reservation on the external platform.
	EventKindReservation EventKind = "reservation"
	// EventKindBlock is a manual "not available" marker.
	EventKindBlock EventKind = "block"
)

// ExternalEvent is one normalized event from an external calendar feed.
// End is exclusive.
type ExternalEvent struct {
	UID             string
	Start           time.Time
	End             time.Time
	Kind            EventKind
	Summary         string
	Description     string
	ReservationCode string
	ReservationURL  string
}

// Status is the outcome of comparing one booking with the external feed.
type Status string

const (
	StatusMatched            Status = "matched"
	StatusConflict           Status = "conflict"
	StatusSuspectedCancelled Status = "suspected_cancelled"
	StatusReplacedBy         Status = "replaced_by"
	StatusNewExternal        Status = "new_external"
)

// Actionable reports whether the status needs operator attention.
func (s Status) Actionable() bool {
	switch s {
	case StatusConflict, StatusSuspectedCancelled, StatusReplacedBy:
		return true
	default:
		return false
	}
}

// MatchMethod records how a booking was paired with an event.
type MatchMethod string

const (
	MatchByCode    MatchMethod = "code"
	MatchByOverlap MatchMethod = "overlap"
	MatchNone      MatchMethod = "none"
)

// Diffs flags which boundary of a booking differs from its external counterpart.
type Diffs struct {
	CheckInChanged  bool `json:"checkIn"`
	CheckOutChanged bool `json:"checkOut"`
}

// Item is the reconciliation outcome for one booking or one untracked event.
type Item struct {
	BookingID             *int64      `json:"bookingId"`
	UnitID                int64       `json:"unitId"`
	UnitName              string      `json:"unitName,omitempty"`
	GuestName             string      `json:"guestName,omitempty"`
	ReservationCode       string      `json:"reservationCode,omitempty"`
	Status                Status      `json:"status"`
	CheckIn               time.Time   `json:"-"`
	CheckOut              time.Time   `json:"-"`
	ProposedCheckIn       *time.Time  `json:"-"`
	ProposedCheckOut      *time.Time  `json:"-"`
	Diffs                 Diffs       `json:"diffs"`
	ExternalUID           string      `json:"externalUid,omitempty"`
	ExternalSummary       string      `json:"externalSummary,omitempty"`
	ReplacedByCode        string      `json:"replacedByCode,omitempty"`
	ReservationURL        string      `json:"reservationUrl,omitempty"`
	BookingReservationURL string      `json:"bookingReservationUrl,omitempty"`
	LastSyncAt            *time.Time  `json:"lastIcalSyncAt,omitempty"`
	MatchMethod           MatchMethod `json:"matchMethod"`
	Summary               []string    `json:"summary"`
}

// MarshalJSON renders dates as YYYY-MM-DD.
func (i Item) MarshalJSON() ([]byte, error) {
	type plain Item
	return json.Marshal(struct {
		plain
		CheckIn          string  `json:"checkIn"`
		CheckOut         string  `json:"checkOut"`
		ProposedCheckIn  *string `json:"proposedCheckIn"`
		ProposedCheckOut *string `json:"proposedCheckOut"`
	}{
		plain:            plain(i),
		CheckIn:          dates.Format(i.CheckIn),
		CheckOut:         dates.Format(i.CheckOut),
		ProposedCheckIn:  formatOptional(i.ProposedCheckIn),
		ProposedCheckOut: formatOptional(i.ProposedCheckOut),
	})
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := dates.Format(*t)
	return &s
}

// Options tunes the matcher.
type Options struct {
	// Today is the current calendar date in the unit's time zone.
	Today time.Time
	// GraceDays keeps suspected cancellations quiet for stays that ended
	// more than this many days ago.
	GraceDays int
}

// DefaultGraceDays is used when Options.GraceDays is zero.
const DefaultGraceDays = 2

// Unit identifies the unit a reconciliation runs for.
type Unit struct {
	ID       int64
	Name     string
	Code     string
	FeedURL  string
	Location *time.Location
}

// Snapshot is the input of one reconciliation run.
type Snapshot struct {
	Unit     Unit
	Window   dates.Window
	Bookings []InternalBooking
	Events   []ExternalEvent
}
