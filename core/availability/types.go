package availability

import (
	"encoding/json"
	"time"

	"calendar-reconciler/core/dates"
)

// Kind is the source classification of an interval.
type Kind string

const (
	KindReservation   Kind = "reservation"
	KindHold          Kind = "hold"
	KindBlock         Kind = "block"
	KindExternalBlock Kind = "external-block"
)

// MixedLabel replaces type or summary when a span has several distinct values.
const MixedLabel = "Mixed"

// Interval is one blocking range with an inclusive end.
type Interval struct {
	Start     time.Time
	End       time.Time
	Type      string
	Source    string
	GuestType string
	Kind      Kind
	Summary   string
	HardBlock bool
}

// MarshalJSON renders the unmerged wire shape.
func (i Interval) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Start     string `json:"start"`
		End       string `json:"end"`
		Type      string `json:"type"`
		Source    string `json:"source"`
		GuestType string `json:"guest_type"`
		Kind      Kind   `json:"kind"`
		Summary   string `json:"summary"`
		HardBlock bool   `json:"hardBlock"`
	}{dates.Format(i.Start), dates.Format(i.End), i.Type, i.Source, i.GuestType, i.Kind, i.Summary, i.HardBlock})
}

// Span is a merged run of same-class intervals.
type Span struct {
	Start     time.Time
	End       time.Time
	Type      string
	Summary   string
	HardBlock bool
}

// MarshalJSON renders the merged wire shape.
func (s Span) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Start     string `json:"start"`
		End       string `json:"end"`
		Type      string `json:"type"`
		Summary   string `json:"summary"`
		HardBlock bool   `json:"hardBlock"`
	}{dates.Format(s.Start), dates.Format(s.End), s.Type, s.Summary, s.HardBlock})
}

// AsInterval turns a merged span back into an interval, so merged output can be merged again.
func (s Span) AsInterval() Interval {
	return Interval{Start: s.Start, End: s.End, Type: s.Type, Summary: s.Summary, HardBlock: s.HardBlock}
}
