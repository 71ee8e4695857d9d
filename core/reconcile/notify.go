package reconcile

import (
	"encoding/json"
	"fmt"
)

// AckMode selects which fingerprint a stored acknowledgement is checked against.
type AckMode int

const (
	// AckExact suppresses an item only when the ack equals its exact fingerprint.
	AckExact AckMode = iota
	// AckLoose also accepts the loose fingerprint.
	AckLoose
)

// Acks maps booking ids to their stored acknowledgement fingerprint.
type Acks map[int64]string

// Acknowledged reports whether the stored ack for the item's booking still applies.
func (a Acks) Acknowledged(item Item, mode AckMode) bool {
	if item.BookingID == nil {
		return false
	}
	stored, ok := a[*item.BookingID]
	if !ok || stored == "" {
		return false
	}
	if stored == ExactFingerprint(item) {
		return true
	}
	return mode == AckLoose && stored == LooseFingerprint(item)
}

// Notification is an actionable item shaped for the operator feed.
type Notification struct {
	ID               string
	Type             string
	Item             Item
	Fingerprint      string
	LooseFingerprint string
}

// MarshalJSON flattens the item fields next to the notification fields.
func (n Notification) MarshalJSON() ([]byte, error) {
	return withFields(n.Item, map[string]any{
		"id":               n.ID,
		"type":             n.Type,
		"fingerprint":      n.Fingerprint,
		"looseFingerprint": n.LooseFingerprint,
	})
}

// Assemble keeps the actionable items that no current acknowledgement covers.
func Assemble(items []Item, acks Acks, mode AckMode) []Notification {
	out := make([]Notification, 0)
	for _, item := range items {
		if !item.Status.Actionable() || acks.Acknowledged(item, mode) {
			continue
		}
		out = append(out, Notification{
			ID:               fmt.Sprintf("issue|%s|%s", bookingKey(item.BookingID), item.Status),
			Type:             "ical_" + string(item.Status),
			Item:             item,
			Fingerprint:      ExactFingerprint(item),
			LooseFingerprint: LooseFingerprint(item),
		})
	}
	return out
}

// Entry is a reconciliation item annotated with its acknowledgement state.
type Entry struct {
	Item         Item
	Fingerprint  string
	Acknowledged bool
}

// MarshalJSON flattens the item fields next to the entry fields.
func (e Entry) MarshalJSON() ([]byte, error) {
	return withFields(e.Item, map[string]any{
		"fingerprint":  e.Fingerprint,
		"acknowledged": e.Acknowledged,
	})
}

// Annotate fingerprints every item and drops acknowledged ones when hideAck is set.
func Annotate(items []Item, acks Acks, mode AckMode, hideAck bool) []Entry {
	out := make([]Entry, 0, len(items))
	for _, item := range items {
		acked := acks.Acknowledged(item, mode)
		if acked && hideAck {
			continue
		}
		out = append(out, Entry{Item: item, Fingerprint: ExactFingerprint(item), Acknowledged: acked})
	}
	return out
}

// BookingIDs lists the booking ids referenced by items.
func BookingIDs(items []Item) []int64 {
	ids := make([]int64, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if item.BookingID == nil {
			continue
		}
		if _, ok := seen[*item.BookingID]; ok {
			continue
		}
		seen[*item.BookingID] = struct{}{}
		ids = append(ids, *item.BookingID)
	}
	return ids
}

func withFields(item Item, extra map[string]any) ([]byte, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]any)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	for k, v := range extra {
		fields[k] = v
	}
	return json.Marshal(fields)
}
