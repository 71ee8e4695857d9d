package feed

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"calendar-reconciler/core/dates"
	"calendar-reconciler/core/reconcile"

	"github.com/emersion/go-ical"
)

// ErrNotCalendar is returned when a payload holds no VCALENDAR at all.
var ErrNotCalendar = errors.New("payload is not an iCalendar document")

// ParseStats counts what Parse did with the events of a payload.
type ParseStats struct {
	// Events is the number of VEVENT blocks found.
	Events int
	// Parsed is the number of events returned.
	Parsed int
	// Skipped is the number of events dropped as malformed.
	Skipped int
}

// Parse normalizes an ICS payload into external events for a unit in loc.
// A malformed event is skipped and counted; only a payload without any
// calendar is an error.
func Parse(payload string, loc *time.Location) ([]reconcile.ExternalEvent, ParseStats, error) {
	var stats ParseStats
	if loc == nil {
		loc = time.UTC
	}

	lines := unfold(payload)
	if !hasCalendar(lines) {
		return nil, stats, ErrNotCalendar
	}

	blocks := splitEvents(lines)
	stats.Events = len(blocks)

	events := make([]reconcile.ExternalEvent, 0, len(blocks))
	for _, block := range blocks {
		ev, err := decodeEvent(block, loc)
		if err != nil {
			stats.Skipped++
			continue
		}
		events = append(events, ev)
	}
	stats.Parsed = len(events)

	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if !a.End.Equal(b.End) {
			return a.End.Before(b.End)
		}
		return a.UID < b.UID
	})
	return events, stats, nil
}

// unfold normalizes line endings and joins continuation lines.
func unfold(payload string) []string {
	payload = strings.ReplaceAll(payload, "\r\n", "\n")
	payload = strings.ReplaceAll(payload, "\r", "\n")

	var out []string
	for _, line := range strings.Split(payload, "\n") {
		if len(out) > 0 && (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) {
			out[len(out)-1] += line[1:]
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

func hasCalendar(lines []string) bool {
	for _, line := range lines {
		if strings.EqualFold(strings.TrimSpace(line), "BEGIN:VCALENDAR") {
			return true
		}
	}
	return false
}

// splitEvents cuts the top-level VEVENT blocks out of the unfolded lines.
// An event that never ends is still returned so it can be counted as skipped.
func splitEvents(lines []string) [][]string {
	var (
		blocks  [][]string
		current []string
		depth   int
	)
	for _, line := range lines {
		trimmed := strings.ToUpper(strings.TrimSpace(line))
		switch {
		case trimmed == "BEGIN:VEVENT":
			if current != nil {
				blocks = append(blocks, current)
			}
			current = []string{line}
			depth = 0
		case current == nil:
		case strings.HasPrefix(trimmed, "BEGIN:"):
			depth++
			current = append(current, line)
		case trimmed == "END:VEVENT" && depth == 0:
			current = append(current, line)
			blocks = append(blocks, current)
			current = nil
		case strings.HasPrefix(trimmed, "END:"):
			depth--
			current = append(current, line)
		default:
			current = append(current, line)
		}
	}
	if current != nil {
		blocks = append(blocks, current)
	}
	return blocks
}

func decodeEvent(block []string, loc *time.Location) (reconcile.ExternalEvent, error) {
	var sb strings.Builder
	sb.WriteString("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//feed//EN\r\n")
	for _, line := range block {
		sb.WriteString(line)
		sb.WriteString("\r\n")
	}
	sb.WriteString("END:VCALENDAR\r\n")

	cal, err := ical.NewDecoder(strings.NewReader(sb.String())).Decode()
	if err != nil {
		return reconcile.ExternalEvent{}, fmt.Errorf("decode event: %w", err)
	}
	vevents := cal.Events()
	if len(vevents) != 1 {
		return reconcile.ExternalEvent{}, fmt.Errorf("expected one event, got %d", len(vevents))
	}
	vevent := vevents[0]

	start, err := vevent.DateTimeStart(loc)
	if err != nil {
		return reconcile.ExternalEvent{}, fmt.Errorf("read DTSTART: %w", err)
	}
	if start.IsZero() {
		return reconcile.ExternalEvent{}, errors.New("missing DTSTART")
	}
	end, err := vevent.DateTimeEnd(loc)
	if err != nil {
		return reconcile.ExternalEvent{}, fmt.Errorf("read DTEND: %w", err)
	}

	ev := reconcile.ExternalEvent{
		Start: dates.Civil(start, loc),
		End:   dates.Civil(end, loc),
	}
	if end.IsZero() {
		ev.End = dates.AddDays(ev.Start, 1)
	}
	if ev.End.Before(ev.Start) {
		return reconcile.ExternalEvent{}, errors.New("event ends before it starts")
	}
	if ev.End.Equal(ev.Start) {
		ev.End = dates.AddDays(ev.Start, 1)
	}

	ev.UID = strings.TrimSpace(text(vevent.Props, ical.PropUID))
	ev.Summary = cleanText(text(vevent.Props, ical.PropSummary))
	ev.Description = cleanText(text(vevent.Props, ical.PropDescription))
	link := strings.TrimSpace(text(vevent.Props, ical.PropURL))
	exportedCode := text(vevent.Props, PropBookingCode)
	exported := vevent.Props.Get(PropBookingID) != nil

	ev.ReservationCode, ev.ReservationURL = extractCode(ev.Summary, ev.Description, link, ev.UID, exportedCode)
	ev.Kind = classify(ev.Summary, ev.ReservationCode, exported)
	if ev.UID == "" {
		ev.UID = fmt.Sprintf("%s-%s-%s", dates.Format(ev.Start), dates.Format(ev.End), ev.Summary)
	}
	return ev, nil
}

// text returns the raw value of a property, or "" when it is absent.
// Escapes are resolved by cleanText so values that were double-escaped
// upstream still come out readable.
func text(props ical.Props, name string) string {
	p := props.Get(name)
	if p == nil {
		return ""
	}
	return p.Value
}
