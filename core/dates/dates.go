package dates

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

// Layout is the wire format for calendar dates.
const Layout = "2006-01-02"

var (
	// ErrInvalidDate is returned when a date string is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidPeriod is returned when a window ends before it starts.
	ErrInvalidPeriod = errors.New("invalid period")
)

// Window is an inclusive range of calendar dates.
type Window struct {
	From time.Time
	To   time.Time
}

// Parse reads a YYYY-MM-DD string into a calendar date.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// Format renders a calendar date as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// FormatPtr renders an optional date, returning "" for nil.
func FormatPtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return Format(*t)
}

// Civil converts an instant to the calendar date it falls on in loc.
func Civil(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	day := now.With(t.In(loc)).BeginningOfDay()
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date in loc.
func Today(clock time.Time, loc *time.Location) time.Time {
	return Civil(clock, loc)
}

// AddDays shifts a calendar date by n days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// Nights counts the nights in the half-open range [start, end).
func Nights(start, end time.Time) int {
	if !end.After(start) {
		return 0
	}
	return int(end.Sub(start).Hours() / 24)
}

// OverlapNights returns the number of nights shared by [aStart, aEnd) and [bStart, bEnd).
func OverlapNights(aStart, aEnd, bStart, bEnd time.Time) int {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	return Nights(start, end)
}

// Overlaps reports whether two half-open ranges share at least one night.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// InclusiveEnd converts an exclusive end to the last occupied day,
// never earlier than start.
func InclusiveEnd(start, end time.Time) time.Time {
	last := AddDays(end, -1)
	if last.Before(start) {
		return start
	}
	return last
}

// DefaultWindow returns [today-back, today+forward].
func DefaultWindow(today time.Time, back, forward int) Window {
	return Window{From: AddDays(today, -back), To: AddDays(today, forward)}
}

// ParseWindow reads optional from/to strings, falling back to def for blanks.
func ParseWindow(from, to string, def Window) (Window, error) {
	w := def
	if strings.TrimSpace(from) != "" {
		t, err := Parse(from)
		if err != nil {
			return Window{}, err
		}
		w.From = t
	}
	if strings.TrimSpace(to) != "" {
		t, err := Parse(to)
		if err != nil {
			return Window{}, err
		}
		w.To = t
	}
	if w.To.Before(w.From) {
		return Window{}, fmt.Errorf("%w: %s is after %s", ErrInvalidPeriod, Format(w.From), Format(w.To))
	}
	return w, nil
}

// Contains reports whether a stay [checkIn, checkOut) touches the window.
func (w Window) Contains(checkIn, checkOut time.Time) bool {
	return !checkOut.Before(w.From) && !checkIn.After(w.To)
}

// LoadLocation resolves an IANA zone name, falling back to UTC.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
