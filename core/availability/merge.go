package availability

import (
	"sort"
	"time"

	"calendar-reconciler/core/dates"
)

// segment is a run of same-class intervals being accumulated.
// origin is the earliest real start of its members; a re-queued remainder
// keeps the origin of the span it was cut from.
type segment struct {
	start   time.Time
	end     time.Time
	origin  time.Time
	hard    bool
	members []Interval
}

// segLess orders by start, soft before hard on the same day, then by end.
func segLess(a, b segment) bool {
	if !a.start.Equal(b.start) {
		return a.start.Before(b.start)
	}
	if a.hard != b.hard {
		return !a.hard
	}
	return a.end.Before(b.end)
}

func insert(queue []segment, s segment) []segment {
	i := sort.Search(len(queue), func(i int) bool { return segLess(s, queue[i]) })
	queue = append(queue, segment{})
	copy(queue[i+1:], queue[i:])
	queue[i] = s
	return queue
}

// clip keeps the part of s inside [from, to] and the members touching it.
func (s segment) clip(from, to time.Time) (segment, bool) {
	if to.Before(from) {
		return segment{}, false
	}
	out := segment{start: from, end: to, origin: s.origin, hard: s.hard}
	for _, m := range s.members {
		if m.End.Before(from) || m.Start.After(to) {
			continue
		}
		out.members = append(out.members, m)
	}
	return out, len(out.members) > 0
}

func (s segment) span() Span {
	types := make([]string, 0, len(s.members))
	summaries := make([]string, 0, len(s.members))
	for _, m := range s.members {
		types = append(types, m.Type)
		summaries = append(summaries, m.Summary)
	}
	return Span{
		Start:     s.start,
		End:       s.end,
		Type:      label(types),
		Summary:   label(summaries),
		HardBlock: s.hard,
	}
}

// label returns the single distinct non-empty value, or MixedLabel.
func label(values []string) string {
	var first string
	for _, v := range values {
		if v == "" {
			continue
		}
		if first == "" {
			first = v
			continue
		}
		if v != first {
			return MixedLabel
		}
	}
	return first
}

// Merge folds intervals into non-overlapping spans, joining only intervals of
// the same hard/soft class whose ranges share a day.
func Merge(intervals []Interval) []Span {
	queue := make([]segment, 0, len(intervals))
	for _, iv := range intervals {
		end := iv.End
		if end.Before(iv.Start) {
			end = iv.Start
		}
		queue = append(queue, segment{start: iv.Start, end: end, origin: iv.Start, hard: iv.HardBlock, members: []Interval{iv}})
	}
	sort.SliceStable(queue, func(i, j int) bool { return segLess(queue[i], queue[j]) })

	out := make([]Span, 0, len(queue))
	if len(queue) == 0 {
		return out
	}

	cur := queue[0]
	queue = queue[1:]
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		if next.start.After(cur.end) {
			out = append(out, cur.span())
			cur = next
			continue
		}

		if next.hard == cur.hard {
			if next.end.After(cur.end) {
				cur.end = next.end
			}
			if next.origin.Before(cur.origin) {
				cur.origin = next.origin
			}
			cur.members = append(cur.members, next.members...)
			continue
		}

		// A soft interval inside a hard span stays hard.
		if cur.hard && !next.end.After(cur.end) {
			cur.members = append(cur.members, next.members...)
			continue
		}

		// A remainder started before cur did, so cur keeps the shared days.
		if next.origin.Before(cur.origin) {
			if rest, ok := next.clip(dates.AddDays(cur.end, 1), next.end); ok {
				queue = insert(queue, rest)
			}
			continue
		}

		// Later start takes the shared days; the earlier span resumes afterwards.
		if cur.end.After(next.end) {
			if rest, ok := cur.clip(dates.AddDays(next.end, 1), cur.end); ok {
				queue = insert(queue, rest)
			}
		}
		if head, ok := cur.clip(cur.start, dates.AddDays(next.start, -1)); ok {
			out = append(out, head.span())
		}
		cur = next
	}
	out = append(out, cur.span())

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}
