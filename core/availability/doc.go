// Package availability turns bookings and external blocks into the spans a
// date picker uses to disable or warn on dates.
//
// Every input is classified once as hard (cannot be overridden) or soft
// (override with a warning). Ranges arrive half-open and leave with an
// inclusive end, so the checkout day stays selectable for a new arrival.
//
// Merge joins overlapping intervals of the same class only. Where a hard and
// a soft interval overlap, the later-starting one takes the shared days and
// the earlier one resumes after it; a soft interval that ends inside a hard
// one is absorbed into the hard span. Spans never overlap in the output.
package availability
