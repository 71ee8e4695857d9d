package availability_test

import (
	"encoding/json"
	"testing"
	"time"

	"calendar-reconciler/core/availability"
	"calendar-reconciler/core/dates"
	"calendar-reconciler/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := dates.Parse(s)
	require.NoError(t, err)
	return v
}

func iv(t *testing.T, start, end string, hard bool, typ string) availability.Interval {
	return availability.Interval{Start: d(t, start), End: d(t, end), HardBlock: hard, Type: typ, Summary: typ}
}

type flat struct {
	Start string
	End   string
	Hard  bool
	Type  string
}

func flatten(spans []availability.Span) []flat {
	out := make([]flat, 0, len(spans))
	for _, s := range spans {
		out = append(out, flat{dates.Format(s.Start), dates.Format(s.End), s.HardBlock, s.Type})
	}
	return out
}

func TestMerge_HardAndSoftOverlapStaySeparate(t *testing.T) {
	reservation := reconcile.InternalBooking{
		ID: 1, CheckIn: d(t, "2024-05-01"), CheckOut: d(t, "2024-05-05"),
		Status: "Confirmed", Source: reconcile.SourceExternalPlatform, RawSource: "Airbnb",
	}
	blockEvent := reconcile.ExternalEvent{
		UID: "blk", Start: d(t, "2024-05-04"), End: d(t, "2024-05-08"), Kind: reconcile.EventKindBlock,
	}

	intervals := availability.Build([]reconcile.InternalBooking{reservation}, []reconcile.ExternalEvent{blockEvent},
		availability.Query{Window: dates.Window{From: d(t, "2024-04-15"), To: d(t, "2024-06-30")}})
	require.Len(t, intervals, 2)

	spans := availability.Merge(intervals)
	assert.Equal(t, []flat{
		{"2024-05-01", "2024-05-03", true, "Confirmed"},
		{"2024-05-04", "2024-05-07", false, "Block"},
	}, flatten(spans))
}

func TestMerge_SameClassJoinsAndReportsMixed(t *testing.T) {
	spans := availability.Merge([]availability.Interval{
		iv(t, "2024-05-01", "2024-05-04", true, "Confirmed"),
		iv(t, "2024-05-04", "2024-05-06", true, "Upcoming"),
		iv(t, "2024-05-10", "2024-05-12", true, "Confirmed"),
	})
	assert.Equal(t, []flat{
		{"2024-05-01", "2024-05-06", true, availability.MixedLabel},
		{"2024-05-10", "2024-05-12", true, "Confirmed"},
	}, flatten(spans))
	assert.Equal(t, availability.MixedLabel, spans[0].Summary)
}

func TestMerge_AdjacentDaysDoNotJoin(t *testing.T) {
	spans := availability.Merge([]availability.Interval{
		iv(t, "2024-05-01", "2024-05-03", true, "Confirmed"),
		iv(t, "2024-05-04", "2024-05-06", true, "Confirmed"),
	})
	assert.Len(t, spans, 2)
}

func TestMerge_SoftInsideHardIsAbsorbed(t *testing.T) {
	spans := availability.Merge([]availability.Interval{
		iv(t, "2024-05-01", "2024-05-10", true, "Confirmed"),
		iv(t, "2024-05-03", "2024-05-05", false, "Block"),
	})
	assert.Equal(t, []flat{{"2024-05-01", "2024-05-10", true, availability.MixedLabel}}, flatten(spans))
}

func TestMerge_HardInsideSoftSplitsSoft(t *testing.T) {
	spans := availability.Merge([]availability.Interval{
		iv(t, "2024-05-01", "2024-05-10", false, "Hold"),
		iv(t, "2024-05-03", "2024-05-05", true, "Confirmed"),
	})
	assert.Equal(t, []flat{
		{"2024-05-01", "2024-05-02", false, "Hold"},
		{"2024-05-03", "2024-05-05", true, "Confirmed"},
		{"2024-05-06", "2024-05-10", false, "Hold"},
	}, flatten(spans))
}

func TestMerge_SoftRemainderDoesNotTakeLaterHardNights(t *testing.T) {
	spans := availability.Merge([]availability.Interval{
		iv(t, "2024-05-01", "2024-05-10", false, "Block"),
		iv(t, "2024-05-03", "2024-05-05", true, "Confirmed"),
		iv(t, "2024-05-04", "2024-05-08", true, "Confirmed"),
	})
	assert.Equal(t, []flat{
		{"2024-05-01", "2024-05-02", false, "Block"},
		{"2024-05-03", "2024-05-08", true, "Confirmed"},
		{"2024-05-09", "2024-05-10", false, "Block"},
	}, flatten(spans))

	again := make([]availability.Interval, 0, len(spans))
	for _, s := range spans {
		again = append(again, s.AsInterval())
	}
	assert.Equal(t, spans, availability.Merge(again))
}

func TestMerge_SameStartFavorsHard(t *testing.T) {
	spans := availability.Merge([]availability.Interval{
		iv(t, "2024-05-01", "2024-05-03", true, "Confirmed"),
		iv(t, "2024-05-01", "2024-05-06", false, "Hold"),
	})
	assert.Equal(t, []flat{
		{"2024-05-01", "2024-05-03", true, "Confirmed"},
		{"2024-05-04", "2024-05-06", false, "Hold"},
	}, flatten(spans))
}

func TestMerge_Idempotent(t *testing.T) {
	inputs := []availability.Interval{
		iv(t, "2024-05-01", "2024-05-04", true, "Confirmed"),
		iv(t, "2024-05-03", "2024-05-09", false, "Hold"),
		iv(t, "2024-05-08", "2024-05-12", false, "Block"),
		iv(t, "2024-05-10", "2024-05-11", true, "Upcoming"),
		iv(t, "2024-05-20", "2024-05-22", true, "Confirmed"),
	}
	once := availability.Merge(inputs)

	again := make([]availability.Interval, 0, len(once))
	for _, s := range once {
		again = append(again, s.AsInterval())
	}
	twice := availability.Merge(again)

	assert.Equal(t, once, twice)
}

func TestMerge_HardBlockIntegrity(t *testing.T) {
	inputs := []availability.Interval{
		iv(t, "2024-05-01", "2024-05-04", true, "Confirmed"),
		iv(t, "2024-05-02", "2024-05-09", false, "Hold"),
		iv(t, "2024-05-06", "2024-05-07", true, "Upcoming"),
		iv(t, "2024-05-09", "2024-05-15", false, "Block"),
	}
	spans := availability.Merge(inputs)

	for i, s := range spans {
		if i > 0 {
			assert.True(t, s.Start.After(spans[i-1].End), "spans must not overlap")
		}
		// A span is hard only if some hard input covers one of its days.
		covered := false
		for _, in := range inputs {
			if in.HardBlock && !in.End.Before(s.Start) && !in.Start.After(s.End) {
				covered = true
			}
		}
		if s.HardBlock {
			assert.True(t, covered)
		}
	}

	// Every hard input keeps at least its first day hard.
	for _, in := range inputs {
		if !in.HardBlock {
			continue
		}
		found := false
		for _, s := range spans {
			if s.HardBlock && !in.Start.Before(s.Start) && !in.Start.After(s.End) {
				found = true
			}
		}
		assert.True(t, found, "hard input starting %s lost", dates.Format(in.Start))
	}
}

func TestMerge_Empty(t *testing.T) {
	assert.Empty(t, availability.Merge(nil))
}

func TestBuild_ClassificationAndExclusions(t *testing.T) {
	window := dates.Window{From: d(t, "2024-05-01"), To: d(t, "2024-05-31")}
	bookings := []reconcile.InternalBooking{
		{ID: 1, CheckIn: d(t, "2024-05-01"), CheckOut: d(t, "2024-05-05"), Status: "Confirmed", Source: reconcile.SourceExternalPlatform, RawSource: "Airbnb"},
		{ID: 2, CheckIn: d(t, "2024-05-06"), CheckOut: d(t, "2024-05-08"), Status: "Hold", Source: reconcile.SourceManualHold, RawSource: "Direct", GuestType: "Hold"},
		{ID: 3, CheckIn: d(t, "2024-05-09"), CheckOut: d(t, "2024-05-10"), Status: "CANCELLED", Source: reconcile.SourceInternalPrivate},
		{ID: 4, CheckIn: d(t, "2024-05-11"), CheckOut: d(t, "2024-05-12"), Status: "Expired", Source: reconcile.SourceManualHold},
		{ID: 5, CheckIn: d(t, "2024-05-13"), CheckOut: d(t, "2024-05-15"), Status: "Upcoming", Source: reconcile.SourceInternalPrivate, RawSource: "Private"},
		{ID: 6, CheckIn: d(t, "2024-07-01"), CheckOut: d(t, "2024-07-03"), Status: "Confirmed", Source: reconcile.SourceInternalPrivate},
	}
	events := []reconcile.ExternalEvent{
		{UID: "r", Start: d(t, "2024-05-20"), End: d(t, "2024-05-22"), Kind: reconcile.EventKindReservation},
		{UID: "b", Start: d(t, "2024-05-24"), End: d(t, "2024-05-24"), Kind: reconcile.EventKindBlock},
	}

	got := availability.Build(bookings, events, availability.Query{Window: window, ExcludeBookingID: 5})
	require.Len(t, got, 3)

	assert.True(t, got[0].HardBlock)
	assert.Equal(t, availability.KindReservation, got[0].Kind)
	assert.Equal(t, "2024-05-04", dates.Format(got[0].End))

	assert.False(t, got[1].HardBlock)
	assert.Equal(t, availability.KindHold, got[1].Kind)

	assert.False(t, got[2].HardBlock)
	assert.Equal(t, availability.KindExternalBlock, got[2].Kind)
	assert.Equal(t, "AirbnbIcal", got[2].Source)
	assert.Equal(t, "Airbnb (Not available)", got[2].Summary)
	assert.Equal(t, "2024-05-24", dates.Format(got[2].End))
}

func TestIntervalJSON(t *testing.T) {
	raw, err := json.Marshal(iv(t, "2024-03-01", "2024-03-04", true, "Confirmed"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2024-03-01","end":"2024-03-04","type":"Confirmed","source":"","guest_type":"","kind":"","summary":"Confirmed","hardBlock":true}`, string(raw))

	spanRaw, err := json.Marshal(availability.Span{Start: d(t, "2024-03-01"), End: d(t, "2024-03-04"), Type: "Mixed", Summary: "Mixed", HardBlock: false})
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2024-03-01","end":"2024-03-04","type":"Mixed","summary":"Mixed","hardBlock":false}`, string(spanRaw))
}
