package dates_test

import (
	"testing"
	"time"

	"calendar-reconciler/core/dates"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := dates.Parse(s)
	require.NoError(t, err)
	return d
}

func TestParse(t *testing.T) {
	d, err := dates.Parse("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", dates.Format(d))

	_, err = dates.Parse("01/03/2024")
	assert.ErrorIs(t, err, dates.ErrInvalidDate)
}

func TestInclusiveEnd(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  string
	}{
		{"Half-open range", "2024-03-01", "2024-03-05", "2024-03-04"},
		{"Degenerate range clamps", "2024-03-01", "2024-03-01", "2024-03-01"},
		{"Single night", "2024-03-01", "2024-03-02", "2024-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dates.InclusiveEnd(mustParse(t, tt.start), mustParse(t, tt.end))
			assert.Equal(t, tt.want, dates.Format(got))
		})
	}
}

func TestCivil_UsesLocalCalendar(t *testing.T) {
	loc := dates.LoadLocation("America/Cancun")
	// 03:00 UTC is still the previous evening in Cancun (UTC-5).
	instant := time.Date(2024, 4, 10, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-04-09", dates.Format(dates.Civil(instant, loc)))
	assert.Equal(t, "2024-04-10", dates.Format(dates.Civil(instant, time.UTC)))
}

func TestOverlapNights(t *testing.T) {
	a1, a2 := mustParse(t, "2024-04-10"), mustParse(t, "2024-04-15")
	b1, b2 := mustParse(t, "2024-04-12"), mustParse(t, "2024-04-20")

	assert.Equal(t, 3, dates.OverlapNights(a1, a2, b1, b2))
	assert.True(t, dates.Overlaps(a1, a2, b1, b2))

	// Checkout day equal to the next check-in is not an overlap.
	assert.False(t, dates.Overlaps(a1, a2, a2, b2))
	assert.Equal(t, 0, dates.OverlapNights(a1, a2, a2, b2))
}

func TestParseWindow(t *testing.T) {
	today := mustParse(t, "2024-06-01")
	def := dates.DefaultWindow(today, 60, 180)
	assert.Equal(t, "2024-04-02", dates.Format(def.From))
	assert.Equal(t, "2024-11-28", dates.Format(def.To))

	t.Run("Blank values keep defaults", func(t *testing.T) {
		w, err := dates.ParseWindow("", " ", def)
		require.NoError(t, err)
		assert.Equal(t, def, w)
	})

	t.Run("Explicit values", func(t *testing.T) {
		w, err := dates.ParseWindow("2024-05-01", "2024-05-31", def)
		require.NoError(t, err)
		assert.Equal(t, "2024-05-01", dates.Format(w.From))
		assert.Equal(t, "2024-05-31", dates.Format(w.To))
	})

	t.Run("Invalid date", func(t *testing.T) {
		_, err := dates.ParseWindow("2024-13-01", "", def)
		assert.ErrorIs(t, err, dates.ErrInvalidDate)
	})

	t.Run("Reversed period", func(t *testing.T) {
		_, err := dates.ParseWindow("2024-05-31", "2024-05-01", def)
		assert.ErrorIs(t, err, dates.ErrInvalidPeriod)
	})
}

func TestWindowContains(t *testing.T) {
	w := dates.Window{From: mustParse(t, "2024-04-01"), To: mustParse(t, "2024-04-30")}
	assert.True(t, w.Contains(mustParse(t, "2024-03-28"), mustParse(t, "2024-04-01")))
	assert.True(t, w.Contains(mustParse(t, "2024-04-30"), mustParse(t, "2024-05-03")))
	assert.False(t, w.Contains(mustParse(t, "2024-03-20"), mustParse(t, "2024-03-31")))
	assert.False(t, w.Contains(mustParse(t, "2024-05-01"), mustParse(t, "2024-05-03")))
}
