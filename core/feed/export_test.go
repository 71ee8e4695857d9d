package feed

import (
	"testing"
	"time"

	"calendar-reconciler/core/dates"
	"calendar-reconciler/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport(t *testing.T) {
	cancun := dates.LoadLocation("America/Cancun")
	unit := reconcile.Unit{ID: 9, Name: "Casa Azul", Location: cancun}
	cfg := ExportConfig{ProductID: "-//Test//Export//EN", UIDDomain: "example.test"}
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	bookings := []reconcile.InternalBooking{
		{ID: 3, CheckIn: day("2024-05-10"), CheckOut: day("2024-05-12"), Status: "hold", Source: reconcile.SourceManualHold},
		{ID: 1, CheckIn: day("2024-05-01"), CheckOut: day("2024-05-05"), Status: "confirmed", Source: reconcile.SourceInternalPrivate, ReservationCode: "PRV-1"},
		{ID: 2, CheckIn: day("2024-05-06"), CheckOut: day("2024-05-08"), Status: "confirmed", Source: reconcile.SourceExternalPlatform, ReservationCode: "HMABCDEF12"},
		{ID: 4, CheckIn: day("2024-05-20"), CheckOut: day("2024-05-22"), Status: "Cancelado", Source: reconcile.SourceInternalPrivate},
		{ID: 5, CheckIn: day("2024-06-01"), CheckOut: day("2024-06-03"), Status: "block", Source: reconcile.SourceManualBlock},
	}

	data, err := Export(unit, bookings, cfg, now)
	require.NoError(t, err)
	out := string(data)

	t.Run("Calendar Header", func(t *testing.T) {
		assert.Contains(t, out, "PRODID:-//Test//Export//EN")
		assert.Contains(t, out, "VERSION:2.0")
	})

	t.Run("Own Bookings Only", func(t *testing.T) {
		assert.Contains(t, out, "UID:private-1@example.test")
		assert.Contains(t, out, "UID:soft-3@example.test")
		assert.Contains(t, out, "UID:soft-5@example.test")
		assert.NotContains(t, out, "-2@example.test")
		assert.NotContains(t, out, "-4@example.test")
	})

	t.Run("Local Midnight With Zone", func(t *testing.T) {
		assert.Contains(t, out, "DTSTART;TZID=America/Cancun:20240501T000000")
		assert.Contains(t, out, "DTEND;TZID=America/Cancun:20240505T000000")
	})

	t.Run("Soft Markers", func(t *testing.T) {
		assert.Contains(t, out, "SUMMARY:HOLD")
		assert.Contains(t, out, "STATUS:TENTATIVE")
		assert.Contains(t, out, "SUMMARY:BLOCKED")
		assert.Contains(t, out, "CATEGORIES:BLOCK")
	})

	t.Run("Round Trip Through Parse", func(t *testing.T) {
		events, stats, err := Parse(out, cancun)
		require.NoError(t, err)
		assert.Equal(t, 0, stats.Skipped)
		require.Len(t, events, 3)

		assert.Equal(t, "private-1@example.test", events[0].UID)
		assert.Equal(t, day("2024-05-01"), events[0].Start)
		assert.Equal(t, day("2024-05-05"), events[0].End)
		assert.Equal(t, reconcile.EventKindReservation, events[0].Kind)
		assert.Equal(t, "PRV-1", events[0].ReservationCode)

		assert.Equal(t, reconcile.EventKindBlock, events[1].Kind)
		assert.Equal(t, reconcile.EventKindBlock, events[2].Kind)
	})
}

func TestExported(t *testing.T) {
	assert.True(t, Exported(reconcile.InternalBooking{CheckIn: day("2024-01-01"), CheckOut: day("2024-01-02"), Status: "confirmed"}))
	assert.False(t, Exported(reconcile.InternalBooking{CheckIn: day("2024-01-01"), CheckOut: day("2024-01-01"), Status: "confirmed"}))
	assert.False(t, Exported(reconcile.InternalBooking{CheckIn: day("2024-01-01"), CheckOut: day("2024-01-02"), Status: "expired"}))
}
