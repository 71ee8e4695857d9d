package ack

import (
	"context"
	"errors"
	"testing"
	"time"

	"calendar-reconciler/core/bookings"
	"calendar-reconciler/core/dates"
	"calendar-reconciler/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) Put(ctx context.Context, a Acknowledgement) error {
	return m.Called(ctx, a).Error(0)
}

type stubLookup struct {
	booking *bookings.BookingRecord
	unit    *bookings.UnitRecord
}

func (s stubLookup) FindBooking(ctx context.Context, id int64) (*bookings.BookingRecord, error) {
	if s.booking == nil || s.booking.ID != id {
		return nil, bookings.ErrBookingNotFound
	}
	return s.booking, nil
}

func (s stubLookup) FindUnit(ctx context.Context, ref string) (*bookings.UnitRecord, error) {
	if s.unit == nil {
		return nil, bookings.ErrUnitNotFound
	}
	return s.unit, nil
}

type reconcilerFunc func(ctx context.Context, unit reconcile.Unit, window dates.Window) ([]reconcile.Item, error)

func (f reconcilerFunc) Reconcile(ctx context.Context, unit reconcile.Unit, window dates.Window) ([]reconcile.Item, error) {
	return f(ctx, unit, window)
}

func day(s string) time.Time {
	t, _ := dates.Parse(s)
	return t
}

func TestAcknowledge(t *testing.T) {
	now := time.Date(2024, 4, 1, 12, 30, 15, 0, time.UTC)
	row := &bookings.BookingRecord{
		ID: 5, UnitID: 7, CheckIn: day("2024-05-01"), CheckOut: day("2024-05-05"),
		Status: "confirmed", Source: ptr("airbnb"), ReservationCode: ptr("HMABCDEF12"),
	}
	lookup := stubLookup{booking: row, unit: &bookings.UnitRecord{ID: 7, Name: "Casa"}}

	id := int64(5)
	proposedIn := day("2024-05-02")
	proposedOut := day("2024-05-05")
	current := reconcile.Item{
		BookingID: &id, UnitID: 7, Status: reconcile.StatusConflict, ReservationCode: "HMABCDEF12",
		CheckIn: row.CheckIn, CheckOut: row.CheckOut,
		ProposedCheckIn: &proposedIn, ProposedCheckOut: &proposedOut,
		Diffs:       reconcile.Diffs{CheckInChanged: true},
		ExternalUID: "evt-1",
	}

	var window dates.Window
	engine := reconcilerFunc(func(ctx context.Context, unit reconcile.Unit, w dates.Window) ([]reconcile.Item, error) {
		window = w
		return []reconcile.Item{current}, nil
	})

	newAcknowledger := func(w Writer) *Acknowledger {
		return &Acknowledger{
			Store: w, Lookup: lookup, Reconciler: engine,
			Timezone: "America/Cancun", Now: func() time.Time { return now },
		}
	}

	t.Run("Verbatim Fingerprint", func(t *testing.T) {
		w := new(mockWriter)
		w.On("Put", mock.Anything, Acknowledgement{BookingID: 5, Fingerprint: "given", AcknowledgedAt: now, AcknowledgedBy: ptr("u1")}).Return(nil)

		got, err := newAcknowledger(w).Acknowledge(context.Background(), 5, ptr(" given "), false, ptr("u1"))
		require.NoError(t, err)
		assert.Equal(t, "given", got.Fingerprint)
		w.AssertExpectations(t)
	})

	t.Run("Recomputes Exact Fingerprint", func(t *testing.T) {
		w := new(mockWriter)
		w.On("Put", mock.Anything, mock.Anything).Return(nil)

		got, err := newAcknowledger(w).Acknowledge(context.Background(), 5, nil, false, nil)
		require.NoError(t, err)
		assert.Equal(t, reconcile.ExactFingerprint(current), got.Fingerprint)
		assert.Equal(t, dates.DefaultWindow(day("2024-04-01"), 60, 180), window)
	})

	t.Run("Window Stretches To Far Booking", func(t *testing.T) {
		w := new(mockWriter)
		w.On("Put", mock.Anything, mock.Anything).Return(nil)

		far := *row
		far.CheckIn = day("2025-01-10")
		far.CheckOut = day("2025-01-12")
		a := newAcknowledger(w)
		a.Lookup = stubLookup{booking: &far, unit: lookup.unit}

		_, err := a.Acknowledge(context.Background(), 5, nil, false, nil)
		require.NoError(t, err)
		assert.Equal(t, day("2024-02-01"), window.From)
		assert.Equal(t, day("2025-01-13"), window.To)
	})

	t.Run("Loose Ignores Given Fingerprint", func(t *testing.T) {
		w := new(mockWriter)
		w.On("Put", mock.Anything, mock.Anything).Return(nil)

		got, err := newAcknowledger(w).Acknowledge(context.Background(), 5, ptr("given"), true, nil)
		require.NoError(t, err)
		assert.Equal(t, reconcile.LooseFingerprint(current), got.Fingerprint)
	})

	t.Run("Suppresses Current Notification", func(t *testing.T) {
		w := new(mockWriter)
		w.On("Put", mock.Anything, mock.Anything).Return(nil)

		got, err := newAcknowledger(w).Acknowledge(context.Background(), 5, nil, false, nil)
		require.NoError(t, err)
		acks := reconcile.Acks{5: got.Fingerprint}
		assert.Empty(t, reconcile.Assemble([]reconcile.Item{current}, acks, reconcile.AckExact))
	})

	t.Run("Fallback When No Item", func(t *testing.T) {
		w := new(mockWriter)
		w.On("Put", mock.Anything, mock.Anything).Return(nil)

		a := newAcknowledger(w)
		a.Reconciler = reconcilerFunc(func(ctx context.Context, unit reconcile.Unit, w dates.Window) ([]reconcile.Item, error) {
			return nil, nil
		})

		first, err := a.Acknowledge(context.Background(), 5, nil, false, nil)
		require.NoError(t, err)
		second, err := a.Acknowledge(context.Background(), 5, nil, false, nil)
		require.NoError(t, err)
		assert.Equal(t, first.Fingerprint, second.Fingerprint)
		assert.NotEmpty(t, first.Fingerprint)
	})

	t.Run("Empty Stay", func(t *testing.T) {
		w := new(mockWriter)
		empty := *row
		empty.CheckOut = empty.CheckIn
		a := newAcknowledger(w)
		a.Lookup = stubLookup{booking: &empty, unit: lookup.unit}

		_, err := a.Acknowledge(context.Background(), 5, ptr("given"), false, nil)
		assert.ErrorIs(t, err, ErrInvalidBooking)
		w.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	})

	t.Run("Missing Booking", func(t *testing.T) {
		w := new(mockWriter)
		_, err := newAcknowledger(w).Acknowledge(context.Background(), 404, nil, false, nil)
		assert.ErrorIs(t, err, ErrBookingNotFound)
		w.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	})

	t.Run("Recompute Failure", func(t *testing.T) {
		w := new(mockWriter)
		a := newAcknowledger(w)
		a.Reconciler = reconcilerFunc(func(ctx context.Context, unit reconcile.Unit, w dates.Window) ([]reconcile.Item, error) {
			return nil, errors.New("feed down")
		})

		_, err := a.Acknowledge(context.Background(), 5, nil, false, nil)
		assert.ErrorContains(t, err, "feed down")
		w.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	})
}

func TestAcknowledgeMovedReservation(t *testing.T) {
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	row := &bookings.BookingRecord{
		ID: 10, UnitID: 1, CheckIn: day("2024-04-10"), CheckOut: day("2024-04-15"),
		Status: "confirmed", Source: ptr("Airbnb"), ReservationCode: ptr("HMABCDEF12"),
	}
	booking, ok := bookings.ToInternal(*row, "")
	require.True(t, ok)
	moved := reconcile.ExternalEvent{
		UID: "evt", Start: day("2024-05-20"), End: day("2024-05-25"),
		Kind: reconcile.EventKindReservation, ReservationCode: "HMABCDEF12",
	}
	engine := reconcilerFunc(func(ctx context.Context, unit reconcile.Unit, w dates.Window) ([]reconcile.Item, error) {
		return reconcile.Match(reconcile.Snapshot{
			Unit: unit, Window: w,
			Bookings: []reconcile.InternalBooking{booking},
			Events:   []reconcile.ExternalEvent{moved},
		}, reconcile.Options{Today: day("2024-04-01")}), nil
	})

	unit := reconcile.Unit{ID: 1, Location: time.UTC}
	shown, err := engine.Reconcile(context.Background(), unit, dates.DefaultWindow(day("2024-04-01"), 60, 180))
	require.NoError(t, err)
	notes := reconcile.Assemble(shown, nil, reconcile.AckExact)
	require.Len(t, notes, 1)
	require.Equal(t, reconcile.StatusConflict, notes[0].Item.Status)

	w := new(mockWriter)
	w.On("Put", mock.Anything, mock.Anything).Return(nil)
	a := &Acknowledger{
		Store:      w,
		Lookup:     stubLookup{booking: row, unit: &bookings.UnitRecord{ID: 1, Name: "Casa"}},
		Reconciler: engine,
		Timezone:   "UTC",
		Now:        func() time.Time { return now },
	}

	got, err := a.Acknowledge(context.Background(), 10, nil, false, nil)
	require.NoError(t, err)
	assert.Equal(t, reconcile.ExactFingerprint(shown[0]), got.Fingerprint)
	assert.Empty(t, reconcile.Assemble(shown, reconcile.Acks{10: got.Fingerprint}, reconcile.AckExact))
}
