package ack

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"calendar-reconciler/core/bookings"
	"calendar-reconciler/core/dates"
	"calendar-reconciler/core/reconcile"

	"go.uber.org/zap"
)

// Lookup finds the booking being acknowledged and its unit.
type Lookup interface {
	FindBooking(ctx context.Context, id int64) (*bookings.BookingRecord, error)
	FindUnit(ctx context.Context, ref string) (*bookings.UnitRecord, error)
}

// Reconciler recomputes the current items of a unit.
type Reconciler interface {
	Reconcile(ctx context.Context, unit reconcile.Unit, window dates.Window) ([]reconcile.Item, error)
}

// Writer persists an acknowledgement.
type Writer interface {
	Put(ctx context.Context, a Acknowledgement) error
}

// Acknowledger records that an operator reviewed a booking's current item.
type Acknowledger struct {
	Store      Writer
	Lookup     Lookup
	Reconciler Reconciler
	// Timezone is used for units without one.
	Timezone string
	// BackDays and ForwardDays give the notification window the item is
	// recomputed over, so the stored fingerprint matches what the feed shows.
	BackDays    int
	ForwardDays int
	Logger   *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Acknowledge stores a fingerprint for the booking.
// With loose set, the loose fingerprint of the current item is stored.
// Otherwise a given fingerprint is stored verbatim, and a missing one is
// computed from the current item.
func (a *Acknowledger) Acknowledge(ctx context.Context, bookingID int64, fingerprint *string, loose bool, userID *string) (*Acknowledgement, error) {
	row, err := a.Lookup.FindBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	booking, ok := bookings.ToInternal(*row, "")
	if !ok {
		return nil, fmt.Errorf("%w: booking %d", ErrInvalidBooking, bookingID)
	}

	var signature string
	if !loose && fingerprint != nil && strings.TrimSpace(*fingerprint) != "" {
		signature = strings.TrimSpace(*fingerprint)
	} else {
		item, err := a.currentItem(ctx, booking)
		if err != nil {
			return nil, err
		}
		if loose {
			signature = reconcile.LooseFingerprint(item)
		} else {
			signature = reconcile.ExactFingerprint(item)
		}
	}

	ack := Acknowledgement{
		BookingID:      bookingID,
		Fingerprint:    signature,
		AcknowledgedAt: a.now().UTC().Truncate(time.Second),
		AcknowledgedBy: userID,
	}
	if err := a.Store.Put(ctx, ack); err != nil {
		return nil, err
	}

	if a.Logger != nil {
		a.Logger.Info("Acknowledged reconciliation item",
			zap.Int64("booking_id", bookingID),
			zap.Bool("loose", loose),
			zap.String("fingerprint", signature))
	}
	return &ack, nil
}

func (a *Acknowledger) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// window is the default notification window of the unit, stretched to
// cover the booking when it lies outside.
func (a *Acknowledger) window(unit reconcile.Unit, b reconcile.InternalBooking) dates.Window {
	back, forward := a.BackDays, a.ForwardDays
	if back <= 0 {
		back = 60
	}
	if forward <= 0 {
		forward = 180
	}
	w := dates.DefaultWindow(dates.Today(a.now(), unit.Location), back, forward)
	if from := dates.AddDays(b.CheckIn, -1); from.Before(w.From) {
		w.From = from
	}
	if to := dates.AddDays(b.CheckOut, 1); to.After(w.To) {
		w.To = to
	}
	return w
}

// currentItem re-runs the matcher over the notification window.
// A booking that yields no item falls back to a matched item built from the row.
func (a *Acknowledger) currentItem(ctx context.Context, booking reconcile.InternalBooking) (reconcile.Item, error) {
	unitRow, err := a.Lookup.FindUnit(ctx, strconv.FormatInt(booking.UnitID, 10))
	if err != nil {
		return reconcile.Item{}, fmt.Errorf("load unit of booking %d: %w", booking.ID, err)
	}
	unit := bookings.ToUnit(*unitRow, a.Timezone)

	items, err := a.Reconciler.Reconcile(ctx, unit, a.window(unit, booking))
	if err != nil {
		return reconcile.Item{}, fmt.Errorf("recompute item of booking %d: %w", booking.ID, err)
	}

	for _, item := range items {
		if item.BookingID != nil && *item.BookingID == booking.ID {
			return item, nil
		}
	}
	return fallbackItem(unit, booking), nil
}

func fallbackItem(unit reconcile.Unit, b reconcile.InternalBooking) reconcile.Item {
	id := b.ID
	return reconcile.Item{
		BookingID:             &id,
		UnitID:                unit.ID,
		UnitName:              unit.Name,
		GuestName:             b.GuestName,
		ReservationCode:       b.ReservationCode,
		Status:                reconcile.StatusMatched,
		CheckIn:               b.CheckIn,
		CheckOut:              b.CheckOut,
		BookingReservationURL: b.ReservationURL,
		LastSyncAt:            b.LastSyncAt,
		MatchMethod:           reconcile.MatchNone,
		Summary:               []string{},
	}
}
