package ack

import (
	"context"
	"errors"
	"fmt"
	"time"

	"calendar-reconciler/core/bookings"
	"calendar-reconciler/core/reconcile"

	"gorm.io/gorm"
)

var (
	// ErrBookingNotFound is returned when the acknowledged booking does not exist.
	ErrBookingNotFound = bookings.ErrBookingNotFound
	// ErrInvalidBooking is returned for a booking whose check-in is not before its check-out.
	ErrInvalidBooking = errors.New("booking has no valid stay")
)

// Acknowledgement is the last review of a booking's reconciliation item.
type Acknowledgement struct {
	BookingID      int64     `json:"bookingId"`
	Fingerprint    string    `json:"fingerprint"`
	AcknowledgedAt time.Time `json:"ackedAt"`
	AcknowledgedBy *string   `json:"userId"`
}

// Store persists acknowledgements on the booking rows.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Put overwrites the acknowledgement of a booking.
func (s *Store) Put(ctx context.Context, a Acknowledgement) error {
	res := s.db.WithContext(ctx).Exec(
		"UPDATE all_bookings SET ical_ack_signature = ?, ical_ack_at = ?, ical_ack_user_id = ? WHERE id = ?",
		a.Fingerprint, a.AcknowledgedAt, a.AcknowledgedBy, a.BookingID,
	)
	if res.Error != nil {
		return fmt.Errorf("store ack for booking %d: %w", a.BookingID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// Get returns the acknowledgements of the given bookings, keyed by booking id.
// Bookings without one are absent from the map.
func (s *Store) Get(ctx context.Context, ids []int64) (map[int64]Acknowledgement, error) {
	out := make(map[int64]Acknowledgement)
	if len(ids) == 0 {
		return out, nil
	}

	var rows []bookings.BookingRecord
	err := s.db.WithContext(ctx).
		Select("id", "ical_ack_signature", "ical_ack_at", "ical_ack_user_id").
		Where("id IN ? AND ical_ack_signature IS NOT NULL AND ical_ack_signature <> ''", ids).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load acks: %w", err)
	}

	for _, row := range rows {
		a := Acknowledgement{
			BookingID:      row.ID,
			Fingerprint:    *row.ICalAckSignature,
			AcknowledgedBy: row.ICalAckUserID,
		}
		if row.ICalAckAt != nil {
			a.AcknowledgedAt = *row.ICalAckAt
		}
		out[row.ID] = a
	}
	return out, nil
}

// Acks loads the stored fingerprints for the bookings referenced by items.
func (s *Store) Acks(ctx context.Context, items []reconcile.Item) (reconcile.Acks, error) {
	stored, err := s.Get(ctx, reconcile.BookingIDs(items))
	if err != nil {
		return nil, err
	}
	acks := make(reconcile.Acks, len(stored))
	for id, a := range stored {
		acks[id] = a.Fingerprint
	}
	return acks, nil
}
