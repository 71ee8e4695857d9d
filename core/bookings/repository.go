package bookings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"calendar-reconciler/core/dates"
	"calendar-reconciler/core/reconcile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrUnitNotFound is returned when no unit matches an id or code.
	ErrUnitNotFound = errors.New("unit not found")
	// ErrBookingNotFound is returned when no booking has the given id.
	ErrBookingNotFound = errors.New("booking not found")
)

// Repository reads units and bookings. It implements reconcile.BookingLoader.
type Repository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRepository creates a new Repository.
func NewRepository(db *gorm.DB, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{db: db, logger: logger}
}

// FindUnit resolves a numeric id or a unit code.
func (r *Repository) FindUnit(ctx context.Context, ref string) (*UnitRecord, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrUnitNotFound
	}

	var unit UnitRecord
	query := r.db.WithContext(ctx)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		query = query.Where("id = ?", id)
	} else {
		query = query.Where("code = ?", ref)
	}

	if err := query.Take(&unit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, fmt.Errorf("find unit %q: %w", ref, err)
	}
	return &unit, nil
}

// ListUnitsWithFeed returns every unit with a feed URL, ordered by id.
func (r *Repository) ListUnitsWithFeed(ctx context.Context) ([]UnitRecord, error) {
	var units []UnitRecord
	err := r.db.WithContext(ctx).
		Where("ical_import_url IS NOT NULL AND ical_import_url <> ''").
		Order("id").
		Find(&units).Error
	if err != nil {
		return nil, fmt.Errorf("list units with feed: %w", err)
	}
	return units, nil
}

// ListBookings returns the unit's bookings touching the window.
// Inactive rows are included; the matcher and merger filter them.
func (r *Repository) ListBookings(ctx context.Context, unitID int64, window dates.Window) ([]reconcile.InternalBooking, error) {
	query := r.db.WithContext(ctx).Where("unit_id = ?", unitID)
	if !window.From.IsZero() {
		query = query.Where("check_out >= ?", window.From)
	}
	if !window.To.IsZero() {
		query = query.Where("check_in <= ?", window.To)
	}

	var rows []BookingRecord
	if err := query.Order("check_in, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list bookings for unit %d: %w", unitID, err)
	}
	return r.convert(rows), nil
}

// ListExportable returns the unit's bookings that end on or after since.
func (r *Repository) ListExportable(ctx context.Context, unitID int64, since time.Time) ([]reconcile.InternalBooking, error) {
	var rows []BookingRecord
	err := r.db.WithContext(ctx).
		Where("unit_id = ? AND check_out >= ?", unitID, since).
		Order("check_in, id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list exportable bookings for unit %d: %w", unitID, err)
	}
	return r.convert(rows), nil
}

// FindBooking returns a booking row by id.
func (r *Repository) FindBooking(ctx context.Context, id int64) (*BookingRecord, error) {
	var row BookingRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking %d: %w", id, err)
	}
	return &row, nil
}

func (r *Repository) convert(rows []BookingRecord) []reconcile.InternalBooking {
	out := make([]reconcile.InternalBooking, 0, len(rows))
	for _, row := range rows {
		b, ok := ToInternal(row, "")
		if !ok {
			r.logger.Debug("Dropping booking with invalid dates",
				zap.Int64("booking_id", row.ID),
				zap.String("check_in", dates.Format(b.CheckIn)),
				zap.String("check_out", dates.Format(b.CheckOut)))
			continue
		}
		out = append(out, b)
	}
	return out
}
