package ack

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"calendar-reconciler/core/bookings"
	"calendar-reconciler/core/database"
	"calendar-reconciler/core/reconcile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const updateSQL = "UPDATE all_bookings SET ical_ack_signature = ?, ical_ack_at = ?, ical_ack_user_id = ? WHERE id = ?"

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&bookings.UnitRecord{}, &bookings.BookingRecord{}))
	return db
}

func ptr[T any](v T) *T { return &v }

func TestStorePut(t *testing.T) {
	at := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Single Update", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta(updateSQL)).
			WithArgs("abc123", at, "user-7", int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewStore(db).Put(context.Background(), Acknowledgement{
			BookingID: 5, Fingerprint: "abc123", AcknowledgedAt: at, AcknowledgedBy: ptr("user-7"),
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Anonymous User", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta(updateSQL)).
			WithArgs("abc123", at, nil, int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewStore(db).Put(context.Background(), Acknowledgement{BookingID: 5, Fingerprint: "abc123", AcknowledgedAt: at})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Booking", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta(updateSQL)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewStore(db).Put(context.Background(), Acknowledgement{BookingID: 99, Fingerprint: "x", AcknowledgedAt: at})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("Database Error", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta(updateSQL)).
			WillReturnError(errors.New("deadlock"))

		err := NewStore(db).Put(context.Background(), Acknowledgement{BookingID: 5, Fingerprint: "x", AcknowledgedAt: at})
		assert.ErrorContains(t, err, "deadlock")
		assert.NotErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestStoreGet(t *testing.T) {
	db := setupSQLite(t)
	require.NoError(t, db.Create(&[]bookings.BookingRecord{
		{ID: 1, UnitID: 1, CheckIn: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), CheckOut: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), Status: "confirmed"},
		{ID: 2, UnitID: 1, CheckIn: time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC), CheckOut: time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), Status: "confirmed"},
	}).Error)

	store := NewStore(db)
	ctx := context.Background()
	at := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Put(ctx, Acknowledgement{BookingID: 1, Fingerprint: "first", AcknowledgedAt: at}))
	require.NoError(t, store.Put(ctx, Acknowledgement{BookingID: 1, Fingerprint: "second", AcknowledgedAt: at, AcknowledgedBy: ptr("ops")}))

	t.Run("Latest Wins", func(t *testing.T) {
		got, err := store.Get(ctx, []int64{1, 2, 3})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "second", got[1].Fingerprint)
		require.NotNil(t, got[1].AcknowledgedBy)
		assert.Equal(t, "ops", *got[1].AcknowledgedBy)
		assert.True(t, at.Equal(got[1].AcknowledgedAt))
	})

	t.Run("No IDs", func(t *testing.T) {
		got, err := store.Get(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Acks For Items", func(t *testing.T) {
		one, two := int64(1), int64(2)
		acks, err := store.Acks(ctx, []reconcile.Item{{BookingID: &one}, {BookingID: &two}, {}})
		require.NoError(t, err)
		assert.Equal(t, reconcile.Acks{1: "second"}, acks)
	})
}
