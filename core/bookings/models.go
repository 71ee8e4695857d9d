package bookings

import "time"

// UnitRecord represents the 'units' table.
type UnitRecord struct {
	ID                int64   `gorm:"column:id;primaryKey"`
	Name              string  `gorm:"column:unit_name"`
	Code              *string `gorm:"column:code"`
	ICalImportURL     *string `gorm:"column:ical_import_url"`
	ICalExportToken   *string `gorm:"column:ical_export_token"`
	ICalExportEnabled bool    `gorm:"column:ical_export_enabled"`
	Timezone          *string `gorm:"column:timezone"`
}

// TableName overrides the table name.
func (UnitRecord) TableName() string {
	return "units"
}

// BookingRecord represents the 'all_bookings' table.
type BookingRecord struct {
	ID               int64      `gorm:"column:id;primaryKey"`
	UnitID           int64      `gorm:"column:unit_id;index"`
	CheckIn          time.Time  `gorm:"column:check_in;type:date"`
	CheckOut         time.Time  `gorm:"column:check_out;type:date"`
	Status           string     `gorm:"column:status"`
	Source           *string    `gorm:"column:source"`
	GuestType        *string    `gorm:"column:guest_type"`
	ReservationCode  *string    `gorm:"column:reservation_code"`
	GuestName        *string    `gorm:"column:guest_name"`
	ReservationURL   *string    `gorm:"column:reservation_url"`
	LastICalSyncAt   *time.Time `gorm:"column:last_ical_sync_at"`
	ICalAckSignature *string    `gorm:"column:ical_ack_signature"`
	ICalAckAt        *time.Time `gorm:"column:ical_ack_at"`
	ICalAckUserID    *string    `gorm:"column:ical_ack_user_id"`
}

// TableName overrides the table name.
func (BookingRecord) TableName() string {
	return "all_bookings"
}
