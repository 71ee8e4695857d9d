// Package database handles database connections and schema inspection.
//
// It wraps GORM and configures MySQL, PostgreSQL or SQLite connections from
// the application's configuration. SQLite is used for local runs and tests.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table for each supported dialect.
// The bookings package uses it to verify that the tables it reads and the
// acknowledgement columns it writes exist.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "all_bookings")
package database
