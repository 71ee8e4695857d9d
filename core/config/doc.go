// Package config provides configuration management for the Calendar Reconciler.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults come from the `default` struct tags of each section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP port, API key, fallback time zone, JWT secret
//   - Log: Logging level and format
//   - Database: bookings database driver and connection details
//   - Storage: S3/MinIO credentials and bucket for archived feeds
//   - Feed: feed fetching, circuit breaker and archiving
//   - Reconcile: grace period, parallelism and default window
//   - Calendar: availability defaults
//   - Export: unit export feed identity
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
