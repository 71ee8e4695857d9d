// Package server holds the HTTP server configuration.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structure for server settings.
//
// # Configuration
//
// The Config struct defines the HTTP port, the API key, the fallback time zone
// for units without one, and the secret used to verify operator bearer tokens.
package server
