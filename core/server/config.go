package server

import "time"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// Timezone is the IANA zone used for units that do not declare one.
	Timezone string `mapstructure:"timezone" default:"America/Cancun"`
	// JWTSecret verifies optional bearer tokens that identify the operator.
	JWTSecret string `mapstructure:"jwt_secret" default:""`
}

// DefaultTimezone is used when no zone is configured.
const DefaultTimezone = "America/Cancun"

// IsValidTimezone checks if the configured time zone can be loaded.
func (c Config) IsValidTimezone() bool {
	if c.Timezone == "" {
		return false
	}
	_, err := time.LoadLocation(c.Timezone)
	return err == nil
}

// Zone returns the configured time zone name, or DefaultTimezone when it is unusable.
func (c Config) Zone() string {
	if !c.IsValidTimezone() {
		return DefaultTimezone
	}
	return c.Timezone
}
