package availability

// Config holds configuration for availability queries.
type Config struct {
	// RequireFeed fails a query when the external feed cannot be loaded,
	// instead of answering from bookings alone.
	RequireFeed bool `mapstructure:"require_feed" default:"false"`
	// BackDays is how far before today the default window starts.
	BackDays int `mapstructure:"back_days" default:"15"`
	// ForwardDays is how far after today the default window ends.
	ForwardDays int `mapstructure:"forward_days" default:"60"`
}
