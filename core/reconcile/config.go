package reconcile

// Config holds configuration for reconciliation runs.
type Config struct {
	// GraceDays keeps suspected cancellations quiet once a stay ended this many days ago.
	GraceDays int `mapstructure:"grace_days" default:"2"`
	// Concurrency bounds how many units are reconciled in parallel.
	Concurrency int `mapstructure:"concurrency" default:"4"`
	// BackDays is how far before today the default window starts.
	BackDays int `mapstructure:"back_days" default:"60"`
	// ForwardDays is how far after today the default window ends.
	ForwardDays int `mapstructure:"forward_days" default:"180"`
}
