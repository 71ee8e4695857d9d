package feed

// Config holds configuration for fetching external feeds.
type Config struct {
	// Mode selects the feed source: "http" downloads live feeds, "storage" replays archived ones.
	Mode string `mapstructure:"mode" default:"http"`
	// TimeoutSeconds bounds a single feed download.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"20"`
	// MaxBytes caps the size of a feed payload.
	MaxBytes int64 `mapstructure:"max_bytes" default:"5242880"`
	// UserAgent is sent with every download.
	UserAgent string `mapstructure:"user_agent" default:"calendar-reconciler/1.0"`
	// BreakerFailures is the number of consecutive failures that opens a feed's breaker.
	BreakerFailures uint32 `mapstructure:"breaker_failures" default:"3"`
	// BreakerOpenSeconds is how long an open breaker rejects downloads.
	BreakerOpenSeconds int `mapstructure:"breaker_open_seconds" default:"60"`
	// Archive copies every downloaded payload to object storage.
	Archive bool `mapstructure:"archive" default:"false"`
	// ArchivePrefix is the object key prefix for archived payloads.
	ArchivePrefix string `mapstructure:"archive_prefix" default:"feeds"`
}

const (
	ModeHTTP    = "http"
	ModeStorage = "storage"
)

// ExportConfig holds configuration for the unit export feed.
type ExportConfig struct {
	// ProductID is written as the PRODID of exported calendars.
	ProductID string `mapstructure:"product_id" default:"-//Calendar Reconciler//Unit Export 1.0//EN"`
	// UIDDomain is the domain part of exported event UIDs.
	UIDDomain string `mapstructure:"uid_domain" default:"calendar-reconciler.local"`
}
