package feed

import (
	"context"
	"fmt"
	"time"

	"calendar-reconciler/core/reconcile"
	"calendar-reconciler/core/storage"

	"go.uber.org/zap"
)

// Loader fetches and parses unit feeds. It implements reconcile.EventLoader.
type Loader struct {
	Source Source
	Logger *zap.Logger
}

// NewLoader creates a Loader over source.
func NewLoader(source Source, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{Source: source, Logger: logger}
}

// LoadEvents fetches the unit's feed and normalizes it.
func (l *Loader) LoadEvents(ctx context.Context, unit reconcile.Unit) ([]reconcile.ExternalEvent, error) {
	start := time.Now()

	payload, err := l.Source.Fetch(ctx, unit)
	if err != nil {
		return nil, err
	}

	events, stats, err := Parse(string(payload), unit.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: unit %d: %w", ErrFeedUnavailable, unit.ID, err)
	}

	if stats.Skipped > 0 {
		l.Logger.Warn("Skipped malformed feed events",
			zap.Int64("unit_id", unit.ID),
			zap.Int("skipped", stats.Skipped),
			zap.Int("events", stats.Events))
	}
	l.Logger.Debug("Loaded external feed",
		zap.Int64("unit_id", unit.ID),
		zap.Int("events", stats.Parsed),
		zap.Int("bytes", len(payload)),
		zap.Duration("duration", time.Since(start)))

	return events, nil
}

// NewSource builds the Source selected by cfg.Mode.
// Archiving wraps the HTTP source only when a storage client is given.
func NewSource(cfg Config, client storage.Client, bucket string, logger *zap.Logger) (Source, error) {
	switch cfg.Mode {
	case "", ModeHTTP:
		var src Source = NewHTTPSource(cfg, nil, logger)
		if cfg.Archive && client != nil {
			src = &ArchivingSource{Inner: src, Client: client, Bucket: bucket, Prefix: cfg.ArchivePrefix, Logger: logger}
		}
		return src, nil
	case ModeStorage:
		if client == nil {
			return nil, fmt.Errorf("feed mode %q requires object storage", cfg.Mode)
		}
		return &StoredSource{Client: client, Bucket: bucket, Prefix: cfg.ArchivePrefix}, nil
	default:
		return nil, fmt.Errorf("unsupported feed mode: %s", cfg.Mode)
	}
}
