package integrity

import (
	"context"
	"errors"

	"calendar-reconciler/core/bookings"
	"calendar-reconciler/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrStorageDisabled is returned by storage checks when no client is configured.
var ErrStorageDisabled = errors.New("object storage is not configured")

// StorageReport describes the feed archive bucket.
type StorageReport struct {
	Bucket string `json:"bucket"`
	Exists bool   `json:"exists"`
	Fixed  bool   `json:"fixed"`
}

// Service handles integrity checks.
type Service struct {
	db     *gorm.DB
	client storage.Client
	bucket string
	region string
	logger *zap.Logger
}

// NewService creates a new integrity service. client may be nil.
func NewService(db *gorm.DB, client storage.Client, bucket, region string, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		client: client,
		bucket: bucket,
		region: region,
		logger: logger,
	}
}

// CheckSchema compares the bookings tables with the expected columns.
func (s *Service) CheckSchema() (*bookings.SchemaReport, error) {
	return bookings.CheckSchema(s.db)
}

// CheckStorage reports whether the archive bucket exists, creating it when fix is set.
func (s *Service) CheckStorage(ctx context.Context, fix bool) (*StorageReport, error) {
	if s.client == nil {
		return nil, ErrStorageDisabled
	}

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return nil, err
	}
	report := &StorageReport{Bucket: s.bucket, Exists: exists}
	if exists || !fix {
		return report, nil
	}

	s.logger.Info("Creating missing archive bucket", zap.String("bucket", s.bucket))
	if err := storage.EnsureBucket(ctx, s.client, s.bucket, s.region); err != nil {
		return nil, err
	}
	report.Exists = true
	report.Fixed = true
	return report, nil
}
