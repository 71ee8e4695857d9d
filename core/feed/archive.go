package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"time"

	"calendar-reconciler/core/reconcile"
	"calendar-reconciler/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const latestObject = "latest.ics"

func unitPrefix(prefix string, unitID int64) string {
	if prefix == "" {
		prefix = "feeds"
	}
	return path.Join(prefix, strconv.FormatInt(unitID, 10))
}

// ArchivingSource copies every payload fetched by its inner Source to object storage.
// Archive failures are logged and never fail the fetch.
type ArchivingSource struct {
	Inner  Source
	Client storage.Client
	Bucket string
	Prefix string
	Logger *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Fetch fetches from the inner source and archives the payload.
func (s *ArchivingSource) Fetch(ctx context.Context, unit reconcile.Unit) ([]byte, error) {
	payload, err := s.Inner.Fetch(ctx, unit)
	if err != nil {
		return nil, err
	}

	clock := time.Now
	if s.Now != nil {
		clock = s.Now
	}
	dir := unitPrefix(s.Prefix, unit.ID)
	keys := []string{
		path.Join(dir, latestObject),
		path.Join(dir, clock().UTC().Format("20060102T150405Z")+".ics"),
	}
	for _, key := range keys {
		_, putErr := s.Client.PutObject(ctx, s.Bucket, key, bytes.NewReader(payload), int64(len(payload)),
			minio.PutObjectOptions{ContentType: "text/calendar"})
		if putErr != nil && s.Logger != nil {
			s.Logger.Warn("Failed to archive feed payload",
				zap.Int64("unit_id", unit.ID),
				zap.String("key", key),
				zap.Error(putErr))
		}
	}
	return payload, nil
}

// StoredSource replays the last archived payload of a unit.
type StoredSource struct {
	Client storage.Client
	Bucket string
	Prefix string
}

// Fetch reads the latest archived payload.
func (s *StoredSource) Fetch(ctx context.Context, unit reconcile.Unit) ([]byte, error) {
	key := path.Join(unitPrefix(s.Prefix, unit.ID), latestObject)

	obj, err := s.Client.GetObject(ctx, s.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.mapErr(err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.mapErr(err)
	}
	return data, nil
}

func (s *StoredSource) mapErr(err error) error {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
		return ErrNoFeed
	}
	return fmt.Errorf("%w: %w", ErrFeedUnavailable, err)
}
