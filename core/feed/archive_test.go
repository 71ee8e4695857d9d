package feed

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"calendar-reconciler/core/reconcile"
	"calendar-reconciler/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestArchivingSource(t *testing.T) {
	unit := reconcile.Unit{ID: 12}
	fixed := func() time.Time { return time.Date(2024, 5, 1, 13, 4, 5, 0, time.UTC) }

	t.Run("Archives Latest And Timestamped Copy", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("PutObject", mock.Anything, "calendars", "feeds/12/latest.ics", mock.Anything, int64(7), mock.Anything).
			Return(minio.UploadInfo{}, nil).Once()
		client.On("PutObject", mock.Anything, "calendars", "feeds/12/20240501T130405Z.ics", mock.Anything, int64(7), mock.Anything).
			Return(minio.UploadInfo{}, nil).Once()

		src := &ArchivingSource{Inner: staticSource("payload"), Client: client, Bucket: "calendars", Now: fixed}
		data, err := src.Fetch(context.Background(), unit)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))
		client.AssertExpectations(t)
	})

	t.Run("Archive Failure Does Not Fail Fetch", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("PutObject", mock.Anything, "calendars", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, errors.New("disk full"))

		src := &ArchivingSource{Inner: staticSource("payload"), Client: client, Bucket: "calendars", Prefix: "raw", Now: fixed}
		data, err := src.Fetch(context.Background(), unit)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))
	})

	t.Run("Inner Error Skips Archive", func(t *testing.T) {
		client := new(mocks.Client)
		inner := SourceFunc(func(ctx context.Context, unit reconcile.Unit) ([]byte, error) {
			return nil, ErrFeedUnavailable
		})

		src := &ArchivingSource{Inner: inner, Client: client, Bucket: "calendars"}
		_, err := src.Fetch(context.Background(), unit)
		assert.ErrorIs(t, err, ErrFeedUnavailable)
		client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestStoredSource(t *testing.T) {
	unit := reconcile.Unit{ID: 12}

	t.Run("Reads Latest", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "calendars", "feeds/12/latest.ics", mock.Anything).
			Return(io.NopCloser(strings.NewReader("archived")), nil)

		src := &StoredSource{Client: client, Bucket: "calendars"}
		data, err := src.Fetch(context.Background(), unit)
		require.NoError(t, err)
		assert.Equal(t, "archived", string(data))
	})

	t.Run("Missing Object", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "calendars", "feeds/12/latest.ics", mock.Anything).
			Return(nil, minio.ErrorResponse{Code: "NoSuchKey"})

		src := &StoredSource{Client: client, Bucket: "calendars"}
		_, err := src.Fetch(context.Background(), unit)
		assert.ErrorIs(t, err, ErrNoFeed)
	})

	t.Run("Storage Failure", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "calendars", "feeds/12/latest.ics", mock.Anything).
			Return(nil, errors.New("connection refused"))

		src := &StoredSource{Client: client, Bucket: "calendars"}
		_, err := src.Fetch(context.Background(), unit)
		assert.ErrorIs(t, err, ErrFeedUnavailable)
	})
}
