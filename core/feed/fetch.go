package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"calendar-reconciler/core/reconcile"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrFeedUnavailable wraps every failure to obtain a feed payload.
	ErrFeedUnavailable = errors.New("external calendar feed unavailable")
	// ErrNoFeed is returned when a unit has no feed configured.
	ErrNoFeed = reconcile.ErrNoFeed
	// ErrFeedTooLarge is returned when a payload exceeds the configured size.
	ErrFeedTooLarge = errors.New("feed payload too large")
)

// Source delivers the raw feed payload of a unit.
type Source interface {
	Fetch(ctx context.Context, unit reconcile.Unit) ([]byte, error)
}

// HTTPSource downloads feeds over HTTP(S).
// Each feed URL gets its own circuit breaker, and concurrent downloads
// of the same URL share one request. Nothing is cached.
type HTTPSource struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger

	group    singleflight.Group
	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[[]byte]
}

// NewHTTPSource creates an HTTPSource. A nil client gets one with the configured timeout.
func NewHTTPSource(cfg Config, client *http.Client, logger *zap.Logger) *HTTPSource {
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 20
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 5 << 20
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 3
	}
	if cfg.BreakerOpenSeconds <= 0 {
		cfg.BreakerOpenSeconds = 60
	}
	if client == nil {
		client = &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPSource{
		cfg:      cfg,
		client:   client,
		logger:   logger,
		breakers: make(map[string]*gobreaker.CircuitBreaker[[]byte]),
	}
}

// Fetch downloads the unit's feed.
func (s *HTTPSource) Fetch(ctx context.Context, unit reconcile.Unit) ([]byte, error) {
	if unit.FeedURL == "" {
		return nil, ErrNoFeed
	}
	u, err := url.Parse(unit.FeedURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid feed url for unit %d", ErrFeedUnavailable, unit.ID)
	}

	// The shared download outlives any single caller; each caller only stops waiting.
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(unit.FeedURL, func() (interface{}, error) {
		return s.breaker(unit.FeedURL, u.Host+u.Path).Execute(func() ([]byte, error) {
			return s.download(shared, unit.FeedURL)
		})
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrFeedUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFeedUnavailable, res.Err)
		}
		return res.Val.([]byte), nil
	}
}

func (s *HTTPSource) breaker(key, name string) *gobreaker.CircuitBreaker[[]byte] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cb, ok := s.breakers[key]; ok {
		return cb
	}
	failures := s.cfg.BreakerFailures
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:         name,
		MaxRequests:  1,
		Timeout:      time.Duration(s.cfg.BreakerOpenSeconds) * time.Second,
		IsSuccessful: healthy,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Warn("Feed circuit breaker changed state",
				zap.String("feed", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	s.breakers[key] = cb
	return cb
}

// StatusError is returned when the feed host answers with a non-2xx status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// healthy reports whether err leaves the feed host's health untouched.
// Client errors and cancellations say nothing about the host being down.
func healthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrFeedTooLarge) {
		return true
	}
	var status *StatusError
	if errors.As(err, &status) {
		return status.Code >= 400 && status.Code < 500 && status.Code != http.StatusTooManyRequests
	}
	return false
}

func (s *HTTPSource) download(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/calendar, text/plain;q=0.9, */*;q=0.1")
	if s.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", s.cfg.UserAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.cfg.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > s.cfg.MaxBytes {
		return nil, ErrFeedTooLarge
	}
	return body, nil
}

// SourceFunc adapts a function to a Source.
type SourceFunc func(ctx context.Context, unit reconcile.Unit) ([]byte, error)

// Fetch calls f.
func (f SourceFunc) Fetch(ctx context.Context, unit reconcile.Unit) ([]byte, error) {
	return f(ctx, unit)
}
