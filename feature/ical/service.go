package ical

import (
	"context"
	"crypto/subtle"
	"errors"
	"strconv"
	"strings"
	"time"

	"calendar-reconciler/core/ack"
	"calendar-reconciler/core/bookings"
	"calendar-reconciler/core/dates"
	"calendar-reconciler/core/feed"
	"calendar-reconciler/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrForbidden is returned for every rejected export request.
var ErrForbidden = errors.New("export forbidden")

// ExportLookbackDays keeps recently ended stays in the export feed.
const ExportLookbackDays = 30

// Store reads units and the bookings to export.
type Store interface {
	FindUnit(ctx context.Context, ref string) (*bookings.UnitRecord, error)
	ListUnitsWithFeed(ctx context.Context) ([]bookings.UnitRecord, error)
	ListExportable(ctx context.Context, unitID int64, since time.Time) ([]reconcile.InternalBooking, error)
}

// AckReader loads stored acknowledgements for items.
type AckReader interface {
	Acks(ctx context.Context, items []reconcile.Item) (reconcile.Acks, error)
}

// Acknowledger records acknowledgements.
type Acknowledger interface {
	Acknowledge(ctx context.Context, bookingID int64, fingerprint *string, loose bool, userID *string) (*ack.Acknowledgement, error)
}

// Query selects the units and window of a reconciliation run.
type Query struct {
	Unit    string
	From    string
	To      string
	Loose   bool
	HideAck bool
}

func (q Query) mode() reconcile.AckMode {
	if q.Loose {
		return reconcile.AckLoose
	}
	return reconcile.AckExact
}

// Run is the outcome of reconciling one or more units.
type Run struct {
	Window dates.Window
	Items  []reconcile.Item
	Acks   reconcile.Acks
}

// Service runs reconciliations and serves the export feed.
type Service struct {
	store        Store
	reconciler   ack.Reconciler
	acks         AckReader
	acknowledger Acknowledger
	cfg          reconcile.Config
	exportCfg    feed.ExportConfig
	timezone     string
	logger       *zap.Logger
	now          func() time.Time
}

// NewService creates a new reconciliation service.
func NewService(store Store, reconciler ack.Reconciler, acks AckReader, acknowledger Acknowledger, cfg reconcile.Config, exportCfg feed.ExportConfig, timezone string, logger *zap.Logger) *Service {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.BackDays <= 0 {
		cfg.BackDays = 60
	}
	if cfg.ForwardDays <= 0 {
		cfg.ForwardDays = 180
	}
	return &Service{
		store:        store,
		reconciler:   reconciler,
		acks:         acks,
		acknowledger: acknowledger,
		cfg:          cfg,
		exportCfg:    exportCfg,
		timezone:     timezone,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *Service) window(q Query, loc *time.Location) (dates.Window, error) {
	today := dates.Today(s.now(), loc)
	return dates.ParseWindow(q.From, q.To, dates.DefaultWindow(today, s.cfg.BackDays, s.cfg.ForwardDays))
}

// Reconcile runs the matcher for the queried unit, or for every unit with a
// feed when no unit is given, and loads the acknowledgements of the result.
func (s *Service) Reconcile(ctx context.Context, q Query) (*Run, error) {
	var (
		run *Run
		err error
	)
	if strings.TrimSpace(q.Unit) != "" {
		run, err = s.reconcileUnit(ctx, q)
	} else {
		run, err = s.reconcileAll(ctx, q)
	}
	if err != nil {
		return nil, err
	}

	run.Acks, err = s.acks.Acks(ctx, run.Items)
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (s *Service) reconcileUnit(ctx context.Context, q Query) (*Run, error) {
	row, err := s.store.FindUnit(ctx, q.Unit)
	if err != nil {
		return nil, err
	}
	unit := bookings.ToUnit(*row, s.timezone)

	window, err := s.window(q, unit.Location)
	if err != nil {
		return nil, err
	}
	items, err := s.reconciler.Reconcile(ctx, unit, window)
	if err != nil {
		return nil, err
	}
	return &Run{Window: window, Items: items}, nil
}

// reconcileAll fans out over the units with a feed. A unit whose feed cannot
// be loaded is left out of the result instead of failing the run.
func (s *Service) reconcileAll(ctx context.Context, q Query) (*Run, error) {
	window, err := s.window(q, dates.LoadLocation(s.timezone))
	if err != nil {
		return nil, err
	}

	rows, err := s.store.ListUnitsWithFeed(ctx)
	if err != nil {
		return nil, err
	}

	results := make([][]reconcile.Item, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, row := range rows {
		unit := bookings.ToUnit(row, s.timezone)
		g.Go(func() error {
			items, err := s.reconciler.Reconcile(gctx, unit, window)
			if err != nil {
				if errors.Is(err, feed.ErrFeedUnavailable) || errors.Is(err, feed.ErrNoFeed) {
					s.logger.Warn("Skipping unit, feed unavailable",
						zap.Int64("unit_id", unit.ID),
						zap.Error(err))
					return nil
				}
				return err
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]reconcile.Item, 0)
	for _, r := range results {
		items = append(items, r...)
	}

	s.logger.Debug("Reconciled all units",
		zap.Int("units", len(rows)),
		zap.Int("items", len(items)))
	return &Run{Window: window, Items: items}, nil
}

// Notifications returns the actionable items that no acknowledgement covers.
func (s *Service) Notifications(ctx context.Context, q Query) ([]reconcile.Notification, dates.Window, error) {
	run, err := s.Reconcile(ctx, q)
	if err != nil {
		return nil, dates.Window{}, err
	}
	return reconcile.Assemble(run.Items, run.Acks, q.mode()), run.Window, nil
}

// Entries returns every item with its fingerprint and ack state.
func (s *Service) Entries(ctx context.Context, q Query) ([]reconcile.Entry, dates.Window, error) {
	run, err := s.Reconcile(ctx, q)
	if err != nil {
		return nil, dates.Window{}, err
	}
	return reconcile.Annotate(run.Items, run.Acks, q.mode(), q.HideAck), run.Window, nil
}

// Acknowledge stores the acknowledgement of a booking's current item.
func (s *Service) Acknowledge(ctx context.Context, bookingID int64, fingerprint *string, loose bool, userID *string) (*ack.Acknowledgement, error) {
	return s.acknowledger.Acknowledge(ctx, bookingID, fingerprint, loose, userID)
}

// Export renders the feed named by file ("<unitId>.ics") when token matches
// the unit's export token. Every rejection is ErrForbidden.
func (s *Service) Export(ctx context.Context, file, token string) ([]byte, error) {
	ref, ok := strings.CutSuffix(file, ".ics")
	if !ok {
		return nil, ErrForbidden
	}
	if _, err := strconv.ParseInt(ref, 10, 64); err != nil {
		return nil, ErrForbidden
	}

	row, err := s.store.FindUnit(ctx, ref)
	if err != nil {
		if errors.Is(err, bookings.ErrUnitNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	if !row.ICalExportEnabled || row.ICalExportToken == nil || *row.ICalExportToken == "" || token == "" {
		return nil, ErrForbidden
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(*row.ICalExportToken)) != 1 {
		return nil, ErrForbidden
	}

	unit := bookings.ToUnit(*row, s.timezone)
	now := s.now()
	since := dates.AddDays(dates.Today(now, unit.Location), -ExportLookbackDays)
	rows, err := s.store.ListExportable(ctx, unit.ID, since)
	if err != nil {
		return nil, err
	}
	return feed.Export(unit, rows, s.exportCfg, now)
}
