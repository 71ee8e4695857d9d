package cmd

import (
	"context"
	"fmt"

	"calendar-reconciler/core/ack"
	"calendar-reconciler/core/bookings"
	"calendar-reconciler/core/config"
	"calendar-reconciler/core/database"
	"calendar-reconciler/core/feed"
	"calendar-reconciler/core/logger"
	"calendar-reconciler/core/reconcile"
	"calendar-reconciler/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime holds the components shared by the server and the CLI commands.
type runtime struct {
	cfg          *config.Config
	logger       *zap.Logger
	db           *gorm.DB
	storage      storage.Client
	repo         *bookings.Repository
	events       *feed.Loader
	engine       *reconcile.Engine
	acks         *ack.Store
	acknowledger *ack.Acknowledger
	timezone     string
}

// bootstrap loads configuration, connects to the bookings database and
// builds the feed loader and reconciliation engine.
func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	timezone := cfg.Server.Zone()
	if timezone != cfg.Server.Timezone {
		logg.Warn("Invalid server timezone, using default",
			zap.String("timezone", cfg.Server.Timezone),
			zap.String("default", timezone))
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database connection required: %w", err)
	}

	// Object storage is only needed to archive feeds or to read archived ones.
	var client storage.Client
	if cfg.Feed.Archive || cfg.Feed.Mode == feed.ModeStorage {
		client, err = storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		if cfg.Feed.Archive {
			if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
				return nil, err
			}
		}
	}

	source, err := feed.NewSource(cfg.Feed, client, cfg.Storage.Bucket, logg)
	if err != nil {
		return nil, err
	}

	repo := bookings.NewRepository(db, logg)
	events := feed.NewLoader(source, logg)
	engine := &reconcile.Engine{Bookings: repo, Events: events, GraceDays: cfg.Reconcile.GraceDays}
	store := ack.NewStore(db)

	return &runtime{
		cfg:     cfg,
		logger:  logg,
		db:      db,
		storage: client,
		repo:    repo,
		events:  events,
		engine:  engine,
		acks:    store,
		acknowledger: &ack.Acknowledger{
			Store:      store,
			Lookup:     repo,
			Reconciler: engine,
			Timezone:    timezone,
			BackDays:    cfg.Reconcile.BackDays,
			ForwardDays: cfg.Reconcile.ForwardDays,
			Logger:      logg,
		},
		timezone: timezone,
	}, nil
}
