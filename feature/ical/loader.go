package ical

import (
	"calendar-reconciler/core/ack"
	"calendar-reconciler/core/feed"
	"calendar-reconciler/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
	enabled bool
}

// NewFeature creates a new iCal feature. It is disabled without a store.
func NewFeature(store Store, reconciler ack.Reconciler, acks AckReader, acknowledger Acknowledger, cfg reconcile.Config, exportCfg feed.ExportConfig, timezone string, logger *zap.Logger) *Feature {
	svc := NewService(store, reconciler, acks, acknowledger, cfg, exportCfg, timezone, logger)
	return &Feature{service: svc, handler: NewHandler(svc), enabled: store != nil}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "ical"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.enabled
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
