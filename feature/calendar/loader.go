package calendar

import (
	"calendar-reconciler/core/availability"
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

// NewFeature creates a new Calendar feature. It is disabled without a store.
func NewFeature(store Store, events reconcile.EventLoader, cfg availability.Config, timezone string, logger *zap.Logger) *Feature {
	svc := NewService(store, events, cfg, timezone, logger)
	return &Feature{service: svc, handler: NewHandler(svc), enabled: store != nil}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "calendar"
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
