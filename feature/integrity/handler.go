package integrity

import (
	"errors"

	"calendar-reconciler/core/logger"
	"calendar-reconciler/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/storage", h.HandleStorageCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs all available integrity checks (Schema, Storage).
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Security ApiKeyAuth
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := make(map[string]interface{})

	if schema, err := h.service.CheckSchema(); err != nil {
		report["schema"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = schema
	}

	switch st, err := h.service.CheckStorage(c.UserContext(), false); {
	case errors.Is(err, ErrStorageDisabled):
		report["storage"] = map[string]interface{}{"status": "disabled"}
	case err != nil:
		report["storage"] = map[string]interface{}{"status": "error", "error": err.Error()}
	default:
		report["storage"] = st
	}

	return c.JSON(report)
}

// HandleSchemaCheck checks the bookings schema.
// @Summary Check Bookings Schema
// @Description Checks that the units and all_bookings tables have the columns the reconciler reads and writes.
// @Tags integrity
// @Produce json
// @Success 200 {object} bookings.SchemaReport "Schema Report"
// @Failure 500 {object} utils.ErrorResponse "Internal Server Error"
// @Security ApiKeyAuth
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return utils.Fail(c, fiber.StatusInternalServerError, "internal_error", err.Error())
	}
	if !report.Matched {
		l.Warn("Schema mismatches found", zap.Strings("errors", report.Errors))
	}
	return c.JSON(report)
}

// HandleStorageCheck checks and optionally creates the archive bucket.
// @Summary Check Archive Storage
// @Description Checks that the feed archive bucket exists. Optionally creates it.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create the bucket when missing"
// @Success 200 {object} StorageReport "Storage Report"
// @Failure 404 {object} utils.ErrorResponse "Storage not configured"
// @Failure 500 {object} utils.ErrorResponse "Internal Server Error"
// @Security ApiKeyAuth
// @Router /integrity/storage [get]
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	report, err := h.service.CheckStorage(c.UserContext(), fix)
	if err != nil {
		if errors.Is(err, ErrStorageDisabled) {
			return utils.Fail(c, fiber.StatusNotFound, "storage_disabled", err.Error())
		}
		l.Error("Storage check failed", zap.Error(err))
		return utils.Fail(c, fiber.StatusInternalServerError, "internal_error", err.Error())
	}
	if !report.Exists {
		l.Warn("Archive bucket missing", zap.String("bucket", report.Bucket))
	}
	return c.JSON(report)
}
