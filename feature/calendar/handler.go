package calendar

import (
	"errors"

	"calendar-reconciler/core/bookings"
	"calendar-reconciler/core/dates"
	"calendar-reconciler/core/feed"
	"calendar-reconciler/core/logger"
	"calendar-reconciler/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for availability.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the calendar routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/units/:id/calendar", h.HandleCalendar)
}

// HandleCalendar returns the availability timeline of a unit.
// @Summary Unit Availability
// @Description Classifies the unit's bookings and external blocks as hard or soft intervals with inclusive ends. With merge=1, overlapping intervals of the same class are joined.
// @Tags calendar
// @Produce json
// @Param id path string true "Unit id or code"
// @Param merge query string false "Merge intervals (1, true, yes)"
// @Param from query string false "Window start (YYYY-MM-DD)"
// @Param to query string false "Window end (YYYY-MM-DD)"
// @Param excludeBookingId query int false "Booking to leave out, e.g. the one being edited"
// @Success 200 {array} availability.Interval "Intervals, or spans when merged"
// @Failure 400 {object} utils.ErrorResponse "Invalid date or period"
// @Failure 404 {object} utils.ErrorResponse "Unit not found"
// @Failure 502 {object} utils.ErrorResponse "Feed unavailable"
// @Security ApiKeyAuth
// @Router /units/{id}/calendar [get]
func (h *Handler) HandleCalendar(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	utils.NoStore(c)

	req := Request{
		Unit:  c.Params("id"),
		From:  c.Query("from"),
		To:    c.Query("to"),
		Merge: utils.ToBool(c.Query("merge")),
	}
	if raw := c.Query("excludeBookingId"); raw != "" {
		id, ok := utils.ToInt64(raw)
		if !ok {
			return utils.Fail(c, fiber.StatusBadRequest, "invalid_booking_id", "excludeBookingId must be numeric")
		}
		req.ExcludeBookingID = id
	}

	result, err := h.service.Availability(c.UserContext(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrUnitNotFound):
			return utils.Fail(c, fiber.StatusNotFound, "unit_not_found", "unit not found")
		case errors.Is(err, dates.ErrInvalidDate):
			return utils.Fail(c, fiber.StatusBadRequest, "invalid_date", err.Error())
		case errors.Is(err, dates.ErrInvalidPeriod):
			return utils.Fail(c, fiber.StatusBadRequest, "invalid_period", err.Error())
		case errors.Is(err, feed.ErrFeedUnavailable):
			l.Warn("Calendar feed unavailable", zap.String("unit", req.Unit), zap.Error(err))
			return utils.Fail(c, fiber.StatusBadGateway, "feed_unavailable", "external calendar feed unavailable")
		}
		l.Error("Calendar query failed", zap.String("unit", req.Unit), zap.Error(err))
		return utils.Fail(c, fiber.StatusInternalServerError, "internal_error", "calendar query failed")
	}

	if req.Merge {
		return c.JSON(result.Spans)
	}
	return c.JSON(result.Intervals)
}
