package ical

import (
	"encoding/json"
	"errors"
	"time"

	"calendar-reconciler/core/ack"
	"calendar-reconciler/core/bookings"
	"calendar-reconciler/core/dates"
	"calendar-reconciler/core/feed"
	"calendar-reconciler/core/logger"
	"calendar-reconciler/core/middleware/auth"
	"calendar-reconciler/core/reconcile"
	"calendar-reconciler/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Params echoes the effective query of a run.
type Params struct {
	Unit    *string `json:"unit"`
	From    string  `json:"from"`
	To      string  `json:"to"`
	Loose   bool    `json:"loose"`
	HideAck *bool   `json:"hideAck,omitempty"`
}

// NotificationData wraps the notification list.
type NotificationData struct {
	Count int                      `json:"count"`
	Items []reconcile.Notification `json:"items"`
}

// NotificationsResponse is the body of GET /ical/notifications.
type NotificationsResponse struct {
	OK     bool             `json:"ok"`
	Params Params           `json:"params"`
	Data   NotificationData `json:"data"`
}

// ReconcileData wraps the annotated items.
type ReconcileData struct {
	Count int               `json:"count"`
	Items []reconcile.Entry `json:"items"`
}

// ReconcileResponse is the body of GET /ical/reconcile.
type ReconcileResponse struct {
	OK     bool          `json:"ok"`
	Params Params        `json:"params"`
	Data   ReconcileData `json:"data"`
}

// AckRequest is the optional body of POST /ical/ack/:bookingId.
// Loose accepts true, 1 or "yes".
type AckRequest struct {
	Fingerprint *string `json:"fingerprint"`
	Loose       any     `json:"loose" swaggertype:"boolean"`
}

// AckResponse is the body of a successful acknowledgement.
type AckResponse struct {
	OK          bool    `json:"ok"`
	BookingID   int64   `json:"bookingId"`
	AckedAt     string  `json:"ackedAt"`
	UserID      *string `json:"userId"`
	Fingerprint string  `json:"fingerprint"`
}

// Handler handles HTTP requests for reconciliation.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the ical routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/ical")
	group.Get("/notifications", h.HandleNotifications)
	group.Get("/reconcile", h.HandleReconcile)
	group.Post("/ack/:bookingId", h.HandleAck)
	group.Get("/export/unit/:file", h.HandleExport)
}

func queryFrom(c *fiber.Ctx) Query {
	return Query{
		Unit:    c.Query("unit"),
		From:    c.Query("from"),
		To:      c.Query("to"),
		Loose:   utils.ToBool(c.Query("loose")),
		HideAck: utils.OptionalBool(c.Query("hideAck"), true),
	}
}

func paramsOf(q Query, w dates.Window) Params {
	p := Params{From: dates.Format(w.From), To: dates.Format(w.To), Loose: q.Loose}
	if q.Unit != "" {
		unit := q.Unit
		p.Unit = &unit
	}
	return p
}

// fail maps service errors to API errors.
func (h *Handler) fail(c *fiber.Ctx, err error, msg string) error {
	switch {
	case errors.Is(err, bookings.ErrUnitNotFound):
		return utils.Fail(c, fiber.StatusNotFound, "unit_not_found", "unit not found")
	case errors.Is(err, ack.ErrBookingNotFound):
		return utils.Fail(c, fiber.StatusNotFound, "booking_not_found", "booking not found")
	case errors.Is(err, ack.ErrInvalidBooking):
		return utils.Fail(c, fiber.StatusUnprocessableEntity, "invalid_booking", "booking check-in must be before check-out")
	case errors.Is(err, dates.ErrInvalidDate):
		return utils.Fail(c, fiber.StatusBadRequest, "invalid_date", err.Error())
	case errors.Is(err, dates.ErrInvalidPeriod):
		return utils.Fail(c, fiber.StatusBadRequest, "invalid_period", err.Error())
	case errors.Is(err, feed.ErrNoFeed):
		return utils.Fail(c, fiber.StatusUnprocessableEntity, "no_feed", "unit has no external calendar")
	}

	l := logger.WithRayID(h.service.logger, c)
	if errors.Is(err, feed.ErrFeedUnavailable) {
		l.Warn(msg, zap.Error(err))
		return utils.Fail(c, fiber.StatusBadGateway, "feed_unavailable", "external calendar feed unavailable")
	}
	l.Error(msg, zap.Error(err))
	return utils.Fail(c, fiber.StatusInternalServerError, "internal_error", msg)
}

// HandleNotifications returns the actionable reconciliation items.
// @Summary Reconciliation Notifications
// @Description Conflicts, suspected cancellations and replacements that no current acknowledgement covers. Without unit, every unit with a feed is reconciled.
// @Tags ical
// @Produce json
// @Param unit query string false "Unit id or code"
// @Param from query string false "Window start (YYYY-MM-DD)"
// @Param to query string false "Window end (YYYY-MM-DD)"
// @Param loose query string false "Also accept loose acknowledgements (1, true, yes)"
// @Success 200 {object} NotificationsResponse
// @Failure 400 {object} utils.ErrorResponse "Invalid date or period"
// @Failure 404 {object} utils.ErrorResponse "Unit not found"
// @Failure 502 {object} utils.ErrorResponse "Feed unavailable"
// @Security ApiKeyAuth
// @Router /ical/notifications [get]
func (h *Handler) HandleNotifications(c *fiber.Ctx) error {
	utils.NoStore(c)
	q := queryFrom(c)

	items, window, err := h.service.Notifications(c.UserContext(), q)
	if err != nil {
		return h.fail(c, err, "Notification run failed")
	}

	return c.JSON(NotificationsResponse{
		OK:     true,
		Params: paramsOf(q, window),
		Data:   NotificationData{Count: len(items), Items: items},
	})
}

// HandleReconcile returns every reconciliation item with its ack state.
// @Summary Reconcile
// @Description Every item, matched and new_external included, with its exact fingerprint and acknowledged flag. Acknowledged items are hidden unless hideAck=0.
// @Tags ical
// @Produce json
// @Param unit query string false "Unit id or code"
// @Param from query string false "Window start (YYYY-MM-DD)"
// @Param to query string false "Window end (YYYY-MM-DD)"
// @Param loose query string false "Also accept loose acknowledgements"
// @Param hideAck query string false "Hide acknowledged items (default 1)"
// @Success 200 {object} ReconcileResponse
// @Failure 400 {object} utils.ErrorResponse "Invalid date or period"
// @Failure 404 {object} utils.ErrorResponse "Unit not found"
// @Failure 502 {object} utils.ErrorResponse "Feed unavailable"
// @Security ApiKeyAuth
// @Router /ical/reconcile [get]
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	utils.NoStore(c)
	q := queryFrom(c)

	entries, window, err := h.service.Entries(c.UserContext(), q)
	if err != nil {
		return h.fail(c, err, "Reconcile run failed")
	}

	params := paramsOf(q, window)
	params.HideAck = &q.HideAck
	return c.JSON(ReconcileResponse{
		OK:     true,
		Params: params,
		Data:   ReconcileData{Count: len(entries), Items: entries},
	})
}

// HandleAck acknowledges the current reconciliation item of a booking.
// @Summary Acknowledge Item
// @Description Stores the given fingerprint, or the one of the booking's current item. With loose, the loose fingerprint is stored.
// @Tags ical
// @Accept json
// @Produce json
// @Param bookingId path int true "Booking id"
// @Param body body AckRequest false "Fingerprint and mode"
// @Success 200 {object} AckResponse
// @Failure 400 {object} utils.ErrorResponse "Invalid body or booking id"
// @Failure 404 {object} utils.ErrorResponse "Booking not found"
// @Failure 422 {object} utils.ErrorResponse "Booking dates are invalid"
// @Failure 502 {object} utils.ErrorResponse "Feed unavailable"
// @Security ApiKeyAuth
// @Router /ical/ack/{bookingId} [post]
func (h *Handler) HandleAck(c *fiber.Ctx) error {
	bookingID, ok := utils.ToInt64(c.Params("bookingId"))
	if !ok || bookingID <= 0 {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid_booking_id", "booking id must be a positive number")
	}

	var req AckRequest
	if body := c.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			return utils.Fail(c, fiber.StatusBadRequest, "invalid_body", "body must be a JSON object")
		}
	}

	a, err := h.service.Acknowledge(c.UserContext(), bookingID, req.Fingerprint, utils.ToBool(req.Loose), auth.UserID(c))
	if err != nil {
		return h.fail(c, err, "Acknowledgement failed")
	}

	return c.JSON(AckResponse{
		OK:          true,
		BookingID:   a.BookingID,
		AckedAt:     a.AcknowledgedAt.UTC().Format(time.RFC3339),
		UserID:      a.AcknowledgedBy,
		Fingerprint: a.Fingerprint,
	})
}

// HandleExport serves a unit's own bookings as an iCalendar feed.
// @Summary Unit Export Feed
// @Description Private reservations, holds and blocks of the unit, for import by the external platform. Guarded by the unit's export token.
// @Tags ical
// @Produce text/calendar
// @Param file path string true "Feed file, <unitId>.ics"
// @Param token query string true "Export token"
// @Success 200 {string} string "iCalendar feed"
// @Failure 403 {object} utils.ErrorResponse "Forbidden"
// @Router /ical/export/unit/{file} [get]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	utils.NoStore(c)

	body, err := h.service.Export(c.UserContext(), c.Params("file"), c.Query("token"))
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			return utils.Fail(c, fiber.StatusForbidden, "forbidden", "forbidden")
		}
		return h.fail(c, err, "Export failed")
	}

	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	return c.Send(body)
}
