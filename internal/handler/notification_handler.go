package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"edugrant/internal/middleware"
	"edugrant/internal/service"
)

// NotificationHandler handles a user's in-app notifications.
type NotificationHandler struct {
	notificationService service.NotificationService
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List godoc
// @Summary The calling user's notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} ListResponse
// @Router /notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	identity, err := middleware.CurrentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	page, limit := pageParams(c)
	notifications, total, err := h.notificationService.ListMine(c.Request().Context(), identity.UserID, page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, notifications, page, limit, total)
}

// MarkRead godoc
// @Summary Mark one notification as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} ObjectResponse
// @Failure 404 {object} FailResponse
// @Router /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	identity, err := middleware.CurrentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid notification id")
	}

	if err := h.notificationService.MarkRead(c.Request().Context(), id, identity.UserID); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, nil, "notification marked read")
}
