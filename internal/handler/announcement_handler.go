package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"edugrant/internal/middleware"
	"edugrant/internal/service"
)

// AnnouncementHandler handles platform announcement endpoints.
type AnnouncementHandler struct {
	announcementService service.AnnouncementService
}

// NewAnnouncementHandler creates a new announcement handler.
func NewAnnouncementHandler(announcementService service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcementService: announcementService}
}

// AnnouncementRequest carries the writable announcement fields.
type AnnouncementRequest struct {
	Title  string `json:"title" validate:"required"`
	Body   string `json:"body"`
	Active bool   `json:"active"`
}

// List godoc
// @Summary Active announcements
// @Tags announcements
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} ListResponse
// @Router /announcements [get]
func (h *AnnouncementHandler) List(c echo.Context) error {
	page, limit := pageParams(c)
	announcements, total, err := h.announcementService.ListActive(c.Request().Context(), page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, announcements, page, limit, total)
}

// Create godoc
// @Summary Publish an announcement
// @Tags announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AnnouncementRequest true "Announcement"
// @Success 201 {object} ObjectResponse
// @Failure 400 {object} FailResponse
// @Router /announcements [post]
func (h *AnnouncementHandler) Create(c echo.Context) error {
	identity, err := middleware.CurrentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	var req AnnouncementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	announcement, err := h.announcementService.Create(c.Request().Context(), identity.UserID, req.Title, req.Body)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, announcement, "announcement created")
}

// Update godoc
// @Summary Edit an announcement
// @Tags announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Announcement ID"
// @Param request body AnnouncementRequest true "Announcement"
// @Success 200 {object} ObjectResponse
// @Failure 404 {object} FailResponse
// @Router /announcements/{id} [put]
func (h *AnnouncementHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid announcement id")
	}

	var req AnnouncementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	announcement, err := h.announcementService.Update(c.Request().Context(), id, req.Title, req.Body, req.Active)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, announcement, "announcement updated")
}

// Delete godoc
// @Summary Remove an announcement
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Param id path string true "Announcement ID"
// @Success 200 {object} ObjectResponse
// @Failure 404 {object} FailResponse
// @Router /announcements/{id} [delete]
func (h *AnnouncementHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid announcement id")
	}

	if err := h.announcementService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, nil, "announcement deleted")
}
