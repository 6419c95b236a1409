package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"edugrant/internal/service"
)

// SettingHandler handles admin platform settings.
type SettingHandler struct {
	settingService service.SettingService
}

// NewSettingHandler creates a new setting handler.
func NewSettingHandler(settingService service.SettingService) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

// SettingRequest sets one setting value.
type SettingRequest struct {
	Value string `json:"value"`
}

// List godoc
// @Summary All platform settings
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ObjectResponse
// @Router /settings [get]
func (h *SettingHandler) List(c echo.Context) error {
	settings, err := h.settingService.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, settings, "")
}

// Set godoc
// @Summary Create or replace a setting
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "Setting key"
// @Param request body SettingRequest true "Value"
// @Success 200 {object} ObjectResponse
// @Failure 400 {object} FailResponse
// @Router /settings/{key} [put]
func (h *SettingHandler) Set(c echo.Context) error {
	var req SettingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	setting, err := h.settingService.Set(c.Request().Context(), c.Param("key"), req.Value)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, setting, "setting saved")
}
