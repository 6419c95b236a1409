package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"edugrant/internal/middleware"
	"edugrant/internal/service"
)

// ContributionHandler handles donor contribution endpoints.
type ContributionHandler struct {
	contributionService service.ContributionService
}

// NewContributionHandler creates a new contribution handler.
func NewContributionHandler(contributionService service.ContributionService) *ContributionHandler {
	return &ContributionHandler{contributionService: contributionService}
}

// ContributionRequest records a donor funding a scholarship.
type ContributionRequest struct {
	ScholarshipID string          `json:"scholarship_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Currency      string          `json:"currency,omitempty"`
	Message       string          `json:"message,omitempty"`
}

// Create godoc
// @Summary Record a contribution to a scholarship
// @Tags contributions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ContributionRequest true "Contribution"
// @Success 201 {object} ObjectResponse
// @Failure 400 {object} FailResponse
// @Failure 404 {object} FailResponse
// @Router /contributions [post]
func (h *ContributionHandler) Create(c echo.Context) error {
	identity, err := middleware.CurrentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	var req ContributionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	scholarshipID, err := uuid.Parse(req.ScholarshipID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid scholarship id")
	}

	contribution, err := h.contributionService.Create(c.Request().Context(), identity.UserID, scholarshipID, req.Amount, req.Currency, req.Message)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, contribution, "contribution recorded")
}

// ListMine godoc
// @Summary The calling donor's contributions
// @Tags contributions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} ListResponse
// @Router /contributions/mine [get]
func (h *ContributionHandler) ListMine(c echo.Context) error {
	identity, err := middleware.CurrentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	page, limit := pageParams(c)
	contributions, total, err := h.contributionService.ListMine(c.Request().Context(), identity.UserID, page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, contributions, page, limit, total)
}

// List godoc
// @Summary All contributions
// @Tags contributions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} ListResponse
// @Router /contributions [get]
func (h *ContributionHandler) List(c echo.Context) error {
	page, limit := pageParams(c)
	contributions, total, err := h.contributionService.List(c.Request().Context(), page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, contributions, page, limit, total)
}
