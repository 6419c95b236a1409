package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"edugrant/internal/middleware"
	"edugrant/internal/model"
	"edugrant/internal/repository"
	"edugrant/internal/service"
)

// ScholarshipHandler handles scholarship catalog endpoints.
type ScholarshipHandler struct {
	scholarshipService service.ScholarshipService
}

// NewScholarshipHandler creates a new scholarship handler.
func NewScholarshipHandler(scholarshipService service.ScholarshipService) *ScholarshipHandler {
	return &ScholarshipHandler{scholarshipService: scholarshipService}
}

// ScholarshipRequest carries the writable fields of a scheme.
type ScholarshipRequest struct {
	Title               string          `json:"title" validate:"required"`
	Description         string          `json:"description"`
	Amount              decimal.Decimal `json:"amount" validate:"required"`
	Currency            string          `json:"currency,omitempty"`
	EligibilityCriteria datatypes.JSON  `json:"eligibility_criteria,omitempty"`
	RequiredDocuments   datatypes.JSON  `json:"required_documents,omitempty"`
	ApplicationDeadline time.Time       `json:"application_deadline" validate:"required"`
	SelectionDeadline   *time.Time      `json:"selection_deadline,omitempty"`
	MaxApplications     *int            `json:"max_applications,omitempty"`
	Status              string          `json:"status,omitempty"`
	Tags                datatypes.JSON  `json:"tags,omitempty"`
}

func (r *ScholarshipRequest) toInput() service.ScholarshipInput {
	return service.ScholarshipInput{
		Title:               r.Title,
		Description:         r.Description,
		Amount:              r.Amount,
		Currency:            r.Currency,
		EligibilityCriteria: r.EligibilityCriteria,
		RequiredDocuments:   r.RequiredDocuments,
		ApplicationDeadline: r.ApplicationDeadline,
		SelectionDeadline:   r.SelectionDeadline,
		MaxApplications:     r.MaxApplications,
		Status:              model.ScholarshipStatus(r.Status),
		Tags:                r.Tags,
	}
}

// List godoc
// @Summary Paginated scholarship list
// @Tags scholarships
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param status query string false "Status filter"
// @Param search query string false "Title search"
// @Success 200 {object} ListResponse
// @Router /scholarships [get]
func (h *ScholarshipHandler) List(c echo.Context) error {
	page, limit := pageParams(c)
	filter := repository.ScholarshipFilter{
		Status: model.ScholarshipStatus(c.QueryParam("status")),
		Search: c.QueryParam("search"),
		Page:   page,
		Limit:  limit,
	}

	scholarships, total, err := h.scholarshipService.List(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, scholarships, page, limit, total)
}

// Get godoc
// @Summary Fetch one scholarship
// @Tags scholarships
// @Produce json
// @Param id path string true "Scholarship ID"
// @Success 200 {object} ObjectResponse
// @Failure 404 {object} FailResponse
// @Router /scholarships/{id} [get]
func (h *ScholarshipHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid scholarship id")
	}

	scholarship, err := h.scholarshipService.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, scholarship, "")
}

// Create godoc
// @Summary Create a scholarship scheme
// @Tags scholarships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ScholarshipRequest true "Scheme data"
// @Success 201 {object} ObjectResponse
// @Failure 400 {object} FailResponse
// @Failure 403 {object} FailResponse
// @Router /scholarships [post]
func (h *ScholarshipHandler) Create(c echo.Context) error {
	identity, err := middleware.CurrentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	var req ScholarshipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	scholarship, err := h.scholarshipService.Create(c.Request().Context(), identity.UserID, req.toInput())
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, scholarship, "scholarship created")
}

// Update godoc
// @Summary Update a scholarship scheme
// @Tags scholarships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Scholarship ID"
// @Param request body ScholarshipRequest true "Scheme data"
// @Success 200 {object} ObjectResponse
// @Failure 400 {object} FailResponse
// @Failure 404 {object} FailResponse
// @Router /scholarships/{id} [put]
func (h *ScholarshipHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid scholarship id")
	}

	var req ScholarshipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	scholarship, err := h.scholarshipService.Update(c.Request().Context(), id, req.toInput())
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, scholarship, "scholarship updated")
}

// Delete godoc
// @Summary Delete a scholarship scheme
// @Tags scholarships
// @Produce json
// @Security BearerAuth
// @Param id path string true "Scholarship ID"
// @Success 200 {object} ObjectResponse
// @Failure 404 {object} FailResponse
// @Failure 409 {object} FailResponse
// @Router /scholarships/{id} [delete]
func (h *ScholarshipHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid scholarship id")
	}

	if err := h.scholarshipService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, nil, "scholarship deleted")
}

// Stats godoc
// @Summary Application counts by status for one scheme
// @Tags scholarships
// @Produce json
// @Security BearerAuth
// @Param id path string true "Scholarship ID"
// @Success 200 {object} ObjectResponse
// @Failure 404 {object} FailResponse
// @Router /scholarships/{id}/stats [get]
func (h *ScholarshipHandler) Stats(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid scholarship id")
	}

	stats, err := h.scholarshipService.Stats(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, stats, "")
}
