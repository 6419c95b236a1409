package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"

	"edugrant/internal/middleware"
	"edugrant/internal/model"
	"edugrant/internal/repository"
	"edugrant/internal/service"
)

// ReviewerHandler handles the reviewer-facing workflow endpoints.
type ReviewerHandler struct {
	applicationService service.ApplicationService
}

// NewReviewerHandler creates a new reviewer handler.
func NewReviewerHandler(applicationService service.ApplicationService) *ReviewerHandler {
	return &ReviewerHandler{applicationService: applicationService}
}

// UpdateApplicationRequest is a reviewer's partial update of an
// assigned application. Omitted fields stay untouched.
type UpdateApplicationRequest struct {
	Status      *string  `json:"status,omitempty"`
	Score       *float64 `json:"score,omitempty"`
	ReviewNotes *string  `json:"review_notes,omitempty"`
}

// CreateReviewRequest appends an explicit review ledger entry.
type CreateReviewRequest struct {
	ApplicationID string         `json:"application_id" validate:"required"`
	OverallScore  float64        `json:"overall_score" validate:"min=0,max=100"`
	Comments      string         `json:"comments"`
	Criteria      datatypes.JSON `json:"criteria,omitempty"`
	Complete      bool           `json:"complete"`
}

// ListAssigned godoc
// @Summary Applications assigned to the calling reviewer
// @Tags reviewer
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param status query string false "Status filter"
// @Success 200 {object} ListResponse
// @Router /reviewer/applications [get]
func (h *ReviewerHandler) ListAssigned(c echo.Context) error {
	identity, err := middleware.CurrentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	page, limit := pageParams(c)
	reviewerID := identity.UserID
	filter := repository.ApplicationFilter{
		Status:     model.ApplicationStatus(c.QueryParam("status")),
		ReviewerID: &reviewerID,
		Page:       page,
		Limit:      limit,
	}

	applications, total, err := h.applicationService.List(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, applications, page, limit, total)
}

// UpdateAssigned godoc
// @Summary Update status, score or notes of an assigned application
// @Description A finalized application is returned unchanged with a distinct no-op message.
// @Tags reviewer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param request body UpdateApplicationRequest true "Fields to update"
// @Success 200 {object} ObjectResponse
// @Failure 400 {object} FailResponse
// @Failure 403 {object} FailResponse
// @Failure 404 {object} FailResponse
// @Router /reviewer/applications/{id} [patch]
func (h *ReviewerHandler) UpdateAssigned(c echo.Context) error {
	identity, err := middleware.CurrentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid application id")
	}

	var req UpdateApplicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	update := service.ApplicationUpdate{
		Score:       req.Score,
		ReviewNotes: req.ReviewNotes,
	}
	if req.Status != nil {
		status := model.ApplicationStatus(*req.Status)
		update.Status = &status
	}

	application, finalized, err := h.applicationService.UpdateAssigned(c.Request().Context(), identity, id, update)
	if err != nil {
		return respondError(c, err)
	}

	if finalized {
		return respond(c, http.StatusOK, application, "application already finalized; no changes applied")
	}
	return respond(c, http.StatusOK, application, "application updated")
}

// CreateReview godoc
// @Summary Append a review record for an assigned application
// @Tags reviewer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateReviewRequest true "Review data"
// @Success 201 {object} ObjectResponse
// @Failure 400 {object} FailResponse
// @Failure 403 {object} FailResponse
// @Failure 404 {object} FailResponse
// @Router /reviewer/reviews [post]
func (h *ReviewerHandler) CreateReview(c echo.Context) error {
	identity, err := middleware.CurrentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	var req CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	applicationID, err := uuid.Parse(req.ApplicationID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid application id")
	}

	review, err := h.applicationService.CreateReview(c.Request().Context(), identity, service.ReviewInput{
		ApplicationID: applicationID,
		OverallScore:  req.OverallScore,
		Comments:      req.Comments,
		Criteria:      req.Criteria,
		Complete:      req.Complete,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, review, "review recorded")
}

// ListReviews godoc
// @Summary Evaluation history of an application
// @Tags reviewer
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} ObjectResponse
// @Failure 403 {object} FailResponse
// @Failure 404 {object} FailResponse
// @Router /reviewer/applications/{id}/reviews [get]
func (h *ReviewerHandler) ListReviews(c echo.Context) error {
	identity, err := middleware.CurrentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid application id")
	}

	reviews, err := h.applicationService.ListReviews(c.Request().Context(), identity, id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, reviews, "")
}
