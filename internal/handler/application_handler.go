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

// ApplicationHandler handles student submission and the admin-facing
// application endpoints.
type ApplicationHandler struct {
	applicationService service.ApplicationService
}

// NewApplicationHandler creates a new application handler.
func NewApplicationHandler(applicationService service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

// SubmitApplicationRequest is a student's application to one scheme.
type SubmitApplicationRequest struct {
	ScholarshipID string                `json:"scholarship_id" validate:"required"`
	FormData      datatypes.JSON        `json:"form_data,omitempty"`
	Documents     []DocumentMetaRequest `json:"documents,omitempty"`
}

// DocumentMetaRequest is metadata for a file already placed in the
// external blob store.
type DocumentMetaRequest struct {
	Name        string `json:"name" validate:"required"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	StorageKey  string `json:"storage_key" validate:"required"`
}

// AssignReviewerRequest sets an application's assignee.
type AssignReviewerRequest struct {
	ReviewerID string `json:"reviewer_id" validate:"required"`
}

// Submit godoc
// @Summary Submit an application to a scholarship
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SubmitApplicationRequest true "Application data"
// @Success 201 {object} ObjectResponse
// @Failure 400 {object} FailResponse
// @Failure 409 {object} FailResponse
// @Router /applications [post]
func (h *ApplicationHandler) Submit(c echo.Context) error {
	identity, err := middleware.CurrentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	var req SubmitApplicationRequest
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

	documents := make([]service.DocumentInput, 0, len(req.Documents))
	for _, d := range req.Documents {
		documents = append(documents, service.DocumentInput{
			Name:        d.Name,
			ContentType: d.ContentType,
			Size:        d.Size,
			StorageKey:  d.StorageKey,
		})
	}

	application, err := h.applicationService.Submit(c.Request().Context(), identity.UserID, scholarshipID, req.FormData, documents)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, application, "application submitted")
}

// ListMine godoc
// @Summary The calling student's applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} ListResponse
// @Router /applications/mine [get]
func (h *ApplicationHandler) ListMine(c echo.Context) error {
	identity, err := middleware.CurrentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	page, limit := pageParams(c)
	studentID := identity.UserID
	filter := repository.ApplicationFilter{
		StudentID: &studentID,
		Page:      page,
		Limit:     limit,
	}

	applications, total, err := h.applicationService.List(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, applications, page, limit, total)
}

// List godoc
// @Summary Paginated application list with filters
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param status query string false "Status filter"
// @Param studentId query string false "Student filter"
// @Param scholarshipId query string false "Scholarship filter"
// @Param reviewerId query string false "Reviewer filter"
// @Success 200 {object} ListResponse
// @Router /applications [get]
func (h *ApplicationHandler) List(c echo.Context) error {
	page, limit := pageParams(c)
	filter := repository.ApplicationFilter{
		Status: model.ApplicationStatus(c.QueryParam("status")),
		Page:   page,
		Limit:  limit,
	}

	if raw := c.QueryParam("studentId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid student id")
		}
		filter.StudentID = &id
	}
	if raw := c.QueryParam("scholarshipId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid scholarship id")
		}
		filter.ScholarshipID = &id
	}
	if raw := c.QueryParam("reviewerId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid reviewer id")
		}
		filter.ReviewerID = &id
	}

	applications, total, err := h.applicationService.List(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, applications, page, limit, total)
}

// Get godoc
// @Summary Application detail with attached documents
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} ObjectResponse
// @Failure 404 {object} FailResponse
// @Router /applications/{id} [get]
func (h *ApplicationHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid application id")
	}

	application, err := h.applicationService.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, application, "")
}

// AssignReviewer godoc
// @Summary Assign a reviewer to an application
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param request body AssignReviewerRequest true "Reviewer"
// @Success 200 {object} ObjectResponse
// @Failure 400 {object} FailResponse
// @Failure 404 {object} FailResponse
// @Router /applications/{id}/assign [post]
func (h *ApplicationHandler) AssignReviewer(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid application id")
	}

	var req AssignReviewerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	reviewerID, err := uuid.Parse(req.ReviewerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reviewer id")
	}

	application, err := h.applicationService.AssignReviewer(c.Request().Context(), id, reviewerID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, application, "reviewer assigned")
}

// Stats godoc
// @Summary Application counts by status platform-wide
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ObjectResponse
// @Router /applications/stats [get]
func (h *ApplicationHandler) Stats(c echo.Context) error {
	stats, err := h.applicationService.Stats(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, stats, "")
}

// Recent godoc
// @Summary Latest applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Row count"
// @Success 200 {object} ObjectResponse
// @Router /applications/recent [get]
func (h *ApplicationHandler) Recent(c echo.Context) error {
	limit := intQuery(c, "limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	applications, err := h.applicationService.Recent(c.Request().Context(), limit)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, applications, "")
}

// Export godoc
// @Summary CSV export of applications
// @Tags applications
// @Produce text/csv
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Success 200 {string} string "CSV body"
// @Router /applications/export [get]
func (h *ApplicationHandler) Export(c echo.Context) error {
	filter := repository.ApplicationFilter{
		Status: model.ApplicationStatus(c.QueryParam("status")),
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="applications.csv"`)

	// The 200 is committed by the first flushed page, so an error before
	// any data reaches the client can still render the error envelope.
	if err := h.applicationService.ExportCSV(c.Request().Context(), c.Response(), filter); err != nil {
		if c.Response().Committed {
			return err
		}
		c.Response().Header().Del(echo.HeaderContentDisposition)
		c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
		return respondError(c, err)
	}
	return nil
}
