package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"edugrant/internal/errors"
	"edugrant/internal/handler"
	"edugrant/internal/middleware"
	"edugrant/internal/model"
	"edugrant/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth         *handler.AuthHandler
	Scholarship  *handler.ScholarshipHandler
	Application  *handler.ApplicationHandler
	Reviewer     *handler.ReviewerHandler
	Announcement *handler.AnnouncementHandler
	Contribution *handler.ContributionHandler
	Notification *handler.NotificationHandler
	Setting      *handler.SettingHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, authService service.AuthService, h Handlers) {
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = errorHandler

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.GET("/scholarships", h.Scholarship.List)
	api.GET("/scholarships/:id", h.Scholarship.Get)
	api.GET("/announcements", h.Announcement.List)

	// Authenticated routes
	authed := api.Group("", middleware.Authenticate(authService))
	authed.GET("/auth/verify", h.Auth.Verify)
	authed.GET("/auth/profile", h.Auth.GetProfile)
	authed.PUT("/auth/profile", h.Auth.UpdateProfile)
	authed.GET("/notifications", h.Notification.List)
	authed.PATCH("/notifications/:id/read", h.Notification.MarkRead)

	admin := string(model.UserTypeAdmin)
	reviewer := string(model.UserTypeReviewer)
	student := string(model.UserTypeStudent)
	donor := string(model.UserTypeDonor)

	// Admin routes
	adminOnly := middleware.RequireRoles(admin)
	authed.POST("/scholarships", h.Scholarship.Create, adminOnly)
	authed.PUT("/scholarships/:id", h.Scholarship.Update, adminOnly)
	authed.DELETE("/scholarships/:id", h.Scholarship.Delete, adminOnly)
	authed.GET("/scholarships/:id/stats", h.Scholarship.Stats, adminOnly)
	authed.GET("/applications", h.Application.List, adminOnly)
	authed.GET("/applications/stats", h.Application.Stats, adminOnly)
	authed.GET("/applications/recent", h.Application.Recent, adminOnly)
	authed.GET("/applications/export", h.Application.Export, adminOnly)
	authed.GET("/applications/:id", h.Application.Get, adminOnly)
	authed.POST("/applications/:id/assign", h.Application.AssignReviewer, adminOnly)
	authed.POST("/announcements", h.Announcement.Create, adminOnly)
	authed.PUT("/announcements/:id", h.Announcement.Update, adminOnly)
	authed.DELETE("/announcements/:id", h.Announcement.Delete, adminOnly)
	authed.GET("/contributions", h.Contribution.List, adminOnly)
	authed.GET("/settings", h.Setting.List, adminOnly)
	authed.PUT("/settings/:key", h.Setting.Set, adminOnly)

	// Student routes
	studentOnly := middleware.RequireRoles(student)
	authed.POST("/applications", h.Application.Submit, studentOnly)
	authed.GET("/applications/mine", h.Application.ListMine, studentOnly)

	// Reviewer routes (admins may operate the reviewer surface too)
	reviewerOnly := middleware.RequireRoles(reviewer, admin)
	authed.GET("/reviewer/applications", h.Reviewer.ListAssigned, reviewerOnly)
	authed.PATCH("/reviewer/applications/:id", h.Reviewer.UpdateAssigned, reviewerOnly)
	authed.POST("/reviewer/reviews", h.Reviewer.CreateReview, reviewerOnly)
	authed.GET("/reviewer/applications/:id/reviews", h.Reviewer.ListReviews, reviewerOnly)

	// Donor routes
	donorOnly := middleware.RequireRoles(donor)
	authed.POST("/contributions", h.Contribution.Create, donorOnly)
	authed.GET("/contributions/mine", h.Contribution.ListMine, donorOnly)
}

// errorHandler renders every unhandled error in the failure envelope.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"

	switch e := err.(type) {
	case *errors.HTTPError:
		status = e.StatusCode
		message = e.Message
	case *echo.HTTPError:
		status = e.Code
		if msg, ok := e.Message.(string); ok {
			message = msg
		}
	default:
		c.Logger().Error(err)
	}

	_ = c.JSON(status, handler.FailResponse{Success: false, Error: message})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
