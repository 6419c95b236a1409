package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"

	"edugrant/internal/middleware"
	"edugrant/internal/model"
	"edugrant/internal/service"
)

// AuthHandler handles authentication and profile endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email     string         `json:"email" validate:"required,email"`
	Password  string         `json:"password" validate:"required"`
	FirstName string         `json:"first_name" validate:"required"`
	LastName  string         `json:"last_name" validate:"required"`
	Role      string         `json:"role" validate:"required"`
	Profile   datatypes.JSON `json:"profile,omitempty"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest is a partial profile update.
type UpdateProfileRequest struct {
	FirstName *string        `json:"first_name,omitempty"`
	LastName  *string        `json:"last_name,omitempty"`
	Phone     *string        `json:"phone,omitempty"`
	Profile   datatypes.JSON `json:"profile,omitempty"`
}

// AuthPayload pairs the public user record with a bearer token.
type AuthPayload struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} ObjectResponse
// @Failure 400 {object} FailResponse
// @Failure 409 {object} FailResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, token, err := h.authService.Register(c.Request().Context(), req.Email, req.Password, req.FirstName, req.LastName, model.UserType(req.Role), req.Profile)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusCreated, AuthPayload{User: user, Token: token}, "user registered successfully")
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} ObjectResponse
// @Failure 400 {object} FailResponse
// @Failure 401 {object} FailResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, AuthPayload{User: user, Token: token}, "login successful")
}

// Verify godoc
// @Summary Validate the bearer token and echo the identity
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ObjectResponse
// @Failure 401 {object} FailResponse
// @Router /auth/verify [get]
func (h *AuthHandler) Verify(c echo.Context) error {
	identity, err := middleware.CurrentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, identity, "token valid")
}

// GetProfile godoc
// @Summary Current user record
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ObjectResponse
// @Failure 401 {object} FailResponse
// @Router /auth/profile [get]
func (h *AuthHandler) GetProfile(c echo.Context) error {
	identity, err := middleware.CurrentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	user, err := h.authService.GetProfile(c.Request().Context(), identity.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, user, "")
}

// UpdateProfile godoc
// @Summary Partial update of name, phone and profile JSON
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} ObjectResponse
// @Failure 400 {object} FailResponse
// @Failure 401 {object} FailResponse
// @Router /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	identity, err := middleware.CurrentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), identity.UserID, service.ProfileUpdate{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		ProfileData: req.Profile,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, user, "profile updated")
}
