package handler

import (
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"edugrant/internal/errors"
)

// Pagination describes one page of a list response.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination computes the page descriptor for a total row count.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// ObjectResponse is the envelope for single-object endpoints.
type ObjectResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ListResponse is the envelope for list endpoints.
type ListResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// FailResponse is the envelope for error responses.
type FailResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// respond writes a single-object envelope.
func respond(c echo.Context, status int, data interface{}, message string) error {
	return c.JSON(status, ObjectResponse{Success: true, Data: data, Message: message})
}

// respondList writes a list envelope with pagination.
func respondList(c echo.Context, data interface{}, page, limit int, total int64) error {
	return c.JSON(http.StatusOK, ListResponse{
		Success:    true,
		Data:       data,
		Pagination: NewPagination(page, limit, total),
	})
}

// respondError maps a service error to the failure envelope. Internal
// errors are logged server-side and collapsed to a generic message.
func respondError(c echo.Context, err error) error {
	httpErr := errors.FromError(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
	}
	return c.JSON(httpErr.StatusCode, FailResponse{Success: false, Error: httpErr.Message})
}

// pageParams reads page/limit query parameters with bounds applied.
func pageParams(c echo.Context) (page, limit int) {
	page = intQuery(c, "page", 1)
	limit = intQuery(c, "limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func intQuery(c echo.Context, name string, def int) int {
	if raw := c.QueryParam(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return def
}
