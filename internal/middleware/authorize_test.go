package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"edugrant/internal/errors"
	"edugrant/internal/model"
	"edugrant/internal/service"
)

func newTestContext() echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name          string
		identity      *service.Identity
		required      []string
		expectedError error
	}{
		{
			name:          "no identity yields 401",
			identity:      nil,
			required:      []string{"admin"},
			expectedError: errors.ErrAuthRequired,
		},
		{
			name:          "primary type matches",
			identity:      &service.Identity{UserID: uuid.New(), UserType: model.UserTypeAdmin},
			required:      []string{"admin"},
			expectedError: nil,
		},
		{
			name:          "role grant matches",
			identity:      &service.Identity{UserID: uuid.New(), UserType: model.UserTypeDonor, Grants: []string{"reviewer"}},
			required:      []string{"reviewer", "admin"},
			expectedError: nil,
		},
		{
			name:          "no match yields 403",
			identity:      &service.Identity{UserID: uuid.New(), UserType: model.UserTypeStudent},
			required:      []string{"reviewer", "admin"},
			expectedError: errors.ErrInsufficientPermissions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContext()
			if tt.identity != nil {
				SetIdentity(c, tt.identity)
			}

			err := RequireRoles(tt.required...)(okHandler)(c)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCurrentIdentity(t *testing.T) {
	c := newTestContext()

	identity, err := CurrentIdentity(c)
	assert.Equal(t, errors.ErrAuthRequired, err)
	assert.Nil(t, identity)

	want := &service.Identity{UserID: uuid.New(), UserType: model.UserTypeStudent}
	SetIdentity(c, want)

	identity, err = CurrentIdentity(c)
	assert.NoError(t, err)
	assert.Equal(t, want, identity)
}
