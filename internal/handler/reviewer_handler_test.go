package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"

	"edugrant/internal/errors"
	"edugrant/internal/middleware"
	"edugrant/internal/model"
	"edugrant/internal/repository"
	"edugrant/internal/service"
)

// MockApplicationService is a mock implementation of ApplicationService.
type MockApplicationService struct {
	mock.Mock
}

func (m *MockApplicationService) Submit(ctx context.Context, studentID, scholarshipID uuid.UUID, formData datatypes.JSON, documents []service.DocumentInput) (*model.Application, error) {
	args := m.Called(ctx, studentID, scholarshipID, formData, documents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Application), args.Error(1)
}

func (m *MockApplicationService) AssignReviewer(ctx context.Context, applicationID, reviewerID uuid.UUID) (*model.Application, error) {
	args := m.Called(ctx, applicationID, reviewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Application), args.Error(1)
}

func (m *MockApplicationService) UpdateAssigned(ctx context.Context, actor *service.Identity, applicationID uuid.UUID, update service.ApplicationUpdate) (*model.Application, bool, error) {
	args := m.Called(ctx, actor, applicationID, update)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.Application), args.Bool(1), args.Error(2)
}

func (m *MockApplicationService) CreateReview(ctx context.Context, actor *service.Identity, input service.ReviewInput) (*model.Review, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Review), args.Error(1)
}

func (m *MockApplicationService) ListReviews(ctx context.Context, actor *service.Identity, applicationID uuid.UUID) ([]model.Review, error) {
	args := m.Called(ctx, actor, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Review), args.Error(1)
}

func (m *MockApplicationService) Get(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Application), args.Error(1)
}

func (m *MockApplicationService) List(ctx context.Context, filter repository.ApplicationFilter) ([]model.Application, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.Application), args.Get(1).(int64), args.Error(2)
}

func (m *MockApplicationService) Recent(ctx context.Context, limit int) ([]model.Application, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Application), args.Error(1)
}

func (m *MockApplicationService) Stats(ctx context.Context) ([]repository.StatusCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.StatusCount), args.Error(1)
}

func (m *MockApplicationService) ExportCSV(ctx context.Context, w io.Writer, filter repository.ApplicationFilter) error {
	args := m.Called(ctx, w, filter)
	return args.Error(0)
}

func patchApplication(t *testing.T, h *ReviewerHandler, identity *service.Identity, id string, body string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/reviewer/applications/"+id, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/reviewer/applications/:id")
	c.SetParamNames("id")
	c.SetParamValues(id)
	middleware.SetIdentity(c, identity)
	return rec, h.UpdateAssigned(c)
}

func TestReviewerHandler_UpdateAssigned_Finalized(t *testing.T) {
	reviewerID := uuid.New()
	application := &model.Application{
		ID:                 uuid.New(),
		Status:             model.ApplicationStatusApproved,
		AssignedReviewerID: &reviewerID,
	}

	mockService := new(MockApplicationService)
	mockService.On("UpdateAssigned", mock.Anything, mock.Anything, application.ID, mock.Anything).Return(application, true, nil)

	h := NewReviewerHandler(mockService)
	identity := &service.Identity{UserID: reviewerID, UserType: model.UserTypeReviewer}

	rec, err := patchApplication(t, h, identity, application.ID.String(), `{"status":"rejected"}`)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ObjectResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "application already finalized; no changes applied", resp.Message)

	data, _ := json.Marshal(resp.Data)
	var returned model.Application
	assert.NoError(t, json.Unmarshal(data, &returned))
	assert.Equal(t, model.ApplicationStatusApproved, returned.Status)
}

func TestReviewerHandler_UpdateAssigned_NotAssignee(t *testing.T) {
	applicationID := uuid.New()

	mockService := new(MockApplicationService)
	mockService.On("UpdateAssigned", mock.Anything, mock.Anything, applicationID, mock.Anything).Return(nil, false, errors.ErrNotAssignedReviewer)

	h := NewReviewerHandler(mockService)
	identity := &service.Identity{UserID: uuid.New(), UserType: model.UserTypeReviewer}

	rec, err := patchApplication(t, h, identity, applicationID.String(), `{"score":50}`)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var resp FailResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "not the assigned reviewer for this application", resp.Error)
}

func TestReviewerHandler_UpdateAssigned_InvalidID(t *testing.T) {
	h := NewReviewerHandler(new(MockApplicationService))
	identity := &service.Identity{UserID: uuid.New(), UserType: model.UserTypeReviewer}

	_, err := patchApplication(t, h, identity, "not-a-uuid", `{}`)
	assert.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}
