package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"edugrant/internal/model"
	"edugrant/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockRoleRepository is a mock implementation of RoleRepository.
type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) Create(ctx context.Context, role *model.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockRoleRepository) FindByName(ctx context.Context, name string) (*model.Role, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *MockRoleRepository) Grant(ctx context.Context, userID, roleID uuid.UUID) error {
	args := m.Called(ctx, userID, roleID)
	return args.Error(0)
}

func (m *MockRoleRepository) Revoke(ctx context.Context, userID, roleID uuid.UUID) error {
	args := m.Called(ctx, userID, roleID)
	return args.Error(0)
}

func (m *MockRoleRepository) GrantNames(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockScholarshipRepository is a mock implementation of ScholarshipRepository.
type MockScholarshipRepository struct {
	mock.Mock
}

func (m *MockScholarshipRepository) Create(ctx context.Context, scholarship *model.Scholarship) error {
	args := m.Called(ctx, scholarship)
	return args.Error(0)
}

func (m *MockScholarshipRepository) Update(ctx context.Context, scholarship *model.Scholarship) error {
	args := m.Called(ctx, scholarship)
	return args.Error(0)
}

func (m *MockScholarshipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockScholarshipRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Scholarship, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Scholarship), args.Error(1)
}

func (m *MockScholarshipRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Scholarship, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Scholarship), args.Error(1)
}

func (m *MockScholarshipRepository) List(ctx context.Context, filter repository.ScholarshipFilter) ([]model.Scholarship, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.Scholarship), args.Get(1).(int64), args.Error(2)
}

// MockApplicationRepository is a mock implementation of ApplicationRepository.
// WithTransaction runs fn directly against the mocks so transactional
// paths are exercised without a database.
type MockApplicationRepository struct {
	mock.Mock
	TxScholarships repository.ScholarshipRepository
}

func (m *MockApplicationRepository) Create(ctx context.Context, application *model.Application) error {
	args := m.Called(ctx, application)
	return args.Error(0)
}

func (m *MockApplicationRepository) Update(ctx context.Context, application *model.Application) error {
	args := m.Called(ctx, application)
	return args.Error(0)
}

func (m *MockApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Application), args.Error(1)
}

func (m *MockApplicationRepository) List(ctx context.Context, filter repository.ApplicationFilter) ([]model.Application, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.Application), args.Get(1).(int64), args.Error(2)
}

func (m *MockApplicationRepository) Recent(ctx context.Context, limit int) ([]model.Application, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Application), args.Error(1)
}

func (m *MockApplicationRepository) CountByStatus(ctx context.Context, scholarshipID *uuid.UUID) ([]repository.StatusCount, error) {
	args := m.Called(ctx, scholarshipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.StatusCount), args.Error(1)
}

func (m *MockApplicationRepository) CountForScholarship(ctx context.Context, scholarshipID uuid.UUID) (int64, error) {
	args := m.Called(ctx, scholarshipID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockApplicationRepository) ExistsForStudent(ctx context.Context, studentID, scholarshipID uuid.UUID) (bool, error) {
	args := m.Called(ctx, studentID, scholarshipID)
	return args.Bool(0), args.Error(1)
}

func (m *MockApplicationRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, apps repository.ApplicationRepository, scholarships repository.ScholarshipRepository) error) error {
	return fn(ctx, m, m.TxScholarships)
}

// MockReviewRepository is a mock implementation of ReviewRepository.
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *model.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]model.Review, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Review), args.Error(1)
}

// MockNotificationRepository is a mock implementation of NotificationRepository.
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Notification, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}
