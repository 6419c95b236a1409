package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"edugrant/internal/auth"
	"edugrant/internal/errors"
	"edugrant/internal/model"
)

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		userType      model.UserType
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful registration",
			email:    "student@example.com",
			password: "Passw0rd",
			userType: model.UserTypeStudent,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "student@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "email already taken",
			email:    "existing@example.com",
			password: "Passw0rd",
			userType: model.UserTypeStudent,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: errors.ErrEmailTaken,
		},
		{
			name:          "invalid email",
			email:         "not-an-email",
			password:      "Passw0rd",
			userType:      model.UserTypeStudent,
			setupMock:     func(m *MockUserRepository) {},
			expectedError: errors.Validation("invalid email address"),
		},
		{
			name:          "password too short",
			email:         "student@example.com",
			password:      "Pw1",
			userType:      model.UserTypeStudent,
			setupMock:     func(m *MockUserRepository) {},
			expectedError: errors.Validation("password must be at least 8 characters"),
		},
		{
			name:          "password missing uppercase",
			email:         "student@example.com",
			password:      "password1",
			userType:      model.UserTypeStudent,
			setupMock:     func(m *MockUserRepository) {},
			expectedError: errors.Validation("password must contain a lowercase letter, an uppercase letter and a digit"),
		},
		{
			name:          "surveyor type not registrable",
			email:         "surveyor@example.com",
			password:      "Passw0rd",
			userType:      model.UserTypeSurveyor,
			setupMock:     func(m *MockUserRepository) {},
			expectedError: errors.Validation("invalid role"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUserRepo := new(MockUserRepository)
			mockRoleRepo := new(MockRoleRepository)
			tt.setupMock(mockUserRepo)

			jwtService := auth.NewJWTService("test-secret")
			service := NewAuthService(mockUserRepo, mockRoleRepo, jwtService, nil)

			user, token, err := service.Register(context.Background(), tt.email, tt.password, "Test", "User", tt.userType, nil)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, user)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.NotEmpty(t, token)
				assert.Equal(t, tt.email, user.Email)
				assert.Equal(t, tt.userType, user.UserType)
				assert.True(t, user.Active)
				assert.NotEqual(t, tt.password, user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tt.password)))
			}

			mockUserRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("Passw0rd"), bcryptCost)

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "student@example.com",
			password: "Passw0rd",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "student@example.com").Return(&model.User{
					Email:        "student@example.com",
					PasswordHash: string(hashedPassword),
					UserType:     model.UserTypeStudent,
					Active:       true,
				}, nil)
			},
			expectedError: nil,
		},
		{
			name:     "unknown email",
			email:    "notfound@example.com",
			password: "Passw0rd",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "student@example.com",
			password: "WrongPass1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "student@example.com").Return(&model.User{
					Email:        "student@example.com",
					PasswordHash: string(hashedPassword),
					Active:       true,
				}, nil)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
		{
			name:     "deactivated account",
			email:    "inactive@example.com",
			password: "Passw0rd",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "inactive@example.com").Return(&model.User{
					Email:        "inactive@example.com",
					PasswordHash: string(hashedPassword),
					Active:       false,
				}, nil)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUserRepo := new(MockUserRepository)
			mockRoleRepo := new(MockRoleRepository)
			tt.setupMock(mockUserRepo)

			jwtService := auth.NewJWTService("test-secret")
			service := NewAuthService(mockUserRepo, mockRoleRepo, jwtService, nil)

			user, token, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, user)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.NotEmpty(t, token)
				assert.Equal(t, tt.email, user.Email)
			}

			mockUserRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Verify(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRoleRepo := new(MockRoleRepository)
	jwtService := auth.NewJWTService("test-secret")
	service := NewAuthService(mockUserRepo, mockRoleRepo, jwtService, nil)

	user := &model.User{
		Email:    "donor@example.com",
		UserType: model.UserTypeDonor,
	}
	mockUserRepo.On("FindByEmail", mock.Anything, user.Email).Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	registered, token, err := service.Register(context.Background(), user.Email, "Passw0rd", "Dana", "Donor", model.UserTypeDonor, nil)
	assert.NoError(t, err)

	mockRoleRepo.On("GrantNames", mock.Anything, registered.ID).Return([]string{"surveyor"}, nil)

	identity, err := service.Verify(context.Background(), token)
	assert.NoError(t, err)
	assert.Equal(t, registered.ID, identity.UserID)
	assert.Equal(t, user.Email, identity.Email)
	assert.Equal(t, model.UserTypeDonor, identity.UserType)
	assert.Equal(t, []string{"surveyor"}, identity.Grants)

	// The grant makes HasRole pass for a role the primary type lacks.
	assert.True(t, identity.HasRole("surveyor"))
	assert.True(t, identity.HasRole("donor"))
	assert.False(t, identity.HasRole("admin"))
}

func TestAuthService_Verify_InvalidToken(t *testing.T) {
	service := NewAuthService(new(MockUserRepository), new(MockRoleRepository), auth.NewJWTService("test-secret"), nil)

	identity, err := service.Verify(context.Background(), "not-a-token")
	assert.Error(t, err)
	assert.Equal(t, errors.ErrInvalidToken, err)
	assert.Nil(t, identity)
}

func TestAuthService_UpdateProfile_Partial(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	service := NewAuthService(mockUserRepo, new(MockRoleRepository), auth.NewJWTService("test-secret"), nil)

	existing := &model.User{
		FirstName: "Old",
		LastName:  "Name",
		Phone:     "111",
	}
	mockUserRepo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	mockUserRepo.On("Update", mock.Anything, existing).Return(nil)

	first := "New"
	updated, err := service.UpdateProfile(context.Background(), existing.ID, ProfileUpdate{FirstName: &first})
	assert.NoError(t, err)
	assert.Equal(t, "New", updated.FirstName)
	assert.Equal(t, "Name", updated.LastName)
	assert.Equal(t, "111", updated.Phone)

	mockUserRepo.AssertExpectations(t)
}
