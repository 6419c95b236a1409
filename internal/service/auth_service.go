package service

import (
	"context"
	"fmt"
	"net/mail"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"edugrant/internal/auth"
	"edugrant/internal/errors"
	"edugrant/internal/events"
	"edugrant/internal/model"
	"edugrant/internal/repository"
)

const bcryptCost = 10

// Identity is the authenticated caller attached to every protected
// request: the token's embedded identity augmented with the user's
// current role grants.
type Identity struct {
	UserID   uuid.UUID      `json:"user_id"`
	Email    string         `json:"email"`
	UserType model.UserType `json:"user_type"`
	Grants   []string       `json:"grants,omitempty"`
}

// HasRole reports whether the identity's primary type or any granted
// role matches one of the required role names.
func (id *Identity) HasRole(required ...string) bool {
	for _, role := range required {
		if string(id.UserType) == role {
			return true
		}
		for _, grant := range id.Grants {
			if grant == role {
				return true
			}
		}
	}
	return false
}

// ProfileUpdate is a partial update of mutable profile fields. Nil
// pointers leave the stored value untouched.
type ProfileUpdate struct {
	FirstName   *string
	LastName    *string
	Phone       *string
	ProfileData datatypes.JSON
}

// AuthService handles registration, login and token verification.
type AuthService interface {
	Register(ctx context.Context, email, password, firstName, lastName string, userType model.UserType, profile datatypes.JSON) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Verify(ctx context.Context, token string) (*Identity, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*model.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	roleRepo   repository.RoleRepository
	jwtService *auth.JWTService
	producer   *events.Producer
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, jwtService *auth.JWTService, producer *events.Producer) AuthService {
	return &authService{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		jwtService: jwtService,
		producer:   producer,
	}
}

// Register creates a new user with a hashed password and returns the
// public record plus a signed bearer token.
func (s *authService) Register(ctx context.Context, email, password, firstName, lastName string, userType model.UserType, profile datatypes.JSON) (*model.User, string, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", errors.Validation("invalid email address")
	}
	if err := checkPasswordPolicy(password); err != nil {
		return nil, "", err
	}
	if !model.RegistrableUserTypes[userType] {
		return nil, "", errors.Validation("invalid role")
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, "", errors.ErrEmailTaken
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, "", fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		FirstName:    firstName,
		LastName:     lastName,
		UserType:     userType,
		Active:       true,
		ProfileData:  profile,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique index on email is the authority under concurrent
		// registration; a lost race surfaces here.
		if isDuplicateKey(err) {
			return nil, "", errors.ErrEmailTaken
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email, user.UserType)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	_ = s.producer.Publish(ctx, events.TypeUserRegistered, user.ID.String(), map[string]interface{}{
		"user_id":   user.ID,
		"email":     user.Email,
		"user_type": user.UserType,
	})

	return user, token, nil
}

// Login authenticates a user and returns the public record plus a
// signed bearer token. Unknown email, deactivated account and wrong
// password all yield the same error.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", errors.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, "", errors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", errors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email, user.UserType)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	return user, token, nil
}

// Verify checks the token's signature and expiry, then augments the
// embedded identity with the user's current role grants. The grant
// lookup is live, so grants take effect without re-login.
func (s *authService) Verify(ctx context.Context, token string) (*Identity, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, errors.ErrInvalidToken
	}

	grants, err := s.roleRepo.GrantNames(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("load role grants: %w", err)
	}

	return &Identity{
		UserID:   claims.UserID,
		Email:    claims.Email,
		UserType: claims.UserType,
		Grants:   grants,
	}, nil
}

// GetProfile returns the current user record.
func (s *authService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// UpdateProfile partially updates name, phone and profile JSON.
func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*model.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.ProfileData != nil {
		user.ProfileData = update.ProfileData
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// checkPasswordPolicy enforces the strength policy: at least 8
// characters with one lowercase, one uppercase and one digit.
func checkPasswordPolicy(password string) error {
	if len(password) < 8 {
		return errors.Validation("password must be at least 8 characters")
	}
	var hasLower, hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLower || !hasUpper || !hasDigit {
		return errors.Validation("password must contain a lowercase letter, an uppercase letter and a digit")
	}
	return nil
}
