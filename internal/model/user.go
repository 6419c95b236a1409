package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserType is the coarse primary role fixed at registration.
type UserType string

const (
	UserTypeStudent  UserType = "student"
	UserTypeAdmin    UserType = "admin"
	UserTypeReviewer UserType = "reviewer"
	UserTypeDonor    UserType = "donor"
	UserTypeSurveyor UserType = "surveyor"
)

// RegistrableUserTypes are the types accepted at self-registration.
var RegistrableUserTypes = map[UserType]bool{
	UserTypeStudent:  true,
	UserTypeAdmin:    true,
	UserTypeReviewer: true,
	UserTypeDonor:    true,
}

// User represents an authenticated user in the system.
type User struct {
	ID            uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	Email         string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash  string         `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	FirstName     string         `json:"first_name" gorm:"size:100;not null"`
	LastName      string         `json:"last_name" gorm:"size:100;not null"`
	Phone         string         `json:"phone,omitempty" gorm:"size:30"`
	UserType      UserType       `json:"user_type" gorm:"type:varchar(20);not null;index"`
	Active        bool           `json:"active" gorm:"default:true;index"`
	EmailVerified bool           `json:"email_verified" gorm:"default:false"`
	ProfileData   datatypes.JSON `json:"profile_data,omitempty" gorm:"type:json"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
