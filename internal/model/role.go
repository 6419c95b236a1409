package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Role is a named permission set grantable to users in addition to
// their primary UserType. System roles cannot be deleted.
type Role struct {
	ID          uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string         `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Description string         `json:"description,omitempty" gorm:"size:255"`
	Permissions datatypes.JSON `json:"permissions,omitempty" gorm:"type:json"`
	System      bool           `json:"system" gorm:"default:false"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// UserRole grants a Role to a User.
type UserRole struct {
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);primaryKey"`
	RoleID    uuid.UUID `json:"role_id" gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
	Role Role `json:"-" gorm:"foreignKey:RoleID"`
}

// TableName returns the database table name for the UserRole model.
func (UserRole) TableName() string {
	return "user_roles"
}
