package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ScholarshipStatus represents the lifecycle status of a scheme.
type ScholarshipStatus string

const (
	ScholarshipStatusActive   ScholarshipStatus = "active"
	ScholarshipStatusInactive ScholarshipStatus = "inactive"
	ScholarshipStatusClosed   ScholarshipStatus = "closed"
)

// Valid reports whether s is a known scholarship status.
func (s ScholarshipStatus) Valid() bool {
	switch s {
	case ScholarshipStatusActive, ScholarshipStatusInactive, ScholarshipStatusClosed:
		return true
	}
	return false
}

// Scholarship represents a funding scheme students apply to.
type Scholarship struct {
	ID                  uuid.UUID         `json:"id" gorm:"type:char(36);primaryKey"`
	Title               string            `json:"title" gorm:"size:255;not null;index"`
	Description         string            `json:"description" gorm:"type:text"`
	Amount              decimal.Decimal   `json:"amount" gorm:"type:decimal(20,2);not null"`
	Currency            string            `json:"currency" gorm:"size:3;not null;default:'USD'"`
	EligibilityCriteria datatypes.JSON    `json:"eligibility_criteria,omitempty" gorm:"type:json"` // ordered list of free-text rules
	RequiredDocuments   datatypes.JSON    `json:"required_documents,omitempty" gorm:"type:json"`
	ApplicationDeadline time.Time         `json:"application_deadline" gorm:"not null;index"`
	SelectionDeadline   *time.Time        `json:"selection_deadline,omitempty"`
	MaxApplications     *int              `json:"max_applications,omitempty"` // nil means uncapped
	CurrentApplications int               `json:"current_applications" gorm:"default:0"`
	Status              ScholarshipStatus `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`
	CreatedByID         uuid.UUID         `json:"created_by_id" gorm:"type:char(36);not null;index"`
	Tags                datatypes.JSON    `json:"tags,omitempty" gorm:"type:json"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
	DeletedAt           gorm.DeletedAt    `json:"-" gorm:"index"`

	// Relations
	CreatedBy User `json:"-" gorm:"foreignKey:CreatedByID"`
}

// BeforeCreate sets UUID before creating the record.
func (s *Scholarship) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// AcceptsApplications reports whether the scheme can take a new
// application at the given instant: active, deadline not passed, and
// capacity (when capped) not exhausted.
func (s *Scholarship) AcceptsApplications(now time.Time) bool {
	if s.Status != ScholarshipStatusActive {
		return false
	}
	if !now.Before(s.ApplicationDeadline) {
		return false
	}
	if s.MaxApplications != nil && s.CurrentApplications >= *s.MaxApplications {
		return false
	}
	return true
}
