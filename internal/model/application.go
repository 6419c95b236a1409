package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ApplicationStatus represents the workflow state of an application.
type ApplicationStatus string

const (
	ApplicationStatusSubmitted   ApplicationStatus = "submitted"
	ApplicationStatusUnderReview ApplicationStatus = "under_review"
	ApplicationStatusApproved    ApplicationStatus = "approved"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusWaitlisted  ApplicationStatus = "waitlisted"
)

// Valid reports whether s is one of the five workflow states.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusSubmitted, ApplicationStatusUnderReview,
		ApplicationStatusApproved, ApplicationStatusRejected,
		ApplicationStatusWaitlisted:
		return true
	}
	return false
}

// Terminal reports whether s permits no further workflow mutation.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusRejected
}

// Application is a student's submission against one scholarship.
// The (student, scholarship) pair is unique: one application per
// student per scheme.
type Application struct {
	ID                 uuid.UUID         `json:"id" gorm:"type:char(36);primaryKey"`
	StudentID          uuid.UUID         `json:"student_id" gorm:"type:char(36);not null;uniqueIndex:idx_student_scholarship"`
	ScholarshipID      uuid.UUID         `json:"scholarship_id" gorm:"type:char(36);not null;uniqueIndex:idx_student_scholarship"`
	Status             ApplicationStatus `json:"status" gorm:"type:varchar(20);not null;default:'submitted';index"`
	Score              *float64          `json:"score,omitempty"`
	AwardedAmount      *decimal.Decimal  `json:"awarded_amount,omitempty" gorm:"type:decimal(20,2)"`
	AssignedReviewerID *uuid.UUID        `json:"assigned_reviewer_id,omitempty" gorm:"type:char(36);index"`
	ReviewNotes        string            `json:"review_notes,omitempty" gorm:"type:text"`
	FormData           datatypes.JSON    `json:"form_data,omitempty" gorm:"type:json"`
	SubmittedAt        time.Time         `json:"submitted_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time         `json:"updated_at"`

	// Relations
	Student          User        `json:"-" gorm:"foreignKey:StudentID"`
	Scholarship      Scholarship `json:"-" gorm:"foreignKey:ScholarshipID"`
	AssignedReviewer *User       `json:"-" gorm:"foreignKey:AssignedReviewerID"`
	Documents        []Document  `json:"documents,omitempty" gorm:"foreignKey:ApplicationID"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// AssignedTo reports whether reviewerID is the application's assignee.
func (a *Application) AssignedTo(reviewerID uuid.UUID) bool {
	return a.AssignedReviewerID != nil && *a.AssignedReviewerID == reviewerID
}
