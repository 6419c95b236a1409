package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Recommendation is a reviewer's verdict on an application.
type Recommendation string

const (
	RecommendationApprove              Recommendation = "approve"
	RecommendationReject               Recommendation = "reject"
	RecommendationConditionallyApprove Recommendation = "conditionally_approve"
)

// RecommendationFor derives the recommendation recorded in the ledger
// from the status a reviewer moved an application to.
func RecommendationFor(status ApplicationStatus) Recommendation {
	switch status {
	case ApplicationStatusApproved:
		return RecommendationApprove
	case ApplicationStatusRejected:
		return RecommendationReject
	default:
		return RecommendationConditionallyApprove
	}
}

// Review is one append-only evaluation record. Rows are created once
// per reviewer decision event and never mutated or deleted, so the
// table holds the full evaluation history of every application.
type Review struct {
	ID             uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	ApplicationID  uuid.UUID      `json:"application_id" gorm:"type:char(36);not null;index"`
	ReviewerID     uuid.UUID      `json:"reviewer_id" gorm:"type:char(36);not null;index"`
	Criteria       datatypes.JSON `json:"criteria,omitempty" gorm:"type:json"`
	OverallScore   float64        `json:"overall_score"`
	Comments       string         `json:"comments,omitempty" gorm:"type:text"`
	Recommendation Recommendation `json:"recommendation" gorm:"type:varchar(30);not null"`
	Complete       bool           `json:"complete" gorm:"default:false"`
	CreatedAt      time.Time      `json:"created_at"`

	// Relations
	Application Application `json:"-" gorm:"foreignKey:ApplicationID"`
	Reviewer    User        `json:"-" gorm:"foreignKey:ReviewerID"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
