package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Contribution records a donor funding a scholarship scheme.
type Contribution struct {
	ID            uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	DonorID       uuid.UUID       `json:"donor_id" gorm:"type:char(36);not null;index"`
	ScholarshipID uuid.UUID       `json:"scholarship_id" gorm:"type:char(36);not null;index"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	Currency      string          `json:"currency" gorm:"size:3;not null;default:'USD'"`
	Message       string          `json:"message,omitempty" gorm:"size:500"`
	CreatedAt     time.Time       `json:"created_at"`

	// Relations
	Donor       User        `json:"-" gorm:"foreignKey:DonorID"`
	Scholarship Scholarship `json:"-" gorm:"foreignKey:ScholarshipID"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Contribution) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
