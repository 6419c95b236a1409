package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is metadata for a file attached to an application. The blob
// itself lives in an external opaque store addressed by StorageKey.
type Document struct {
	ID            uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	ApplicationID uuid.UUID `json:"application_id" gorm:"type:char(36);not null;index"`
	OwnerID       uuid.UUID `json:"owner_id" gorm:"type:char(36);not null;index"`
	Name          string    `json:"name" gorm:"size:255;not null"`
	ContentType   string    `json:"content_type" gorm:"size:100"`
	Size          int64     `json:"size"`
	StorageKey    string    `json:"storage_key" gorm:"size:512"`
	CreatedAt     time.Time `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
