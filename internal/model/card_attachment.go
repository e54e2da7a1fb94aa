package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxAttachmentSize is the largest accepted file size in bytes (50MB).
// Only metadata lives here; the bytes themselves are in an external blob
// store referenced by FilePath.
const MaxAttachmentSize = 50 * 1024 * 1024

type CardAttachment struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CardID     uuid.UUID `gorm:"type:uuid;not null;index:idx_attachments_card_created" json:"card_id"`
	UploaderID uuid.UUID `gorm:"type:uuid;not null" json:"uploader_id"`

	Filename         string `gorm:"size:255;not null" json:"filename" validate:"required,min=1,max=255"`
	OriginalFilename string `gorm:"size:255;not null" json:"original_filename" validate:"required,min=1,max=255"`
	FilePath         string `gorm:"size:500;not null" json:"file_path" validate:"required,max=500"`
	FileSize         int64  `gorm:"not null" json:"file_size" validate:"min=1"`
	MimeType         string `gorm:"size:100;not null" json:"mime_type" validate:"required,max=100"`

	Lifecycle Lifecycle `gorm:"size:20;not null;default:'active';index" json:"lifecycle"`

	CreatedAt time.Time  `gorm:"not null;index:idx_attachments_card_created" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`

	CreatedBy uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	DeletedBy *uuid.UUID `gorm:"type:uuid" json:"deleted_by,omitempty"`
}

func (CardAttachment) TableName() string {
	return "card_attachments"
}

func (a *CardAttachment) Validate() error {
	a.Filename = strings.TrimSpace(a.Filename)
	a.OriginalFilename = strings.TrimSpace(a.OriginalFilename)
	if a.Lifecycle == "" {
		a.Lifecycle = LifecycleActive
	}
	if err := checkStruct(a); err != nil {
		return err
	}
	if a.CardID == uuid.Nil {
		return newValidationError("card_id", "required", "card id is required")
	}
	if a.UploaderID == uuid.Nil {
		return newValidationError("uploader_id", "required", "uploader id is required")
	}
	if a.FileSize > MaxAttachmentSize {
		return newValidationError("file_size", "max", "file size cannot exceed 50MB")
	}
	return nil
}
