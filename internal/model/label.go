package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultLabelColor = "#61bd4f"

// Label is a board-scoped tag. Names are unique per board among non-deleted
// labels, compared case-sensitively.
type Label struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BoardID uuid.UUID `gorm:"type:uuid;not null;index" json:"board_id"`

	Name        string `gorm:"size:100;not null" json:"name" validate:"required,min=1,max=100"`
	Color       string `gorm:"size:7;not null" json:"color" validate:"hexcolor6"`
	Description string `gorm:"size:500" json:"description" validate:"max=500"`

	Lifecycle Lifecycle `gorm:"size:20;not null;default:'active';index" json:"lifecycle"`

	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`

	CreatedBy uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	DeletedBy *uuid.UUID `gorm:"type:uuid" json:"deleted_by,omitempty"`
}

func (Label) TableName() string {
	return "labels"
}

func (l *Label) Validate() error {
	l.Name = strings.TrimSpace(l.Name)
	if l.Color == "" {
		l.Color = DefaultLabelColor
	}
	if l.Lifecycle == "" {
		l.Lifecycle = LifecycleActive
	}
	if err := checkStruct(l); err != nil {
		return err
	}
	if !l.Lifecycle.Valid() {
		return newValidationError("lifecycle", "enum", "unknown lifecycle "+string(l.Lifecycle))
	}
	if l.BoardID == uuid.Nil {
		return newValidationError("board_id", "required", "board id is required")
	}
	return nil
}
