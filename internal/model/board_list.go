package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultListColor = "#026aa7"
	MinCardLimit     = 1
	MaxCardLimit     = 1000
)

// BoardList is an ordered column of cards on a board. Positions of the
// active lists of a board form a dense zero-based sequence; the repository,
// not the caller, keeps it that way.
type BoardList struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BoardID uuid.UUID `gorm:"type:uuid;not null;index:idx_lists_board_position" json:"board_id"`

	Name     string `gorm:"size:255;not null" json:"name" validate:"required,min=1,max=255"`
	Color    string `gorm:"size:7;not null" json:"color" validate:"hexcolor6"`
	Position int    `gorm:"not null;index:idx_lists_board_position" json:"position"`

	Lifecycle Lifecycle `gorm:"size:20;not null;default:'active';index" json:"lifecycle"`
	CardLimit *int      `gorm:"" json:"card_limit,omitempty"`

	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updated_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	DeletedAt  *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

func (BoardList) TableName() string {
	return "board_lists"
}

func (l *BoardList) Validate() error {
	l.Name = strings.TrimSpace(l.Name)
	if l.Color == "" {
		l.Color = DefaultListColor
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
	if l.CardLimit != nil && (*l.CardLimit < MinCardLimit || *l.CardLimit > MaxCardLimit) {
		return newValidationError("card_limit", "range", "card limit must be between 1 and 1000")
	}
	return nil
}

// Unbounded reports whether the list has no WIP limit.
func (l *BoardList) Unbounded() bool {
	return l.CardLimit == nil
}
