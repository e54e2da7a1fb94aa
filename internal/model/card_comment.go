package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const MaxCommentLength = 10000

// CardComment is an author-attributed note on a card. Comments are
// append-only except for in-place edits: the first edit flips is_edited
// and it stays true afterwards.
type CardComment struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CardID   uuid.UUID `gorm:"type:uuid;not null;index:idx_comments_card_created" json:"card_id"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`

	Content  string `gorm:"type:text;not null" json:"content" validate:"required,min=1,max=10000"`
	IsEdited bool   `gorm:"not null;default:false" json:"is_edited"`

	CreatedAt time.Time `gorm:"not null;index:idx_comments_card_created" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (CardComment) TableName() string {
	return "card_comments"
}

func (c *CardComment) Validate() error {
	c.Content = strings.TrimSpace(c.Content)
	if err := checkStruct(c); err != nil {
		return err
	}
	if c.CardID == uuid.Nil {
		return newValidationError("card_id", "required", "card id is required")
	}
	if c.AuthorID == uuid.Nil {
		return newValidationError("author_id", "required", "author id is required")
	}
	return nil
}

// Edit replaces the content and marks the comment edited.
func (c *CardComment) Edit(content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return newValidationError("content", "required", "comment content cannot be empty")
	}
	if len(content) > MaxCommentLength {
		return newValidationError("content", "max", "comment cannot exceed 10000 characters")
	}
	c.Content = content
	c.IsEdited = true
	return nil
}
