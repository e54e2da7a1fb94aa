package model

import (
	"time"

	"github.com/google/uuid"
)

// CardLabel links a card to a label of the same board. The (card_id,
// label_id) pair is unique; association rows are hard-deleted, never
// soft-deleted.
type CardLabel struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CardID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_card_label;index" json:"card_id"`
	LabelID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_card_label;index" json:"label_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
}

func (CardLabel) TableName() string {
	return "card_labels"
}
