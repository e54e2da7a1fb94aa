package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Card is a single work item inside a BoardList. Positions of the active
// cards of a list form a dense zero-based sequence.
type Card struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ListID uuid.UUID `gorm:"type:uuid;not null;index:idx_cards_list_position" json:"list_id"`

	Title       string `gorm:"size:500;not null;index" json:"title" validate:"required,min=1,max=500"`
	Description string `gorm:"type:text" json:"description"`
	Position    int    `gorm:"not null;index:idx_cards_list_position" json:"position"`

	AssigneeID *uuid.UUID `gorm:"type:uuid;index" json:"assignee_id,omitempty"`
	ReporterID uuid.UUID  `gorm:"type:uuid;not null;index" json:"reporter_id"`
	Watchers   UUIDSet    `gorm:"type:jsonb" json:"watchers"`

	Status   CardStatus `gorm:"size:20;not null;default:'open'" json:"status"`
	Priority Priority   `gorm:"size:20;not null;default:'medium'" json:"priority"`

	DueDate     *time.Time `gorm:"index" json:"due_date,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	ChecklistItems     int `gorm:"not null;default:0" json:"checklist_items" validate:"min=0"`
	ChecklistCompleted int `gorm:"not null;default:0" json:"checklist_completed" validate:"min=0"`

	Lifecycle Lifecycle `gorm:"size:20;not null;default:'active';index" json:"lifecycle"`

	CreatedAt  time.Time  `gorm:"not null;index" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updated_at"`
	ArchivedAt *time.Time `gorm:"index" json:"archived_at,omitempty"`
	DeletedAt  *time.Time `gorm:"index" json:"deleted_at,omitempty"`

	CreatedBy uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	DeletedBy *uuid.UUID `gorm:"type:uuid" json:"deleted_by,omitempty"`
}

func (Card) TableName() string {
	return "cards"
}

func (c *Card) Validate() error {
	c.Title = strings.TrimSpace(c.Title)
	if c.Status == "" {
		c.Status = CardStatusOpen
	}
	if c.Priority == "" {
		c.Priority = PriorityMedium
	}
	if c.Lifecycle == "" {
		c.Lifecycle = LifecycleActive
	}
	if err := checkStruct(c); err != nil {
		return err
	}
	if !c.Status.Valid() {
		return newValidationError("status", "enum", "unknown card status "+string(c.Status))
	}
	if !c.Priority.Valid() {
		return newValidationError("priority", "enum", "unknown priority "+string(c.Priority))
	}
	if !c.Lifecycle.Valid() {
		return newValidationError("lifecycle", "enum", "unknown lifecycle "+string(c.Lifecycle))
	}
	if c.ListID == uuid.Nil {
		return newValidationError("list_id", "required", "list id is required")
	}
	if c.ReporterID == uuid.Nil {
		return newValidationError("reporter_id", "required", "reporter id is required")
	}
	if hasDuplicateUUID(c.Watchers) {
		return newValidationError("watchers", "unique", "duplicate watcher id")
	}
	if c.StartDate != nil && c.DueDate != nil && c.StartDate.After(*c.DueDate) {
		return newValidationError("start_date", "order", "start date must not be after due date")
	}
	if c.ChecklistCompleted > c.ChecklistItems {
		return newValidationError("checklist_completed", "range", "completed items cannot exceed total items")
	}
	return nil
}

// SetStatus transitions the card and maintains completed_at: it is set only
// on entering COMPLETED and cleared on leaving it.
func (c *Card) SetStatus(status CardStatus, now time.Time) error {
	if !status.Valid() {
		return newValidationError("status", "enum", "unknown card status "+string(status))
	}
	if status == c.Status {
		return nil
	}
	if status == CardStatusCompleted {
		t := now
		c.CompletedAt = &t
	} else if c.Status == CardStatusCompleted {
		c.CompletedAt = nil
	}
	c.Status = status
	return nil
}

// Watch adds a watcher; adding an existing watcher is a no-op.
func (c *Card) Watch(userID uuid.UUID) {
	if !containsUUID(c.Watchers, userID) {
		c.Watchers = append(c.Watchers, userID)
	}
}

// Unwatch removes a watcher; removing an absent watcher is a no-op.
func (c *Card) Unwatch(userID uuid.UUID) {
	for i, w := range c.Watchers {
		if w == userID {
			c.Watchers = append(c.Watchers[:i], c.Watchers[i+1:]...)
			return
		}
	}
}
