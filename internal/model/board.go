package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultBoardColor = "#0079bf"
	MaxBoardMembers   = 100
)

// Board is the root of the ownership hierarchy. All user, company, branch,
// department and team ids are opaque references into external services and
// are validated for shape only.
type Board struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null;index" json:"name" validate:"required,min=1,max=255"`
	Description string    `gorm:"type:text" json:"description"`
	Color       string    `gorm:"size:7;not null" json:"color" validate:"hexcolor6"`

	CompanyID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_boards_company_status" json:"company_id"`
	BranchID     *uuid.UUID `gorm:"type:uuid" json:"branch_id,omitempty"`
	DepartmentID *uuid.UUID `gorm:"type:uuid" json:"department_id,omitempty"`
	TeamID       *uuid.UUID `gorm:"type:uuid" json:"team_id,omitempty"`

	OwnerID uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Members UUIDSet   `gorm:"type:jsonb" json:"members"`
	Admins  UUIDSet   `gorm:"type:jsonb" json:"admins"`

	Status     BoardStatus     `gorm:"size:20;not null;default:'active';index:idx_boards_company_status" json:"status"`
	Visibility BoardVisibility `gorm:"size:20;not null;default:'team'" json:"visibility"`
	Priority   Priority        `gorm:"size:20;not null;default:'medium'" json:"priority"`

	EnableComments    bool `gorm:"not null;default:true" json:"enable_comments"`
	EnableAttachments bool `gorm:"not null;default:true" json:"enable_attachments"`
	EnableDueDates    bool `gorm:"not null;default:true" json:"enable_due_dates"`
	EnableLabels      bool `gorm:"not null;default:true" json:"enable_labels"`

	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`

	CreatedBy uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	DeletedBy *uuid.UUID `gorm:"type:uuid" json:"deleted_by,omitempty"`
}

func (Board) TableName() string {
	return "boards"
}

// Validate normalizes the board and checks every field invariant. It must
// pass before any write is attempted.
func (b *Board) Validate() error {
	b.Name = strings.TrimSpace(b.Name)
	if b.Color == "" {
		b.Color = DefaultBoardColor
	}
	if b.Status == "" {
		b.Status = BoardStatusActive
	}
	if b.Visibility == "" {
		b.Visibility = VisibilityTeam
	}
	if b.Priority == "" {
		b.Priority = PriorityMedium
	}
	if err := checkStruct(b); err != nil {
		return err
	}
	if !b.Status.Valid() {
		return newValidationError("status", "enum", "unknown board status "+string(b.Status))
	}
	if !b.Visibility.Valid() {
		return newValidationError("visibility", "enum", "unknown board visibility "+string(b.Visibility))
	}
	if !b.Priority.Valid() {
		return newValidationError("priority", "enum", "unknown priority "+string(b.Priority))
	}
	if b.CompanyID == uuid.Nil {
		return newValidationError("company_id", "required", "company id is required")
	}
	if b.OwnerID == uuid.Nil {
		return newValidationError("owner_id", "required", "owner id is required")
	}
	if len(b.Members) > MaxBoardMembers {
		return newValidationError("members", "max", "board cannot have more than 100 members")
	}
	if hasDuplicateUUID(b.Members) {
		return newValidationError("members", "unique", "duplicate member id")
	}
	if hasDuplicateUUID(b.Admins) {
		return newValidationError("admins", "unique", "duplicate admin id")
	}
	for _, admin := range b.Admins {
		if admin != b.OwnerID && !containsUUID(b.Members, admin) {
			return newValidationError("admins", "subset", "admin "+admin.String()+" is not a board member")
		}
	}
	return nil
}

// IsMember reports whether the user belongs to the board, the owner included.
func (b *Board) IsMember(userID uuid.UUID) bool {
	return userID == b.OwnerID || containsUUID(b.Members, userID)
}

// IsAdmin reports whether the user may administer the board.
func (b *Board) IsAdmin(userID uuid.UUID) bool {
	return userID == b.OwnerID || containsUUID(b.Admins, userID)
}

// Active reports whether the board accepts mutations of its children.
func (b *Board) Active() bool {
	return b.Status == BoardStatusActive && b.DeletedAt == nil
}
