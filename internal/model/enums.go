package model

// Priority levels shared by boards and cards.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// BoardStatus describes the operational state of a board.
type BoardStatus string

const (
	BoardStatusActive   BoardStatus = "active"
	BoardStatusInactive BoardStatus = "inactive"
	BoardStatusArchived BoardStatus = "archived"
	BoardStatusDeleted  BoardStatus = "deleted"
)

func (s BoardStatus) Valid() bool {
	switch s {
	case BoardStatusActive, BoardStatusInactive, BoardStatusArchived, BoardStatusDeleted:
		return true
	}
	return false
}

// BoardVisibility controls who may see a board.
type BoardVisibility string

const (
	VisibilityPrivate      BoardVisibility = "private"
	VisibilityTeam         BoardVisibility = "team"
	VisibilityOrganization BoardVisibility = "organization"
	VisibilityPublic       BoardVisibility = "public"
)

func (v BoardVisibility) Valid() bool {
	switch v {
	case VisibilityPrivate, VisibilityTeam, VisibilityOrganization, VisibilityPublic:
		return true
	}
	return false
}

// CardStatus describes a card's progress within a list.
type CardStatus string

const (
	CardStatusOpen       CardStatus = "open"
	CardStatusInProgress CardStatus = "in_progress"
	CardStatusCompleted  CardStatus = "completed"
	CardStatusBlocked    CardStatus = "blocked"
	CardStatusCancelled  CardStatus = "cancelled"
)

func (s CardStatus) Valid() bool {
	switch s {
	case CardStatusOpen, CardStatusInProgress, CardStatusCompleted, CardStatusBlocked, CardStatusCancelled:
		return true
	}
	return false
}

// Lifecycle is the tagged soft-delete state shared by lists, cards, labels
// and attachments. Archived and deleted records are retained but excluded
// from default queries; the archived_at/deleted_at timestamps on each entity
// are audit metadata, never the source of truth for filtering.
type Lifecycle string

const (
	LifecycleActive   Lifecycle = "active"
	LifecycleArchived Lifecycle = "archived"
	LifecycleDeleted  Lifecycle = "deleted"
)

func (l Lifecycle) Valid() bool {
	switch l {
	case LifecycleActive, LifecycleArchived, LifecycleDeleted:
		return true
	}
	return false
}
