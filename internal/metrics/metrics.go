// Package metrics computes derived read-side values from entity snapshots.
// Nothing here mutates state and nothing here is ever persisted: every
// number is recomputable from the rows alone, so any caching a caller adds
// on top is a disposable convenience.
package metrics

import (
	"math"
	"time"

	"github.com/google/uuid"

	"tasker/internal/model"
)

// WIP status values reported by ComputeListMetrics.
const (
	WipUnbounded   = "unbounded"
	WipWithinLimit = "within_limit"
	WipOverLimit   = "over_limit"
)

// BoardMetrics aggregates the active cards of a board.
type BoardMetrics struct {
	TotalCards     int     `json:"total_cards"`
	CompletedCards int     `json:"completed_cards"`
	CompletionRate float64 `json:"completion_rate"`
	OverdueCards   int     `json:"overdue_cards"`
	ActiveUsers    int     `json:"active_users"`
}

// ListMetrics aggregates the active cards of a single list.
type ListMetrics struct {
	CardCount      int     `json:"card_count"`
	CardLimit      *int    `json:"card_limit,omitempty"`
	WipStatus      string  `json:"wip_status"`
	AverageCardAge float64 `json:"average_card_age_hours"`
}

// IsOverdue reports whether the card has a due date in the past and is not
// completed.
func IsOverdue(card *model.Card, now time.Time) bool {
	return card.DueDate != nil && card.DueDate.Before(now) && card.Status != model.CardStatusCompleted
}

// CompletionPercentage returns the checklist progress rounded to the
// nearest whole percent. A card without checklist items reports 0, and the
// checklist_completed ≤ checklist_items invariant keeps the result at or
// below 100.
func CompletionPercentage(card *model.Card) int {
	if card.ChecklistItems == 0 {
		return 0
	}
	return int(math.Round(100 * float64(card.ChecklistCompleted) / float64(card.ChecklistItems)))
}

// ComputeBoardMetrics folds a snapshot of a board's active cards into its
// aggregate counters. Distinct active users is the union of assignees and
// reporters across the snapshot.
func ComputeBoardMetrics(cards []model.Card, now time.Time) BoardMetrics {
	m := BoardMetrics{TotalCards: len(cards)}
	users := make(map[uuid.UUID]struct{})
	for i := range cards {
		card := &cards[i]
		if card.Status == model.CardStatusCompleted {
			m.CompletedCards++
		}
		if IsOverdue(card, now) {
			m.OverdueCards++
		}
		users[card.ReporterID] = struct{}{}
		if card.AssigneeID != nil {
			users[*card.AssigneeID] = struct{}{}
		}
	}
	if m.TotalCards > 0 {
		m.CompletionRate = float64(m.CompletedCards) / float64(m.TotalCards)
	}
	m.ActiveUsers = len(users)
	return m
}

// ComputeListMetrics folds a snapshot of a list's active cards into its
// aggregate counters. Average card age is reported in hours.
func ComputeListMetrics(list *model.BoardList, cards []model.Card, now time.Time) ListMetrics {
	m := ListMetrics{
		CardCount: len(cards),
		CardLimit: list.CardLimit,
		WipStatus: WipUnbounded,
	}
	if list.CardLimit != nil {
		if len(cards) <= *list.CardLimit {
			m.WipStatus = WipWithinLimit
		} else {
			m.WipStatus = WipOverLimit
		}
	}
	if len(cards) > 0 {
		var total time.Duration
		for i := range cards {
			total += now.Sub(cards[i].CreatedAt)
		}
		m.AverageCardAge = (total / time.Duration(len(cards))).Hours()
	}
	return m
}
