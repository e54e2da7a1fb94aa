package metrics_test

import (
	"testing"
	"time"

	"tasker/internal/metrics"
	"tasker/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC)

func cardDue(due time.Time, status model.CardStatus) model.Card {
	return model.Card{
		ID:         uuid.New(),
		ListID:     uuid.New(),
		Title:      "card",
		ReporterID: uuid.New(),
		Status:     status,
		DueDate:    &due,
	}
}

func TestIsOverdue(t *testing.T) {
	past := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2024, 12, 3, 0, 0, 0, 0, time.UTC)

	overdue := cardDue(past, model.CardStatusOpen)
	assert.True(t, metrics.IsOverdue(&overdue, now))

	notYet := cardDue(future, model.CardStatusOpen)
	assert.False(t, metrics.IsOverdue(&notYet, now))

	completed := cardDue(past, model.CardStatusCompleted)
	assert.False(t, metrics.IsOverdue(&completed, now))

	noDue := model.Card{Status: model.CardStatusOpen}
	assert.False(t, metrics.IsOverdue(&noDue, now))
}

func TestCompletionPercentage(t *testing.T) {
	card := model.Card{}
	assert.Equal(t, 0, metrics.CompletionPercentage(&card))

	card.ChecklistItems = 3
	card.ChecklistCompleted = 1
	assert.Equal(t, 33, metrics.CompletionPercentage(&card))

	card.ChecklistCompleted = 2
	assert.Equal(t, 67, metrics.CompletionPercentage(&card))

	card.ChecklistCompleted = 3
	assert.Equal(t, 100, metrics.CompletionPercentage(&card))
}

func TestComputeBoardMetrics_Empty(t *testing.T) {
	m := metrics.ComputeBoardMetrics(nil, now)

	assert.Equal(t, 0, m.TotalCards)
	assert.Equal(t, 0.0, m.CompletionRate)
	assert.Equal(t, 0, m.ActiveUsers)
}

func TestComputeBoardMetrics(t *testing.T) {
	past := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	reporter := uuid.New()
	assignee := uuid.New()

	open := cardDue(past, model.CardStatusOpen)
	open.ReporterID = reporter
	open.AssigneeID = &assignee

	done := cardDue(past, model.CardStatusCompleted)
	done.ReporterID = reporter

	m := metrics.ComputeBoardMetrics([]model.Card{open, done}, now)

	assert.Equal(t, 2, m.TotalCards)
	assert.Equal(t, 1, m.CompletedCards)
	assert.Equal(t, 0.5, m.CompletionRate)
	assert.Equal(t, 1, m.OverdueCards)
	// reporter plus assignee, counted once each
	assert.Equal(t, 2, m.ActiveUsers)
}

func TestComputeListMetrics_WipStatus(t *testing.T) {
	cards := []model.Card{
		{CreatedAt: now.Add(-2 * time.Hour)},
		{CreatedAt: now.Add(-4 * time.Hour)},
	}

	unbounded := &model.BoardList{}
	m := metrics.ComputeListMetrics(unbounded, cards, now)
	assert.Equal(t, metrics.WipUnbounded, m.WipStatus)
	assert.Equal(t, 2, m.CardCount)
	assert.Equal(t, 3.0, m.AverageCardAge)

	limit := 2
	within := &model.BoardList{CardLimit: &limit}
	m = metrics.ComputeListMetrics(within, cards, now)
	assert.Equal(t, metrics.WipWithinLimit, m.WipStatus)

	tight := 1
	over := &model.BoardList{CardLimit: &tight}
	m = metrics.ComputeListMetrics(over, cards, now)
	assert.Equal(t, metrics.WipOverLimit, m.WipStatus)
}

func TestComputeListMetrics_EmptyList(t *testing.T) {
	m := metrics.ComputeListMetrics(&model.BoardList{}, nil, now)

	assert.Equal(t, 0, m.CardCount)
	assert.Equal(t, 0.0, m.AverageCardAge)
	assert.Equal(t, metrics.WipUnbounded, m.WipStatus)
}
