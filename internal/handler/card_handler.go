package handler

import (
	"math"
	"net/http"
	"time"

	"tasker/internal/model"
	"tasker/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CardHandler struct {
	cardRepo  *repository.CardRepository
	listRepo  *repository.ListRepository
	boardRepo *repository.BoardRepository
	labelRepo *repository.LabelRepository
}

func NewCardHandler(
	cardRepo *repository.CardRepository,
	listRepo *repository.ListRepository,
	boardRepo *repository.BoardRepository,
	labelRepo *repository.LabelRepository,
) *CardHandler {
	return &CardHandler{
		cardRepo:  cardRepo,
		listRepo:  listRepo,
		boardRepo: boardRepo,
		labelRepo: labelRepo,
	}
}

type CreateCardRequest struct {
	ListID        string     `json:"list_id" binding:"required,uuid"`
	Title         string     `json:"title" binding:"required"`
	Description   string     `json:"description"`
	AssigneeID    *string    `json:"assignee_id" binding:"omitempty,uuid"`
	Priority      string     `json:"priority"`
	DueDate       *time.Time `json:"due_date"`
	StartDate     *time.Time `json:"start_date"`
	Position      *int       `json:"position"`
	AllowOverride bool       `json:"allow_override"`
}

type UpdateCardRequest struct {
	Title              string     `json:"title"`
	Description        *string    `json:"description"`
	Status             string     `json:"status"`
	Priority           string     `json:"priority"`
	DueDate            *time.Time `json:"due_date"`
	ClearDueDate       bool       `json:"clear_due_date"`
	StartDate          *time.Time `json:"start_date"`
	ClearStartDate     bool       `json:"clear_start_date"`
	ChecklistItems     *int       `json:"checklist_items"`
	ChecklistCompleted *int       `json:"checklist_completed"`
}

type MoveCardRequest struct {
	ListID        string `json:"list_id" binding:"required,uuid"`
	Position      *int   `json:"position" binding:"required"`
	AllowOverride bool   `json:"allow_override"`
}

type AssignCardRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// boardForList resolves the owning board of a list for access and toggle
// checks.
func (h *CardHandler) boardForList(c *gin.Context, listID uuid.UUID) (*model.Board, *model.BoardList, bool) {
	list, err := h.listRepo.GetByID(c.Request.Context(), listID)
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}
	board, err := h.boardRepo.GetByID(c.Request.Context(), list.BoardID)
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}
	return board, list, true
}

// boardForCard walks card -> list -> board.
func (h *CardHandler) boardForCard(c *gin.Context, cardID uuid.UUID) (*model.Board, *model.Card, bool) {
	card, err := h.cardRepo.GetByID(c.Request.Context(), cardID)
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}
	board, _, ok := h.boardForList(c, card.ListID)
	if !ok {
		return nil, nil, false
	}
	return board, card, true
}

// Create inserts a new card; the caller becomes the reporter. Without an
// explicit position the card is appended to the list.
func (h *CardHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	listID := uuid.MustParse(req.ListID)
	board, _, ok := h.boardForList(c, listID)
	if !ok {
		return
	}
	if !board.IsMember(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to create cards on this board"})
		return
	}
	if req.DueDate != nil && !board.EnableDueDates {
		c.JSON(http.StatusForbidden, gin.H{"error": "Due dates are disabled on this board"})
		return
	}

	card := &model.Card{
		ListID:      listID,
		Title:       req.Title,
		Description: req.Description,
		ReporterID:  userID,
		Priority:    model.Priority(req.Priority),
		DueDate:     req.DueDate,
		StartDate:   req.StartDate,
		CreatedBy:   userID,
	}
	if req.AssigneeID != nil {
		id := uuid.MustParse(*req.AssigneeID)
		card.AssigneeID = &id
	}
	if err := card.Validate(); err != nil {
		respondError(c, err)
		return
	}

	desiredIndex := math.MaxInt
	if req.Position != nil {
		if *req.Position < 0 {
			respondError(c, repository.ErrInvalidIndex)
			return
		}
		desiredIndex = *req.Position
	}

	if err := h.cardRepo.Insert(c.Request.Context(), card, desiredIndex, req.AllowOverride); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

func (h *CardHandler) GetByID(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	card, err := h.cardRepo.GetByID(c.Request.Context(), cardID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// GetByList returns the active cards of a list in position order.
func (h *CardHandler) GetByList(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cards, err := h.cardRepo.GetByListID(c.Request.Context(), listID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

// Update changes card fields. Status transitions keep completed_at in sync
// and the checklist invariant is revalidated before anything is written.
func (h *CardHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	board, card, ok := h.boardForCard(c, cardID)
	if !ok {
		return
	}
	if !board.IsMember(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to update cards on this board"})
		return
	}

	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Title != "" {
		card.Title = req.Title
	}
	if req.Description != nil {
		card.Description = *req.Description
	}
	if req.Status != "" {
		if err := card.SetStatus(model.CardStatus(req.Status), time.Now()); err != nil {
			respondError(c, err)
			return
		}
	}
	if req.Priority != "" {
		card.Priority = model.Priority(req.Priority)
	}
	if req.ClearDueDate {
		card.DueDate = nil
	} else if req.DueDate != nil {
		if !board.EnableDueDates {
			c.JSON(http.StatusForbidden, gin.H{"error": "Due dates are disabled on this board"})
			return
		}
		card.DueDate = req.DueDate
	}
	if req.ClearStartDate {
		card.StartDate = nil
	} else if req.StartDate != nil {
		card.StartDate = req.StartDate
	}
	if req.ChecklistItems != nil {
		card.ChecklistItems = *req.ChecklistItems
	}
	if req.ChecklistCompleted != nil {
		card.ChecklistCompleted = *req.ChecklistCompleted
	}

	if err := card.Validate(); err != nil {
		respondError(c, err)
		return
	}
	if err := h.cardRepo.Update(c.Request.Context(), card); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// Move reorders the card, possibly across lists.
func (h *CardHandler) Move(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req MoveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board, _, ok := h.boardForCard(c, cardID)
	if !ok {
		return
	}
	if !board.IsMember(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to move cards on this board"})
		return
	}

	targetListID := uuid.MustParse(req.ListID)
	if err := h.cardRepo.Move(c.Request.Context(), cardID, targetListID, *req.Position, req.AllowOverride); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Card moved successfully"})
}

func (h *CardHandler) Archive(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	board, _, ok := h.boardForCard(c, cardID)
	if !ok {
		return
	}
	if !board.IsMember(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to archive cards on this board"})
		return
	}

	if err := h.cardRepo.Archive(c.Request.Context(), cardID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Card archived successfully"})
}

func (h *CardHandler) Unarchive(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	board, _, ok := h.boardForCard(c, cardID)
	if !ok {
		return
	}
	if !board.IsMember(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to restore cards on this board"})
		return
	}

	if err := h.cardRepo.Unarchive(c.Request.Context(), cardID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Card restored successfully"})
}

func (h *CardHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	board, _, ok := h.boardForCard(c, cardID)
	if !ok {
		return
	}
	if !board.IsMember(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to delete cards on this board"})
		return
	}

	if err := h.cardRepo.Delete(c.Request.Context(), cardID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Card deleted successfully"})
}

// Assign sets the card's assignee.
func (h *CardHandler) Assign(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AssignCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board, card, ok := h.boardForCard(c, cardID)
	if !ok {
		return
	}
	if !board.IsMember(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to assign cards on this board"})
		return
	}

	assigneeID := uuid.MustParse(req.UserID)
	card.AssigneeID = &assigneeID
	if err := h.cardRepo.Update(c.Request.Context(), card); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// Unassign clears the card's assignee.
func (h *CardHandler) Unassign(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	board, card, ok := h.boardForCard(c, cardID)
	if !ok {
		return
	}
	if !board.IsMember(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to assign cards on this board"})
		return
	}

	card.AssigneeID = nil
	if err := h.cardRepo.Update(c.Request.Context(), card); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// Watch adds the caller to the card's watcher set; idempotent.
func (h *CardHandler) Watch(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	_, card, ok := h.boardForCard(c, cardID)
	if !ok {
		return
	}
	card.Watch(userID)
	if err := h.cardRepo.Update(c.Request.Context(), card); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// Unwatch removes the caller from the card's watcher set; idempotent.
func (h *CardHandler) Unwatch(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	_, card, ok := h.boardForCard(c, cardID)
	if !ok {
		return
	}
	card.Unwatch(userID)
	if err := h.cardRepo.Update(c.Request.Context(), card); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// AddLabel attaches a board label to the card; attaching twice is a no-op
// success.
func (h *CardHandler) AddLabel(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	labelID, ok := parseIDParam(c, "label_id")
	if !ok {
		return
	}

	board, _, ok := h.boardForCard(c, cardID)
	if !ok {
		return
	}
	if !board.EnableLabels {
		c.JSON(http.StatusForbidden, gin.H{"error": "Labels are disabled on this board"})
		return
	}
	if !board.IsMember(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to label cards on this board"})
		return
	}

	if err := h.cardRepo.AddLabel(c.Request.Context(), cardID, labelID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Label added successfully"})
}

// RemoveLabel detaches a label from the card; removing an absent label is
// a no-op success.
func (h *CardHandler) RemoveLabel(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	labelID, ok := parseIDParam(c, "label_id")
	if !ok {
		return
	}

	board, _, ok := h.boardForCard(c, cardID)
	if !ok {
		return
	}
	if !board.IsMember(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to label cards on this board"})
		return
	}

	if err := h.cardRepo.RemoveLabel(c.Request.Context(), cardID, labelID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Label removed successfully"})
}

// GetLabels lists the labels attached to a card.
func (h *CardHandler) GetLabels(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	labels, err := h.labelRepo.GetByCardID(c.Request.Context(), cardID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, labels)
}

// Reindex defensively renumbers a list's cards.
func (h *CardHandler) Reindex(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	board, _, ok := h.boardForList(c, listID)
	if !ok {
		return
	}
	if !board.IsMember(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to modify this board"})
		return
	}

	if err := h.cardRepo.Reindex(c.Request.Context(), listID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cards reindexed successfully"})
}
