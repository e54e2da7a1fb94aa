package handler

import (
	"context"
	"math"
	"net/http"
	"time"

	"tasker/internal/metrics"
	"tasker/internal/model"
	"tasker/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ListHandler struct {
	listRepo  *repository.ListRepository
	boardRepo *repository.BoardRepository
	cardRepo  *repository.CardRepository
}

func NewListHandler(listRepo *repository.ListRepository, boardRepo *repository.BoardRepository, cardRepo *repository.CardRepository) *ListHandler {
	return &ListHandler{
		listRepo:  listRepo,
		boardRepo: boardRepo,
		cardRepo:  cardRepo,
	}
}

type CreateListRequest struct {
	BoardID   string `json:"board_id" binding:"required,uuid"`
	Name      string `json:"name" binding:"required"`
	Color     string `json:"color"`
	Position  *int   `json:"position"`
	CardLimit *int   `json:"card_limit"`
}

type UpdateListRequest struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	CardLimit *int   `json:"card_limit"`
	// ClearCardLimit removes the WIP limit; a null card_limit alone cannot
	// be told apart from an absent field.
	ClearCardLimit bool `json:"clear_card_limit"`
}

type MoveListRequest struct {
	Position *int `json:"position" binding:"required"`
}

// checkBoardAccess loads the board and verifies the caller may edit it.
func (h *ListHandler) checkBoardAccess(c *gin.Context, boardID, userID uuid.UUID) (*model.Board, bool) {
	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if !board.IsMember(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to modify this board"})
		return nil, false
	}
	return board, true
}

// Create inserts a new list at the requested position, or appends it when
// no position is given.
func (h *ListHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	boardID := uuid.MustParse(req.BoardID)
	if _, ok := h.checkBoardAccess(c, boardID, userID); !ok {
		return
	}

	list := &model.BoardList{
		BoardID:   boardID,
		Name:      req.Name,
		Color:     req.Color,
		CardLimit: req.CardLimit,
	}
	if err := list.Validate(); err != nil {
		respondError(c, err)
		return
	}

	desiredIndex := math.MaxInt // clamped to the end, so append by default
	if req.Position != nil {
		if *req.Position < 0 {
			respondError(c, repository.ErrInvalidIndex)
			return
		}
		desiredIndex = *req.Position
	}

	if err := h.listRepo.Insert(c.Request.Context(), list, desiredIndex); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, list)
}

func (h *ListHandler) GetByID(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	list, err := h.listRepo.GetByID(c.Request.Context(), listID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetByBoard returns the active lists of a board in position order; with
// ?archived=true it returns the archived ones instead.
func (h *ListHandler) GetByBoard(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var (
		lists []model.BoardList
		err   error
	)
	if c.Query("archived") == "true" {
		lists, err = h.listRepo.GetArchivedByBoardID(c.Request.Context(), boardID)
	} else {
		lists, err = h.listRepo.GetByBoardID(c.Request.Context(), boardID)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lists)
}

// Update changes list fields. Lowering the card limit below the current
// active card count is rejected so the limit invariant holds going forward.
func (h *ListHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	list, err := h.listRepo.GetByID(c.Request.Context(), listID)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, ok := h.checkBoardAccess(c, list.BoardID, userID); !ok {
		return
	}

	var req UpdateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Name != "" {
		list.Name = req.Name
	}
	if req.Color != "" {
		list.Color = req.Color
	}
	if req.ClearCardLimit {
		list.CardLimit = nil
	} else if req.CardLimit != nil {
		cards, err := h.cardRepo.GetByListID(c.Request.Context(), listID)
		if err != nil {
			respondError(c, err)
			return
		}
		if len(cards) > *req.CardLimit {
			respondError(c, repository.ErrWipLimitExceeded)
			return
		}
		list.CardLimit = req.CardLimit
	}

	if err := list.Validate(); err != nil {
		respondError(c, err)
		return
	}
	if err := h.listRepo.Update(c.Request.Context(), list); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Move reorders the list within its board.
func (h *ListHandler) Move(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req MoveListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	list, err := h.listRepo.GetByID(c.Request.Context(), listID)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, ok := h.checkBoardAccess(c, list.BoardID, userID); !ok {
		return
	}

	if err := h.listRepo.Move(c.Request.Context(), listID, *req.Position); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "List moved successfully"})
}

func (h *ListHandler) Archive(c *gin.Context) {
	h.lifecycleMutation(c, h.listRepo.Archive, "List archived successfully")
}

func (h *ListHandler) Unarchive(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	list, err := h.listRepo.GetByID(c.Request.Context(), listID)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, ok := h.checkBoardAccess(c, list.BoardID, userID); !ok {
		return
	}

	if err := h.listRepo.Unarchive(c.Request.Context(), listID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "List restored successfully"})
}

func (h *ListHandler) Delete(c *gin.Context) {
	h.lifecycleMutation(c, h.listRepo.Delete, "List deleted successfully")
}

// Reindex defensively renumbers a board's lists after bulk operations or
// detected drift.
func (h *ListHandler) Reindex(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := h.checkBoardAccess(c, boardID, userID); !ok {
		return
	}

	if err := h.listRepo.Reindex(c.Request.Context(), boardID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lists reindexed successfully"})
}

// Metrics returns the derived counters of a list, recomputed on every call.
func (h *ListHandler) Metrics(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	list, err := h.listRepo.GetByID(c.Request.Context(), listID)
	if err != nil {
		respondError(c, err)
		return
	}
	cards, err := h.cardRepo.GetByListID(c.Request.Context(), listID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, metrics.ComputeListMetrics(list, cards, time.Now()))
}

func (h *ListHandler) lifecycleMutation(c *gin.Context, op func(ctx context.Context, id uuid.UUID) error, message string) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	list, err := h.listRepo.GetByID(c.Request.Context(), listID)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, ok := h.checkBoardAccess(c, list.BoardID, userID); !ok {
		return
	}

	if err := op(c.Request.Context(), listID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}
