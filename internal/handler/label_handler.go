package handler

import (
	"net/http"

	"tasker/internal/model"
	"tasker/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LabelHandler struct {
	labelRepo *repository.LabelRepository
	boardRepo *repository.BoardRepository
}

func NewLabelHandler(labelRepo *repository.LabelRepository, boardRepo *repository.BoardRepository) *LabelHandler {
	return &LabelHandler{labelRepo: labelRepo, boardRepo: boardRepo}
}

type CreateLabelRequest struct {
	BoardID     string `json:"board_id" binding:"required,uuid"`
	Name        string `json:"name" binding:"required"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

type UpdateLabelRequest struct {
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	Description *string `json:"description"`
}

// labelBoard loads the board behind a label for access checks.
func (h *LabelHandler) labelBoard(c *gin.Context, boardID uuid.UUID, userID uuid.UUID) (*model.Board, bool) {
	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if !board.IsMember(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to manage labels on this board"})
		return nil, false
	}
	return board, true
}

// Create defines a label on a board. Names are unique per board among
// non-deleted labels.
func (h *LabelHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	boardID := uuid.MustParse(req.BoardID)
	board, ok := h.labelBoard(c, boardID, userID)
	if !ok {
		return
	}
	if !board.EnableLabels {
		c.JSON(http.StatusForbidden, gin.H{"error": "Labels are disabled on this board"})
		return
	}

	label := &model.Label{
		BoardID:     boardID,
		Name:        req.Name,
		Color:       req.Color,
		Description: req.Description,
		CreatedBy:   userID,
	}
	if err := label.Validate(); err != nil {
		respondError(c, err)
		return
	}
	if err := h.labelRepo.Create(c.Request.Context(), label); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, label)
}

func (h *LabelHandler) GetByID(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	labelID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	label, err := h.labelRepo.GetByID(c.Request.Context(), labelID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, label)
}

// GetByBoard lists a board's labels.
func (h *LabelHandler) GetByBoard(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	labels, err := h.labelRepo.GetByBoardID(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, labels)
}

// Update renames or recolors a label. A rename that collides with another
// label on the same board is rejected.
func (h *LabelHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	labelID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	label, err := h.labelRepo.GetByID(c.Request.Context(), labelID)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, ok := h.labelBoard(c, label.BoardID, userID); !ok {
		return
	}

	var req UpdateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Name != "" {
		label.Name = req.Name
	}
	if req.Color != "" {
		label.Color = req.Color
	}
	if req.Description != nil {
		label.Description = *req.Description
	}
	if err := label.Validate(); err != nil {
		respondError(c, err)
		return
	}
	if err := h.labelRepo.Update(c.Request.Context(), label); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, label)
}

// Delete soft deletes a label and detaches it from every card.
func (h *LabelHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	labelID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	label, err := h.labelRepo.GetByID(c.Request.Context(), labelID)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, ok := h.labelBoard(c, label.BoardID, userID); !ok {
		return
	}

	if err := h.labelRepo.Delete(c.Request.Context(), labelID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Label deleted successfully"})
}

// GetCards lists the cards a label is attached to.
func (h *LabelHandler) GetCards(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	labelID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cards, err := h.labelRepo.GetCardsWithLabel(c.Request.Context(), labelID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}
