package handler

import (
	"context"
	"net/http"
	"time"

	"tasker/internal/metrics"
	"tasker/internal/model"
	"tasker/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BoardHandler struct {
	boardRepo *repository.BoardRepository
	cardRepo  *repository.CardRepository
}

func NewBoardHandler(boardRepo *repository.BoardRepository, cardRepo *repository.CardRepository) *BoardHandler {
	return &BoardHandler{
		boardRepo: boardRepo,
		cardRepo:  cardRepo,
	}
}

type CreateBoardRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Color        string  `json:"color"`
	CompanyID    string  `json:"company_id" binding:"required,uuid"`
	BranchID     *string `json:"branch_id" binding:"omitempty,uuid"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	TeamID       *string `json:"team_id" binding:"omitempty,uuid"`
	Visibility   string  `json:"visibility"`
	Priority     string  `json:"priority"`
}

type UpdateBoardRequest struct {
	Name              string  `json:"name"`
	Description       *string `json:"description"`
	Color             string  `json:"color"`
	Status            string  `json:"status"`
	Visibility        string  `json:"visibility"`
	Priority          string  `json:"priority"`
	EnableComments    *bool   `json:"enable_comments"`
	EnableAttachments *bool   `json:"enable_attachments"`
	EnableDueDates    *bool   `json:"enable_due_dates"`
	EnableLabels      *bool   `json:"enable_labels"`
}

type BoardMemberRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

type TransferOwnershipRequest struct {
	NewOwnerID string `json:"new_owner_id" binding:"required,uuid"`
}

// Create creates a new board owned by the caller.
func (h *BoardHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company ID format"})
		return
	}

	board := &model.Board{
		Name:              req.Name,
		Description:       req.Description,
		Color:             req.Color,
		CompanyID:         companyID,
		OwnerID:           userID,
		Visibility:        model.BoardVisibility(req.Visibility),
		Priority:          model.Priority(req.Priority),
		EnableComments:    true,
		EnableAttachments: true,
		EnableDueDates:    true,
		EnableLabels:      true,
		CreatedBy:         userID,
	}
	if req.BranchID != nil {
		id := uuid.MustParse(*req.BranchID)
		board.BranchID = &id
	}
	if req.DepartmentID != nil {
		id := uuid.MustParse(*req.DepartmentID)
		board.DepartmentID = &id
	}
	if req.TeamID != nil {
		id := uuid.MustParse(*req.TeamID)
		board.TeamID = &id
	}

	if err := board.Validate(); err != nil {
		respondError(c, err)
		return
	}

	if err := h.boardRepo.Create(c.Request.Context(), board); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, board)
}

// GetByID returns a board the caller can see.
func (h *BoardHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err)
		return
	}

	if board.Visibility == model.VisibilityPrivate && !board.IsMember(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to view this board"})
		return
	}

	c.JSON(http.StatusOK, board)
}

// GetAll returns boards owned by the caller, or the boards of a company
// when the company_id query parameter is set. An optional status query
// parameter narrows the result to one board status.
func (h *BoardHandler) GetAll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	status := model.BoardStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return
	}

	var (
		boards []model.Board
		err    error
	)
	if companyParam := c.Query("company_id"); companyParam != "" {
		companyID, perr := uuid.Parse(companyParam)
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company ID format"})
			return
		}
		boards, err = h.boardRepo.GetByCompanyID(c.Request.Context(), companyID)
	} else {
		boards, err = h.boardRepo.GetOwned(c.Request.Context(), userID)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	if status != "" {
		filtered := boards[:0]
		for _, b := range boards {
			if b.Status == status {
				filtered = append(filtered, b)
			}
		}
		boards = filtered
	}
	c.JSON(http.StatusOK, boards)
}

// Update changes board fields. Only board admins may update; ownership and
// membership are changed through their dedicated operations.
func (h *BoardHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !board.IsAdmin(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to update this board"})
		return
	}

	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Name != "" {
		board.Name = req.Name
	}
	if req.Description != nil {
		board.Description = *req.Description
	}
	if req.Color != "" {
		board.Color = req.Color
	}
	if req.Status != "" {
		// Deletion goes through the delete endpoint, which records the
		// deleted_at and deleted_by audit fields.
		if model.BoardStatus(req.Status) == model.BoardStatusDeleted {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Use the delete endpoint to delete a board"})
			return
		}
		board.Status = model.BoardStatus(req.Status)
	}
	if req.Visibility != "" {
		board.Visibility = model.BoardVisibility(req.Visibility)
	}
	if req.Priority != "" {
		board.Priority = model.Priority(req.Priority)
	}
	if req.EnableComments != nil {
		board.EnableComments = *req.EnableComments
	}
	if req.EnableAttachments != nil {
		board.EnableAttachments = *req.EnableAttachments
	}
	if req.EnableDueDates != nil {
		board.EnableDueDates = *req.EnableDueDates
	}
	if req.EnableLabels != nil {
		board.EnableLabels = *req.EnableLabels
	}

	if err := board.Validate(); err != nil {
		respondError(c, err)
		return
	}
	if err := h.boardRepo.Update(c.Request.Context(), board); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, board)
}

// Delete soft-deletes a board. Owner only.
func (h *BoardHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	if board.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can delete a board"})
		return
	}

	if err := h.boardRepo.SoftDelete(c.Request.Context(), boardID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Board deleted successfully"})
}

// TransferOwnership hands the board to a new owner. Owner only.
func (h *BoardHandler) TransferOwnership(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req TransferOwnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	if board.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can transfer a board"})
		return
	}

	newOwnerID := uuid.MustParse(req.NewOwnerID)
	if err := h.boardRepo.TransferOwnership(c.Request.Context(), boardID, newOwnerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ownership transferred successfully"})
}

// AddMember adds a user to the board. Admin only.
func (h *BoardHandler) AddMember(c *gin.Context) {
	h.memberMutation(c, h.boardRepo.AddMember)
}

// RemoveMember drops a user from the board. Admin only.
func (h *BoardHandler) RemoveMember(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	memberID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !board.IsAdmin(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to manage members"})
		return
	}

	updated, err := h.boardRepo.RemoveMember(c.Request.Context(), boardID, memberID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// PromoteAdmin makes a member an admin. Owner only.
func (h *BoardHandler) PromoteAdmin(c *gin.Context) {
	h.adminMutation(c, h.boardRepo.PromoteAdmin)
}

// DemoteAdmin revokes a member's admin rights. Owner only.
func (h *BoardHandler) DemoteAdmin(c *gin.Context) {
	h.adminMutation(c, h.boardRepo.DemoteAdmin)
}

// Metrics returns the derived aggregate counters for a board, recomputed
// from the current card snapshot on every call.
func (h *BoardHandler) Metrics(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	if board.Visibility == model.VisibilityPrivate && !board.IsMember(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to view this board"})
		return
	}

	cards, err := h.cardRepo.GetActiveByBoardID(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, metrics.ComputeBoardMetrics(cards, time.Now()))
}

func (h *BoardHandler) memberMutation(c *gin.Context, op func(ctx context.Context, id, userID uuid.UUID) (*model.Board, error)) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req BoardMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !board.IsAdmin(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to manage members"})
		return
	}

	updated, err := op(c.Request.Context(), boardID, uuid.MustParse(req.UserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *BoardHandler) adminMutation(c *gin.Context, op func(ctx context.Context, id, userID uuid.UUID) (*model.Board, error)) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	if board.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can manage admins"})
		return
	}

	updated, err := op(c.Request.Context(), boardID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
