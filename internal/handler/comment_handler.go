package handler

import (
	"net/http"

	"tasker/internal/model"
	"tasker/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CommentHandler struct {
	commentRepo *repository.CommentRepository
	cardRepo    *repository.CardRepository
	listRepo    *repository.ListRepository
	boardRepo   *repository.BoardRepository
}

func NewCommentHandler(
	commentRepo *repository.CommentRepository,
	cardRepo *repository.CardRepository,
	listRepo *repository.ListRepository,
	boardRepo *repository.BoardRepository,
) *CommentHandler {
	return &CommentHandler{
		commentRepo: commentRepo,
		cardRepo:    cardRepo,
		listRepo:    listRepo,
		boardRepo:   boardRepo,
	}
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// commentBoard walks card -> list -> board for access and toggle checks.
func (h *CommentHandler) commentBoard(c *gin.Context, cardID uuid.UUID) (*model.Board, bool) {
	card, err := h.cardRepo.GetByID(c.Request.Context(), cardID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	list, err := h.listRepo.GetByID(c.Request.Context(), card.ListID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	board, err := h.boardRepo.GetByID(c.Request.Context(), list.BoardID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return board, true
}

// Create posts a comment on a card.
func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board, ok := h.commentBoard(c, cardID)
	if !ok {
		return
	}
	if !board.EnableComments {
		c.JSON(http.StatusForbidden, gin.H{"error": "Comments are disabled on this board"})
		return
	}
	if !board.IsMember(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to comment on this board"})
		return
	}

	comment := &model.CardComment{
		CardID:   cardID,
		AuthorID: userID,
		Content:  req.Content,
	}
	if err := comment.Validate(); err != nil {
		respondError(c, err)
		return
	}
	if err := h.commentRepo.Create(c.Request.Context(), comment); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// GetByCard returns a card's comments ordered oldest first.
func (h *CommentHandler) GetByCard(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comments, err := h.commentRepo.GetByCardID(c.Request.Context(), cardID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// Update edits a comment's content. Only the author may edit, and editing
// marks the comment as edited.
func (h *CommentHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	comment, err := h.commentRepo.GetByID(c.Request.Context(), commentID)
	if err != nil {
		respondError(c, err)
		return
	}
	if comment.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can edit a comment"})
		return
	}

	if err := comment.Edit(req.Content); err != nil {
		respondError(c, err)
		return
	}
	if err := h.commentRepo.Update(c.Request.Context(), comment); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Delete removes a comment. The author or a board admin may delete.
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comment, err := h.commentRepo.GetByID(c.Request.Context(), commentID)
	if err != nil {
		respondError(c, err)
		return
	}

	if comment.AuthorID != userID {
		board, ok := h.commentBoard(c, comment.CardID)
		if !ok {
			return
		}
		if !board.IsAdmin(userID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the author or a board admin can delete a comment"})
			return
		}
	}

	if err := h.commentRepo.Delete(c.Request.Context(), commentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
