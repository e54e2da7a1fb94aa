package handler

import (
	"net/http"

	"tasker/internal/model"
	"tasker/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AttachmentHandler struct {
	attachmentRepo *repository.AttachmentRepository
	cardRepo       *repository.CardRepository
	listRepo       *repository.ListRepository
	boardRepo      *repository.BoardRepository
}

func NewAttachmentHandler(
	attachmentRepo *repository.AttachmentRepository,
	cardRepo *repository.CardRepository,
	listRepo *repository.ListRepository,
	boardRepo *repository.BoardRepository,
) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentRepo: attachmentRepo,
		cardRepo:       cardRepo,
		listRepo:       listRepo,
		boardRepo:      boardRepo,
	}
}

type CreateAttachmentRequest struct {
	Filename         string `json:"filename" binding:"required"`
	OriginalFilename string `json:"original_filename" binding:"required"`
	FilePath         string `json:"file_path" binding:"required"`
	FileSize         int64  `json:"file_size" binding:"required"`
	MimeType         string `json:"mime_type" binding:"required"`
}

func (h *AttachmentHandler) attachmentBoard(c *gin.Context, cardID uuid.UUID) (*model.Board, bool) {
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

// Create records an attachment on a card. The file itself is stored by the
// upload service; this endpoint persists its metadata.
func (h *AttachmentHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board, ok := h.attachmentBoard(c, cardID)
	if !ok {
		return
	}
	if !board.EnableAttachments {
		c.JSON(http.StatusForbidden, gin.H{"error": "Attachments are disabled on this board"})
		return
	}
	if !board.IsMember(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to attach files on this board"})
		return
	}

	attachment := &model.CardAttachment{
		CardID:           cardID,
		Filename:         req.Filename,
		OriginalFilename: req.OriginalFilename,
		FilePath:         req.FilePath,
		FileSize:         req.FileSize,
		MimeType:         req.MimeType,
		UploaderID:       userID,
		CreatedBy:        userID,
	}
	if err := attachment.Validate(); err != nil {
		respondError(c, err)
		return
	}
	if err := h.attachmentRepo.Create(c.Request.Context(), attachment); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, attachment)
}

// GetByCard lists a card's attachments, newest first.
func (h *AttachmentHandler) GetByCard(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	attachments, err := h.attachmentRepo.GetByCardID(c.Request.Context(), cardID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, attachments)
}

// Delete soft deletes an attachment. The uploader or a board admin may
// delete.
func (h *AttachmentHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	attachmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	attachment, err := h.attachmentRepo.GetByID(c.Request.Context(), attachmentID)
	if err != nil {
		respondError(c, err)
		return
	}

	if attachment.UploaderID != userID {
		board, ok := h.attachmentBoard(c, attachment.CardID)
		if !ok {
			return
		}
		if !board.IsAdmin(userID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the uploader or a board admin can delete an attachment"})
			return
		}
	}

	if err := h.attachmentRepo.Delete(c.Request.Context(), attachmentID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attachment deleted successfully"})
}
