package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tasker/internal/model"
)

// AttachmentRepository stores attachment metadata only; the bytes live in
// an external blob store.
type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) Create(ctx context.Context, attachment *model.CardAttachment) error {
	return translateError(r.db.WithContext(ctx).Create(attachment).Error)
}

func (r *AttachmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CardAttachment, error) {
	var attachment model.CardAttachment
	err := r.db.WithContext(ctx).
		Where("id = ? AND lifecycle <> ?", id, model.LifecycleDeleted).
		First(&attachment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttachmentNotFound
		}
		return nil, err
	}
	return &attachment, nil
}

// GetByCardID retrieves the non-deleted attachments of a card, newest first.
func (r *AttachmentRepository) GetByCardID(ctx context.Context, cardID uuid.UUID) ([]model.CardAttachment, error) {
	var attachments []model.CardAttachment
	err := r.db.WithContext(ctx).
		Where("card_id = ? AND lifecycle <> ?", cardID, model.LifecycleDeleted).
		Order("created_at DESC").
		Find(&attachments).Error
	return attachments, err
}

// Delete soft-deletes the attachment metadata. Blob cleanup is the external
// store's problem.
func (r *AttachmentRepository) Delete(ctx context.Context, id, deletedBy uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&model.CardAttachment{}).
		Where("id = ? AND lifecycle <> ?", id, model.LifecycleDeleted).
		Updates(map[string]interface{}{
			"lifecycle":  model.LifecycleDeleted,
			"deleted_at": &now,
			"deleted_by": &deletedBy,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAttachmentNotFound
	}
	return nil
}
