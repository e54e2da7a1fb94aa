package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tasker/internal/model"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *model.CardComment) error {
	return translateError(r.db.WithContext(ctx).Create(comment).Error)
}

func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CardComment, error) {
	var comment model.CardComment
	err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// GetByCardID retrieves the comments of a card, oldest first.
func (r *CommentRepository) GetByCardID(ctx context.Context, cardID uuid.UUID) ([]model.CardComment, error) {
	var comments []model.CardComment
	err := r.db.WithContext(ctx).
		Where("card_id = ?", cardID).
		Order("created_at").
		Find(&comments).Error
	return comments, err
}

func (r *CommentRepository) Update(ctx context.Context, comment *model.CardComment) error {
	result := r.db.WithContext(ctx).Save(comment)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// Delete hard-removes a comment; comments carry no soft-delete state.
func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.CardComment{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}
