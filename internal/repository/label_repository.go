package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tasker/internal/model"
)

type LabelRepository struct {
	db *gorm.DB
}

func NewLabelRepository(db *gorm.DB) *LabelRepository {
	return &LabelRepository{db: db}
}

// Create adds a new label. The name must not collide, case-sensitively,
// with a non-deleted label on the same board; the check and the insert run
// in one transaction so a racing duplicate is caught either here or by the
// partial unique index underneath.
func (r *LabelRepository) Create(ctx context.Context, label *model.Label) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := nameTaken(tx, label.BoardID, label.Name, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateName
		}
		return tx.Create(label).Error
	}))
}

// GetByID retrieves a non-deleted label by its ID.
func (r *LabelRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Label, error) {
	var label model.Label
	err := r.db.WithContext(ctx).
		Where("id = ? AND lifecycle <> ?", id, model.LifecycleDeleted).
		First(&label).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLabelNotFound
		}
		return nil, err
	}
	return &label, nil
}

// GetByBoardID retrieves the non-deleted labels of a board by name.
func (r *LabelRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Label, error) {
	var labels []model.Label
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND lifecycle <> ?", boardID, model.LifecycleDeleted).
		Order("name").
		Find(&labels).Error
	return labels, err
}

// GetByCardID retrieves the labels attached to a card.
func (r *LabelRepository) GetByCardID(ctx context.Context, cardID uuid.UUID) ([]model.Label, error) {
	var labels []model.Label
	err := r.db.WithContext(ctx).
		Joins("JOIN card_labels ON card_labels.label_id = labels.id").
		Where("card_labels.card_id = ? AND labels.lifecycle <> ?", cardID, model.LifecycleDeleted).
		Order("labels.name").
		Find(&labels).Error
	return labels, err
}

// GetCardsWithLabel retrieves the active cards carrying a label.
func (r *LabelRepository) GetCardsWithLabel(ctx context.Context, labelID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	err := r.db.WithContext(ctx).
		Joins("JOIN card_labels ON card_labels.card_id = cards.id").
		Where("card_labels.label_id = ? AND cards.lifecycle = ?", labelID, model.LifecycleActive).
		Find(&cards).Error
	return cards, err
}

// Update saves label changes; a rename re-checks board-scoped uniqueness.
func (r *LabelRepository) Update(ctx context.Context, label *model.Label) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := nameTaken(tx, label.BoardID, label.Name, label.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateName
		}
		result := tx.Model(&model.Label{}).
			Where("id = ? AND lifecycle <> ?", label.ID, model.LifecycleDeleted).
			Select("name", "color", "description").
			Updates(label)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrLabelNotFound
		}
		return nil
	}))
}

// Delete soft-deletes the label and hard-removes its card associations.
// The name becomes reusable immediately because uniqueness only considers
// non-deleted labels.
func (r *LabelRepository) Delete(ctx context.Context, id, deletedBy uuid.UUID) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		result := tx.Model(&model.Label{}).
			Where("id = ? AND lifecycle <> ?", id, model.LifecycleDeleted).
			Updates(map[string]interface{}{
				"lifecycle":  model.LifecycleDeleted,
				"deleted_at": &now,
				"deleted_by": &deletedBy,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrLabelNotFound
		}
		return tx.Exec("DELETE FROM card_labels WHERE label_id = ?", id).Error
	}))
}

// nameTaken reports whether another non-deleted label on the board already
// uses the name. Comparison is exact, case included.
func nameTaken(tx *gorm.DB, boardID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	var count int64
	q := tx.Model(&model.Label{}).
		Where("board_id = ? AND name = ? AND lifecycle <> ?", boardID, name, model.LifecycleDeleted)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
