package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tasker/internal/model"
)

// ListRepository maintains the board lists of a board as a dense, zero-based
// position sequence. Every mutation locks the owning board row first, so two
// concurrent reorders of the same board never interleave their shifts;
// reorders of different boards proceed independently.
type ListRepository struct {
	db *gorm.DB
}

func NewListRepository(db *gorm.DB) *ListRepository {
	return &ListRepository{db: db}
}

// Insert adds the list at desiredIndex, clamped to [0, count], shifting the
// lists at or after it up by one. Fails with ErrInvalidParent if the board
// does not exist or is not active.
func (r *ListRepository) Insert(ctx context.Context, list *model.BoardList, desiredIndex int) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		board, err := lockBoard(tx, list.BoardID)
		if err != nil {
			if errors.Is(err, ErrBoardNotFound) {
				return ErrInvalidParent
			}
			return err
		}
		if !board.Active() {
			return ErrInvalidParent
		}

		count, err := countActiveLists(tx, list.BoardID)
		if err != nil {
			return err
		}
		index := clampIndex(desiredIndex, count)

		if err := tx.Model(&model.BoardList{}).
			Where("board_id = ? AND lifecycle = ? AND position >= ?", list.BoardID, model.LifecycleActive, index).
			Update("position", gorm.Expr("position + 1")).Error; err != nil {
			return err
		}

		list.Position = index
		return tx.Create(list).Error
	}))
}

// GetByID retrieves a non-deleted list by its ID.
func (r *ListRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.BoardList, error) {
	var list model.BoardList
	err := r.db.WithContext(ctx).
		Where("id = ? AND lifecycle <> ?", id, model.LifecycleDeleted).
		First(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListNotFound
		}
		return nil, err
	}
	return &list, nil
}

// GetByBoardID retrieves the active lists of a board in position order.
func (r *ListRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.BoardList, error) {
	var lists []model.BoardList
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND lifecycle = ?", boardID, model.LifecycleActive).
		Order("position").
		Find(&lists).Error
	return lists, err
}

// GetArchivedByBoardID retrieves the archived lists of a board.
func (r *ListRepository) GetArchivedByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.BoardList, error) {
	var lists []model.BoardList
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND lifecycle = ?", boardID, model.LifecycleArchived).
		Order("archived_at DESC").
		Find(&lists).Error
	return lists, err
}

func (r *ListRepository) Update(ctx context.Context, list *model.BoardList) error {
	result := r.db.WithContext(ctx).Save(list)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrListNotFound
	}
	return nil
}

// Move reorders the list to newIndex within its board: the gap at the old
// position is closed and the list reinserted, all in one transaction. Moving
// to the current index is a pure success that touches nothing.
func (r *ListRepository) Move(ctx context.Context, id uuid.UUID, newIndex int) error {
	if newIndex < 0 {
		return ErrInvalidIndex
	}
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		list, err := lockListScope(tx, id)
		if err != nil {
			return err
		}

		count, err := countActiveLists(tx, list.BoardID)
		if err != nil {
			return err
		}
		index := clampIndex(newIndex, count-1)
		if index == list.Position {
			return nil
		}

		if err := shiftBetween(tx, &model.BoardList{}, "board_id", list.BoardID, list.Position, index); err != nil {
			return err
		}
		return tx.Model(list).Update("position", index).Error
	}))
}

// Archive removes the list from the dense sequence, closing the gap behind
// it. Its cards keep their positions and reappear with it on unarchive.
func (r *ListRepository) Archive(ctx context.Context, id uuid.UUID) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		list, err := lockListScope(tx, id)
		if err != nil {
			return err
		}
		if err := closeGap(tx, &model.BoardList{}, "board_id", list.BoardID, list.Position); err != nil {
			return err
		}
		now := time.Now()
		return tx.Model(list).Updates(map[string]interface{}{
			"lifecycle":   model.LifecycleArchived,
			"archived_at": &now,
			"position":    0,
		}).Error
	}))
}

// Unarchive restores the list at the end of the board's sequence.
func (r *ListRepository) Unarchive(ctx context.Context, id uuid.UUID) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var probe model.BoardList
		err := tx.Select("board_id").
			Where("id = ? AND lifecycle = ?", id, model.LifecycleArchived).
			First(&probe).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrListNotFound
			}
			return err
		}
		if _, err := lockBoard(tx, probe.BoardID); err != nil {
			return err
		}
		var list model.BoardList
		if err := tx.Where("id = ? AND lifecycle = ?", id, model.LifecycleArchived).
			First(&list).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrListNotFound
			}
			return err
		}
		count, err := countActiveLists(tx, list.BoardID)
		if err != nil {
			return err
		}
		return tx.Model(&list).Updates(map[string]interface{}{
			"lifecycle":   model.LifecycleActive,
			"archived_at": nil,
			"position":    count,
		}).Error
	}))
}

// Delete soft-deletes the list and closes the position gap so the remaining
// sequence stays dense.
func (r *ListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		list, err := lockListScope(tx, id)
		if err != nil {
			return err
		}
		if err := closeGap(tx, &model.BoardList{}, "board_id", list.BoardID, list.Position); err != nil {
			return err
		}
		now := time.Now()
		return tx.Model(list).Updates(map[string]interface{}{
			"lifecycle":  model.LifecycleDeleted,
			"deleted_at": &now,
		}).Error
	}))
}

// Reindex defensively renumbers the active lists of a board to 0..n-1 by
// their current ascending order.
func (r *ListRepository) Reindex(ctx context.Context, boardID uuid.UUID) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockBoard(tx, boardID); err != nil {
			return err
		}
		var lists []model.BoardList
		if err := tx.
			Where("board_id = ? AND lifecycle = ?", boardID, model.LifecycleActive).
			Order("position").
			Find(&lists).Error; err != nil {
			return err
		}
		for i, list := range lists {
			if list.Position == i {
				continue
			}
			if err := tx.Model(&model.BoardList{}).Where("id = ?", list.ID).
				Update("position", i).Error; err != nil {
				return err
			}
		}
		return nil
	}))
}

// CountActive returns the number of active lists on a board.
func (r *ListRepository) CountActive(ctx context.Context, boardID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.BoardList{}).
		Where("board_id = ? AND lifecycle = ?", boardID, model.LifecycleActive).
		Count(&count).Error
	return count, err
}

// lockListScope resolves the list's board, takes the board lock, then
// re-reads the list under it. The board row is always locked before any
// list row is touched, which keeps the lock order uniform with Insert and
// Reindex and rules out deadlocks between them.
func lockListScope(tx *gorm.DB, id uuid.UUID) (*model.BoardList, error) {
	var probe model.BoardList
	err := tx.Select("board_id").
		Where("id = ? AND lifecycle = ?", id, model.LifecycleActive).
		First(&probe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListNotFound
		}
		return nil, err
	}
	if _, err := lockBoard(tx, probe.BoardID); err != nil {
		return nil, err
	}
	var list model.BoardList
	err = tx.Where("id = ? AND lifecycle = ?", id, model.LifecycleActive).
		First(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListNotFound
		}
		return nil, err
	}
	return &list, nil
}

func countActiveLists(tx *gorm.DB, boardID uuid.UUID) (int, error) {
	var count int64
	err := tx.Model(&model.BoardList{}).
		Where("board_id = ? AND lifecycle = ?", boardID, model.LifecycleActive).
		Count(&count).Error
	return int(count), err
}

func clampIndex(index, max int) int {
	if index < 0 {
		return 0
	}
	if index > max {
		return max
	}
	return index
}

// closeGap shifts the active siblings after the vacated position down by one.
func closeGap(tx *gorm.DB, entity interface{}, parentColumn string, parentID uuid.UUID, position int) error {
	return tx.Model(entity).
		Where(parentColumn+" = ? AND lifecycle = ? AND position > ?", parentID, model.LifecycleActive, position).
		Update("position", gorm.Expr("position - 1")).Error
}

// shiftBetween moves the siblings between oldIndex and newIndex one step
// toward the vacated position, leaving newIndex free.
func shiftBetween(tx *gorm.DB, entity interface{}, parentColumn string, parentID uuid.UUID, oldIndex, newIndex int) error {
	if oldIndex < newIndex {
		return tx.Model(entity).
			Where(parentColumn+" = ? AND lifecycle = ? AND position > ? AND position <= ?",
				parentID, model.LifecycleActive, oldIndex, newIndex).
			Update("position", gorm.Expr("position - 1")).Error
	}
	return tx.Model(entity).
		Where(parentColumn+" = ? AND lifecycle = ? AND position >= ? AND position < ?",
			parentID, model.LifecycleActive, newIndex, oldIndex).
		Update("position", gorm.Expr("position + 1")).Error
}
