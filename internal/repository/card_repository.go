package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tasker/internal/model"
)

// CardRepository maintains the cards of each list as a dense, zero-based
// position sequence and owns the card↔label association. The parent scope
// of a card mutation is its list: the list row is locked before any card
// positions are read, so concurrent mutations within one list serialize
// while different lists stay independent.
type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

// Insert adds the card at desiredIndex, clamped to [0, count], shifting the
// cards at or after it up by one. A non-nil card_limit on the list rejects
// the insert with ErrWipLimitExceeded unless allowOverride is set; archived
// cards never count against the limit. Fails with ErrInvalidParent if the
// list does not exist or is not active.
func (r *CardRepository) Insert(ctx context.Context, card *model.Card, desiredIndex int, allowOverride bool) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		list, err := lockList(tx, card.ListID)
		if err != nil {
			if errors.Is(err, ErrListNotFound) {
				return ErrInvalidParent
			}
			return err
		}

		count, err := countActiveCards(tx, list.ID)
		if err != nil {
			return err
		}
		if !allowOverride && list.CardLimit != nil && count+1 > *list.CardLimit {
			return ErrWipLimitExceeded
		}
		index := clampIndex(desiredIndex, count)

		if err := tx.Model(&model.Card{}).
			Where("list_id = ? AND lifecycle = ? AND position >= ?", list.ID, model.LifecycleActive, index).
			Update("position", gorm.Expr("position + 1")).Error; err != nil {
			return err
		}

		card.Position = index
		return tx.Create(card).Error
	}))
}

// GetByID retrieves a non-deleted card by its ID.
func (r *CardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	var card model.Card
	err := r.db.WithContext(ctx).
		Where("id = ? AND lifecycle <> ?", id, model.LifecycleDeleted).
		First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return &card, nil
}

// GetByListID retrieves the active cards of a list in position order.
func (r *CardRepository) GetByListID(ctx context.Context, listID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	err := r.db.WithContext(ctx).
		Where("list_id = ? AND lifecycle = ?", listID, model.LifecycleActive).
		Order("position").
		Find(&cards).Error
	return cards, err
}

// GetActiveByBoardID retrieves every active card on a board, joining
// through its active lists. Used by the board metrics snapshot.
func (r *CardRepository) GetActiveByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	err := r.db.WithContext(ctx).
		Joins("JOIN board_lists ON board_lists.id = cards.list_id").
		Where("board_lists.board_id = ? AND board_lists.lifecycle = ? AND cards.lifecycle = ?",
			boardID, model.LifecycleActive, model.LifecycleActive).
		Find(&cards).Error
	return cards, err
}

// Update saves field-level changes to a card. Position and list changes go
// through Move; a stale position in the struct is overwritten here on
// purpose so Update cannot break density.
func (r *CardRepository) Update(ctx context.Context, card *model.Card) error {
	result := r.db.WithContext(ctx).
		Model(&model.Card{}).
		Where("id = ? AND lifecycle <> ?", card.ID, model.LifecycleDeleted).
		Omit("position", "list_id").
		Select("*").
		Updates(card)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}

// Move reorders the card to newIndex, possibly into another list. The gap
// in the source list is closed and space opened in the target as one atomic
// step. Moving to the current index is a pure success with no timestamp
// refresh. Cross-list moves respect the target's card limit.
func (r *CardRepository) Move(ctx context.Context, id, targetListID uuid.UUID, newIndex int, allowOverride bool) error {
	if newIndex < 0 {
		return ErrInvalidIndex
	}
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		card, target, err := lockCardScope(tx, id, targetListID)
		if err != nil {
			return err
		}

		if card.ListID == target.ID {
			count, err := countActiveCards(tx, target.ID)
			if err != nil {
				return err
			}
			index := clampIndex(newIndex, count-1)
			if index == card.Position {
				return nil
			}
			if err := shiftBetween(tx, &model.Card{}, "list_id", target.ID, card.Position, index); err != nil {
				return err
			}
			return tx.Model(card).Update("position", index).Error
		}

		count, err := countActiveCards(tx, target.ID)
		if err != nil {
			return err
		}
		if !allowOverride && target.CardLimit != nil && count+1 > *target.CardLimit {
			return ErrWipLimitExceeded
		}
		index := clampIndex(newIndex, count)

		if err := closeGap(tx, &model.Card{}, "list_id", card.ListID, card.Position); err != nil {
			return err
		}
		if err := tx.Model(&model.Card{}).
			Where("list_id = ? AND lifecycle = ? AND position >= ?", target.ID, model.LifecycleActive, index).
			Update("position", gorm.Expr("position + 1")).Error; err != nil {
			return err
		}
		return tx.Model(card).Updates(map[string]interface{}{
			"list_id":  target.ID,
			"position": index,
		}).Error
	}))
}

// Archive removes the card from its list's dense sequence, closing the gap.
func (r *CardRepository) Archive(ctx context.Context, id uuid.UUID) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		card, err := lockCardHome(tx, id, model.LifecycleActive)
		if err != nil {
			return err
		}
		if err := closeGap(tx, &model.Card{}, "list_id", card.ListID, card.Position); err != nil {
			return err
		}
		now := time.Now()
		return tx.Model(card).Updates(map[string]interface{}{
			"lifecycle":   model.LifecycleArchived,
			"archived_at": &now,
			"position":    0,
		}).Error
	}))
}

// Unarchive restores the card at the end of its list. The card limit does
// not apply: restoring history must never be blocked by WIP policy.
func (r *CardRepository) Unarchive(ctx context.Context, id uuid.UUID) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		card, err := lockCardHome(tx, id, model.LifecycleArchived)
		if err != nil {
			return err
		}
		count, err := countActiveCards(tx, card.ListID)
		if err != nil {
			return err
		}
		return tx.Model(card).Updates(map[string]interface{}{
			"lifecycle":   model.LifecycleActive,
			"archived_at": nil,
			"position":    count,
		}).Error
	}))
}

// Delete soft-deletes the card and closes the position gap.
func (r *CardRepository) Delete(ctx context.Context, id, deletedBy uuid.UUID) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		card, err := lockCardHome(tx, id, model.LifecycleActive)
		if err != nil {
			return err
		}
		if err := closeGap(tx, &model.Card{}, "list_id", card.ListID, card.Position); err != nil {
			return err
		}
		now := time.Now()
		return tx.Model(card).Updates(map[string]interface{}{
			"lifecycle":  model.LifecycleDeleted,
			"deleted_at": &now,
			"deleted_by": &deletedBy,
		}).Error
	}))
}

// Reindex defensively renumbers the active cards of a list to 0..n-1 by
// their current ascending order.
func (r *CardRepository) Reindex(ctx context.Context, listID uuid.UUID) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockList(tx, listID); err != nil {
			return err
		}
		var cards []model.Card
		if err := tx.
			Where("list_id = ? AND lifecycle = ?", listID, model.LifecycleActive).
			Order("position").
			Find(&cards).Error; err != nil {
			return err
		}
		for i, card := range cards {
			if card.Position == i {
				continue
			}
			if err := tx.Model(&model.Card{}).Where("id = ?", card.ID).
				Update("position", i).Error; err != nil {
				return err
			}
		}
		return nil
	}))
}

// AddLabel attaches a label to a card. The label must belong to the same
// board as the card's list; attaching an already-attached label is a no-op
// success.
func (r *CardRepository) AddLabel(ctx context.Context, cardID, labelID, createdBy uuid.UUID) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var card model.Card
		if err := tx.Where("id = ? AND lifecycle <> ?", cardID, model.LifecycleDeleted).
			First(&card).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCardNotFound
			}
			return err
		}
		var list model.BoardList
		if err := tx.Where("id = ? AND lifecycle <> ?", card.ListID, model.LifecycleDeleted).
			First(&list).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrListNotFound
			}
			return err
		}
		var label model.Label
		if err := tx.Where("id = ? AND lifecycle <> ?", labelID, model.LifecycleDeleted).
			First(&label).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLabelNotFound
			}
			return err
		}
		if label.BoardID != list.BoardID {
			return ErrLabelNotFound
		}
		return tx.Exec(
			"INSERT INTO card_labels (id, card_id, label_id, created_at, created_by) VALUES (?, ?, ?, ?, ?) ON CONFLICT (card_id, label_id) DO NOTHING",
			uuid.New(), cardID, labelID, time.Now(), createdBy,
		).Error
	}))
}

// RemoveLabel detaches a label from a card; detaching an absent label is a
// no-op success.
func (r *CardRepository) RemoveLabel(ctx context.Context, cardID, labelID uuid.UUID) error {
	return translateError(r.db.WithContext(ctx).Exec(
		"DELETE FROM card_labels WHERE card_id = ? AND label_id = ?",
		cardID, labelID,
	).Error)
}

// CountLabelAssociations returns the number of association rows for a card.
func (r *CardRepository) CountLabelAssociations(ctx context.Context, cardID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CardLabel{}).
		Where("card_id = ?", cardID).
		Count(&count).Error
	return count, err
}

// lockList loads an active list under FOR UPDATE; it is the per-list mutex
// for card ordering.
func lockList(tx *gorm.DB, id uuid.UUID) (*model.BoardList, error) {
	var list model.BoardList
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND lifecycle = ?", id, model.LifecycleActive).
		First(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListNotFound
		}
		return nil, err
	}
	return &list, nil
}

// lockCardScope locks the card's source list and the target list, in id
// order when they differ so two opposite cross-list moves cannot deadlock,
// then re-reads the card under the locks. A card that changed lists between
// the first read and the locks surfaces as ErrConcurrencyConflict.
func lockCardScope(tx *gorm.DB, cardID, targetListID uuid.UUID) (*model.Card, *model.BoardList, error) {
	var probe model.Card
	err := tx.Select("list_id").
		Where("id = ? AND lifecycle = ?", cardID, model.LifecycleActive).
		First(&probe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCardNotFound
		}
		return nil, nil, err
	}

	ids := []uuid.UUID{probe.ListID}
	if targetListID != probe.ListID {
		ids = append(ids, targetListID)
		if strings.Compare(ids[0].String(), ids[1].String()) > 0 {
			ids[0], ids[1] = ids[1], ids[0]
		}
	}
	var target *model.BoardList
	for _, listID := range ids {
		list, err := lockList(tx, listID)
		if err != nil {
			if errors.Is(err, ErrListNotFound) && listID == targetListID {
				return nil, nil, ErrInvalidParent
			}
			return nil, nil, err
		}
		if list.ID == targetListID {
			target = list
		}
	}

	var card model.Card
	err = tx.Where("id = ? AND lifecycle = ?", cardID, model.LifecycleActive).
		First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCardNotFound
		}
		return nil, nil, err
	}
	// The unlocked read of list_id raced a concurrent move if it no longer
	// matches: the locks held here cover the wrong list, so bail out and let
	// the caller retry.
	if card.ListID != probe.ListID {
		return nil, nil, ErrConcurrencyConflict
	}
	return &card, target, nil
}

// lockCardHome locks the card's own list, then re-reads the card in the
// wanted lifecycle state under the lock.
func lockCardHome(tx *gorm.DB, cardID uuid.UUID, state model.Lifecycle) (*model.Card, error) {
	var probe model.Card
	err := tx.Select("list_id").
		Where("id = ? AND lifecycle = ?", cardID, state).
		First(&probe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	if _, err := lockList(tx, probe.ListID); err != nil {
		return nil, err
	}
	var card model.Card
	err = tx.Where("id = ? AND lifecycle = ?", cardID, state).
		First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	if card.ListID != probe.ListID {
		return nil, ErrConcurrencyConflict
	}
	return &card, nil
}

func countActiveCards(tx *gorm.DB, listID uuid.UUID) (int, error) {
	var count int64
	err := tx.Model(&model.Card{}).
		Where("list_id = ? AND lifecycle = ?", listID, model.LifecycleActive).
		Count(&count).Error
	return int(count), err
}
