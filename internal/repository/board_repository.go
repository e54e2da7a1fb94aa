package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tasker/internal/model"
)

type BoardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

func (r *BoardRepository) Create(ctx context.Context, board *model.Board) error {
	return translateError(r.db.WithContext(ctx).Create(board).Error)
}

// GetByID retrieves a non-deleted board by its ID.
func (r *BoardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	var board model.Board
	err := r.db.WithContext(ctx).
		Where("id = ? AND status <> ?", id, model.BoardStatusDeleted).
		First(&board).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, err
	}
	return &board, nil
}

// GetByCompanyID retrieves the non-deleted boards of a company, newest first.
func (r *BoardRepository) GetByCompanyID(ctx context.Context, companyID uuid.UUID) ([]model.Board, error) {
	var boards []model.Board
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND status <> ?", companyID, model.BoardStatusDeleted).
		Order("created_at DESC").
		Find(&boards).Error
	return boards, err
}

// GetOwned retrieves the non-deleted boards owned by a user, newest first.
func (r *BoardRepository) GetOwned(ctx context.Context, ownerID uuid.UUID) ([]model.Board, error) {
	var boards []model.Board
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND status <> ?", ownerID, model.BoardStatusDeleted).
		Order("created_at DESC").
		Find(&boards).Error
	return boards, err
}

func (r *BoardRepository) Update(ctx context.Context, board *model.Board) error {
	result := r.db.WithContext(ctx).Save(board)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBoardNotFound
	}
	return nil
}

// SoftDelete marks a board deleted. The board's lists and cards are left in
// place; they are hidden because every child query starts from an active
// ancestor.
func (r *BoardRepository) SoftDelete(ctx context.Context, id, deletedBy uuid.UUID) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		board, err := lockBoard(tx, id)
		if err != nil {
			return err
		}
		now := time.Now()
		board.Status = model.BoardStatusDeleted
		board.DeletedAt = &now
		board.DeletedBy = &deletedBy
		return tx.Save(board).Error
	}))
}

// TransferOwnership moves the board to a new owner. The previous owner
// stays on the board as a member so existing admin references remain valid.
func (r *BoardRepository) TransferOwnership(ctx context.Context, id, newOwnerID uuid.UUID) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		board, err := lockBoard(tx, id)
		if err != nil {
			return err
		}
		if board.OwnerID == newOwnerID {
			return nil
		}
		previous := board.OwnerID
		board.OwnerID = newOwnerID
		if !containsMember(board.Members, previous) {
			board.Members = append(board.Members, previous)
		}
		if err := board.Validate(); err != nil {
			return err
		}
		return tx.Save(board).Error
	}))
}

// AddMember adds a user to the board's member set. Adding an existing
// member is rejected as a duplicate by validation.
func (r *BoardRepository) AddMember(ctx context.Context, id, userID uuid.UUID) (*model.Board, error) {
	return r.mutate(ctx, id, func(board *model.Board) error {
		board.Members = append(board.Members, userID)
		return nil
	})
}

// RemoveMember drops a user from the member set and, if present, from the
// admin set, keeping admins a subset of members.
func (r *BoardRepository) RemoveMember(ctx context.Context, id, userID uuid.UUID) (*model.Board, error) {
	return r.mutate(ctx, id, func(board *model.Board) error {
		board.Members = removeUUID(board.Members, userID)
		board.Admins = removeUUID(board.Admins, userID)
		return nil
	})
}

// PromoteAdmin grants the user board admin rights. The user must already be
// a member or the owner.
func (r *BoardRepository) PromoteAdmin(ctx context.Context, id, userID uuid.UUID) (*model.Board, error) {
	return r.mutate(ctx, id, func(board *model.Board) error {
		if !containsMember(board.Admins, userID) {
			board.Admins = append(board.Admins, userID)
		}
		return nil
	})
}

// DemoteAdmin revokes admin rights; demoting a non-admin is a no-op.
func (r *BoardRepository) DemoteAdmin(ctx context.Context, id, userID uuid.UUID) (*model.Board, error) {
	return r.mutate(ctx, id, func(board *model.Board) error {
		board.Admins = removeUUID(board.Admins, userID)
		return nil
	})
}

// mutate runs a read-modify-write on the locked board row, revalidating
// before the save so no invalid membership state ever commits.
func (r *BoardRepository) mutate(ctx context.Context, id uuid.UUID, fn func(*model.Board) error) (*model.Board, error) {
	var board *model.Board
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		board, err = lockBoard(tx, id)
		if err != nil {
			return err
		}
		if err := fn(board); err != nil {
			return err
		}
		if err := board.Validate(); err != nil {
			return err
		}
		return tx.Save(board).Error
	})
	if err != nil {
		return nil, translateError(err)
	}
	return board, nil
}

// lockBoard loads a non-deleted board under FOR UPDATE, serializing every
// mutation scoped to it.
func lockBoard(tx *gorm.DB, id uuid.UUID) (*model.Board, error) {
	var board model.Board
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND status <> ?", id, model.BoardStatusDeleted).
		First(&board).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, err
	}
	return &board, nil
}

func containsMember(set model.UUIDSet, id uuid.UUID) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}
	return false
}

func removeUUID(set model.UUIDSet, id uuid.UUID) model.UUIDSet {
	out := set[:0]
	for _, v := range set {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
