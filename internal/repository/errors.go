package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Common repository errors
var (
	// ErrBoardNotFound is returned when a board is not found or is deleted
	ErrBoardNotFound = errors.New("board not found")

	// ErrListNotFound is returned when a board list is not found or is deleted
	ErrListNotFound = errors.New("list not found")

	// ErrCardNotFound is returned when a card is not found or is deleted
	ErrCardNotFound = errors.New("card not found")

	// ErrLabelNotFound is returned when a label is not found or is deleted
	ErrLabelNotFound = errors.New("label not found")

	// ErrCommentNotFound is returned when a comment is not found
	ErrCommentNotFound = errors.New("comment not found")

	// ErrAttachmentNotFound is returned when an attachment is not found or is deleted
	ErrAttachmentNotFound = errors.New("attachment not found")

	// ErrInvalidParent is returned when the parent scope of an ordered
	// collection does not exist or is not active
	ErrInvalidParent = errors.New("invalid parent")

	// ErrInvalidIndex is returned when a move targets a negative index
	ErrInvalidIndex = errors.New("invalid index")

	// ErrDuplicateName is returned when a label name collides with a
	// non-deleted label on the same board
	ErrDuplicateName = errors.New("duplicate label name")

	// ErrWipLimitExceeded is returned when an insert or move would push a
	// list past its card limit
	ErrWipLimitExceeded = errors.New("card limit exceeded")

	// ErrConcurrencyConflict is returned when a transaction on a parent
	// scope was aborted by a concurrent writer; callers should retry
	ErrConcurrencyConflict = errors.New("concurrent modification, retry")
)

// Postgres error codes that indicate the transaction lost a race.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgUniqueViolation      = "23505"
)

// translateError maps low-level postgres failures onto the repository
// error taxonomy. Call sites that use ON CONFLICT DO NOTHING never see a
// unique violation; everywhere else it means a name collision.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected:
			return ErrConcurrencyConflict
		case pgUniqueViolation:
			return ErrDuplicateName
		}
	}
	return err
}
