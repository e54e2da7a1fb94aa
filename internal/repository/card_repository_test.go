package repository_test

import (
	"context"
	"testing"

	"tasker/internal/model"
	"tasker/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestCardRepository_GetByID_Found(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB)

	cardID := uuid.New()
	listID := uuid.New()
	reporterID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "cards" WHERE id = .* AND lifecycle <> .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "list_id", "title", "position", "reporter_id", "status", "priority", "lifecycle"}).
			AddRow(cardID.String(), listID.String(), "Fix login flow", 2, reporterID.String(), "open", "medium", "active"))

	// Act
	card, err := cardRepo.GetByID(context.Background(), cardID)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, card)
	assert.Equal(t, cardID, card.ID)
	assert.Equal(t, listID, card.ListID)
	assert.Equal(t, 2, card.Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_GetByID_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "cards" WHERE id = .* AND lifecycle <> .*`).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	card, err := cardRepo.GetByID(context.Background(), uuid.New())

	// Assert
	assert.ErrorIs(t, err, repository.ErrCardNotFound)
	assert.Nil(t, card)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_GetByListID_OrderedByPosition(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB)

	listID := uuid.New()
	firstID := uuid.New()
	secondID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "cards" WHERE list_id = .* AND lifecycle = .* ORDER BY position`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "list_id", "title", "position", "lifecycle"}).
			AddRow(firstID.String(), listID.String(), "First", 0, "active").
			AddRow(secondID.String(), listID.String(), "Second", 1, "active"))

	// Act
	cards, err := cardRepo.GetByListID(context.Background(), listID)

	// Assert
	assert.NoError(t, err)
	assert.Len(t, cards, 2)
	assert.Equal(t, 0, cards[0].Position)
	assert.Equal(t, 1, cards[1].Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_Insert_AppendsAtEnd(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB)

	listID := uuid.New()
	card := &model.Card{
		ListID:     listID,
		Title:      "New card",
		Status:     model.CardStatusOpen,
		Priority:   model.PriorityMedium,
		Lifecycle:  model.LifecycleActive,
		ReporterID: uuid.New(),
		CreatedBy:  uuid.New(),
	}

	mock.ExpectBegin()
	// list row locked before any positions are read
	mock.ExpectQuery(`SELECT \* FROM "board_lists" WHERE id = .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id", "name", "color", "position", "lifecycle"}).
			AddRow(listID.String(), uuid.New().String(), "Todo", "#026aa7", 0, "active"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "cards"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec(`UPDATE "cards" SET .*position \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO "cards"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	// Act: an out-of-range index clamps to the end of the sequence
	err := cardRepo.Insert(context.Background(), card, 99, false)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 2, card.Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_Insert_WipLimitExceeded(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB)

	listID := uuid.New()
	card := &model.Card{
		ListID:     listID,
		Title:      "One too many",
		Status:     model.CardStatusOpen,
		Priority:   model.PriorityMedium,
		Lifecycle:  model.LifecycleActive,
		ReporterID: uuid.New(),
		CreatedBy:  uuid.New(),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "board_lists" WHERE id = .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id", "name", "color", "position", "lifecycle", "card_limit"}).
			AddRow(listID.String(), uuid.New().String(), "Doing", "#026aa7", 0, "active", 1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "cards"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	// Act
	err := cardRepo.Insert(context.Background(), card, 0, false)

	// Assert
	assert.ErrorIs(t, err, repository.ErrWipLimitExceeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_Insert_AllowOverride(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB)

	listID := uuid.New()
	card := &model.Card{
		ListID:     listID,
		Title:      "Override",
		Status:     model.CardStatusOpen,
		Priority:   model.PriorityMedium,
		Lifecycle:  model.LifecycleActive,
		ReporterID: uuid.New(),
		CreatedBy:  uuid.New(),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "board_lists" WHERE id = .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id", "name", "color", "position", "lifecycle", "card_limit"}).
			AddRow(listID.String(), uuid.New().String(), "Doing", "#026aa7", 0, "active", 1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "cards"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`UPDATE "cards" SET .*position \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO "cards"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	// Act
	err := cardRepo.Insert(context.Background(), card, 1, true)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 1, card.Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_Move_NegativeIndex(t *testing.T) {
	// Arrange
	gormDB, _ := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB)

	// Act
	err := cardRepo.Move(context.Background(), uuid.New(), uuid.New(), -1, false)

	// Assert: rejected before any SQL runs
	assert.ErrorIs(t, err, repository.ErrInvalidIndex)
}

func TestCardRepository_Move_MissingCard(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "list_id" FROM "cards" WHERE id = .* AND lifecycle = .*`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectRollback()

	// Act
	err := cardRepo.Move(context.Background(), uuid.New(), uuid.New(), 0, false)

	// Assert
	assert.ErrorIs(t, err, repository.ErrCardNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_Update_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB)

	card := &model.Card{
		ID:         uuid.New(),
		ListID:     uuid.New(),
		Title:      "Gone",
		ReporterID: uuid.New(),
		CreatedBy:  uuid.New(),
	}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "cards" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// Act
	err := cardRepo.Update(context.Background(), card)

	// Assert
	assert.ErrorIs(t, err, repository.ErrCardNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_RemoveLabel_AbsentIsNoop(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB)

	mock.ExpectExec(`DELETE FROM card_labels WHERE card_id = .* AND label_id = .*`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Act
	err := cardRepo.RemoveLabel(context.Background(), uuid.New(), uuid.New())

	// Assert: zero rows affected is still success
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_Move_SameListTowardEnd(t *testing.T) {
	// Arrange: card at position 0 moves to position 2 within its list, so
	// the cards at 1 and 2 slide down by one.
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB)

	cardID := uuid.New()
	listID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "list_id" FROM "cards" WHERE id = .* AND lifecycle = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"list_id"}).AddRow(listID.String()))
	mock.ExpectQuery(`SELECT \* FROM "board_lists" WHERE id = .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id", "name", "color", "position", "lifecycle"}).
			AddRow(listID.String(), uuid.New().String(), "Todo", "#026aa7", 0, "active"))
	mock.ExpectQuery(`SELECT \* FROM "cards" WHERE id = .* AND lifecycle = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "list_id", "title", "position", "lifecycle"}).
			AddRow(cardID.String(), listID.String(), "Mover", 0, "active"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "cards"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectExec(`UPDATE "cards" SET .*position - 1.* WHERE list_id = .* AND lifecycle = .* AND position > .* AND position <= .*`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE "cards" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := cardRepo.Move(context.Background(), cardID, listID, 2, false)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_Move_SameListTowardStart(t *testing.T) {
	// Arrange: card at position 2 moves to position 0, so the cards at 0
	// and 1 slide up by one.
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB)

	cardID := uuid.New()
	listID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "list_id" FROM "cards" WHERE id = .* AND lifecycle = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"list_id"}).AddRow(listID.String()))
	mock.ExpectQuery(`SELECT \* FROM "board_lists" WHERE id = .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id", "name", "color", "position", "lifecycle"}).
			AddRow(listID.String(), uuid.New().String(), "Todo", "#026aa7", 0, "active"))
	mock.ExpectQuery(`SELECT \* FROM "cards" WHERE id = .* AND lifecycle = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "list_id", "title", "position", "lifecycle"}).
			AddRow(cardID.String(), listID.String(), "Mover", 2, "active"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "cards"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectExec(`UPDATE "cards" SET .*position \+ 1.* WHERE list_id = .* AND lifecycle = .* AND position >= .* AND position < .*`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE "cards" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := cardRepo.Move(context.Background(), cardID, listID, 0, false)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_Move_SameIndexTouchesNothing(t *testing.T) {
	// Arrange: the target index equals the current position, so no shift
	// and no position write may happen.
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB)

	cardID := uuid.New()
	listID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "list_id" FROM "cards" WHERE id = .* AND lifecycle = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"list_id"}).AddRow(listID.String()))
	mock.ExpectQuery(`SELECT \* FROM "board_lists" WHERE id = .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id", "name", "color", "position", "lifecycle"}).
			AddRow(listID.String(), uuid.New().String(), "Todo", "#026aa7", 0, "active"))
	mock.ExpectQuery(`SELECT \* FROM "cards" WHERE id = .* AND lifecycle = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "list_id", "title", "position", "lifecycle"}).
			AddRow(cardID.String(), listID.String(), "Stayer", 1, "active"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "cards"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectCommit()

	// Act
	err := cardRepo.Move(context.Background(), cardID, listID, 1, false)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_Move_CardRelocatedConcurrently(t *testing.T) {
	// Arrange: the card's list changed between the unlocked read and the
	// re-read under the list lock, so the move must give up rather than
	// renumber a list it does not hold.
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB)

	cardID := uuid.New()
	listID := uuid.New()
	otherListID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "list_id" FROM "cards" WHERE id = .* AND lifecycle = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"list_id"}).AddRow(listID.String()))
	mock.ExpectQuery(`SELECT \* FROM "board_lists" WHERE id = .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id", "name", "color", "position", "lifecycle"}).
			AddRow(listID.String(), uuid.New().String(), "Todo", "#026aa7", 0, "active"))
	mock.ExpectQuery(`SELECT \* FROM "cards" WHERE id = .* AND lifecycle = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "list_id", "title", "position", "lifecycle"}).
			AddRow(cardID.String(), otherListID.String(), "Mover", 0, "active"))
	mock.ExpectRollback()

	// Act
	err := cardRepo.Move(context.Background(), cardID, listID, 1, false)

	// Assert
	assert.ErrorIs(t, err, repository.ErrConcurrencyConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_Archive_CardRelocatedConcurrently(t *testing.T) {
	// Arrange: same race on the single-list path. The held lock covers the
	// stale list, so the gap close would corrupt the card's real home.
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB)

	cardID := uuid.New()
	listID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "list_id" FROM "cards" WHERE id = .* AND lifecycle = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"list_id"}).AddRow(listID.String()))
	mock.ExpectQuery(`SELECT \* FROM "board_lists" WHERE id = .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id", "name", "color", "position", "lifecycle"}).
			AddRow(listID.String(), uuid.New().String(), "Todo", "#026aa7", 0, "active"))
	mock.ExpectQuery(`SELECT \* FROM "cards" WHERE id = .* AND lifecycle = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "list_id", "title", "position", "lifecycle"}).
			AddRow(cardID.String(), uuid.New().String(), "Mover", 0, "active"))
	mock.ExpectRollback()

	// Act
	err := cardRepo.Archive(context.Background(), cardID)

	// Assert
	assert.ErrorIs(t, err, repository.ErrConcurrencyConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_Delete_ClosesGap(t *testing.T) {
	// Arrange: deleting the card at position 1 shifts the cards after it
	// down by one before the lifecycle flips.
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB)

	cardID := uuid.New()
	listID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "list_id" FROM "cards" WHERE id = .* AND lifecycle = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"list_id"}).AddRow(listID.String()))
	mock.ExpectQuery(`SELECT \* FROM "board_lists" WHERE id = .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id", "name", "color", "position", "lifecycle"}).
			AddRow(listID.String(), uuid.New().String(), "Todo", "#026aa7", 0, "active"))
	mock.ExpectQuery(`SELECT \* FROM "cards" WHERE id = .* AND lifecycle = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "list_id", "title", "position", "lifecycle"}).
			AddRow(cardID.String(), listID.String(), "Going away", 1, "active"))
	mock.ExpectExec(`UPDATE "cards" SET .*position - 1.* WHERE list_id = .* AND lifecycle = .* AND position > .*`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "cards" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := cardRepo.Delete(context.Background(), cardID, uuid.New())

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_AddLabel_SameBoard(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB)

	cardID := uuid.New()
	listID := uuid.New()
	labelID := uuid.New()
	boardID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "cards" WHERE id = .* AND lifecycle <> .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "list_id", "title", "position", "lifecycle"}).
			AddRow(cardID.String(), listID.String(), "Tagged", 0, "active"))
	mock.ExpectQuery(`SELECT \* FROM "board_lists" WHERE id = .* AND lifecycle <> .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id", "name", "color", "position", "lifecycle"}).
			AddRow(listID.String(), boardID.String(), "Todo", "#026aa7", 0, "active"))
	mock.ExpectQuery(`SELECT \* FROM "labels" WHERE id = .* AND lifecycle <> .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id", "name", "color", "lifecycle"}).
			AddRow(labelID.String(), boardID.String(), "bug", "#61bd4f", "active"))
	mock.ExpectExec(`INSERT INTO card_labels .* ON CONFLICT \(card_id, label_id\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := cardRepo.AddLabel(context.Background(), cardID, labelID, uuid.New())

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_AddLabel_BoardMismatch(t *testing.T) {
	// Arrange: the label lives on another board, so from this card's
	// point of view it does not exist.
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB)

	cardID := uuid.New()
	listID := uuid.New()
	labelID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "cards" WHERE id = .* AND lifecycle <> .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "list_id", "title", "position", "lifecycle"}).
			AddRow(cardID.String(), listID.String(), "Tagged", 0, "active"))
	mock.ExpectQuery(`SELECT \* FROM "board_lists" WHERE id = .* AND lifecycle <> .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id", "name", "color", "position", "lifecycle"}).
			AddRow(listID.String(), uuid.New().String(), "Todo", "#026aa7", 0, "active"))
	mock.ExpectQuery(`SELECT \* FROM "labels" WHERE id = .* AND lifecycle <> .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id", "name", "color", "lifecycle"}).
			AddRow(labelID.String(), uuid.New().String(), "bug", "#61bd4f", "active"))
	mock.ExpectRollback()

	// Act
	err := cardRepo.AddLabel(context.Background(), cardID, labelID, uuid.New())

	// Assert
	assert.ErrorIs(t, err, repository.ErrLabelNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_AddLabel_AlreadyAttachedIsNoop(t *testing.T) {
	// Arrange: the unique pair already exists; ON CONFLICT swallows the
	// insert and the call still succeeds.
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB)

	cardID := uuid.New()
	listID := uuid.New()
	labelID := uuid.New()
	boardID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "cards" WHERE id = .* AND lifecycle <> .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "list_id", "title", "position", "lifecycle"}).
			AddRow(cardID.String(), listID.String(), "Tagged", 0, "active"))
	mock.ExpectQuery(`SELECT \* FROM "board_lists" WHERE id = .* AND lifecycle <> .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id", "name", "color", "position", "lifecycle"}).
			AddRow(listID.String(), boardID.String(), "Todo", "#026aa7", 0, "active"))
	mock.ExpectQuery(`SELECT \* FROM "labels" WHERE id = .* AND lifecycle <> .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id", "name", "color", "lifecycle"}).
			AddRow(labelID.String(), boardID.String(), "bug", "#61bd4f", "active"))
	mock.ExpectExec(`INSERT INTO card_labels .* ON CONFLICT \(card_id, label_id\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// Act
	err := cardRepo.AddLabel(context.Background(), cardID, labelID, uuid.New())

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
