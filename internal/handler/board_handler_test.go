package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tasker/internal/middleware"
	"tasker/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	return gormDB, mock
}

func TestBoardHandler_Update_RejectsDeletedStatus(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	h := NewBoardHandler(repository.NewBoardRepository(gormDB), repository.NewCardRepository(gormDB))

	boardID := uuid.New()
	ownerID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "boards" WHERE id = .* AND status <> .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "color", "company_id", "owner_id", "status", "visibility", "priority"}).
			AddRow(boardID.String(), "Roadmap", "#0079bf", uuid.New().String(), ownerID.String(), "active", "team", "medium"))

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.UserIDKey, ownerID)
	c.Params = gin.Params{{Key: "id", Value: boardID.String()}}
	c.Request = httptest.NewRequest(http.MethodPut, "/boards/"+boardID.String(),
		strings.NewReader(`{"status": "deleted"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	// Act
	h.Update(c)

	// Assert: deletion is refused and no update is issued.
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "delete endpoint")
	assert.NoError(t, mock.ExpectationsWereMet())
}
