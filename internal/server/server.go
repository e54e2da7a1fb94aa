package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tasker/internal/config"
	"tasker/internal/handler"
	"tasker/internal/middleware"
	"tasker/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	logrus.Info("✅ Connected to database")

	if err := runMigrations(db, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	// Setup Gin
	r := gin.Default()

	// Initialize repositories
	boardRepo := repository.NewBoardRepository(db)
	listRepo := repository.NewListRepository(db)
	cardRepo := repository.NewCardRepository(db)
	labelRepo := repository.NewLabelRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)

	// Initialize handlers
	boardHandler := handler.NewBoardHandler(boardRepo, cardRepo)
	listHandler := handler.NewListHandler(listRepo, boardRepo, cardRepo)
	cardHandler := handler.NewCardHandler(cardRepo, listRepo, boardRepo, labelRepo)
	labelHandler := handler.NewLabelHandler(labelRepo, boardRepo)
	commentHandler := handler.NewCommentHandler(commentRepo, cardRepo, listRepo, boardRepo)
	attachmentHandler := handler.NewAttachmentHandler(attachmentRepo, cardRepo, listRepo, boardRepo)

	// Public routes
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		// Board routes
		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/boards", boardHandler.GetAll)
		authorized.GET("/boards/:id", boardHandler.GetByID)
		authorized.PUT("/boards/:id", boardHandler.Update)
		authorized.DELETE("/boards/:id", boardHandler.Delete)
		authorized.POST("/boards/:id/transfer", boardHandler.TransferOwnership)
		authorized.GET("/boards/:id/metrics", boardHandler.Metrics)

		// Board membership routes
		authorized.POST("/boards/:id/members", boardHandler.AddMember)
		authorized.DELETE("/boards/:id/members/:user_id", boardHandler.RemoveMember)
		authorized.POST("/boards/:id/admins/:user_id", boardHandler.PromoteAdmin)
		authorized.DELETE("/boards/:id/admins/:user_id", boardHandler.DemoteAdmin)

		// List routes
		authorized.POST("/lists", listHandler.Create)
		authorized.GET("/lists/:id", listHandler.GetByID)
		authorized.GET("/boards/:id/lists", listHandler.GetByBoard)
		authorized.PUT("/lists/:id", listHandler.Update)
		authorized.DELETE("/lists/:id", listHandler.Delete)
		authorized.POST("/lists/:id/move", listHandler.Move)
		authorized.POST("/lists/:id/archive", listHandler.Archive)
		authorized.POST("/lists/:id/unarchive", listHandler.Unarchive)
		authorized.POST("/boards/:id/lists/reindex", listHandler.Reindex)
		authorized.GET("/lists/:id/metrics", listHandler.Metrics)

		// Card routes
		authorized.POST("/cards", cardHandler.Create)
		authorized.GET("/cards/:id", cardHandler.GetByID)
		authorized.GET("/lists/:id/cards", cardHandler.GetByList)
		authorized.PUT("/cards/:id", cardHandler.Update)
		authorized.DELETE("/cards/:id", cardHandler.Delete)
		authorized.POST("/cards/:id/move", cardHandler.Move)
		authorized.POST("/cards/:id/archive", cardHandler.Archive)
		authorized.POST("/cards/:id/unarchive", cardHandler.Unarchive)
		authorized.POST("/cards/:id/assign", cardHandler.Assign)
		authorized.DELETE("/cards/:id/assign", cardHandler.Unassign)
		authorized.POST("/cards/:id/watch", cardHandler.Watch)
		authorized.DELETE("/cards/:id/watch", cardHandler.Unwatch)
		authorized.POST("/cards/:id/labels/:label_id", cardHandler.AddLabel)
		authorized.DELETE("/cards/:id/labels/:label_id", cardHandler.RemoveLabel)
		authorized.GET("/cards/:id/labels", cardHandler.GetLabels)
		authorized.POST("/lists/:id/cards/reindex", cardHandler.Reindex)

		// Label routes
		authorized.POST("/labels", labelHandler.Create)
		authorized.GET("/labels/:id", labelHandler.GetByID)
		authorized.GET("/boards/:id/labels", labelHandler.GetByBoard)
		authorized.PUT("/labels/:id", labelHandler.Update)
		authorized.DELETE("/labels/:id", labelHandler.Delete)
		authorized.GET("/labels/:id/cards", labelHandler.GetCards)

		// Comment routes
		authorized.POST("/cards/:id/comments", commentHandler.Create)
		authorized.GET("/cards/:id/comments", commentHandler.GetByCard)
		authorized.PUT("/comments/:id", commentHandler.Update)
		authorized.DELETE("/comments/:id", commentHandler.Delete)

		// Attachment routes
		authorized.POST("/cards/:id/attachments", attachmentHandler.Create)
		authorized.GET("/cards/:id/attachments", attachmentHandler.GetByCard)
		authorized.DELETE("/attachments/:id", attachmentHandler.Delete)
	}
	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

// runMigrations applies any pending SQL migrations from the configured
// directory against the shared connection.
func runMigrations(db *gorm.DB, migrationsPath string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("❌ failed to access DB connection: %w", err)
	}
	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("❌ failed to create migration driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("❌ failed to initialize migrations: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("❌ failed to run migrations: %w", err)
	}
	logrus.Info("✅ Migrations applied")
	return nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		logrus.Infof("🚀 Server running on port %s", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("❌ Failed to listen: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	logrus.Info("✅ Server exited properly")
}
