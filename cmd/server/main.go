package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/expenseflow/approval-engine/internal/application/service"
	"github.com/expenseflow/approval-engine/internal/config"
	"github.com/expenseflow/approval-engine/internal/domain/workflow"
	"github.com/expenseflow/approval-engine/internal/httpapi"
	"github.com/expenseflow/approval-engine/internal/infrastructure/persistence/repository"
	"github.com/expenseflow/approval-engine/internal/report"
	"github.com/expenseflow/approval-engine/pkg/database"
	"github.com/expenseflow/approval-engine/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Expense Approval Workflow Engine",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	// Initialize database
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	claimRepo := repository.NewClaimRepository(db.DB, logger)
	ruleRepo := repository.NewRuleRepository(db.DB, logger)
	actionRepo := repository.NewActionRepository(db.DB, logger)
	userRepo := repository.NewUserRepository(db.DB, logger)
	txManager := repository.NewTxManager(db)

	// Initialize workflow services
	svcLogger := service.NewZapLogger(logger)
	evaluator := service.NewConditionalEvaluator(actionRepo, svcLogger)
	observer := workflow.NewLogObserver(logger)

	claimService := service.NewClaimService(claimRepo, ruleRepo, actionRepo, userRepo, txManager, svcLogger)
	processor := service.NewApprovalProcessor(claimRepo, ruleRepo, actionRepo, txManager, evaluator, observer, svcLogger)
	resolver := service.NewPendingResolver(claimRepo, ruleRepo, actionRepo, userRepo, svcLogger)
	exporter := report.NewExporter(logger)

	// Initialize HTTP handler
	handler := httpapi.NewHandler(claimService, processor, resolver, exporter, ruleRepo, userRepo, logger)

	// Set Gin mode based on logger level
	if cfg.Logger.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize HTTP router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpapi.LoggingMiddleware(logger))
	router.Use(httpapi.CORSMiddleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "approval-engine",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// API routes behind identity resolution
	authed := router.Group("/", httpapi.IdentityMiddleware(userRepo, logger))
	handler.Register(authed)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
