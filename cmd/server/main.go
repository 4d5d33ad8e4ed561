package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/CharbelKaf/asset-tracker/internal/audit"
	"github.com/CharbelKaf/asset-tracker/internal/config"
	"github.com/CharbelKaf/asset-tracker/internal/document"
	"github.com/CharbelKaf/asset-tracker/internal/extract"
	"github.com/CharbelKaf/asset-tracker/internal/finance"
	"github.com/CharbelKaf/asset-tracker/internal/repository"
	"github.com/CharbelKaf/asset-tracker/internal/server"
	"github.com/CharbelKaf/asset-tracker/internal/storage"
	"github.com/CharbelKaf/asset-tracker/pkg/database"
	"github.com/CharbelKaf/asset-tracker/pkg/utils"
)

func main() {
	// Load .env if present, before configuration reads the environment
	_ = gotenv.Load()

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

	logger.Info("Starting asset tracker finance service",
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

	// Blob store for original source documents
	blobs, err := storage.NewLocalBlobStore(cfg.Storage.BlobDir, logger)
	if err != nil {
		logger.Fatal("Failed to initialize blob store", zap.Error(err))
	}

	// Document extraction pipeline. OCR degrades gracefully when disabled.
	var ocr document.OCRClient
	if cfg.OCR.Enabled {
		ocr = document.NewVisionOCR(cfg.OCR.APIKey, cfg.OCR.Model, cfg.OCR.MaxTokens, cfg.OCR.Timeout, logger)
	} else {
		logger.Warn("OCR disabled, scanned documents will be unreadable")
	}
	docs := document.NewExtractor(ocr, logger)
	expenseExtractor := extract.NewExpenseExtractor(docs, logger)
	budgetExtractor := extract.NewBudgetExtractor(docs, logger)

	// Finance ledger on top of the persisted state store
	stateRepo := repository.NewStateRepository(db.DB, logger)
	ledger, err := finance.NewLedger(
		finance.RolePermissions{},
		blobs,
		audit.NewZapSink(logger),
		stateRepo,
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to initialize finance ledger", zap.Error(err))
	}

	// HTTP server
	handlers := server.NewHandlers(expenseExtractor, budgetExtractor, ledger, blobs, logger)
	srv := server.New(server.Config{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, handlers, logger)

	// Run until interrupted
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		logger.Fatal("HTTP server error", zap.Error(err))
	}

	logger.Info("Shutdown complete")
}
