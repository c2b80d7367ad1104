package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/staffline/expense-erp/internal/config"
	"github.com/staffline/expense-erp/internal/export"
	httpserver "github.com/staffline/expense-erp/internal/interfaces/http"
	"github.com/staffline/expense-erp/internal/recon"
	"github.com/staffline/expense-erp/internal/repository"
	"github.com/staffline/expense-erp/internal/service"
	"github.com/staffline/expense-erp/internal/storage"
	"github.com/staffline/expense-erp/internal/watch"
	"github.com/staffline/expense-erp/internal/worker"
	"github.com/staffline/expense-erp/migrations"
	"github.com/staffline/expense-erp/pkg/database"
	"github.com/staffline/expense-erp/pkg/utils"
)

func main() {
	_ = gotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

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

	logger.Info("Starting expense ERP service",
		zap.Int("port", cfg.Server.Port),
		zap.String("db", cfg.Database.Path))

	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Fatal("Failed to create data directory", zap.Error(err))
		}
	}

	db, err := database.Open(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db, migrations.FS, logger); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	expenseRepo := repository.NewExpenseRepository(db.DB, logger)
	invoiceRepo := repository.NewInvoiceRepository(db.DB, logger)
	chargeRepo := repository.NewServiceChargeRepository(db.DB, logger)
	reportRepo := repository.NewReportRepository(db.DB, logger)

	hub := watch.NewHub(logger)

	policy := matchPolicy(cfg.Recon.MatchPolicy)
	expenseSvc := service.NewExpenseService(expenseRepo, invoiceRepo, policy, hub, logger)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, expenseSvc, hub, logger)
	chargeSvc := service.NewChargeService(chargeRepo, logger)

	folders := storage.NewFolderManager(cfg.Exports.OutputDir, logger)
	exporter := export.NewExcelExporter(folders, logger)
	reportSvc := service.NewReportService(expenseRepo, invoiceRepo, reportRepo, exporter, hub, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scanner := worker.NewOverdueScanner(expenseRepo, hub, cfg.Worker.OverdueScanInterval, logger)
	go scanner.Run(ctx)

	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, expenseSvc, invoiceSvc, chargeSvc, reportSvc, logger)

	if err := server.Start(ctx); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("Server exited successfully")
}

func matchPolicy(name string) recon.MatchPolicy {
	switch name {
	case "candidate_first":
		return recon.MatchCandidateFirst
	case "require_both":
		return recon.MatchRequireBoth
	default:
		return recon.MatchCompanyFirst
	}
}
