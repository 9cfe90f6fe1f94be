package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/config"
	"github.com/mamadbah2/stockledger/internal/repository/mongodb"
	"github.com/mamadbah2/stockledger/internal/repository/sheets"
	"github.com/mamadbah2/stockledger/internal/scheduler"
	"github.com/mamadbah2/stockledger/internal/server/handlers"
	"github.com/mamadbah2/stockledger/internal/server/router"
	"github.com/mamadbah2/stockledger/internal/service/inventory"
	"github.com/mamadbah2/stockledger/internal/service/notify"
	"github.com/mamadbah2/stockledger/internal/service/reporting"
	catalogclient "github.com/mamadbah2/stockledger/pkg/clients/catalog"
	whatsappclient "github.com/mamadbah2/stockledger/pkg/clients/whatsapp"
	"github.com/mamadbah2/stockledger/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}
	if err := cfg.ValidateInventory(); err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New("inventory", cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	store, err := mongodb.Connect(startupCtx, cfg.MongoDB)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	ledger := mongodb.NewLedgerRepository(store.Database())
	if err := ledger.EnsureIndexes(startupCtx); err != nil {
		baseLogger.Fatal("failed to create ledger indexes", zap.Error(err))
	}

	notifier := notify.NewNotifier(baseLogger.Named("notify"), notify.NewLogObserver(baseLogger.Named("notify.log")))

	if cfg.KafkaEnabled() {
		writer := notify.NewKafkaWriter(cfg.Kafka)
		defer func() {
			if err := writer.Close(); err != nil {
				baseLogger.Error("failed to close kafka writer", zap.Error(err))
			}
		}()
		notifier.Register(notify.NewKafkaObserver(writer))
		baseLogger.Info("kafka change events enabled", zap.String("topic", cfg.Kafka.Topic))
	}

	if cfg.SheetsEnabled() {
		exporter, err := sheets.NewGoogleSheetExporter(startupCtx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		if err := exporter.EnsureHeader(startupCtx, sheets.MovementsRange, sheets.MovementsHeader); err != nil {
			baseLogger.Warn("failed to prepare movements sheet", zap.Error(err))
		}
		notifier.Register(notify.NewSheetsObserver(exporter, sheets.MovementsRange))
		baseLogger.Info("sheets export enabled")
	}

	var messenger scheduler.Messenger
	if cfg.WhatsAppEnabled() {
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		messenger = whatsClient
		notifier.Register(notify.NewLowStockObserver(whatsClient, cfg.WhatsApp.AlertRecipient, cfg.WhatsApp.LowStockThreshold))
		baseLogger.Info("whatsapp alerts enabled", zap.Int64("threshold", cfg.WhatsApp.LowStockThreshold))
	} else {
		baseLogger.Warn("whatsapp settings missing, low stock alerts disabled")
	}

	directory := catalogclient.NewClient(cfg.Catalog)
	inventorySvc := inventory.NewService(ledger, directory, notifier,
		inventory.RetryPolicy{Attempts: cfg.Retry.Attempts, Backoff: cfg.Retry.Backoff},
		baseLogger.Named("svc.inventory"))

	reportingSvc := reporting.NewService(ledger, mongodb.NewSnapshotRepository(store.Database()), baseLogger.Named("svc.reporting"))
	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, messenger, cfg.WhatsApp.AlertRecipient, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	inventoryHandler := handlers.NewInventoryHandler(inventorySvc, baseLogger.Named("handlers.inventory"))
	engine := router.NewInventory(inventoryHandler, cfg.Server.APIKey, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("inventory server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
