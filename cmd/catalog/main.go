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
	"github.com/mamadbah2/stockledger/internal/server/handlers"
	"github.com/mamadbah2/stockledger/internal/server/router"
	"github.com/mamadbah2/stockledger/internal/service/catalog"
	"github.com/mamadbah2/stockledger/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New("catalog", cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := mongodb.Connect(connectCtx, cfg.MongoDB)
	cancelConnect()
	if err != nil {
		baseLogger.Fatal("failed to init mongodb", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	catalogSvc := catalog.NewService(mongodb.NewProductRepository(store.Database()), baseLogger.Named("svc.catalog"))
	productHandler := handlers.NewProductHandler(catalogSvc, baseLogger.Named("handlers.products"))
	engine := router.NewCatalog(productHandler, cfg.Server.APIKey, baseLogger.Named("router"))

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
		baseLogger.Info("catalog server starting", zap.String("port", cfg.Server.Port))
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
