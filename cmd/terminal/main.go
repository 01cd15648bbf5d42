package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-terminal/config"
	"github.com/fekuna/omnipos-terminal/internal/connectivity"
	"github.com/fekuna/omnipos-terminal/internal/metrics"
	"github.com/fekuna/omnipos-terminal/internal/server"
	"github.com/fekuna/omnipos-terminal/internal/store"
	"github.com/fekuna/omnipos-terminal/pkg/logger"

	catRepoPkg "github.com/fekuna/omnipos-terminal/internal/catalog/repository"
	catUCPkg "github.com/fekuna/omnipos-terminal/internal/catalog/usecase"
	queueRepoPkg "github.com/fekuna/omnipos-terminal/internal/queue/repository"
	remoteHTTP "github.com/fekuna/omnipos-terminal/internal/remote/http"
	saleUCPkg "github.com/fekuna/omnipos-terminal/internal/sale/usecase"
	syncPkg "github.com/fekuna/omnipos-terminal/internal/sync"

	"github.com/go-co-op/gocron"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}

	if cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Open Local Store
	db, err := store.Open(cfg.Store.SQLitePath)
	if err != nil {
		appLogger.Fatal("Could not open local store", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Local store ready", zap.String("path", cfg.Store.SQLitePath))

	// 4. Initialize Repositories
	queueRepo := queueRepoPkg.NewSQLiteRepository(db)
	catRepo := catRepoPkg.NewSQLiteRepository(db)

	// 5. Initialize Remote Client and Connectivity Monitor
	remoteClient := remoteHTTP.NewClient(&remoteHTTP.Config{
		BaseURL: cfg.Remote.BaseURL,
		Timeout: cfg.Remote.Timeout,
	}, appLogger)

	monitor := connectivity.NewMonitor(&connectivity.Config{
		ProbeAddr:     cfg.Connectivity.ProbeAddr,
		ProbeInterval: cfg.Connectivity.ProbeInterval,
		ProbeTimeout:  cfg.Connectivity.ProbeTimeout,
	}, appLogger)

	// 6. Initialize UseCases
	saleUC := saleUCPkg.NewSaleUseCase(queueRepo, remoteClient, monitor, appLogger)
	catUC := catUCPkg.NewCatalogUseCase(catRepo, remoteClient, monitor, appLogger)

	// 7. Initialize Sync Engine
	syncEngine := syncPkg.NewEngine(&syncPkg.Config{
		Interval:   cfg.Sync.Interval,
		MaxRejects: cfg.Sync.MaxRejects,
	}, queueRepo, remoteClient, monitor, appLogger)

	metrics.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go monitor.Run(ctx)
	go syncEngine.Run(ctx)

	// 8. Schedule Catalog Refresh
	scheduler := gocron.NewScheduler(time.UTC)
	_, err = scheduler.Every(cfg.Catalog.RefreshInterval).Do(func() {
		if err := catUC.Refresh(ctx); err != nil {
			appLogger.Warn("Scheduled catalog refresh failed", zap.Error(err))
		}
	})
	if err != nil {
		appLogger.Fatal("Could not schedule catalog refresh", zap.Error(err))
	}
	scheduler.StartAsync()
	defer scheduler.Stop()

	// 9. Start HTTP Server
	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := server.New(saleUC, catUC, queueRepo, syncEngine, monitor, cfg.Terminal.AccountID, appLogger)
	httpServer := &http.Server{
		Addr:         port,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	appLogger.Info("Starting HTTP server", zap.String("port", port))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Forced shutdown", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
