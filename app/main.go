package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/nexus-news/app/api"
	"github.com/lysyi3m/nexus-news/app/article"
	"github.com/lysyi3m/nexus-news/app/cache"
	"github.com/lysyi3m/nexus-news/app/cfg"
	"github.com/lysyi3m/nexus-news/app/database"
	"github.com/lysyi3m/nexus-news/app/provider"
	"github.com/lysyi3m/nexus-news/app/store"
	"github.com/lysyi3m/nexus-news/app/tasks"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	appCfg, err := cfg.Load()
	if err != nil {
		return err
	}
	if appCfg == nil {
		// Help was shown
		return nil
	}

	setupLogger(appCfg.Debug)

	slog.Info("Starting NEXUS News", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	responseCache := cache.NewPersistent(database.NewResponseRepository(db), appCfg.CacheTTLDuration(), nil)

	configCache := provider.NewConfigCache(appCfg.ProvidersDir)
	if err := configCache.Run(); err != nil {
		return fmt.Errorf("failed to load provider configurations: %w", err)
	}
	slog.Info("Provider configurations loaded", "dir", appCfg.ProvidersDir, "count", configCache.GetConfigCount(), "enabled", len(configCache.GetEnabledConfigs()))

	httpClient := &http.Client{Timeout: 60 * time.Second}
	client := provider.NewClient(httpClient, responseCache, appCfg.UserAgent)
	board := store.NewBoard()
	normalizer := article.NewNormalizer()

	scheduler := tasks.NewScheduler(
		configCache,
		board,
		client,
		normalizer,
		article.NewFilterer(),
		provider.NewContentExtractor(),
		responseCache,
		time.Duration(appCfg.SchedulerInterval)*time.Second,
		appCfg.WorkerCount,
	)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Scheduler started", "workers", appCfg.WorkerCount, "interval", time.Duration(appCfg.SchedulerInterval)*time.Second)

	handler := api.NewHandler(configCache, board, normalizer, scheduler, responseCache, appCfg.BaseUrl, appCfg.Version)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler, appCfg.APIAccessKey),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	return serve(httpServer, sigChan)
}

// serve runs the server until a signal arrives or it fails to listen.
// A listen failure is returned after shutdown so the process exits non-zero.
func serve(httpServer *http.Server, signals <-chan os.Signal) error {
	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	var serverErr error
	select {
	case sig := <-signals:
		slog.Info("Received signal", "signal", sig.String())
	case serverErr = <-serverErrChan:
		slog.Error("Server error", "error", serverErr)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	return serverErr
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}
