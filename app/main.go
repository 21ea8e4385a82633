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

	"github.com/joho/godotenv"

	"github.com/khabarhub/khabarhub/app/aggregate"
	"github.com/khabarhub/khabarhub/app/api"
	"github.com/khabarhub/khabarhub/app/cache"
	"github.com/khabarhub/khabarhub/app/cfg"
	"github.com/khabarhub/khabarhub/app/config"
	"github.com/khabarhub/khabarhub/app/fetch"
	"github.com/khabarhub/khabarhub/app/tasks"
)

func main() {
	// .env is optional; real deployments use environment variables
	_ = godotenv.Load()

	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Khabar Hub server", "version", appCfg.Version)

	catalog, err := config.Load(appCfg.SourcesFile)
	if err != nil {
		slog.Error("Failed to load source catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("Source catalog loaded", "categories", len(catalog.Categories), "proxies", len(catalog.Proxies))

	store, err := cache.OpenSQLiteStore(appCfg.CacheDBPath)
	if err != nil {
		slog.Error("Failed to open cache store", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Cache store ready", "path", appCfg.CacheDBPath)

	client := fetch.NewClient(appCfg.UserAgent, appCfg.FetchTimeout)
	resolver := fetch.NewResolver(client, catalog.Proxies, appCfg.PlausibleFloor)
	aggregator := aggregate.NewAggregator(resolver)
	manager := cache.NewManager(store, aggregator, catalog, appCfg.FreshDuration, appCfg.StaleDuration)

	scheduler := tasks.NewScheduler(manager)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", appCfg.WorkerCount, "interval_seconds", appCfg.SchedulerInterval)

	handler := api.NewHandler(manager, catalog, scheduler)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
