package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/luiso2/betbridge/internal/httpapi"
	"github.com/luiso2/betbridge/internal/notify"
	pkgconfig "github.com/luiso2/betbridge/internal/pkg/config"
	"github.com/luiso2/betbridge/internal/pkg/logging"
	"github.com/luiso2/betbridge/internal/storage"
)

const defaultConfigPath = "configs/production.yaml"

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", defaultConfigPath, "path to config file")
	flag.Parse()

	// Secrets may live in .env during development; missing file is fine.
	_ = godotenv.Load()

	cfg, err := pkgconfig.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logging.SetupLogger(&cfg.Logging, "server")
	slog.Info("Starting server", "addr", cfg.Server.Addr, "upstream", cfg.Upstream.BaseURL)

	server := httpapi.NewServer(cfg, httpapi.NewRegistry())

	if cfg.Storage.PostgresDSN != "" {
		recorder, err := storage.NewSnapshotRecorder(cfg.Storage.PostgresDSN)
		if err != nil {
			slog.Warn("odds snapshot storage disabled", "error", err)
		} else {
			defer recorder.Close()
			server.WithRecorder(recorder)
		}
	}

	if cfg.Notify.TelegramBotToken != "" && cfg.Notify.TelegramChatID != 0 {
		if notifier := notify.NewTelegramNotifier(cfg.Notify.TelegramBotToken, cfg.Notify.TelegramChatID); notifier != nil {
			server.WithNotifier(notifier)
		}
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           httpapi.SetupRoutes(server),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
