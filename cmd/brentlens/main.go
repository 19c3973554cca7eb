package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brentlens/brentlens/internal/config"
	"github.com/brentlens/brentlens/internal/dashboard"
	"github.com/brentlens/brentlens/internal/logger"
	"github.com/brentlens/brentlens/internal/notify"
	"github.com/brentlens/brentlens/internal/provider"
	"github.com/brentlens/brentlens/internal/recorder"
	"github.com/brentlens/brentlens/internal/server"
)

var configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	initialRange, err := cfg.DefaultRange()
	if err != nil {
		logger.Fatal("Invalid default range: %v", err)
	}

	client := provider.NewClient(
		cfg.Provider.BaseURL,
		cfg.Provider.Timeout,
		cfg.Provider.MaxRetries,
		cfg.Provider.RetryDelayBase,
	)

	session := dashboard.NewSession(client, initialRange, cfg.Dashboard.AssociationWindowDays)

	var rec recorder.Recorder = recorder.Noop{}
	if cfg.Recorder.Enabled {
		sqliteRec, err := recorder.NewSQLiteRecorder(cfg.Recorder.SQLitePath)
		if err != nil {
			logger.Fatal("Failed to open recorder database: %v", err)
		}
		rec = sqliteRec
		logger.Info("Refresh recorder enabled at %s", cfg.Recorder.SQLitePath)
	}
	defer func() {
		if err := rec.Close(); err != nil {
			logger.Error("Failed to close recorder: %v", err)
		}
	}()

	var notifier notify.Notifier
	if cfg.Telegram.Enabled {
		notifier, err = notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			logger.Fatal("Failed to initialize Telegram notifier: %v", err)
		}
		logger.Info("Telegram notifier initialized")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, cleaning up...")
		cancel()
	}()

	if cfg.Server.Enabled {
		srv := server.New(session, cfg.Server.ListenAddr, cfg.Server.AllowedOrigins)
		go func() {
			logger.Info("HTTP API listening on %s", cfg.Server.ListenAddr)
			if err := srv.ListenAndServe(ctx); err != nil && ctx.Err() == nil {
				logger.Error("HTTP server stopped: %v", err)
				cancel()
			}
		}()
	}

	logger.Info("Starting refresh loop (interval: %v, range: %s, association window: %dd)",
		cfg.Dashboard.RefreshInterval, initialRange, cfg.Dashboard.AssociationWindowDays)

	ticker := time.NewTicker(cfg.Dashboard.RefreshInterval)
	defer ticker.Stop()

	consecutiveFailures := 0
	runCycle := func() {
		result := session.Refresh(ctx)
		if err := rec.RecordRefresh(result); err != nil {
			logger.Warn("Failed to record refresh cycle: %v", err)
		}

		if result.Failed() {
			consecutiveFailures++
			logger.Error("Refresh cycle failed on all slices (consecutive failures: %d)", consecutiveFailures)
			if consecutiveFailures == 1 && notifier != nil {
				if sendErr := notifier.SendError(result.Errors[0].Err); sendErr != nil {
					logger.Warn("Failed to send error notification: %v", sendErr)
				}
			}
			return
		}
		if consecutiveFailures > 0 && notifier != nil {
			if sendErr := notifier.SendRecovery(consecutiveFailures); sendErr != nil {
				logger.Warn("Failed to send recovery notification: %v", sendErr)
			}
		}
		consecutiveFailures = 0
	}

	// Initial load before the first tick.
	runCycle()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Service stopped")
			return
		case <-ticker.C:
			runCycle()
		}
	}
}
