package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/contre95/musiclify/src/features/catalog"
	"github.com/contre95/musiclify/src/features/config"
	"github.com/contre95/musiclify/src/features/hosting"
	"github.com/contre95/musiclify/src/features/ingesting"
	"github.com/contre95/musiclify/src/features/logging"
	"github.com/contre95/musiclify/src/infra/database"
	"github.com/contre95/musiclify/src/infra/files"
	"github.com/contre95/musiclify/src/infra/probe"
)

func main() {
	// Load configuration
	cfgManager, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Setup default logger with slog
	logger := logging.SetupLogger(cfgManager)
	slog.SetDefault(logger)

	if err := cfgManager.EnsureDirectories(); err != nil {
		log.Fatalf("failed to prepare data directories: %v", err)
	}

	// Pick up config edits without a restart
	watcher, err := config.NewWatcher("config.yaml", cfgManager)
	if err != nil {
		slog.Warn("Config hot reload unavailable", "error", err)
	} else if err := watcher.Start(); err != nil {
		slog.Warn("Config hot reload unavailable", "error", err)
	} else {
		defer watcher.Stop()
	}

	// Create the database catalog
	db, err := database.NewSqliteCatalog(cfgManager.Get().Database.Path)
	if err != nil {
		log.Fatalf("failed to open catalog: %v", err)
	}
	defer db.Close()

	// Create the ingestion service
	store := files.NewStore(cfgManager)
	prober := probe.NewProber()
	ingestService := ingesting.NewService(db, store, prober, cfgManager)

	// Create the catalog read service
	catalogService := catalog.NewService(db)

	// Create and start the Telegram bot if enabled
	var telegramBot *hosting.TelegramBot
	if cfgManager.Get().Telegram.Enabled {
		telegramBot, err = hosting.NewTelegramBot(cfgManager, catalogService)
		if err != nil {
			slog.Error("Failed to initialize Telegram bot", "error", err)
		} else {
			ingestService.SetNotifier(telegramBot)
			go telegramBot.Start()
			slog.Info("Telegram bot started")
		}
	}

	// Create and start the HTTP server
	server := hosting.NewServer(cfgManager, ingestService, catalogService)
	go func() {
		if err := server.Start(); err != nil {
			slog.Error("Server stopped", "error", err)
			os.Exit(1)
		}
	}()
	slog.Info("Server started. Press Ctrl+C to shut down.", "port", cfgManager.Get().Server.Port)

	// Wait for a shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	slog.Info("Shutting down server...")

	if telegramBot != nil {
		telegramBot.Stop()
		slog.Info("Telegram bot stopped")
	}

	if err := server.Shutdown(); err != nil {
		log.Fatalf("failed to shutdown server: %v", err)
	}
	slog.Info("Server gracefully shut down.")
}
