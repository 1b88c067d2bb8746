package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rewired-gh/covidtrend/internal/config"
	"github.com/rewired-gh/covidtrend/internal/jhu"
	"github.com/rewired-gh/covidtrend/internal/logger"
	"github.com/rewired-gh/covidtrend/internal/pipeline"
	"github.com/rewired-gh/covidtrend/internal/telegram"
)

var configPath = flag.String("config", "", "Path to optional configuration file")

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup logging with level support
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	if *configPath != "" {
		logger.Info("Configuration loaded from %s", *configPath)
	}

	deps := pipeline.Deps{
		Fetcher: jhu.NewClient(cfg.Source.Timeout),
		Stdout:  os.Stdout,
	}

	// Initialize Telegram client
	if cfg.Telegram.Enabled {
		telegramClient, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase)
		if err != nil {
			logger.Fatal("Failed to initialize Telegram client: %v", err)
		}
		deps.Notifier = telegramClient
		logger.Info("Telegram client initialized successfully")
	} else {
		logger.Debug("Telegram notifications disabled")
	}

	// Cancel in-flight downloads on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := pipeline.Run(ctx, cfg, deps); err != nil {
		logger.Fatal("Run failed: %v", err)
	}
}
