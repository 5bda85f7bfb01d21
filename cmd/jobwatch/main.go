package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobwatch/internal/config"
	"jobwatch/internal/logging"
	"jobwatch/internal/reporter"
	"jobwatch/internal/scraper/engines/headed"
	"jobwatch/internal/scraper/indeed"
	"jobwatch/internal/scraper/runner"
	"jobwatch/pkg/utils"
)

func main() {
	configPath := "configs/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize logging system
	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()

	runID := utils.GenerateRunID()
	logger.Info("Starting job search run", map[string]interface{}{
		"run_id":    runID,
		"job_title": cfg.Search.JobTitle,
		"locations": len(cfg.Search.Locations),
	})

	// Shut down cleanly on SIGINT/SIGTERM; locations already scraped
	// are still reported.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	resolver := indeed.NewResolver(
		indeed.ParseMappings(cfg.Search.DomainMappings),
		cfg.Search.DefaultDomain,
	)

	sessions := headed.NewManager(cfg)

	slack := reporter.NewClient(cfg, logger)
	debug := reporter.NewDebugReporter(slack, cfg, logger)

	orchestrator := runner.New(cfg, resolver, sessions, debug)

	started := time.Now()
	run := orchestrator.Run(ctx)

	logger.Info("Run finished", map[string]interface{}{
		"run_id":     runID,
		"total_jobs": run.Total(),
		"duration":   utils.FormatDuration(time.Since(started)),
	})

	// Reporting gets its own deadline so a SIGINT that stopped the run
	// doesn't also cancel the notification.
	reportCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := slack.SendReport(reportCtx, run, debug.Summary()); err != nil {
		logger.Error("Failed to deliver report", map[string]interface{}{
			"run_id": runID,
			"error":  err.Error(),
		})
		os.Exit(1)
	}
}
