// Package main is the entry point for the fivewhys-ai server.
//
// Responsibilities:
//   - Load configuration from .env, YAML file, and environment variables
//   - Build the zap logger with file rotation
//   - Wire the session store, event broker, oracle client, and analyzer
//   - Start the HTTP server and watch for config file changes
//   - Implement graceful shutdown on SIGINT/SIGTERM
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fivewhys/fivewhys-ai/internal/analysis"
	"github.com/fivewhys/fivewhys-ai/internal/config"
	"github.com/fivewhys/fivewhys-ai/internal/llm"
	"github.com/fivewhys/fivewhys-ai/internal/logging"
	"github.com/fivewhys/fivewhys-ai/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	// .env is a convenience for local runs; absence is fine.
	_ = godotenv.Load()

	mgr := config.NewManager(*configPath)
	if err := mgr.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := mgr.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	cfg := mgr.Get()

	log, err := logging.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	oracle := llm.NewHTTPClient(cfg.Oracle.BaseURL, cfg.Oracle.APIKey, cfg.Oracle.Model)
	store := analysis.NewStore()
	broker := analysis.NewBroker()
	analyzer := analysis.NewAnalyzer(oracle, store, broker, log, cfg.Analysis.MaxDepth)

	srv := server.NewServer(cfg, analyzer, store, broker, log)
	if err := srv.Start(); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
	log.Info("fivewhys-ai started",
		zap.String("oracle_base_url", cfg.Oracle.BaseURL),
		zap.String("oracle_model", cfg.Oracle.Model),
		zap.Int("max_depth", cfg.Analysis.MaxDepth))

	if *configPath != "" {
		go func() {
			for updated := range mgr.Watch() {
				log.Info("configuration reloaded",
					zap.String("oracle_model", updated.Oracle.Model))
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info("shutdown signal received")

	if err := srv.Stop(); err != nil {
		log.Error("error stopping server", zap.Error(err))
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
