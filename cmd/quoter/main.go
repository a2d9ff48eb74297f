package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/outcome-gg/outcome-engine/pkg/quoter"
)

func main() {
	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	// Load configuration
	cfg, err := quoter.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the order placer (HTTP client)
	placer := quoter.NewHTTPOrderPlacer(cfg, logger)
	defer placer.Close()

	// Initialize the price source
	source := quoter.NewBookMidSource(cfg, logger)
	defer source.Close()

	// Initialize the quoting strategy
	strategy := quoter.NewLayeredSymmetricQuoting(cfg, logger)

	// Create and start the quoter service
	q, err := quoter.New(cfg, logger, strategy, source, placer)
	if err != nil {
		logger.Error("Failed to create quoter", "error", err)
		os.Exit(1)
	}

	if err := q.Start(ctx); err != nil {
		logger.Error("Failed to start quoter", "error", err)
		os.Exit(1)
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	sig := <-sigChan
	logger.Info("Received shutdown signal", "signal", sig)

	// Create a context with timeout for graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Stop the quoter service
	if err := q.Stop(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("Quoter service stopped successfully")
}
