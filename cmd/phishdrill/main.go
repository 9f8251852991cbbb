package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/phishdrill/phishdrill/internal/config"
	"github.com/phishdrill/phishdrill/internal/core"
	"github.com/phishdrill/phishdrill/internal/di"
	"github.com/phishdrill/phishdrill/internal/ports"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	cfg *config.Config,
	logger *zap.Logger,
	refiller ports.PoolRefiller,
	repo core.ContentRepository,
) error {
	defer logger.Sync()

	// Start the refiller
	if err := refiller.Start(); err != nil {
		logger.Fatal("Failed to start pool refiller", zap.Error(err))
		return err
	}

	// A one-shot refiller has already finished its work
	if cfg.GetRefill().Mode == "once" {
		return shutdown(logger, refiller, repo)
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	return shutdown(logger, refiller, repo)
}

func shutdown(logger *zap.Logger, refiller ports.PoolRefiller, repo core.ContentRepository) error {
	if err := refiller.Stop(); err != nil {
		logger.Error("Failed to stop pool refiller", zap.Error(err))
	}

	// Close any resources that need closing
	if closer, ok := repo.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close content store", zap.Error(err))
		}
	}

	logger.Info("Shutdown complete")
	return nil
}
