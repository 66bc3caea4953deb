package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LeoXLiu-DS/timesheet-logging/internal/core/events"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/payroll"
	"github.com/LeoXLiu-DS/timesheet-logging/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start worker pools for various services",
	Long:  `Start and manage worker pools for background services like payroll sync.`,
}

// Payroll worker command
var payrollWorkerCmd = &cobra.Command{
	Use:   "payroll",
	Short: "Start payroll sync worker pool",
	Long:  `Start the payroll worker pool for pushing approved weeks to the payroll provider`,
	Run: func(cmd *cobra.Command, args []string) {
		startPayrollWorker()
	},
}

// Event Bus worker command
var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Start a standalone event bus with logging subscribers",
	Long:  `Start an event bus that logs every domain event it receives, useful for observing the dispatch path in isolation.`,
	Run: func(cmd *cobra.Command, args []string) {
		startEventWorker()
	},
}

var (
	maxWorkers   int
	jobQueueSize int
	providerURL  string
	apiKey       string
)

func startPayrollWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logger.LoggerWrapper()

	// Use command line flags if provided, otherwise use config values
	payrollConfig := payroll.Config{
		ProviderURL:  getStringFlag(providerURL, config.Payroll.ProviderURL),
		APIKey:       getStringFlag(apiKey, config.Payroll.APIKey),
		SyncTimeout:  config.Payroll.SyncTimeout,
		MaxWorkers:   getIntFlag(maxWorkers, config.Payroll.MaxWorkers),
		JobQueueSize: getIntFlag(jobQueueSize, config.Payroll.JobQueueSize),
	}

	logger.Info("starting payroll worker",
		"max_workers", payrollConfig.MaxWorkers,
		"job_queue_size", payrollConfig.JobQueueSize,
		"provider_url", payrollConfig.ProviderURL)

	client := payroll.NewClient(payrollConfig, logger)

	eventBus := events.NewEventBus(logger)
	payroll.NewEventHandler(client, logger).RegisterEventHandlers(eventBus)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("payroll worker is running. Press Ctrl+C to stop.")

	// wait for shutdown signal
	sig := <-sigChan
	logger.Info("received signal, shutting down payroll worker", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shutdownDone := make(chan struct{})
	go func() {
		client.Shutdown()
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		logger.Info("payroll worker pool shutdown complete")
	case <-ctx.Done():
		logger.Warn("shutdown timeout reached, forcing exit")
	}
}

func startEventWorker() {
	_, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logger.LoggerWrapper()

	eventBus := events.NewEventBus(logger)

	for _, eventType := range knownEventTypes {
		eventBus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
			logger.Info("received event",
				"event_id", event.EventID(),
				"event_type", event.EventType(),
				"payload", event.Payload())
			return nil
		})
	}

	logger.Info("event bus worker started. Waiting for events...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("event bus is running. Press Ctrl+C to stop.")

	sig := <-sigChan
	logger.Info("received signal, shutting down event bus", "signal", sig)
	logger.Info("event bus shutdown complete")
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	payrollWorkerCmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Maximum number of workers (overrides config)")
	payrollWorkerCmd.Flags().IntVar(&jobQueueSize, "job-queue-size", 0, "Job queue buffer size (overrides config)")
	payrollWorkerCmd.Flags().StringVar(&providerURL, "provider-url", "", "Payroll provider API URL (overrides config)")
	payrollWorkerCmd.Flags().StringVar(&apiKey, "api-key", "", "Payroll provider API key (overrides config)")

	workerCmd.AddCommand(payrollWorkerCmd)
	workerCmd.AddCommand(eventWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
