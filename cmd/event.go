package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/LeoXLiu-DS/timesheet-logging/internal/core/events"
	"github.com/LeoXLiu-DS/timesheet-logging/pkg/logger"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event bus debugging commands",
}

var listEventsCmd = &cobra.Command{
	Use:   "list",
	Short: "List the event types the service publishes",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range knownEventTypes {
			fmt.Println(t)
		}
	},
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a throwaway event on an in-process bus",
	Long:  `Publish an event to a fresh in-process bus with a logging subscriber attached, useful for eyeballing the dispatch path without a running server.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		publishDebugEvent(args[0])
	},
}

var eventData string

var knownEventTypes = []string{
	events.EventTypeWeekSubmitted,
	events.EventTypeWeekApproved,
	events.EventTypeWeekRejected,
	events.EventTypeUserCreated,
}

func publishDebugEvent(eventType string) {
	log := logger.LoggerWrapper()

	bus := events.NewEventBus(log)
	bus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
		log.Info("debug subscriber received event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	evt := events.BaseEvent{
		ID:        fmt.Sprintf("debug-%d", time.Now().Unix()),
		Type:      eventType,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"message": eventData,
			"source":  "event-publish-command",
		},
	}

	if err := bus.Publish(context.Background(), evt); err != nil {
		log.Error("failed to publish event", "error", err)
		return
	}

	// handlers run in goroutines; give them a beat before exiting
	time.Sleep(100 * time.Millisecond)
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", "debug message", "payload message for the event")

	eventCmd.AddCommand(listEventsCmd)
	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
