package payroll

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LeoXLiu-DS/timesheet-logging/internal/core/events"
)

// EventHandler bridges approval events onto the payroll sync queue.
type EventHandler struct {
	client *Client
	logger *slog.Logger
}

func NewEventHandler(client *Client, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		client: client,
		logger: logger,
	}
}

func (h *EventHandler) HandleWeekApproved(ctx context.Context, event events.Event) error {
	approvedEvent, ok := event.(*events.WeekApprovedEvent)
	if !ok {
		h.logger.Error("invalid event type for week approved handler", "event_type", event.EventType())
		return fmt.Errorf("expected WeekApprovedEvent, got %T", event)
	}

	h.logger.Info("handling week approved event for payroll sync",
		"tenant_id", approvedEvent.TenantID,
		"contractor_id", approvedEvent.ContractorID,
		"week_start", approvedEvent.WeekStart,
		"event_id", approvedEvent.EventID())

	h.client.Enqueue(SyncJob{
		Kind:           JobKindApprovedWeek,
		TenantID:       approvedEvent.TenantID,
		ContractorID:   approvedEvent.ContractorID,
		ContractorName: approvedEvent.ContractorName,
		WeekStart:      approvedEvent.WeekStart,
		EntryIDs:       approvedEvent.EntryIDs,
	})

	return nil
}

func (h *EventHandler) HandleUserCreated(ctx context.Context, event events.Event) error {
	userEvent, ok := event.(*events.UserCreatedEvent)
	if !ok {
		h.logger.Error("invalid event type for user created handler", "event_type", event.EventType())
		return fmt.Errorf("expected UserCreatedEvent, got %T", event)
	}

	h.logger.Info("handling user created event for payroll provisioning",
		"tenant_id", userEvent.TenantID,
		"user_id", userEvent.UserID,
		"event_id", userEvent.EventID())

	h.client.Enqueue(SyncJob{
		Kind:           JobKindNewEmployee,
		TenantID:       userEvent.TenantID,
		ContractorID:   userEvent.UserID,
		ContractorName: userEvent.Name,
		Email:          userEvent.Email,
	})

	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeWeekApproved, h.HandleWeekApproved)
	eventBus.Subscribe(events.EventTypeUserCreated, h.HandleUserCreated)

	h.logger.Info("payroll event handlers registered",
		"handlers", []string{events.EventTypeWeekApproved, events.EventTypeUserCreated})
}
