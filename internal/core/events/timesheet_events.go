package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeWeekSubmitted = "timesheet.week_submitted"
	EventTypeWeekApproved  = "timesheet.week_approved"
	EventTypeWeekRejected  = "timesheet.week_rejected"
	EventTypeUserCreated   = "user.created"
)

type WeekSubmittedEvent struct {
	BaseEvent
	TenantID       int64   `json:"tenant_id"`
	ContractorID   int64   `json:"contractor_id"`
	ContractorName string  `json:"contractor_name"`
	WeekStart      string  `json:"week_start"`
	EntryIDs       []int64 `json:"entry_ids"`
}

func NewWeekSubmittedEvent(tenantID, contractorID int64, contractorName, weekStart string, entryIDs []int64) *WeekSubmittedEvent {
	return &WeekSubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeWeekSubmitted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"tenant_id":     tenantID,
				"contractor_id": contractorID,
				"week_start":    weekStart,
				"entry_ids":     entryIDs,
			},
		},
		TenantID:       tenantID,
		ContractorID:   contractorID,
		ContractorName: contractorName,
		WeekStart:      weekStart,
		EntryIDs:       entryIDs,
	}
}

type WeekApprovedEvent struct {
	BaseEvent
	TenantID       int64   `json:"tenant_id"`
	ContractorID   int64   `json:"contractor_id"`
	ContractorName string  `json:"contractor_name"`
	ReviewerID     int64   `json:"reviewer_id"`
	WeekStart      string  `json:"week_start"`
	EntryIDs       []int64 `json:"entry_ids"`
}

func NewWeekApprovedEvent(tenantID, contractorID int64, contractorName string, reviewerID int64, weekStart string, entryIDs []int64) *WeekApprovedEvent {
	return &WeekApprovedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeWeekApproved,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"tenant_id":     tenantID,
				"contractor_id": contractorID,
				"reviewer_id":   reviewerID,
				"week_start":    weekStart,
				"entry_ids":     entryIDs,
			},
		},
		TenantID:       tenantID,
		ContractorID:   contractorID,
		ContractorName: contractorName,
		ReviewerID:     reviewerID,
		WeekStart:      weekStart,
		EntryIDs:       entryIDs,
	}
}

type WeekRejectedEvent struct {
	BaseEvent
	TenantID       int64   `json:"tenant_id"`
	ContractorID   int64   `json:"contractor_id"`
	ContractorName string  `json:"contractor_name"`
	ReviewerID     int64   `json:"reviewer_id"`
	WeekStart      string  `json:"week_start"`
	Reason         string  `json:"reason"`
	EntryIDs       []int64 `json:"entry_ids"`
}

func NewWeekRejectedEvent(tenantID, contractorID int64, contractorName string, reviewerID int64, weekStart, reason string, entryIDs []int64) *WeekRejectedEvent {
	return &WeekRejectedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeWeekRejected,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"tenant_id":     tenantID,
				"contractor_id": contractorID,
				"reviewer_id":   reviewerID,
				"week_start":    weekStart,
				"reason":        reason,
				"entry_ids":     entryIDs,
			},
		},
		TenantID:       tenantID,
		ContractorID:   contractorID,
		ContractorName: contractorName,
		ReviewerID:     reviewerID,
		WeekStart:      weekStart,
		Reason:         reason,
		EntryIDs:       entryIDs,
	}
}

type UserCreatedEvent struct {
	BaseEvent
	TenantID int64  `json:"tenant_id"`
	UserID   int64  `json:"user_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}

func NewUserCreatedEvent(tenantID, userID int64, email, name string) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"tenant_id": tenantID,
				"user_id":   userID,
				"email":     email,
				"name":      name,
			},
		},
		TenantID: tenantID,
		UserID:   userID,
		Email:    email,
		Name:     name,
	}
}
