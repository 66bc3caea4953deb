package timesheet

import (
	"context"
	"log/slog"
	"time"

	"github.com/LeoXLiu-DS/timesheet-logging/internal"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/core/events"
	"github.com/LeoXLiu-DS/timesheet-logging/pkg/timeutil"
)

// ProjectDirectory resolves the display names snapshotted onto entries.
type ProjectDirectory interface {
	ProjectName(tenantID, projectID int64) (string, error)
	TaskName(tenantID, taskID int64) (string, error)
}

// Repository interface defines the data access methods for time entries.
// Every method is scoped to a tenant; implementations must never return
// or touch rows belonging to another tenant.
type Repository interface {
	Create(tenantID int64, entry *Entry) error
	Update(tenantID int64, entry *Entry) error
	Delete(tenantID, id int64) error
	GetByID(tenantID, id int64) (*Entry, error)
	GetByIDs(tenantID int64, ids []int64) ([]*Entry, error)
	GetForContractorRange(tenantID, contractorID int64, from, to time.Time) ([]*Entry, error)
	GetBySlot(tenantID, contractorID, projectID int64, taskID *int64, date time.Time) (*Entry, error)
	GetNonDraftByTenant(tenantID int64) ([]*Entry, error)
}

// Actor identifies the authenticated user a service call runs as.
type Actor struct {
	ID   int64
	Name string
}

// Service handles timesheet business logic
type Service struct {
	repo     Repository
	projects ProjectDirectory
	eventBus *events.EventBus
	logger   *slog.Logger
}

func NewService(repo Repository, projects ProjectDirectory, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		projects: projects,
		eventBus: eventBus,
		logger:   logger,
	}
}

// WeekSheet builds the weekly grid for one contractor. Draft rows the
// client is holding are unioned into the result so empty rows survive a
// reload round trip.
func (s *Service) WeekSheet(tenantID, contractorID int64, week time.Time, draftRows []DraftRow) (*Sheet, error) {
	weekStart := timeutil.WeekStart(week)
	weekEnd := weekStart.AddDate(0, 0, 7)

	entries, err := s.repo.GetForContractorRange(tenantID, contractorID, weekStart, weekEnd)
	if err != nil {
		s.logger.Error("failed to load week entries", "error", err, "tenant_id", tenantID, "contractor_id", contractorID)
		return nil, err
	}

	return BuildSheet(weekStart, entries, draftRows), nil
}

// UpsertEntry is the single write path for grid cells. With an ID it
// edits that entry in place; without one it finds the entry at the
// (project, task, date) slot or creates a draft there. A zero-hours
// write against an empty slot is a no-op and returns nil.
func (s *Service) UpsertEntry(tenantID int64, actor Actor, dto UpsertEntryDTO) (*Entry, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("entry validation failed", "error", err, "contractor_id", actor.ID)
		return nil, err
	}

	if dto.ID != 0 {
		return s.editEntry(tenantID, actor, dto)
	}

	existing, err := s.repo.GetBySlot(tenantID, actor.ID, dto.ProjectID, dto.TaskID, dto.EntryDate())
	if err != nil {
		s.logger.Error("slot lookup failed", "error", err, "tenant_id", tenantID, "contractor_id", actor.ID)
		return nil, err
	}
	if existing != nil {
		dto.ID = existing.ID
		return s.editEntry(tenantID, actor, dto)
	}

	if dto.Hours == 0 && dto.Description == "" {
		return nil, nil
	}

	projectName, err := s.projects.ProjectName(tenantID, dto.ProjectID)
	if err != nil {
		s.logger.Error("project lookup failed", "error", err, "project_id", dto.ProjectID)
		return nil, err
	}
	var taskName *string
	if dto.TaskID != nil {
		name, err := s.projects.TaskName(tenantID, *dto.TaskID)
		if err != nil {
			s.logger.Error("task lookup failed", "error", err, "task_id", *dto.TaskID)
			return nil, err
		}
		taskName = &name
	}

	now := time.Now()
	entry := &Entry{
		TenantID:       tenantID,
		ContractorID:   actor.ID,
		ContractorName: actor.Name,
		ProjectID:      dto.ProjectID,
		ProjectName:    projectName,
		TaskID:         dto.TaskID,
		TaskName:       taskName,
		EntryDate:      dto.EntryDate(),
		Hours:          dto.Hours,
		Description:    dto.Description,
		Status:         StatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(tenantID, entry); err != nil {
		s.logger.Error("failed to create entry", "error", err, "contractor_id", actor.ID)
		return nil, err
	}

	s.logger.Info("entry created",
		"entry_id", entry.ID,
		"contractor_id", actor.ID,
		"date", dto.Date,
		"hours", dto.Hours)

	return entry, nil
}

func (s *Service) editEntry(tenantID int64, actor Actor, dto UpsertEntryDTO) (*Entry, error) {
	entry, err := s.loadOwnedEntry(tenantID, actor.ID, dto.ID)
	if err != nil {
		return nil, err
	}

	edit := EntryEdit{
		Hours:       &dto.Hours,
		Description: &dto.Description,
	}
	if dto.ProjectID != entry.ProjectID {
		projectName, err := s.projects.ProjectName(tenantID, dto.ProjectID)
		if err != nil {
			s.logger.Error("project lookup failed", "error", err, "project_id", dto.ProjectID)
			return nil, err
		}
		edit.ProjectID = &dto.ProjectID
		edit.ProjectName = &projectName
	}
	switch {
	case dto.TaskID == nil && entry.TaskID != nil:
		edit.ClearTask = true
	case dto.TaskID != nil && (entry.TaskID == nil || *entry.TaskID != *dto.TaskID):
		name, err := s.projects.TaskName(tenantID, *dto.TaskID)
		if err != nil {
			s.logger.Error("task lookup failed", "error", err, "task_id", *dto.TaskID)
			return nil, err
		}
		edit.TaskID = dto.TaskID
		edit.TaskName = &name
	}

	wasReviewed := entry.Status != StatusDraft
	entry.ApplyEdit(edit)

	if err := s.repo.Update(tenantID, entry); err != nil {
		s.logger.Error("failed to update entry", "error", err, "entry_id", entry.ID)
		return nil, err
	}

	if wasReviewed {
		s.logger.Info("edit reset entry to draft", "entry_id", entry.ID, "contractor_id", actor.ID)
	}
	return entry, nil
}

// DeleteEntry removes one of the contractor's own entries.
func (s *Service) DeleteEntry(tenantID, contractorID, entryID int64) error {
	if _, err := s.loadOwnedEntry(tenantID, contractorID, entryID); err != nil {
		return err
	}
	if err := s.repo.Delete(tenantID, entryID); err != nil {
		s.logger.Error("failed to delete entry", "error", err, "entry_id", entryID)
		return err
	}
	s.logger.Info("entry deleted", "entry_id", entryID, "contractor_id", contractorID)
	return nil
}

// SubmitWeek moves the contractor's listed draft entries to Submitted.
// The batch is validated up front and refused whole if any entry is
// missing, foreign, or not a draft. Policy warnings pause the submit
// until the caller retries with Force set.
func (s *Service) SubmitWeek(tenantID int64, actor Actor, dto SubmitWeekDTO) (*SubmitResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	entries, err := s.loadBatch(tenantID, dto.EntryIDs)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.ContractorID != actor.ID {
			s.logger.Warn("submit denied: entry belongs to another contractor",
				"entry_id", e.ID, "contractor_id", actor.ID)
			return nil, internal.ErrUnauthorizedAccess
		}
		if !e.CanBeSubmitted() {
			s.logger.Warn("cannot submit entry in current status",
				"entry_id", e.ID, "current_status", e.Status)
			return nil, internal.ErrInvalidEntryStatus
		}
	}

	if !dto.Force {
		weekStart := timeutil.WeekStart(entries[0].EntryDate)
		weekEntries, err := s.repo.GetForContractorRange(tenantID, actor.ID, weekStart, weekStart.AddDate(0, 0, 7))
		if err != nil {
			s.logger.Error("failed to load week for policy check", "error", err, "contractor_id", actor.ID)
			return nil, err
		}
		if warnings := CheckWeekPolicies(BuildSheet(weekStart, weekEntries, nil)); len(warnings) > 0 {
			s.logger.Info("submission paused by policy warnings",
				"contractor_id", actor.ID,
				"warning_count", len(warnings))
			return &SubmitResult{Submitted: false, Warnings: warnings}, nil
		}
	}

	for _, e := range entries {
		if err := e.Submit(); err != nil {
			return nil, err
		}
		if err := s.repo.Update(tenantID, e); err != nil {
			s.logger.Error("failed to persist submitted entry", "error", err, "entry_id", e.ID)
			return nil, err
		}
	}

	s.logger.Info("week submitted",
		"tenant_id", tenantID,
		"contractor_id", actor.ID,
		"entry_count", len(entries))

	weekStart := timeutil.DateKey(timeutil.WeekStart(entries[0].EntryDate))
	s.eventBus.Publish(context.Background(), events.NewWeekSubmittedEvent(tenantID, actor.ID, actor.Name, weekStart, dto.EntryIDs))

	return &SubmitResult{Submitted: true}, nil
}

// ApproveWeek approves every listed entry as one batch sharing a single
// review timestamp. Entries already approved pass through untouched;
// anything not submitted refuses the whole batch.
func (s *Service) ApproveWeek(tenantID int64, reviewer Actor, dto ApproveWeekDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	entries, err := s.loadBatch(tenantID, dto.EntryIDs)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Status != StatusApproved && !e.CanBeReviewed() {
			s.logger.Warn("cannot approve entry in current status",
				"entry_id", e.ID, "current_status", e.Status)
			return internal.ErrInvalidEntryStatus
		}
	}

	reviewedAt := time.Now()
	for _, e := range entries {
		if e.Status == StatusApproved {
			continue
		}
		if err := e.Approve(reviewer.ID, dto.Comment, reviewedAt); err != nil {
			return err
		}
		if err := s.repo.Update(tenantID, e); err != nil {
			s.logger.Error("failed to persist approved entry", "error", err, "entry_id", e.ID)
			return err
		}
	}

	s.logger.Info("week approved",
		"tenant_id", tenantID,
		"reviewer_id", reviewer.ID,
		"entry_count", len(entries))

	contractor := entries[0]
	weekStart := timeutil.DateKey(timeutil.WeekStart(contractor.EntryDate))
	s.eventBus.Publish(context.Background(), events.NewWeekApprovedEvent(
		tenantID, contractor.ContractorID, contractor.ContractorName, reviewer.ID, weekStart, dto.EntryIDs))

	return nil
}

// RejectWeek rejects the listed entries with a shared reason. The reason
// is mandatory; rejection without an explanation is not allowed.
func (s *Service) RejectWeek(tenantID int64, reviewer Actor, dto RejectWeekDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	entries, err := s.loadBatch(tenantID, dto.EntryIDs)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Status != StatusRejected && !e.CanBeReviewed() {
			s.logger.Warn("cannot reject entry in current status",
				"entry_id", e.ID, "current_status", e.Status)
			return internal.ErrInvalidEntryStatus
		}
	}

	reviewedAt := time.Now()
	for _, e := range entries {
		if e.Status == StatusRejected {
			continue
		}
		if err := e.Reject(reviewer.ID, dto.Reason, reviewedAt); err != nil {
			return err
		}
		if err := s.repo.Update(tenantID, e); err != nil {
			s.logger.Error("failed to persist rejected entry", "error", err, "entry_id", e.ID)
			return err
		}
	}

	s.logger.Info("week rejected",
		"tenant_id", tenantID,
		"reviewer_id", reviewer.ID,
		"entry_count", len(entries),
		"reason", dto.Reason)

	contractor := entries[0]
	weekStart := timeutil.DateKey(timeutil.WeekStart(contractor.EntryDate))
	s.eventBus.Publish(context.Background(), events.NewWeekRejectedEvent(
		tenantID, contractor.ContractorID, contractor.ContractorName, reviewer.ID, weekStart, dto.Reason, dto.EntryIDs))

	return nil
}

// RevertWeek moves reviewed entries back to Submitted so a manager can
// undo a hasty decision. Review metadata is cleared.
func (s *Service) RevertWeek(tenantID int64, reviewer Actor, dto RevertWeekDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	entries, err := s.loadBatch(tenantID, dto.EntryIDs)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Status != StatusSubmitted && !e.CanBeReverted() {
			s.logger.Warn("cannot revert entry in current status",
				"entry_id", e.ID, "current_status", e.Status)
			return internal.ErrInvalidEntryStatus
		}
	}

	for _, e := range entries {
		if e.Status == StatusSubmitted {
			continue
		}
		if err := e.Revert(); err != nil {
			return err
		}
		if err := s.repo.Update(tenantID, e); err != nil {
			s.logger.Error("failed to persist reverted entry", "error", err, "entry_id", e.ID)
			return err
		}
	}

	s.logger.Info("week reverted to pending",
		"tenant_id", tenantID,
		"reviewer_id", reviewer.ID,
		"entry_count", len(entries))

	return nil
}

// UpdateComment rewrites the review note on already-reviewed entries
// without changing their status.
func (s *Service) UpdateComment(tenantID int64, reviewer Actor, dto UpdateCommentDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	entries, err := s.loadBatch(tenantID, dto.EntryIDs)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsReviewed() {
			s.logger.Warn("cannot edit comment on unreviewed entry",
				"entry_id", e.ID, "current_status", e.Status)
			return internal.ErrInvalidEntryStatus
		}
	}

	for _, e := range entries {
		if err := e.SetComment(dto.Comment); err != nil {
			return err
		}
		if err := s.repo.Update(tenantID, e); err != nil {
			s.logger.Error("failed to persist comment", "error", err, "entry_id", e.ID)
			return err
		}
	}

	s.logger.Info("review comment updated",
		"tenant_id", tenantID,
		"reviewer_id", reviewer.ID,
		"entry_count", len(entries))

	return nil
}

// Summaries returns the manager review queue: every non-draft entry in
// the tenant grouped by contractor and week.
func (s *Service) Summaries(tenantID int64) ([]*Summary, error) {
	entries, err := s.repo.GetNonDraftByTenant(tenantID)
	if err != nil {
		s.logger.Error("failed to load tenant entries", "error", err, "tenant_id", tenantID)
		return nil, err
	}
	return BuildSummaries(entries), nil
}

// ContractorSheet is the manager's read-only view of one contractor's week.
func (s *Service) ContractorSheet(tenantID, contractorID int64, week time.Time) (*Sheet, error) {
	return s.WeekSheet(tenantID, contractorID, week, nil)
}

func (s *Service) loadOwnedEntry(tenantID, contractorID, entryID int64) (*Entry, error) {
	entry, err := s.repo.GetByID(tenantID, entryID)
	if err != nil {
		s.logger.Error("entry not found", "error", err, "entry_id", entryID)
		return nil, internal.ErrEntryNotFound
	}
	if entry.TenantID != tenantID {
		s.logger.Warn("tenant mismatch on entry access", "entry_id", entryID, "tenant_id", tenantID)
		return nil, internal.ErrTenantMismatch
	}
	if entry.ContractorID != contractorID {
		s.logger.Warn("entry belongs to another contractor", "entry_id", entryID, "contractor_id", contractorID)
		return nil, internal.ErrUnauthorizedAccess
	}
	return entry, nil
}

func (s *Service) loadBatch(tenantID int64, ids []int64) ([]*Entry, error) {
	entries, err := s.repo.GetByIDs(tenantID, ids)
	if err != nil {
		s.logger.Error("failed to load entry batch", "error", err, "tenant_id", tenantID)
		return nil, err
	}
	if len(entries) != len(ids) {
		s.logger.Warn("entry batch incomplete",
			"tenant_id", tenantID,
			"requested", len(ids),
			"found", len(entries))
		return nil, internal.ErrEntryNotFound
	}
	for _, e := range entries {
		if e.TenantID != tenantID {
			return nil, internal.ErrTenantMismatch
		}
	}
	return entries, nil
}
