package timesheet

import (
	"time"

	"github.com/LeoXLiu-DS/timesheet-logging/internal"
	entryDatamodel "github.com/LeoXLiu-DS/timesheet-logging/internal/core/datamodel/timeentry"
)

const (
	StatusDraft     = "Draft"
	StatusSubmitted = "Submitted"
	StatusApproved  = "Approved"
	StatusRejected  = "Rejected"
)

// Entry is one contractor's logged hours for a (project, task, date) slot.
// Contractor, project and task names are denormalized snapshots taken at
// write time; they are not refreshed when the referenced entity is renamed.
type Entry struct {
	ID              int64      `json:"id"`
	TenantID        int64      `json:"tenant_id"`
	ContractorID    int64      `json:"contractor_id"`
	ContractorName  string     `json:"contractor_name"`
	ProjectID       int64      `json:"project_id"`
	ProjectName     string     `json:"project_name"`
	TaskID          *int64     `json:"task_id,omitempty"`
	TaskName        *string    `json:"task_name,omitempty"`
	EntryDate       time.Time  `json:"entry_date"`
	Hours           float64    `json:"hours"`
	Description     string     `json:"description"`
	Status          string     `json:"status"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	ManagerComment  *string    `json:"manager_comment,omitempty"`
	ReviewedBy      *int64     `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (e *Entry) CanBeSubmitted() bool {
	return e.Status == StatusDraft
}

func (e *Entry) CanBeReviewed() bool {
	return e.Status == StatusSubmitted
}

func (e *Entry) CanBeReverted() bool {
	return e.Status == StatusApproved || e.Status == StatusRejected
}

func (e *Entry) IsReviewed() bool {
	return e.Status == StatusApproved || e.Status == StatusRejected
}

func (e *Entry) Submit() error {
	if !e.CanBeSubmitted() {
		return internal.ErrInvalidEntryStatus
	}
	e.Status = StatusSubmitted
	e.UpdatedAt = time.Now()
	return nil
}

// Approve moves a submitted entry to Approved and stamps the review metadata.
// The reviewedAt timestamp is passed in so a batch shares one instant.
func (e *Entry) Approve(reviewerID int64, comment string, reviewedAt time.Time) error {
	if !e.CanBeReviewed() {
		return internal.ErrInvalidEntryStatus
	}
	e.Status = StatusApproved
	e.ReviewedBy = &reviewerID
	e.ReviewedAt = &reviewedAt
	e.RejectionReason = nil
	if comment != "" {
		e.ManagerComment = &comment
	} else {
		e.ManagerComment = nil
	}
	e.UpdatedAt = reviewedAt
	return nil
}

func (e *Entry) Reject(reviewerID int64, reason string, reviewedAt time.Time) error {
	if reason == "" {
		return internal.ErrMissingReason
	}
	if !e.CanBeReviewed() {
		return internal.ErrInvalidEntryStatus
	}
	e.Status = StatusRejected
	e.ReviewedBy = &reviewerID
	e.ReviewedAt = &reviewedAt
	e.RejectionReason = &reason
	e.ManagerComment = nil
	e.UpdatedAt = reviewedAt
	return nil
}

// Revert puts a reviewed entry back into the manager's queue.
func (e *Entry) Revert() error {
	if !e.CanBeReverted() {
		return internal.ErrInvalidEntryStatus
	}
	e.Status = StatusSubmitted
	e.RejectionReason = nil
	e.ManagerComment = nil
	e.ReviewedBy = nil
	e.ReviewedAt = nil
	e.UpdatedAt = time.Now()
	return nil
}

// EntryEdit captures a content mutation. Nil fields are left untouched.
type EntryEdit struct {
	Hours       *float64
	Description *string
	ProjectID   *int64
	ProjectName *string
	TaskID      *int64
	TaskName    *string
	ClearTask   bool
}

func (c EntryEdit) touchesContent() bool {
	return c.Hours != nil || c.Description != nil || c.ProjectID != nil || c.TaskID != nil || c.ClearTask
}

// ApplyEdit mutates the entry's content fields. Editing anything on a
// non-Draft entry silently forces the status back to Draft and drops the
// prior review metadata; that downgrade is part of the state machine, not
// a side effect of the HTTP layer.
func (e *Entry) ApplyEdit(edit EntryEdit) {
	if edit.Hours != nil {
		e.Hours = *edit.Hours
	}
	if edit.Description != nil {
		e.Description = *edit.Description
	}
	if edit.ProjectID != nil {
		e.ProjectID = *edit.ProjectID
	}
	if edit.ProjectName != nil {
		e.ProjectName = *edit.ProjectName
	}
	if edit.ClearTask {
		e.TaskID = nil
		e.TaskName = nil
	} else if edit.TaskID != nil {
		e.TaskID = edit.TaskID
		e.TaskName = edit.TaskName
	}

	if edit.touchesContent() && e.Status != StatusDraft {
		e.Status = StatusDraft
		e.RejectionReason = nil
		e.ManagerComment = nil
		e.ReviewedBy = nil
		e.ReviewedAt = nil
	}
	e.UpdatedAt = time.Now()
}

// SetComment rewrites the review note on an already-reviewed entry without
// changing its status: the rejection reason for rejected entries, the
// manager comment otherwise.
func (e *Entry) SetComment(comment string) error {
	if !e.IsReviewed() {
		return internal.ErrInvalidEntryStatus
	}
	if e.Status == StatusRejected {
		e.RejectionReason = &comment
	} else {
		e.ManagerComment = &comment
	}
	e.UpdatedAt = time.Now()
	return nil
}

func ToDataModel(e *Entry) *entryDatamodel.TimeEntry {
	return &entryDatamodel.TimeEntry{
		ID:              e.ID,
		TenantID:        e.TenantID,
		ContractorID:    e.ContractorID,
		ContractorName:  e.ContractorName,
		ProjectID:       e.ProjectID,
		ProjectName:     e.ProjectName,
		TaskID:          e.TaskID,
		TaskName:        e.TaskName,
		EntryDate:       e.EntryDate,
		Hours:           e.Hours,
		Description:     e.Description,
		Status:          e.Status,
		RejectionReason: e.RejectionReason,
		ManagerComment:  e.ManagerComment,
		ReviewedBy:      e.ReviewedBy,
		ReviewedAt:      e.ReviewedAt,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func FromDataModel(m *entryDatamodel.TimeEntry) *Entry {
	return &Entry{
		ID:              m.ID,
		TenantID:        m.TenantID,
		ContractorID:    m.ContractorID,
		ContractorName:  m.ContractorName,
		ProjectID:       m.ProjectID,
		ProjectName:     m.ProjectName,
		TaskID:          m.TaskID,
		TaskName:        m.TaskName,
		EntryDate:       m.EntryDate,
		Hours:           m.Hours,
		Description:     m.Description,
		Status:          m.Status,
		RejectionReason: m.RejectionReason,
		ManagerComment:  m.ManagerComment,
		ReviewedBy:      m.ReviewedBy,
		ReviewedAt:      m.ReviewedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func FromDataModelSlice(models []*entryDatamodel.TimeEntry) []*Entry {
	result := make([]*Entry, len(models))
	for i, m := range models {
		result[i] = FromDataModel(m)
	}
	return result
}
