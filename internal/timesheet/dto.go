package timesheet

import (
	"strings"
	"time"

	"github.com/LeoXLiu-DS/timesheet-logging/internal"
	"github.com/LeoXLiu-DS/timesheet-logging/pkg/timeutil"
)

// UpsertEntryDTO is the single write shape for grid cells. With an ID it
// edits that entry; without one it targets the (project, task, date) slot,
// updating the existing entry there or creating a new draft.
type UpsertEntryDTO struct {
	ID          int64   `json:"id,omitempty"`
	ProjectID   int64   `json:"project_id"`
	TaskID      *int64  `json:"task_id,omitempty"`
	Date        string  `json:"date"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description"`
}

func (d *UpsertEntryDTO) Validate() error {
	var errs []internal.ValidationError

	if d.ProjectID <= 0 {
		errs = append(errs, internal.ValidationError{
			Field: "project_id", Message: "project is required", Code: string(internal.ErrCodeInvalidProject)})
	}
	if _, err := timeutil.ParseDateKey(d.Date); err != nil {
		errs = append(errs, internal.ValidationError{
			Field: "date", Message: "date must be in YYYY-MM-DD format", Code: string(internal.ErrCodeInvalidDate)})
	}
	if d.Hours < 0 {
		errs = append(errs, internal.ValidationError{
			Field: "hours", Message: "hours cannot be negative", Code: string(internal.ErrCodeInvalidHours)})
	}
	if d.Hours > 24 {
		errs = append(errs, internal.ValidationError{
			Field: "hours", Message: "hours cannot exceed 24 for a single day", Code: string(internal.ErrCodeInvalidHours)})
	}
	if len(d.Description) > 1000 {
		errs = append(errs, internal.ValidationError{
			Field: "description", Message: "description cannot exceed 1000 characters", Code: string(internal.ErrCodeValidationFailed)})
	}

	if len(errs) > 0 {
		return internal.NewValidationError("validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}

func (d *UpsertEntryDTO) EntryDate() time.Time {
	t, _ := timeutil.ParseDateKey(d.Date)
	return t
}

type SubmitWeekDTO struct {
	EntryIDs []int64 `json:"entry_ids"`
	Force    bool    `json:"force"`
}

func (d *SubmitWeekDTO) Validate() error {
	if len(d.EntryIDs) == 0 {
		return internal.ErrNothingToSubmit
	}
	return nil
}

type ApproveWeekDTO struct {
	EntryIDs []int64 `json:"entry_ids"`
	Comment  string  `json:"comment,omitempty"`
}

func (d *ApproveWeekDTO) Validate() error {
	if len(d.EntryIDs) == 0 {
		return internal.NewValidationFieldError("entry_ids", "at least one entry is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type RejectWeekDTO struct {
	EntryIDs []int64 `json:"entry_ids"`
	Reason   string  `json:"reason"`
}

func (d *RejectWeekDTO) Validate() error {
	if len(d.EntryIDs) == 0 {
		return internal.NewValidationFieldError("entry_ids", "at least one entry is required", internal.ErrCodeValidationFailed)
	}
	if strings.TrimSpace(d.Reason) == "" {
		return internal.ErrMissingReason
	}
	return nil
}

type RevertWeekDTO struct {
	EntryIDs []int64 `json:"entry_ids"`
}

func (d *RevertWeekDTO) Validate() error {
	if len(d.EntryIDs) == 0 {
		return internal.NewValidationFieldError("entry_ids", "at least one entry is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateCommentDTO struct {
	EntryIDs []int64 `json:"entry_ids"`
	Comment  string  `json:"comment"`
}

func (d *UpdateCommentDTO) Validate() error {
	if len(d.EntryIDs) == 0 {
		return internal.NewValidationFieldError("entry_ids", "at least one entry is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// SubmitResult reports either a completed submission or the policy
// warnings that paused it.
type SubmitResult struct {
	Submitted bool     `json:"submitted"`
	Warnings  []string `json:"warnings,omitempty"`
}
