package timesheet

import (
	"fmt"
	"sort"
	"time"

	"github.com/LeoXLiu-DS/timesheet-logging/pkg/timeutil"
)

const (
	SheetStatusEmpty    = "EMPTY"
	SheetStatusDraft    = "DRAFT"
	SheetStatusPending  = "PENDING"
	SheetStatusApproved = "APPROVED"
	SheetStatusRejected = "REJECTED"
)

// noTaskKey groups entries whose task was deleted or never set.
const noTaskKey = "unknown"

// DraftRow is a row the contractor added to the grid but has not logged
// hours on yet. It survives a reload only through the client resending it.
type DraftRow struct {
	ProjectID   int64  `json:"project_id"`
	ProjectName string `json:"project_name"`
	TaskID      *int64 `json:"task_id,omitempty"`
	TaskName    string `json:"task_name,omitempty"`
}

// Row is one (project, task) line of the weekly grid. Cells maps the
// day key (YYYY-MM-DD) to the persisted entry for that day, at most one
// per day.
type Row struct {
	Key         string            `json:"key"`
	ProjectID   int64             `json:"project_id"`
	ProjectName string            `json:"project_name"`
	TaskID      *int64            `json:"task_id,omitempty"`
	TaskName    string            `json:"task_name"`
	Description string            `json:"description"`
	Cells       map[string]*Entry `json:"cells"`
	Total       float64           `json:"total"`
}

type Sheet struct {
	WeekStart      time.Time          `json:"week_start"`
	Days           []string           `json:"days"`
	Rows           []*Row             `json:"rows"`
	DayTotals      map[string]float64 `json:"day_totals"`
	WeekTotal      float64            `json:"week_total"`
	Status         string             `json:"status"`
	SubmittableIDs []int64            `json:"submittable_ids"`
	EntryIDs       []int64            `json:"entry_ids"`
}

func rowKey(projectID int64, taskID *int64) string {
	taskKey := noTaskKey
	if taskID != nil {
		taskKey = fmt.Sprintf("%d", *taskID)
	}
	return fmt.Sprintf("%d|%s", projectID, taskKey)
}

// BuildSheet folds a contractor's entries for one week into the grid
// structure the weekly view renders. Entries outside the week are ignored.
// Rows appear in first-encountered order, so the caller should pass
// entries in a stable order. Draft rows the client is holding are unioned
// in after persisted rows; a draft row whose slot already has entries is
// dropped rather than duplicated.
func BuildSheet(weekStart time.Time, entries []*Entry, draftRows []DraftRow) *Sheet {
	weekStart = timeutil.WeekStart(weekStart)
	days := timeutil.WeekDays(weekStart)
	weekEnd := days[len(days)-1]

	sheet := &Sheet{
		WeekStart: weekStart,
		Days:      make([]string, len(days)),
		DayTotals: make(map[string]float64, len(days)),
	}
	for i, d := range days {
		key := timeutil.DateKey(d)
		sheet.Days[i] = key
		sheet.DayTotals[key] = 0
	}

	rowsByKey := make(map[string]*Row)
	for _, e := range entries {
		if e.EntryDate.Before(weekStart) || e.EntryDate.After(weekEnd.Add(24*time.Hour-time.Nanosecond)) {
			continue
		}
		key := rowKey(e.ProjectID, e.TaskID)
		row, ok := rowsByKey[key]
		if !ok {
			taskName := ""
			if e.TaskName != nil {
				taskName = *e.TaskName
			}
			row = &Row{
				Key:         key,
				ProjectID:   e.ProjectID,
				ProjectName: e.ProjectName,
				TaskID:      e.TaskID,
				TaskName:    taskName,
				Cells:       make(map[string]*Entry, len(days)),
			}
			rowsByKey[key] = row
			sheet.Rows = append(sheet.Rows, row)
		}

		dayKey := timeutil.DateKey(e.EntryDate)
		row.Cells[dayKey] = e
		row.Total += e.Hours
		if row.Description == "" && e.Description != "" {
			row.Description = e.Description
		}
		sheet.DayTotals[dayKey] += e.Hours
		sheet.WeekTotal += e.Hours
		sheet.EntryIDs = append(sheet.EntryIDs, e.ID)
		if e.CanBeSubmitted() {
			sheet.SubmittableIDs = append(sheet.SubmittableIDs, e.ID)
		}
	}

	for _, dr := range draftRows {
		key := rowKey(dr.ProjectID, dr.TaskID)
		if _, exists := rowsByKey[key]; exists {
			continue
		}
		row := &Row{
			Key:         key,
			ProjectID:   dr.ProjectID,
			ProjectName: dr.ProjectName,
			TaskID:      dr.TaskID,
			TaskName:    dr.TaskName,
			Cells:       make(map[string]*Entry, len(days)),
		}
		rowsByKey[key] = row
		sheet.Rows = append(sheet.Rows, row)
	}

	sheet.Status = sheetStatus(entries, weekStart, weekEnd)
	return sheet
}

// sheetStatus derives the week's banner status. Rejected outranks
// Submitted here so a partial rejection keeps the red banner until the
// contractor resubmits.
func sheetStatus(entries []*Entry, weekStart, weekEnd time.Time) string {
	var inWeek []*Entry
	for _, e := range entries {
		if e.EntryDate.Before(weekStart) || e.EntryDate.After(weekEnd.Add(24*time.Hour-time.Nanosecond)) {
			continue
		}
		inWeek = append(inWeek, e)
	}
	if len(inWeek) == 0 {
		return SheetStatusEmpty
	}
	hasSubmitted := false
	allApproved := true
	for _, e := range inWeek {
		switch e.Status {
		case StatusRejected:
			return SheetStatusRejected
		case StatusSubmitted:
			hasSubmitted = true
			allApproved = false
		case StatusDraft:
			allApproved = false
		}
	}
	if hasSubmitted {
		return SheetStatusPending
	}
	if allApproved {
		return SheetStatusApproved
	}
	return SheetStatusDraft
}

// Summary is one contractor-week line on the manager's review list.
type Summary struct {
	ContractorID   int64   `json:"contractor_id"`
	ContractorName string  `json:"contractor_name"`
	WeekStart      string  `json:"week_start"`
	TotalHours     float64 `json:"total_hours"`
	EntryCount     int     `json:"entry_count"`
	Status         string  `json:"status"`
	EntryIDs       []int64 `json:"entry_ids"`
}

// BuildSummaries groups every non-draft entry in a tenant by
// (contractor, week) for the manager queue. Draft entries are invisible
// to managers. Unlike the weekly grid, a week with anything still
// Submitted reads PENDING even when other entries were rejected; the
// manager list surfaces work awaiting action first.
func BuildSummaries(entries []*Entry) []*Summary {
	type groupKey struct {
		contractorID int64
		weekStart    string
	}
	byGroup := make(map[groupKey]*Summary)
	var order []groupKey

	for _, e := range entries {
		if e.Status == StatusDraft {
			continue
		}
		key := groupKey{e.ContractorID, timeutil.DateKey(timeutil.WeekStart(e.EntryDate))}
		summary, ok := byGroup[key]
		if !ok {
			summary = &Summary{
				ContractorID:   e.ContractorID,
				ContractorName: e.ContractorName,
				WeekStart:      key.weekStart,
			}
			byGroup[key] = summary
			order = append(order, key)
		}
		summary.TotalHours += e.Hours
		summary.EntryCount++
		summary.EntryIDs = append(summary.EntryIDs, e.ID)
	}

	result := make([]*Summary, 0, len(order))
	for _, key := range order {
		summary := byGroup[key]
		summary.Status = summaryStatus(summary, entries)
		result = append(result, summary)
	}

	// newest weeks first, stable by contractor within a week
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].WeekStart != result[j].WeekStart {
			return result[i].WeekStart > result[j].WeekStart
		}
		return result[i].ContractorID < result[j].ContractorID
	})
	return result
}

func summaryStatus(s *Summary, entries []*Entry) string {
	ids := make(map[int64]bool, len(s.EntryIDs))
	for _, id := range s.EntryIDs {
		ids[id] = true
	}
	hasRejected := false
	for _, e := range entries {
		if !ids[e.ID] {
			continue
		}
		switch e.Status {
		case StatusSubmitted:
			return SheetStatusPending
		case StatusRejected:
			hasRejected = true
		}
	}
	if hasRejected {
		return SheetStatusRejected
	}
	return SheetStatusApproved
}
