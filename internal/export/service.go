package export

import (
	"log/slog"
	"time"

	"github.com/LeoXLiu-DS/timesheet-logging/internal/timesheet"
)

// Repository reads the approved entries to export. The range is
// inclusive on both ends.
type Repository interface {
	GetApprovedInRange(tenantID int64, from, to time.Time) ([]*timesheet.Entry, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Result bundles the rendered file with its attachment name.
type Result struct {
	Filename string
	Content  []byte
	Rows     int
}

// ExportApproved renders the tenant's approved entries inside
// [start, end] as payroll CSV. Draft, submitted and rejected entries
// never appear regardless of date.
func (s *Service) ExportApproved(tenantID int64, start, end time.Time) (*Result, error) {
	entries, err := s.repo.GetApprovedInRange(tenantID, start, end)
	if err != nil {
		s.logger.Error("failed to load approved entries", "error", err, "tenant_id", tenantID)
		return nil, err
	}

	s.logger.Info("exporting approved entries",
		"tenant_id", tenantID,
		"start", start.Format("2006-01-02"),
		"end", end.Format("2006-01-02"),
		"rows", len(entries))

	return &Result{
		Filename: Filename(start, end),
		Content:  BuildCSV(entries),
		Rows:     len(entries),
	}, nil
}
