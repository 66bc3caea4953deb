package project

import (
	"time"

	projectDatamodel "github.com/LeoXLiu-DS/timesheet-logging/internal/core/datamodel/project"
)

// Project is a billable engagement contractors log hours against.
type Project struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Task is an optional sub-division of a project.
type Task struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	ProjectID int64     `json:"project_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func ProjectFromDataModel(m *projectDatamodel.Project) *Project {
	return &Project{
		ID:        m.ID,
		TenantID:  m.TenantID,
		Name:      m.Name,
		Code:      m.Code,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}

func ProjectToDataModel(p *Project) *projectDatamodel.Project {
	return &projectDatamodel.Project{
		ID:        p.ID,
		TenantID:  p.TenantID,
		Name:      p.Name,
		Code:      p.Code,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
	}
}

func TaskFromDataModel(m *projectDatamodel.Task) *Task {
	return &Task{
		ID:        m.ID,
		TenantID:  m.TenantID,
		ProjectID: m.ProjectID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
}

func TaskToDataModel(t *Task) *projectDatamodel.Task {
	return &projectDatamodel.Task{
		ID:        t.ID,
		TenantID:  t.TenantID,
		ProjectID: t.ProjectID,
		Name:      t.Name,
		CreatedAt: t.CreatedAt,
	}
}
