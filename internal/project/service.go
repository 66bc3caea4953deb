package project

import (
	"log/slog"

	"github.com/LeoXLiu-DS/timesheet-logging/internal"
	projectDatamodel "github.com/LeoXLiu-DS/timesheet-logging/internal/core/datamodel/project"
)

type RepositoryAPI interface {
	GetAllByTenant(tenantID int64) ([]*projectDatamodel.Project, error)
	GetTasksByTenant(tenantID int64) ([]*projectDatamodel.Task, error)
	GetTasksByProject(tenantID, projectID int64) ([]*projectDatamodel.Task, error)
	GetProjectByID(tenantID, id int64) (*projectDatamodel.Project, error)
	GetTaskByID(tenantID, id int64) (*projectDatamodel.Task, error)
	CreateProject(p *projectDatamodel.Project) error
	CreateTask(t *projectDatamodel.Task) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetCatalog returns the tenant's active projects with their tasks
// nested, the shape the grid's row pickers consume.
func (s *Service) GetCatalog(tenantID int64) ([]ProjectResponse, error) {
	dataProjects, err := s.repo.GetAllByTenant(tenantID)
	if err != nil {
		s.logger.Error("failed to get projects from repository", "error", err, "tenant_id", tenantID)
		return nil, err
	}

	dataTasks, err := s.repo.GetTasksByTenant(tenantID)
	if err != nil {
		s.logger.Error("failed to get tasks from repository", "error", err, "tenant_id", tenantID)
		return nil, err
	}

	tasksByProject := make(map[int64][]TaskResponse)
	for _, t := range dataTasks {
		tasksByProject[t.ProjectID] = append(tasksByProject[t.ProjectID], TaskResponse{
			ID:   t.ID,
			Name: t.Name,
		})
	}

	var responses []ProjectResponse
	for _, p := range dataProjects {
		domainProject := ProjectFromDataModel(p)
		if !domainProject.IsActive {
			continue
		}
		tasks := tasksByProject[p.ID]
		if tasks == nil {
			tasks = []TaskResponse{}
		}
		responses = append(responses, ProjectResponse{
			ID:    p.ID,
			Name:  p.Name,
			Code:  p.Code,
			Tasks: tasks,
		})
	}

	s.logger.Info("retrieved project catalog", "tenant_id", tenantID, "count", len(responses))
	return responses, nil
}

// ProjectTasks returns the tasks of one active project.
func (s *Service) ProjectTasks(tenantID, projectID int64) ([]TaskResponse, error) {
	p, err := s.repo.GetProjectByID(tenantID, projectID)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsActive {
		return nil, internal.NewNotFoundError("project not found", internal.ErrCodeInvalidProject)
	}

	dataTasks, err := s.repo.GetTasksByProject(tenantID, projectID)
	if err != nil {
		s.logger.Error("failed to get project tasks", "error", err, "tenant_id", tenantID, "project_id", projectID)
		return nil, err
	}

	tasks := make([]TaskResponse, 0, len(dataTasks))
	for _, t := range dataTasks {
		tasks = append(tasks, TaskResponse{ID: t.ID, Name: t.Name})
	}
	return tasks, nil
}

// ProjectName resolves a project's display name for entry snapshots.
func (s *Service) ProjectName(tenantID, projectID int64) (string, error) {
	p, err := s.repo.GetProjectByID(tenantID, projectID)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", internal.NewNotFoundError("project not found", internal.ErrCodeInvalidProject)
	}
	return p.Name, nil
}

// TaskName resolves a task's display name for entry snapshots.
func (s *Service) TaskName(tenantID, taskID int64) (string, error) {
	t, err := s.repo.GetTaskByID(tenantID, taskID)
	if err != nil {
		return "", err
	}
	if t == nil {
		return "", internal.NewNotFoundError("task not found", internal.ErrCodeInvalidProject)
	}
	return t.Name, nil
}
