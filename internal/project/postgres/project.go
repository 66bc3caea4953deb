package postgres

import (
	"gorm.io/gorm"

	projectDatamodel "github.com/LeoXLiu-DS/timesheet-logging/internal/core/datamodel/project"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/project"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) project.RepositoryAPI {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) GetAllByTenant(tenantID int64) ([]*projectDatamodel.Project, error) {
	var projects []*projectDatamodel.Project
	err := r.db.Where("tenant_id = ?", tenantID).Order("name ASC").Find(&projects).Error
	return projects, err
}

func (r *ProjectRepository) GetTasksByTenant(tenantID int64) ([]*projectDatamodel.Task, error) {
	var tasks []*projectDatamodel.Task
	err := r.db.Where("tenant_id = ?", tenantID).Order("project_id ASC, name ASC").Find(&tasks).Error
	return tasks, err
}

func (r *ProjectRepository) GetTasksByProject(tenantID, projectID int64) ([]*projectDatamodel.Task, error) {
	var tasks []*projectDatamodel.Task
	err := r.db.Where("tenant_id = ? AND project_id = ?", tenantID, projectID).Order("name ASC").Find(&tasks).Error
	return tasks, err
}

func (r *ProjectRepository) GetProjectByID(tenantID, id int64) (*projectDatamodel.Project, error) {
	var p projectDatamodel.Project
	err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) GetTaskByID(tenantID, id int64) (*projectDatamodel.Task, error) {
	var t projectDatamodel.Task
	err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&t).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *ProjectRepository) CreateProject(p *projectDatamodel.Project) error {
	return r.db.Create(p).Error
}

func (r *ProjectRepository) CreateTask(t *projectDatamodel.Task) error {
	return r.db.Create(t).Error
}
