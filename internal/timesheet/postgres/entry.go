package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/LeoXLiu-DS/timesheet-logging/internal"
	entryDatamodel "github.com/LeoXLiu-DS/timesheet-logging/internal/core/datamodel/timeentry"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/timesheet"
)

// EntryRepository implements the timesheet.Repository interface using GORM.
// Every query carries a tenant_id predicate; writes re-check the row's
// tenant before touching it so a cross-tenant id can never mutate data.
type EntryRepository struct {
	db *gorm.DB
}

// NewEntryRepository returns the concrete type so callers can bind it to
// the narrower repository interfaces each package declares.
func NewEntryRepository(db *gorm.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

func (r *EntryRepository) Create(tenantID int64, entry *timesheet.Entry) error {
	if entry.TenantID != tenantID {
		return internal.ErrTenantMismatch
	}
	model := timesheet.ToDataModel(entry)
	if err := r.db.Create(model).Error; err != nil {
		return err
	}
	entry.ID = model.ID
	return nil
}

func (r *EntryRepository) Update(tenantID int64, entry *timesheet.Entry) error {
	if entry.TenantID != tenantID {
		return internal.ErrTenantMismatch
	}

	var existing entryDatamodel.TimeEntry
	err := r.db.Where("id = ?", entry.ID).First(&existing).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return internal.ErrEntryNotFound
		}
		return err
	}
	if existing.TenantID != tenantID {
		return internal.ErrTenantMismatch
	}

	entry.UpdatedAt = time.Now()
	return r.db.Save(timesheet.ToDataModel(entry)).Error
}

func (r *EntryRepository) Delete(tenantID, id int64) error {
	result := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).Delete(&entryDatamodel.TimeEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrEntryNotFound
	}
	return nil
}

func (r *EntryRepository) GetByID(tenantID, id int64) (*timesheet.Entry, error) {
	var model entryDatamodel.TimeEntry
	err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrEntryNotFound
		}
		return nil, err
	}
	return timesheet.FromDataModel(&model), nil
}

func (r *EntryRepository) GetByIDs(tenantID int64, ids []int64) ([]*timesheet.Entry, error) {
	var models []*entryDatamodel.TimeEntry
	err := r.db.Where("id IN ? AND tenant_id = ?", ids, tenantID).
		Order("entry_date ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return timesheet.FromDataModelSlice(models), nil
}

// GetForContractorRange returns the contractor's entries with
// from <= entry_date < to, ordered for stable grid row placement.
func (r *EntryRepository) GetForContractorRange(tenantID, contractorID int64, from, to time.Time) ([]*timesheet.Entry, error) {
	var models []*entryDatamodel.TimeEntry
	err := r.db.Where("tenant_id = ? AND contractor_id = ? AND entry_date >= ? AND entry_date < ?",
		tenantID, contractorID, from, to).
		Order("entry_date ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return timesheet.FromDataModelSlice(models), nil
}

// GetBySlot finds the entry occupying one grid cell. Returns nil without
// error when the slot is empty.
func (r *EntryRepository) GetBySlot(tenantID, contractorID, projectID int64, taskID *int64, date time.Time) (*timesheet.Entry, error) {
	query := r.db.Where("tenant_id = ? AND contractor_id = ? AND project_id = ? AND entry_date = ?",
		tenantID, contractorID, projectID, date)
	if taskID != nil {
		query = query.Where("task_id = ?", *taskID)
	} else {
		query = query.Where("task_id IS NULL")
	}

	var model entryDatamodel.TimeEntry
	err := query.First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return timesheet.FromDataModel(&model), nil
}

func (r *EntryRepository) GetNonDraftByTenant(tenantID int64) ([]*timesheet.Entry, error) {
	var models []*entryDatamodel.TimeEntry
	err := r.db.Where("tenant_id = ? AND status <> ?", tenantID, timesheet.StatusDraft).
		Order("entry_date ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return timesheet.FromDataModelSlice(models), nil
}

// GetApprovedInRange returns approved entries for the whole tenant with
// entry_date inside [from, to], endpoints included.
func (r *EntryRepository) GetApprovedInRange(tenantID int64, from, to time.Time) ([]*timesheet.Entry, error) {
	var models []*entryDatamodel.TimeEntry
	err := r.db.Where("tenant_id = ? AND status = ? AND entry_date >= ? AND entry_date <= ?",
		tenantID, timesheet.StatusApproved, from, to).
		Order("entry_date ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return timesheet.FromDataModelSlice(models), nil
}
