package postgres

import (
	"strings"

	"gorm.io/gorm"

	tenantDatamodel "github.com/LeoXLiu-DS/timesheet-logging/internal/core/datamodel/tenant"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/tenant"
)

type TenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

func (r *TenantRepository) GetByID(id int64) (*tenant.Tenant, error) {
	var model tenantDatamodel.Tenant
	err := r.db.Where("id = ?", id).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return tenant.FromDataModel(&model), nil
}

func (r *TenantRepository) GetByDomain(domain string) (*tenant.Tenant, error) {
	var model tenantDatamodel.Tenant
	err := r.db.Where("domain = ? AND is_active = true", strings.ToLower(domain)).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return tenant.FromDataModel(&model), nil
}

func (r *TenantRepository) GetByName(name string) (*tenant.Tenant, error) {
	var model tenantDatamodel.Tenant
	err := r.db.Where("name = ?", name).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return tenant.FromDataModel(&model), nil
}

func (r *TenantRepository) Create(t *tenant.Tenant) error {
	model := tenant.ToDataModel(t)
	model.Domain = strings.ToLower(model.Domain)
	if err := r.db.Create(model).Error; err != nil {
		return err
	}
	t.ID = model.ID
	return nil
}
