package postgres

import (
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	tenantDatamodel "github.com/LeoXLiu-DS/timesheet-logging/internal/core/datamodel/tenant"
	userDatamodel "github.com/LeoXLiu-DS/timesheet-logging/internal/core/datamodel/user"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(tenantID, userID int64) (*user.User, error) {
	var model userDatamodel.User
	err := r.db.Where("id = ? AND tenant_id = ? AND is_active = true", userID, tenantID).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	return user.FromDataModel(&model), nil
}

func (r *UserRepository) GetByEmail(email string) (*user.User, error) {
	var model userDatamodel.User
	err := r.db.Where("email = ?", email).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return user.FromDataModel(&model), nil
}

func (r *UserRepository) ListByTenant(tenantID int64) ([]*user.User, error) {
	var models []*userDatamodel.User
	err := r.db.Where("tenant_id = ? AND is_active = true", tenantID).
		Order("name ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	users := make([]*user.User, len(models))
	for i, m := range models {
		users[i] = user.FromDataModel(m)
	}
	return users, nil
}

func (r *UserRepository) Create(u *user.User) error {
	model := user.ToDataModel(u)
	if err := r.db.Create(model).Error; err != nil {
		return err
	}
	u.ID = model.ID
	return nil
}

func (r *UserRepository) UpdateRole(tenantID, userID int64, role string) error {
	result := r.db.Model(&userDatamodel.User{}).
		Where("id = ? AND tenant_id = ? AND is_active = true", userID, tenantID).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

func (r *UserRepository) GetTenantDomain(tenantID int64) (string, error) {
	var model tenantDatamodel.Tenant
	err := r.db.Where("id = ? AND is_active = true", tenantID).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", fmt.Errorf("tenant not found")
		}
		return "", err
	}
	return model.Domain, nil
}
