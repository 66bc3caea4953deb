package postgres

import (
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"github.com/LeoXLiu-DS/timesheet-logging/internal/auth"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetPasswordForEmail(email string) (string, string, error) {
	var passwordHash string
	var userID string
	query := `SELECT id, password_hash FROM users WHERE email = ? AND is_active = true`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&userID, &passwordHash); err != nil {
		if err == sql.ErrNoRows {
			return "", "", fmt.Errorf("user not found")
		}
		return "", "", err
	}
	return passwordHash, userID, nil
}

func (r *Repository) GetUser(userID int64) (*auth.User, error) {
	var user auth.User
	query := `SELECT id, tenant_id, email, name, role FROM users WHERE id = ? AND is_active = true`

	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&user.ID, &user.TenantID, &user.Email, &user.Name, &user.Role); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetTenantIDByDomain(domain string) (int64, error) {
	var tenantID int64
	query := `SELECT id FROM tenants WHERE domain = ? AND is_active = true`

	row := r.db.Raw(query, domain).Row()
	if err := row.Scan(&tenantID); err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("tenant not found for domain %s", domain)
		}
		return 0, err
	}
	return tenantID, nil
}
