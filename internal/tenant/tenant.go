package tenant

import (
	"time"

	tenantDatamodel "github.com/LeoXLiu-DS/timesheet-logging/internal/core/datamodel/tenant"
)

// Tenant is one customer organization. The email domain is the routing
// key: a login whose domain matches no active tenant is refused.
type Tenant struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func FromDataModel(m *tenantDatamodel.Tenant) *Tenant {
	return &Tenant{
		ID:        m.ID,
		Name:      m.Name,
		Domain:    m.Domain,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}

func ToDataModel(t *Tenant) *tenantDatamodel.Tenant {
	return &tenantDatamodel.Tenant{
		ID:        t.ID,
		Name:      t.Name,
		Domain:    t.Domain,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
	}
}
