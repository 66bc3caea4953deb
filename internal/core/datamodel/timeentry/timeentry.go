package timeentry

import "time"

type TimeEntry struct {
	ID              int64      `gorm:"primaryKey"`
	TenantID        int64      `gorm:"column:tenant_id;not null;index"`
	ContractorID    int64      `gorm:"column:contractor_id;not null;index"`
	ContractorName  string     `gorm:"column:contractor_name;not null"`
	ProjectID       int64      `gorm:"column:project_id;not null"`
	ProjectName     string     `gorm:"column:project_name;not null"`
	TaskID          *int64     `gorm:"column:task_id"`
	TaskName        *string    `gorm:"column:task_name"`
	EntryDate       time.Time  `gorm:"column:entry_date;type:date;not null"`
	Hours           float64    `gorm:"column:hours;not null"`
	Description     string     `gorm:"column:description"`
	Status          string     `gorm:"column:status;default:Draft"`
	RejectionReason *string    `gorm:"column:rejection_reason"`
	ManagerComment  *string    `gorm:"column:manager_comment"`
	ReviewedBy      *int64     `gorm:"column:reviewed_by"`
	ReviewedAt      *time.Time `gorm:"column:reviewed_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (TimeEntry) TableName() string {
	return "time_entries"
}
