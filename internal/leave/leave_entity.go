package leave

import (
	"time"

	"gorm.io/gorm"
)

type Leave struct {
	ID         int64 `gorm:"primaryKey"`
	EmployeeID int64 `gorm:"not null;index:idx_leaves_employee_dates"`

	LeaveType string    `gorm:"size:30;not null;default:'ANNUAL'"`
	StartDate time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	TotalDays int       `gorm:"not null;default:1"`
	Reason    string    `gorm:"type:text"`

	Status          string  `gorm:"size:20;not null;default:'PENDING';index:idx_leaves_status"`
	ApprovedBy      *int64
	RejectionReason *string `gorm:"type:text"`

	CreatedAt  time.Time
	UpdatedAt  time.Time
	ApprovedAt *time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index:idx_leaves_deleted_at"`
}
