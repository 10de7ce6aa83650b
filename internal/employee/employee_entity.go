package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID                int64           `gorm:"primaryKey"`
	EmployeeNumber    string          `gorm:"size:20;not null;uniqueIndex:uq_employee_number"`
	FirstName         string          `gorm:"size:100;not null"`
	LastName          string          `gorm:"size:100;not null"`
	Email             string          `gorm:"size:255;not null;uniqueIndex:uq_employee_email"`
	Phone             string          `gorm:"size:32"`
	Role              string          `gorm:"size:100"`
	BaseMonthlySalary decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DepartmentID      *int64          `gorm:"index"`
	HireDate          time.Time       `gorm:"type:date"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
