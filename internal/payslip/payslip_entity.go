package payslip

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payslip is one generated slip for an (employee, month, year) period. The
// unique index on that triple is what makes generation at-most-once: when
// two requests race, one insert loses with a uniqueness violation instead of
// silently creating a second row. Rows are immutable once written.
type Payslip struct {
	ID            int64  `gorm:"primaryKey"`
	PayslipNumber string `gorm:"size:20;not null;uniqueIndex:uq_payslip_number"`
	EmployeeID    int64  `gorm:"not null;uniqueIndex:uq_payslip_employee_period"`
	Month         int    `gorm:"not null;uniqueIndex:uq_payslip_employee_period;check:month >= 1 AND month <= 12"`
	Year          int    `gorm:"not null;uniqueIndex:uq_payslip_employee_period"`

	// Snapshot of the salary the breakdown was derived from. Later salary
	// changes never touch an already generated slip.
	BaseMonthlySalary decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	BasicPay           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	HRA                decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	MedicalAllowance   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TransportAllowance decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	OtherAllowances    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	GrossSalary        decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	PF              decimal.Decimal `gorm:"type:numeric(12,2);not null;column:pf"`
	ESI             decimal.Decimal `gorm:"type:numeric(12,2);not null;column:esi"`
	TaxDeductions   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	OtherDeductions decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TotalDeductions decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	NetSalary decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	GeneratedAt time.Time `gorm:"not null"`
	CreatedAt   time.Time
}

// PayslipEmployee is the slice of the employees table the payslip module
// reads. Kept local so the module owns its own projection.
type PayslipEmployee struct {
	ID                int64
	EmployeeNumber    string
	FirstName         string
	LastName          string
	BaseMonthlySalary decimal.Decimal `gorm:"type:numeric(12,2)"`
	DepartmentID      *int64
}

func (PayslipEmployee) TableName() string {
	return "employees"
}
