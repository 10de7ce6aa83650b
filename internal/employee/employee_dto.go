package employee

import "github.com/shopspring/decimal"

type CreateEmployeeRequest struct {
	FirstName         string          `json:"first_name" binding:"required"`
	LastName          string          `json:"last_name" binding:"required"`
	Email             string          `json:"email" binding:"required,email"`
	Phone             string          `json:"phone"`
	Role              string          `json:"role"`
	BaseMonthlySalary decimal.Decimal `json:"base_monthly_salary" binding:"required"`
	DepartmentID      *int64          `json:"department_id"`
	HireDate          string          `json:"hire_date" binding:"required"`
}

type UpdateEmployeeRequest struct {
	FirstName         string          `json:"first_name" binding:"required"`
	LastName          string          `json:"last_name" binding:"required"`
	Email             string          `json:"email" binding:"required,email"`
	Phone             string          `json:"phone"`
	Role              string          `json:"role"`
	BaseMonthlySalary decimal.Decimal `json:"base_monthly_salary" binding:"required"`
	DepartmentID      *int64          `json:"department_id"`
}

type EmployeeResponse struct {
	ID                int64  `json:"id"`
	EmployeeNumber    string `json:"employee_number"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	Email             string `json:"email"`
	Phone             string `json:"phone,omitempty"`
	Role              string `json:"role,omitempty"`
	BaseMonthlySalary string `json:"base_monthly_salary"`
	DepartmentID      *int64 `json:"department_id"`
	DepartmentName    string `json:"department_name"`
	HireDate          string `json:"hire_date"`
}

// ConsistencyRow is one employee's entry in the department audit report.
type ConsistencyRow struct {
	EmployeeID     int64  `json:"employee_id"`
	EmployeeName   string `json:"employee_name"`
	DepartmentID   *int64 `json:"department_id"`
	Issue          string `json:"issue,omitempty"`
	DepartmentName string `json:"department_name"`
}

type ConsistencyReport struct {
	Rows    []ConsistencyRow `json:"rows"`
	Totals  map[string]int   `json:"totals"`
	Checked int              `json:"checked"`
}
