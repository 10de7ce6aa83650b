package payslip

type GeneratePayslipRequest struct {
	EmployeeID int64 `json:"employee_id" binding:"required,gt=0"`
	Month      int   `json:"month" binding:"required,min=1,max=12"`
	Year       int   `json:"year" binding:"required,min=2000,max=2100"`
}

type PayslipResponse struct {
	ID             int64  `json:"id"`
	PayslipNumber  string `json:"payslip_number"`
	EmployeeID     int64  `json:"employee_id"`
	EmployeeNumber string `json:"employee_number,omitempty"`
	EmployeeName   string `json:"employee_name,omitempty"`
	DepartmentName string `json:"department_name,omitempty"`
	Month          int    `json:"month"`
	Year           int    `json:"year"`

	BaseMonthlySalary string `json:"base_monthly_salary"`

	BasicPay           string `json:"basic_pay"`
	HRA                string `json:"hra"`
	MedicalAllowance   string `json:"medical_allowance"`
	TransportAllowance string `json:"transport_allowance"`
	OtherAllowances    string `json:"other_allowances"`
	GrossSalary        string `json:"gross_salary"`

	PF              string `json:"pf"`
	ESI             string `json:"esi"`
	TaxDeductions   string `json:"tax_deductions"`
	OtherDeductions string `json:"other_deductions"`
	TotalDeductions string `json:"total_deductions"`

	NetSalary      string `json:"net_salary"`
	NetSalaryWords string `json:"net_salary_words,omitempty"`

	GeneratedAt string `json:"generated_at"`
}

// RegisterRow is one line of the monthly payslip register export.
type RegisterRow struct {
	PayslipNumber  string
	EmployeeNumber string
	EmployeeName   string
	GrossSalary    string
	TotalDeduction string
	NetSalary      string
}
