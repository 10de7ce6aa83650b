package dashboard

// DepartmentHeadcount is one bar of the per-department chart.
type DepartmentHeadcount struct {
	DepartmentID   int64  `json:"department_id"`
	DepartmentName string `json:"department_name"`
	Headcount      int64  `json:"headcount"`
}

// SummaryResponse aggregates the landing-page numbers for the current
// payroll period.
type SummaryResponse struct {
	Month                int                   `json:"month"`
	Year                 int                   `json:"year"`
	TotalEmployees       int64                 `json:"total_employees"`
	TotalDepartments     int64                 `json:"total_departments"`
	PendingLeaves        int64                 `json:"pending_leaves"`
	PayslipsThisPeriod   int64                 `json:"payslips_this_period"`
	NetPayrollThisPeriod string                `json:"net_payroll_this_period"`
	UnassignedEmployees  int64                 `json:"unassigned_employees"`
	DepartmentHeadcounts []DepartmentHeadcount `json:"department_headcounts"`
	ConsistencyIssues    map[string]int64      `json:"consistency_issues"`
	GeneratedAt          string                `json:"generated_at"`
}
