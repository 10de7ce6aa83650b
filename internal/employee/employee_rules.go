package employee

import "strings"

// AssignmentRule maps role keywords to a department name. Rules are checked
// in order and the first keyword hit wins.
type AssignmentRule struct {
	Keywords   []string
	Department string
}

// DefaultAssignmentRules is the hiring-time policy for employees created
// without an explicit department. Matching is a case-insensitive substring
// check against the role text. No hit leaves the employee unassigned.
var DefaultAssignmentRules = []AssignmentRule{
	{Keywords: []string{"engineer", "developer", "programmer", "devops", "architect", "qa"}, Department: "Engineering"},
	{Keywords: []string{"recruiter", "human resources", "people ops", "hr"}, Department: "Human Resources"},
	{Keywords: []string{"accountant", "finance", "payroll", "auditor"}, Department: "Finance"},
	{Keywords: []string{"sales", "account executive", "business development"}, Department: "Sales"},
	{Keywords: []string{"marketing", "content", "brand"}, Department: "Marketing"},
	{Keywords: []string{"support", "helpdesk", "customer success"}, Department: "Customer Support"},
}

// MatchDepartment returns the department name the role text maps to.
func MatchDepartment(rules []AssignmentRule, role string) (string, bool) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return "", false
	}

	for _, rule := range rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(role, keyword) {
				return rule.Department, true
			}
		}
	}

	return "", false
}
