package events

import "time"

const EmployeeCreatedTopic = "ems.employee.lifecycle.v1"

type EmployeeCreatedEvent struct {
	EventType      string    `json:"event_type"`
	EmployeeID     int64     `json:"employee_id"`
	EmployeeNumber string    `json:"employee_number"`
	DepartmentID   *int64    `json:"department_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}
