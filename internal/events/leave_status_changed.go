package events

import "time"

const LeaveStatusChangedTopic = "ems.leave.lifecycle.v1"

type LeaveStatusChangedEvent struct {
	EventType  string    `json:"event_type"`
	LeaveID    int64     `json:"leave_id"`
	EmployeeID int64     `json:"employee_id"`
	OldStatus  string    `json:"old_status"`
	NewStatus  string    `json:"new_status"`
	OccurredAt time.Time `json:"occurred_at"`
}
