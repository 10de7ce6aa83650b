package events

import "time"

const PayslipGeneratedTopic = "ems.payslip.lifecycle.v1"

type PayslipGeneratedEvent struct {
	EventType     string    `json:"event_type"`
	PayslipID     int64     `json:"payslip_id"`
	PayslipNumber string    `json:"payslip_number"`
	EmployeeID    int64     `json:"employee_id"`
	Month         int       `json:"month"`
	Year          int       `json:"year"`
	OccurredAt    time.Time `json:"occurred_at"`
}
