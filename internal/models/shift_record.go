package models

import "time"

// Punch is one entry in a shift's punch sequence, kept in source-native form.
type Punch struct {
	Type      EventType `json:"type"`
	Timestamp string    `json:"timestamp"`
}

// ShiftRecord is a completed work period, taken directly from a POS timecard
// or assembled by pairing payroll clock events.
type ShiftRecord struct {
	GUID          string    `json:"guid"`
	EmployeeID    string    `json:"employee_id"`
	EmployeeName  string    `json:"employee_name,omitempty"`
	Venue         string    `json:"venue"`
	VenueName     string    `json:"venue_name,omitempty"`
	BusinessDate  string    `json:"business_date"`
	TimeIn        time.Time `json:"time_in"`
	TimeOut       time.Time `json:"time_out"`
	Hours         float64   `json:"hours"`
	PunchSequence []Punch   `json:"punch_sequence"`
	Source        Source    `json:"source"`
}

func (s ShiftRecord) PunchCount() int {
	return len(s.PunchSequence)
}
