package models

import "fmt"

// OddPunchFinding flags an employee whose punches for one business date do
// not pair up.
type OddPunchFinding struct {
	EmployeeID   string      `json:"employee_id"`
	BusinessDate string      `json:"business_date"`
	PunchCount   int         `json:"punch_count"`
	Sequence     []EventType `json:"sequence"`
}

func (f OddPunchFinding) String() string {
	return fmt.Sprintf("%s (%s): %d punches", f.EmployeeID, f.BusinessDate, f.PunchCount)
}
