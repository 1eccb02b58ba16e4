package models

// PayrollClockEvent is one clock event row from the payroll time-tracking
// report feed, before canonicalization.
type PayrollClockEvent struct {
	ReferenceID  string `json:"reference_id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	EventType    string `json:"event_type"`
	DateTime     string `json:"date_time"`
	PositionID   string `json:"position_id"`
	PositionName string `json:"position_name"`
	LocationID   string `json:"location_id"`
	LocationName string `json:"location_name"`
}
