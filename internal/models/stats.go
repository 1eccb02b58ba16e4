package models

// Stats accumulates record count, worked hours, and raw punch count for one
// aggregation key (a venue or an employee).
type Stats struct {
	Count   int     `json:"count"`
	Hours   float64 `json:"hours"`
	Punches int     `json:"punches,omitempty"`
}

// Totals compares both sides of a run. POS punches come from exploded
// timecard boundaries, payroll punches from raw event counts.
type Totals struct {
	POSPunches      int     `json:"total_pos_punches"`
	POSHours        float64 `json:"total_pos_hours"`
	PayrollPunches  int     `json:"total_payroll_punches"`
	PayrollHours    float64 `json:"total_payroll_hours"`
	PunchDifference int     `json:"punch_difference"`
	HoursDifference float64 `json:"hours_difference"`
}
