package models

import (
	"time"

	"github.com/google/uuid"
)

// RunResult is the full output bundle of one reconciliation run.
type RunResult struct {
	RunID        uuid.UUID `json:"run_id"`
	RunType      string    `json:"run_type"`
	BusinessDate string    `json:"business_date"`
	FromDate     string    `json:"from_date,omitempty"`
	ToDate       string    `json:"to_date,omitempty"`
	GeneratedAt  time.Time `json:"generated_at"`

	Match          MatchResult                  `json:"match"`
	MissingByVenue map[string][]PunchEvent      `json:"missing_by_venue,omitempty"`
	OddPunches     map[string][]OddPunchFinding `json:"odd_punches,omitempty"`

	POSVenueStats        map[string]Stats  `json:"pos_venue_stats"`
	PayrollVenueStats    map[string]Stats  `json:"payroll_venue_stats"`
	POSEmployeeStats     map[string]Stats  `json:"pos_employee_stats"`
	PayrollEmployeeStats map[string]Stats  `json:"payroll_employee_stats"`
	VenueNames           map[string]string `json:"venue_names,omitempty"`

	POSTimecardCount  int `json:"pos_timecard_count"`
	PayrollEventCount int `json:"payroll_event_count"`
	PairedShiftCount  int `json:"paired_shift_count"`

	Totals      Totals      `json:"totals"`
	Diagnostics Diagnostics `json:"diagnostics"`
	ReportPath  string      `json:"report_path,omitempty"`
}

// OddPunchEmployees is the number of flagged employees across all venues.
func (r RunResult) OddPunchEmployees() int {
	n := 0
	for _, findings := range r.OddPunches {
		n += len(findings)
	}
	return n
}
