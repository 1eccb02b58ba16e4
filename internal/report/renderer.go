// Package report renders a finished reconciliation run as plain text, for
// the notification channel and for the archived report file.
package report

import (
	"fmt"
	"sort"
	"strings"

	"timecard-reconciliation-backend/internal/models"
)

// Summary is the short form pushed to the notification channel.
func Summary(r *models.RunResult) string {
	lines := []string{
		fmt.Sprintf("Timecard reconciliation for %s (%s)", dateLabel(r), r.RunType),
		fmt.Sprintf("POS punches: %d | Payroll punches: %d | Difference: %d",
			r.Totals.POSPunches, r.Totals.PayrollPunches, r.Totals.PunchDifference),
		fmt.Sprintf("POS hours: %.2f | Payroll hours: %.2f | Difference: %.2f",
			r.Totals.POSHours, r.Totals.PayrollHours, r.Totals.HoursDifference),
		fmt.Sprintf("Matched: %d | Missing in payroll: %d | Missing in POS: %d",
			len(r.Match.Matched), len(r.Match.MissingInPayroll), len(r.Match.MissingInPOS)),
	}
	if n := r.OddPunchEmployees(); n > 0 {
		lines = append(lines, fmt.Sprintf("Odd punch counts: %d employee-days", n))
	}
	return strings.Join(lines, "\n")
}

// EmailSubject labels the summary email for one run.
func EmailSubject(r *models.RunResult) string {
	return "Timecard reconciliation results for " + dateLabel(r)
}

// Render is the full archived report.
func Render(r *models.RunResult) string {
	var b strings.Builder

	b.WriteString("TIMECARD RECONCILIATION REPORT\n")
	b.WriteString("==============================\n")
	fmt.Fprintf(&b, "Run ID:    %s\n", r.RunID)
	fmt.Fprintf(&b, "Run type:  %s\n", r.RunType)
	fmt.Fprintf(&b, "Dates:     %s\n", dateLabel(r))
	fmt.Fprintf(&b, "Generated: %s\n", r.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"))
	fmt.Fprintf(&b, "Inputs:    %d POS timecards, %d payroll events, %d paired shifts\n",
		r.POSTimecardCount, r.PayrollEventCount, r.PairedShiftCount)

	b.WriteString("\nTOTALS:\n")
	fmt.Fprintf(&b, "  POS punches:       %d\n", r.Totals.POSPunches)
	fmt.Fprintf(&b, "  Payroll punches:   %d\n", r.Totals.PayrollPunches)
	fmt.Fprintf(&b, "  Punch difference:  %d\n", r.Totals.PunchDifference)
	fmt.Fprintf(&b, "  POS hours:         %.2f\n", r.Totals.POSHours)
	fmt.Fprintf(&b, "  Payroll hours:     %.2f\n", r.Totals.PayrollHours)
	fmt.Fprintf(&b, "  Hours difference:  %.2f\n", r.Totals.HoursDifference)

	b.WriteString("\nPUNCH VALIDATION:\n")
	if r.OddPunchEmployees() == 0 {
		b.WriteString("  All punch counts are even.\n")
	} else {
		fmt.Fprintf(&b, "  %d employee-days with odd punch counts\n", r.OddPunchEmployees())
		for _, venue := range sortedKeys(r.OddPunches) {
			fmt.Fprintf(&b, "  %s:\n", venueLabel(r, venue))
			for _, finding := range r.OddPunches[venue] {
				fmt.Fprintf(&b, "    - %s\n", finding.String())
			}
		}
	}

	b.WriteString("\nMISSING PUNCHES FOR REPROCESSING:\n")
	if len(r.Match.MissingInPayroll) == 0 {
		b.WriteString("  None.\n")
	} else {
		fmt.Fprintf(&b, "  %d POS punches have no payroll counterpart\n", len(r.Match.MissingInPayroll))
		b.WriteString("  BY VENUE:\n")
		for _, venue := range sortedKeys(r.MissingByVenue) {
			events := r.MissingByVenue[venue]
			fmt.Fprintf(&b, "  %s: %d\n", venueLabel(r, venue), len(events))
			for _, ev := range events {
				fmt.Fprintf(&b, "    - %s\n", eventLine(ev))
			}
		}
	}

	b.WriteString("\nMISSING IN POS:\n")
	if len(r.Match.MissingInPOS) == 0 {
		b.WriteString("  None.\n")
	} else {
		fmt.Fprintf(&b, "  %d payroll punches have no POS counterpart\n", len(r.Match.MissingInPOS))
		for _, ev := range r.Match.MissingInPOS {
			fmt.Fprintf(&b, "  - %s @ %s\n", eventLine(ev), venueLabel(r, ev.Venue))
		}
	}

	b.WriteString("\nVENUE SUMMARY:\n")
	if len(r.POSVenueStats) == 0 && len(r.PayrollVenueStats) == 0 {
		b.WriteString("  No venue activity.\n")
	} else {
		for _, venue := range unionKeys(r.POSVenueStats, r.PayrollVenueStats) {
			pos := r.POSVenueStats[venue]
			payroll := r.PayrollVenueStats[venue]
			fmt.Fprintf(&b, "  %s: POS %d punches / %.2f hours, payroll %d punches / %.2f hours\n",
				venueLabel(r, venue), pos.Punches, pos.Hours, payroll.Count, payroll.Hours)
		}
	}

	b.WriteString("\nDIAGNOSTICS:\n")
	diag := diagnosticLines(r.Diagnostics)
	if len(diag) == 0 {
		b.WriteString("  Clean run.\n")
	} else {
		for _, line := range diag {
			b.WriteString(line + "\n")
		}
	}

	return b.String()
}

// FileName is the archive name for one run's report.
func FileName(r *models.RunResult) string {
	date := r.BusinessDate
	if date == "" {
		date = r.FromDate + "_to_" + r.ToDate
	}
	return fmt.Sprintf("timecard_reconciliation_%s_%s.txt",
		date, r.GeneratedAt.Format("20060102_150405"))
}

func dateLabel(r *models.RunResult) string {
	if r.BusinessDate != "" {
		return r.BusinessDate
	}
	return r.FromDate + " to " + r.ToDate
}

func venueLabel(r *models.RunResult, key string) string {
	if name, ok := r.VenueNames[key]; ok && name != "" && name != key {
		return fmt.Sprintf("%s (%s)", key, name)
	}
	return key
}

func eventLine(ev models.PunchEvent) string {
	return fmt.Sprintf("%s %s at %s", ev.EmployeeID, ev.EventType, ev.Timestamp)
}

func diagnosticLines(d models.Diagnostics) []string {
	counts := []struct {
		label string
		n     int
	}{
		{"source fetch failures", d.SourceFetchFailures},
		{"degraded timestamp keys", d.DegradedTimestampKeys},
		{"events without timestamp", d.EventsWithoutTimestamp},
		{"events without employee", d.EventsWithoutEmployee},
		{"unclassified events", d.UnclassifiedEvents},
		{"unparseable pairing times", d.UnparseablePairingTimes},
		{"payroll events outside window", d.PayrollEventsFiltered},
		{"payroll events off roster", d.PayrollEventsOffRoster},
		{"venue key rewrites", d.VenueKeyRewrites},
		{"venue fallbacks applied", d.VenueFallbacksApplied},
		{"venue enrichment gaps", d.VenueEnrichmentGaps},
		{"unmatched check-outs", d.UnmatchedCheckOuts},
		{"dangling check-ins", d.DanglingCheckIns},
		{"orphan meal punches", d.OrphanMealPunches},
		{"non-positive shifts", d.NonPositiveShifts},
		{"duplicate match keys", d.DuplicateMatchKeys},
		{"event type conflicts", d.EventTypeConflicts},
		{"notify failures", d.NotifyFailures},
	}

	var lines []string
	for _, c := range counts {
		if c.n != 0 {
			lines = append(lines, fmt.Sprintf("  %s: %d", c.label, c.n))
		}
	}
	return lines
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func unionKeys(a, b map[string]models.Stats) []string {
	seen := make(map[string]bool, len(a)+len(b))
	for k := range a {
		seen[k] = true
	}
	for k := range b {
		seen[k] = true
	}
	return sortedKeys(seen)
}
