// Package anomaly flags punch sequences that cannot represent a completed
// day on the clock.
package anomaly

import (
	"sort"

	"timecard-reconciliation-backend/internal/models"
)

// Detect counts clock punches per venue, employee, and business day and
// flags every group with an odd total. Detection only applies once the
// business day has closed; while the day is still open an odd count
// usually means someone is on the clock, so the caller passes
// businessDayClosed=false and gets an empty result.
func Detect(events []models.PunchEvent, businessDayClosed bool) map[string][]models.OddPunchFinding {
	findings := make(map[string][]models.OddPunchFinding)
	if !businessDayClosed {
		return findings
	}

	type groupKey struct {
		employeeID   string
		businessDate string
	}
	sequences := make(map[string]map[groupKey][]models.EventType)

	for _, ev := range events {
		if _, ok := ev.EventType.Direction(); !ok {
			continue
		}
		if ev.EmployeeID == "" {
			continue
		}
		venue := ev.Venue
		if venue == "" {
			venue = "Unknown"
		}
		date := ev.BusinessDate
		if date == "" {
			date = "Unknown"
		}
		if sequences[venue] == nil {
			sequences[venue] = make(map[groupKey][]models.EventType)
		}
		gk := groupKey{employeeID: ev.EmployeeID, businessDate: date}
		sequences[venue][gk] = append(sequences[venue][gk], ev.EventType)
	}

	for venue, groups := range sequences {
		for gk, sequence := range groups {
			if len(sequence)%2 == 0 {
				continue
			}
			findings[venue] = append(findings[venue], models.OddPunchFinding{
				EmployeeID:   gk.employeeID,
				BusinessDate: gk.businessDate,
				PunchCount:   len(sequence),
				Sequence:     sequence,
			})
		}
	}

	for venue := range findings {
		group := findings[venue]
		sort.Slice(group, func(i, j int) bool {
			if group[i].EmployeeID != group[j].EmployeeID {
				return group[i].EmployeeID < group[j].EmployeeID
			}
			return group[i].BusinessDate < group[j].BusinessDate
		})
	}

	return findings
}
