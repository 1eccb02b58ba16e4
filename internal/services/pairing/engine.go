// Package pairing assembles payroll clock events into shift records. Events
// are grouped by employee only, never by business date, so a shift that
// starts before midnight and ends after it still pairs.
package pairing

import (
	"fmt"
	"math"
	"sort"
	"time"

	"timecard-reconciliation-backend/internal/models"
	"timecard-reconciliation-backend/internal/services/normalize"
)

// Result carries the emitted shifts plus every event the pass could not fold
// into one, so callers can account for the whole input.
type Result struct {
	Shifts             []models.ShiftRecord
	UnmatchedCheckOuts []models.PunchEvent
	DanglingCheckIns   []models.PunchEvent
	Diagnostics        models.Diagnostics
}

type timedEvent struct {
	event models.PunchEvent
	at    time.Time
}

// Pair runs a single-pass state machine per employee over canonical payroll
// events and emits one ShiftRecord per closed work period. A second Check-in
// while a period is open means the employee returned from a break: the open
// timestamp resets so the break is excluded from worked hours. Zero and
// negative durations still emit records; they are counted, not rejected.
func Pair(events []models.PunchEvent) Result {
	var res Result

	byEmployee := make(map[string][]timedEvent)
	for _, ev := range events {
		if _, ok := ev.EventType.Direction(); !ok {
			continue
		}
		if ev.EmployeeID == "" || ev.Timestamp == "" {
			// Counted at intake; nothing to pair against.
			continue
		}
		at, err := normalize.ParseInstant(ev.Timestamp)
		if err != nil {
			res.Diagnostics.UnparseablePairingTimes++
			continue
		}
		byEmployee[ev.EmployeeID] = append(byEmployee[ev.EmployeeID], timedEvent{event: ev, at: at})
	}

	employees := make([]string, 0, len(byEmployee))
	for id := range byEmployee {
		employees = append(employees, id)
	}
	sort.Strings(employees)

	for _, id := range employees {
		group := byEmployee[id]
		sort.SliceStable(group, func(i, j int) bool { return group[i].at.Before(group[j].at) })
		pairGroup(id, group, &res)
	}
	return res
}

func pairGroup(employeeID string, group []timedEvent, res *Result) {
	var open *timedEvent
	var seq []models.Punch

	for i := range group {
		te := group[i]
		ev := te.event

		switch ev.EventType {
		case models.EventCheckIn:
			if open == nil {
				open = &group[i]
				seq = []models.Punch{{Type: models.EventCheckIn, Timestamp: ev.Timestamp}}
			} else {
				// Returning from break: the gap since the prior open punch is
				// break time, so the open timestamp resets here.
				open = &group[i]
				seq = append(seq, models.Punch{Type: models.EventMealIn, Timestamp: ev.Timestamp})
			}

		case models.EventMealOut:
			if open == nil {
				res.Diagnostics.OrphanMealPunches++
				continue
			}
			seq = append(seq, models.Punch{Type: models.EventMealOut, Timestamp: ev.Timestamp})

		case models.EventMealIn:
			// Tagged meal returns ride along in the sequence. The open
			// timestamp stays put, so a tagged break stays inside worked
			// hours; only a repeated Check-in excludes it.
			if open == nil {
				res.Diagnostics.OrphanMealPunches++
				continue
			}
			seq = append(seq, models.Punch{Type: models.EventMealIn, Timestamp: ev.Timestamp})

		case models.EventCheckOut:
			if open == nil {
				res.Diagnostics.UnmatchedCheckOuts++
				res.UnmatchedCheckOuts = append(res.UnmatchedCheckOuts, ev)
				continue
			}
			seq = append(seq, models.Punch{Type: models.EventCheckOut, Timestamp: ev.Timestamp})

			hours := te.at.Sub(open.at).Hours()
			if hours <= 0 {
				res.Diagnostics.NonPositiveShifts++
			}

			businessDate := open.event.BusinessDate
			if businessDate == "" {
				businessDate = normalize.BusinessDate(open.event.Timestamp)
			}
			name := ev.EmployeeName
			if name == "" {
				name = open.event.EmployeeName
			}

			res.Shifts = append(res.Shifts, models.ShiftRecord{
				GUID:          fmt.Sprintf("%s_%s_%s", employeeID, businessDate, open.event.Timestamp),
				EmployeeID:    employeeID,
				EmployeeName:  name,
				Venue:         pickVenue(ev.Venue, open.event.Venue),
				BusinessDate:  businessDate,
				TimeIn:        open.at,
				TimeOut:       te.at,
				Hours:         round2(hours),
				PunchSequence: seq,
				Source:        models.SourcePayroll,
			})
			open = nil
			seq = nil
		}
	}

	if open != nil {
		res.Diagnostics.DanglingCheckIns++
		res.DanglingCheckIns = append(res.DanglingCheckIns, open.event)
	}
}

// pickVenue prefers the closing punch's venue, then the opening punch's, and
// only then gives up on the unknown sentinel.
func pickVenue(checkout, checkin string) string {
	if knownVenue(checkout) {
		return checkout
	}
	if knownVenue(checkin) {
		return checkin
	}
	if checkout != "" {
		return checkout
	}
	if checkin != "" {
		return checkin
	}
	return models.VenueUnknown
}

func knownVenue(v string) bool {
	return v != "" && v != models.VenueUnknown && v != "Unknown"
}

func round2(h float64) float64 {
	return math.Round(h*100) / 100
}
