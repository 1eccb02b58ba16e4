// Package normalize converts source-native POS timecards and payroll clock
// events into the canonical punch model the pairing, matching, and
// aggregation stages share.
package normalize

import (
	"strings"
	"time"

	"timecard-reconciliation-backend/internal/models"
)

// EmployeeID extracts the bare employee id from a namespaced external
// reference like "CUSTOM-HRIS:1042447".
func EmployeeID(externalRef string) string {
	if i := strings.LastIndex(externalRef, ":"); i >= 0 {
		return externalRef[i+1:]
	}
	return externalRef
}

// ResolveVenue picks the venue key for an event: the canonical key first,
// then the raw label, then the unknown sentinel.
func ResolveVenue(key, raw string) string {
	if key != "" {
		return key
	}
	if raw != "" {
		return raw
	}
	return models.VenueUnknown
}

// isBreakText reports whether a reference id or position label marks a break
// punch. The payroll feed has no structured break flag; this substring check
// is the only signal it gives.
func isBreakText(s string) bool {
	l := strings.ToLower(s)
	return strings.Contains(l, "break") || strings.Contains(l, "meal")
}

// POSTimecard converts one POS time entry into a shift record plus its
// exploded punch events: Check-in for the clock-in, meal-out/meal-in for each
// break boundary, Check-out for the clock-out. Absent boundaries are skipped,
// never invented.
func POSTimecard(tc models.POSTimecard) (models.ShiftRecord, []models.PunchEvent) {
	empID := EmployeeID(tc.EmployeeReference.ExternalID)
	venue := ResolveVenue(tc.VenueSiteID, tc.VenueName)

	var seq []models.Punch
	if tc.InDate != "" {
		seq = append(seq, models.Punch{Type: models.EventCheckIn, Timestamp: tc.InDate})
	}
	for _, b := range tc.Breaks {
		if b.StartDate != "" {
			seq = append(seq, models.Punch{Type: models.EventMealOut, Timestamp: b.StartDate})
		}
		if b.EndDate != "" {
			seq = append(seq, models.Punch{Type: models.EventMealIn, Timestamp: b.EndDate})
		}
	}
	if tc.OutDate != "" {
		seq = append(seq, models.Punch{Type: models.EventCheckOut, Timestamp: tc.OutDate})
	}

	shift := models.ShiftRecord{
		GUID:          tc.GUID,
		EmployeeID:    empID,
		Venue:         venue,
		VenueName:     tc.VenueName,
		BusinessDate:  tc.BusinessDate,
		TimeIn:        instantOrZero(tc.InDate),
		TimeOut:       instantOrZero(tc.OutDate),
		Hours:         tc.TotalHours(),
		PunchSequence: seq,
		Source:        models.SourcePOS,
	}

	events := make([]models.PunchEvent, 0, len(seq))
	for _, p := range seq {
		events = append(events, models.PunchEvent{
			EmployeeID:   empID,
			EventType:    p.Type,
			Timestamp:    p.Timestamp,
			Venue:        venue,
			VenueName:    tc.VenueName,
			VenueGUID:    tc.VenueGUID,
			SiteID:       tc.VenueSiteID,
			BusinessDate: BusinessDate(p.Timestamp),
			PositionID:   tc.JobReference.ExternalID,
			Reference:    tc.GUID,
			Hours:        tc.TotalHours(),
			Source:       models.SourcePOS,
		})
	}
	return shift, events
}

// POSBatch normalizes a stamped POS timecard list, returning the shift
// records and the exploded events side by side.
func POSBatch(cards []models.POSTimecard, diag *models.Diagnostics) ([]models.ShiftRecord, []models.PunchEvent) {
	shifts := make([]models.ShiftRecord, 0, len(cards))
	var events []models.PunchEvent
	for _, tc := range cards {
		shift, evs := POSTimecard(tc)
		if shift.EmployeeID == "" {
			diag.EventsWithoutEmployee += len(evs)
		}
		if tc.LocationCode == "" {
			diag.VenueEnrichmentGaps++
		}
		shifts = append(shifts, shift)
		events = append(events, evs...)
	}
	return shifts, events
}

// PayrollEvent canonicalizes one payroll clock event. Break punches are
// retagged here so the heuristic stays out of the feed client.
func PayrollEvent(raw models.PayrollClockEvent) models.PunchEvent {
	eventType := models.EventType(raw.EventType)
	if isBreakText(raw.ReferenceID) || isBreakText(raw.PositionName) {
		switch eventType {
		case models.EventCheckIn:
			eventType = models.EventMealIn
		case models.EventCheckOut:
			eventType = models.EventMealOut
		}
	}
	return models.PunchEvent{
		EmployeeID:   raw.EmployeeID,
		EmployeeName: raw.EmployeeName,
		EventType:    eventType,
		Timestamp:    raw.DateTime,
		Venue:        ResolveVenue(raw.LocationID, raw.LocationName),
		BusinessDate: BusinessDate(raw.DateTime),
		PositionID:   raw.PositionID,
		PositionName: raw.PositionName,
		Reference:    raw.ReferenceID,
		Source:       models.SourcePayroll,
	}
}

// PayrollBatch canonicalizes a raw payroll event list, counting events whose
// type is outside the clock vocabulary instead of dropping them silently.
func PayrollBatch(raws []models.PayrollClockEvent, diag *models.Diagnostics) []models.PunchEvent {
	events := make([]models.PunchEvent, 0, len(raws))
	for _, raw := range raws {
		ev := PayrollEvent(raw)
		if _, ok := ev.EventType.Direction(); !ok {
			diag.UnclassifiedEvents++
		}
		if ev.EmployeeID == "" {
			diag.EventsWithoutEmployee++
		}
		if ev.Timestamp == "" {
			diag.EventsWithoutTimestamp++
		}
		events = append(events, ev)
	}
	return events
}

// instantOrZero parses a shift boundary, leaving the zero time in place when
// the source value is absent or malformed.
func instantOrZero(ts string) time.Time {
	t, err := ParseInstant(ts)
	if err != nil {
		return time.Time{}
	}
	return t
}
