// Package aggregate rolls punch events and paired shifts up into per-key
// count and hour totals.
package aggregate

import "timecard-reconciliation-backend/internal/models"

// VenueKey groups by venue, folding blank venues into "Unknown".
func VenueKey(ev models.PunchEvent) string {
	if ev.Venue == "" {
		return "Unknown"
	}
	return ev.Venue
}

// EmployeeKey groups by employee id. Blank ids drop out of the totals.
func EmployeeKey(ev models.PunchEvent) string {
	return ev.EmployeeID
}

// ShiftVenueKey groups paired shifts by venue, blank venues become "Unknown".
func ShiftVenueKey(s models.ShiftRecord) string {
	if s.Venue == "" {
		return "Unknown"
	}
	return s.Venue
}

// ShiftEmployeeKey groups paired shifts by employee id.
func ShiftEmployeeKey(s models.ShiftRecord) string {
	return s.EmployeeID
}

// Events sums event counts and reported hours per key. Events mapping to
// an empty key are dropped.
func Events(events []models.PunchEvent, key func(models.PunchEvent) string) map[string]models.Stats {
	stats := make(map[string]models.Stats, len(events))
	for _, ev := range events {
		k := key(ev)
		if k == "" {
			continue
		}
		s := stats[k]
		s.Count++
		s.Hours += ev.Hours
		stats[k] = s
	}
	return stats
}

// Shifts sums shift counts and worked hours per key. With trackPunches the
// length of each punch sequence is added to the punch total as well.
func Shifts(shifts []models.ShiftRecord, key func(models.ShiftRecord) string, trackPunches bool) map[string]models.Stats {
	stats := make(map[string]models.Stats, len(shifts))
	for _, shift := range shifts {
		k := key(shift)
		if k == "" {
			continue
		}
		s := stats[k]
		s.Count++
		s.Hours += shift.Hours
		if trackPunches {
			s.Punches += shift.PunchCount()
		}
		stats[k] = s
	}
	return stats
}
