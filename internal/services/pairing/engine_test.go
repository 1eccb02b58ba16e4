package pairing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timecard-reconciliation-backend/internal/models"
)

func payrollEvent(emp string, t models.EventType, ts string) models.PunchEvent {
	return models.PunchEvent{
		EmployeeID: emp,
		EventType:  t,
		Timestamp:  ts,
		Venue:      "The_Colony",
		Source:     models.SourcePayroll,
	}
}

func TestPairSimpleShift(t *testing.T) {
	res := Pair([]models.PunchEvent{
		payrollEvent("100", models.EventCheckIn, "2025-07-28T13:00:00.000-05:00"),
		payrollEvent("100", models.EventCheckOut, "2025-07-28T21:30:00.000-05:00"),
	})

	require.Len(t, res.Shifts, 1)
	shift := res.Shifts[0]
	assert.Equal(t, "100", shift.EmployeeID)
	assert.InDelta(t, 8.5, shift.Hours, 1e-9)
	assert.Equal(t, "2025-07-28", shift.BusinessDate)
	assert.Equal(t, "The_Colony", shift.Venue)
	assert.Equal(t, 2, shift.PunchCount())
	assert.Equal(t, models.SourcePayroll, shift.Source)
	assert.Zero(t, res.Diagnostics.UnmatchedCheckOuts)
	assert.Zero(t, res.Diagnostics.DanglingCheckIns)
}

func TestPairCrossMidnightShift(t *testing.T) {
	// Check-in late on day one, check-out early on day two: one shift of 4.0
	// hours dated to the check-in day.
	res := Pair([]models.PunchEvent{
		payrollEvent("100", models.EventCheckOut, "2025-07-29T02:00:00.000Z"),
		payrollEvent("100", models.EventCheckIn, "2025-07-28T22:00:00.000Z"),
	})

	require.Len(t, res.Shifts, 1)
	shift := res.Shifts[0]
	assert.InDelta(t, 4.0, shift.Hours, 1e-9)
	assert.Equal(t, "2025-07-28", shift.BusinessDate)
	assert.Equal(t, time.Date(2025, 7, 28, 22, 0, 0, 0, time.UTC), shift.TimeIn.UTC())
	assert.Equal(t, time.Date(2025, 7, 29, 2, 0, 0, 0, time.UTC), shift.TimeOut.UTC())
}

func TestPairSecondCheckInIsMealReturn(t *testing.T) {
	// A repeated Check-in while a period is open resets the open timestamp,
	// so the break between 12:00's meal-out and 12:30's return is excluded.
	res := Pair([]models.PunchEvent{
		payrollEvent("100", models.EventCheckIn, "2025-07-28T09:00:00Z"),
		payrollEvent("100", models.EventMealOut, "2025-07-28T12:00:00Z"),
		payrollEvent("100", models.EventCheckIn, "2025-07-28T12:30:00Z"),
		payrollEvent("100", models.EventCheckOut, "2025-07-28T17:00:00Z"),
	})

	require.Len(t, res.Shifts, 1)
	shift := res.Shifts[0]
	assert.InDelta(t, 4.5, shift.Hours, 1e-9)
	assert.Equal(t, time.Date(2025, 7, 28, 12, 30, 0, 0, time.UTC), shift.TimeIn.UTC())

	types := make([]models.EventType, 0, len(shift.PunchSequence))
	for _, p := range shift.PunchSequence {
		types = append(types, p.Type)
	}
	assert.Equal(t, []models.EventType{
		models.EventCheckIn, models.EventMealOut, models.EventMealIn, models.EventCheckOut,
	}, types)
}

func TestPairTaggedMealPunchesStayInsideShift(t *testing.T) {
	// Heuristically tagged meal events ride along in the sequence without
	// resetting the open timestamp, so hours cover the full span.
	res := Pair([]models.PunchEvent{
		payrollEvent("100", models.EventCheckIn, "2025-07-28T09:00:00Z"),
		payrollEvent("100", models.EventMealOut, "2025-07-28T12:00:00Z"),
		payrollEvent("100", models.EventMealIn, "2025-07-28T12:30:00Z"),
		payrollEvent("100", models.EventCheckOut, "2025-07-28T17:00:00Z"),
	})

	require.Len(t, res.Shifts, 1)
	assert.InDelta(t, 8.0, res.Shifts[0].Hours, 1e-9)
	assert.Equal(t, 4, res.Shifts[0].PunchCount())
}

func TestPairUnmatchedCheckOut(t *testing.T) {
	res := Pair([]models.PunchEvent{
		payrollEvent("100", models.EventCheckOut, "2025-07-28T17:00:00Z"),
	})

	assert.Empty(t, res.Shifts)
	require.Len(t, res.UnmatchedCheckOuts, 1)
	assert.Equal(t, 1, res.Diagnostics.UnmatchedCheckOuts)
}

func TestPairDanglingCheckIn(t *testing.T) {
	res := Pair([]models.PunchEvent{
		payrollEvent("100", models.EventCheckIn, "2025-07-28T09:00:00Z"),
	})

	assert.Empty(t, res.Shifts)
	require.Len(t, res.DanglingCheckIns, 1)
	assert.Equal(t, 1, res.Diagnostics.DanglingCheckIns)
}

func TestPairZeroDurationStillEmits(t *testing.T) {
	res := Pair([]models.PunchEvent{
		payrollEvent("100", models.EventCheckIn, "2025-07-28T09:00:00Z"),
		payrollEvent("100", models.EventCheckOut, "2025-07-28T09:00:00Z"),
	})

	require.Len(t, res.Shifts, 1)
	assert.Zero(t, res.Shifts[0].Hours)
	assert.Equal(t, 1, res.Diagnostics.NonPositiveShifts)
}

func TestPairOrphanMealPunches(t *testing.T) {
	res := Pair([]models.PunchEvent{
		payrollEvent("100", models.EventMealOut, "2025-07-28T12:00:00Z"),
		payrollEvent("100", models.EventMealIn, "2025-07-28T12:30:00Z"),
	})

	assert.Empty(t, res.Shifts)
	assert.Equal(t, 2, res.Diagnostics.OrphanMealPunches)
}

func TestPairVenuePrefersCheckOut(t *testing.T) {
	in := payrollEvent("100", models.EventCheckIn, "2025-07-28T09:00:00Z")
	in.Venue = "L100"
	out := payrollEvent("100", models.EventCheckOut, "2025-07-28T17:00:00Z")
	out.Venue = "L200"

	res := Pair([]models.PunchEvent{in, out})
	require.Len(t, res.Shifts, 1)
	assert.Equal(t, "L200", res.Shifts[0].Venue)
}

func TestPairVenueFallsBackToCheckIn(t *testing.T) {
	in := payrollEvent("100", models.EventCheckIn, "2025-07-28T09:00:00Z")
	in.Venue = "L100"
	out := payrollEvent("100", models.EventCheckOut, "2025-07-28T17:00:00Z")
	out.Venue = models.VenueUnknown

	res := Pair([]models.PunchEvent{in, out})
	require.Len(t, res.Shifts, 1)
	assert.Equal(t, "L100", res.Shifts[0].Venue)
}

func TestPairSkipsUnusableEvents(t *testing.T) {
	res := Pair([]models.PunchEvent{
		payrollEvent("100", models.EventCheckIn, "not a timestamp at all"),
		payrollEvent("", models.EventCheckIn, "2025-07-28T09:00:00Z"),
		{EmployeeID: "100", EventType: "Approved", Timestamp: "2025-07-28T09:00:00Z"},
	})

	assert.Empty(t, res.Shifts)
	assert.Equal(t, 1, res.Diagnostics.UnparseablePairingTimes)
	assert.Zero(t, res.Diagnostics.DanglingCheckIns)
}

func TestPairConservation(t *testing.T) {
	// Every consumed Check-out either closes a shift or is reported
	// unmatched; never both, never dropped.
	events := []models.PunchEvent{
		payrollEvent("100", models.EventCheckIn, "2025-07-28T09:00:00Z"),
		payrollEvent("100", models.EventCheckOut, "2025-07-28T17:00:00Z"),
		payrollEvent("100", models.EventCheckOut, "2025-07-28T17:05:00Z"),
		payrollEvent("200", models.EventCheckOut, "2025-07-28T10:00:00Z"),
		payrollEvent("200", models.EventCheckIn, "2025-07-28T11:00:00Z"),
		payrollEvent("200", models.EventCheckOut, "2025-07-28T19:00:00Z"),
		payrollEvent("300", models.EventCheckIn, "2025-07-28T08:00:00Z"),
	}

	res := Pair(events)

	checkOuts := 0
	for _, ev := range events {
		if ev.EventType == models.EventCheckOut {
			checkOuts++
		}
	}
	assert.Equal(t, checkOuts, len(res.Shifts)+len(res.UnmatchedCheckOuts))
	assert.Len(t, res.Shifts, 2)
	assert.Len(t, res.UnmatchedCheckOuts, 2)
	assert.Len(t, res.DanglingCheckIns, 1)
}

func TestPairInterleavedEmployees(t *testing.T) {
	res := Pair([]models.PunchEvent{
		payrollEvent("200", models.EventCheckIn, "2025-07-28T09:05:00Z"),
		payrollEvent("100", models.EventCheckIn, "2025-07-28T09:00:00Z"),
		payrollEvent("100", models.EventCheckOut, "2025-07-28T17:00:00Z"),
		payrollEvent("200", models.EventCheckOut, "2025-07-28T17:05:00Z"),
	})

	require.Len(t, res.Shifts, 2)
	assert.Equal(t, "100", res.Shifts[0].EmployeeID)
	assert.Equal(t, "200", res.Shifts[1].EmployeeID)
}
