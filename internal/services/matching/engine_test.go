package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timecard-reconciliation-backend/internal/models"
)

func punch(emp string, et models.EventType, ts string) models.PunchEvent {
	return models.PunchEvent{EmployeeID: emp, EventType: et, Timestamp: ts}
}

func TestMatchAcrossTimestampFormats(t *testing.T) {
	pos := []models.PunchEvent{punch("100", models.EventCheckIn, "2025-07-28T13:00:00.000Z")}
	payroll := []models.PunchEvent{punch("100", models.EventCheckIn, "2025-07-28T13:00:12-0000")}

	diag := &models.Diagnostics{}
	result := Match(pos, payroll, diag)

	require.Len(t, result.Matched, 1)
	assert.Equal(t, "100_2025-07-28T13:00_Check-in", result.Matched[0].Key)
	assert.Empty(t, result.MissingInPayroll)
	assert.Empty(t, result.MissingInPOS)
	assert.Zero(t, diag.DegradedTimestampKeys)
}

func TestMatchReportsMissingOnBothSides(t *testing.T) {
	pos := []models.PunchEvent{
		punch("100", models.EventCheckIn, "2025-07-28T13:00:00Z"),
		punch("100", models.EventCheckOut, "2025-07-28T13:05:00Z"),
	}
	payroll := []models.PunchEvent{
		punch("100", models.EventCheckIn, "2025-07-28T13:00:30Z"),
		punch("200", models.EventCheckIn, "2025-07-28T09:00:00Z"),
	}

	result := Match(pos, payroll, &models.Diagnostics{})

	require.Len(t, result.Matched, 1)
	require.Len(t, result.MissingInPayroll, 1)
	assert.Equal(t, models.EventCheckOut, result.MissingInPayroll[0].EventType)
	require.Len(t, result.MissingInPOS, 1)
	assert.Equal(t, "200", result.MissingInPOS[0].EmployeeID)
}

func TestMatchFoldsBreaksIntoClockDirection(t *testing.T) {
	// A POS break start and a payroll punch retagged meal-out land on the
	// same key because both map to the check-out direction.
	pos := []models.PunchEvent{punch("100", models.EventMealOut, "2025-07-28T17:00:00Z")}
	payroll := []models.PunchEvent{punch("100", models.EventCheckOut, "2025-07-28T17:00:45Z")}

	result := Match(pos, payroll, &models.Diagnostics{})

	require.Len(t, result.Matched, 1)
	assert.Equal(t, "100_2025-07-28T17:00_Check-out", result.Matched[0].Key)
	assert.Equal(t, models.EventCheckOut, result.Matched[0].EventType)
}

func TestMatchBucketsAreExclusive(t *testing.T) {
	pos := []models.PunchEvent{
		punch("100", models.EventCheckIn, "2025-07-28T08:00:00Z"),
		punch("100", models.EventCheckOut, "2025-07-28T16:00:00Z"),
		punch("200", models.EventCheckIn, "2025-07-28T09:00:00Z"),
	}
	payroll := []models.PunchEvent{
		punch("100", models.EventCheckIn, "2025-07-28T08:00:10Z"),
		punch("300", models.EventCheckOut, "2025-07-28T17:00:00Z"),
	}

	result := Match(pos, payroll, &models.Diagnostics{})

	assert.Equal(t, len(pos), len(result.Matched)+len(result.MissingInPayroll))
	assert.Equal(t, len(payroll), len(result.Matched)+len(result.MissingInPOS))

	seen := map[string]bool{}
	for _, pair := range result.Matched {
		assert.False(t, seen[pair.Key])
		seen[pair.Key] = true
	}
	for _, ev := range result.MissingInPayroll {
		key := Key(ev, nil)
		assert.False(t, seen[key])
		seen[key] = true
	}
}

func TestMatchSkipsUnkeyableEvents(t *testing.T) {
	pos := []models.PunchEvent{
		punch("", models.EventCheckIn, "2025-07-28T08:00:00Z"),
		punch("100", models.EventCheckIn, ""),
		punch("100", "Approved", "2025-07-28T08:00:00Z"),
	}

	result := Match(pos, nil, &models.Diagnostics{})

	assert.Empty(t, result.Matched)
	assert.Empty(t, result.MissingInPayroll)
	assert.Empty(t, result.MissingInPOS)
}

func TestMatchDegradedKeysStillAlign(t *testing.T) {
	// Unparseable timestamps fall back to a raw prefix key; identical raw
	// values on both sides still pair up.
	raw := "not-a-real-timestamp-at-all"
	pos := []models.PunchEvent{punch("100", models.EventCheckIn, raw)}
	payroll := []models.PunchEvent{punch("100", models.EventCheckIn, raw)}

	diag := &models.Diagnostics{}
	result := Match(pos, payroll, diag)

	require.Len(t, result.Matched, 1)
	assert.Equal(t, 2, diag.DegradedTimestampKeys)
}

func TestMatchCountsDuplicateKeys(t *testing.T) {
	pos := []models.PunchEvent{
		{EmployeeID: "100", EventType: models.EventCheckIn, Timestamp: "2025-07-28T08:00:00Z", Venue: "first"},
		{EmployeeID: "100", EventType: models.EventCheckIn, Timestamp: "2025-07-28T08:00:59Z", Venue: "second"},
	}

	diag := &models.Diagnostics{}
	result := Match(pos, nil, diag)

	assert.Equal(t, 1, diag.DuplicateMatchKeys)
	require.Len(t, result.MissingInPayroll, 1)
	assert.Equal(t, "second", result.MissingInPayroll[0].Venue)
}

func TestMatchOutputOrderIsStable(t *testing.T) {
	pos := []models.PunchEvent{
		punch("300", models.EventCheckIn, "2025-07-28T10:00:00Z"),
		punch("100", models.EventCheckIn, "2025-07-28T08:00:00Z"),
		punch("200", models.EventCheckIn, "2025-07-28T09:00:00Z"),
	}

	first := Match(pos, nil, &models.Diagnostics{})
	second := Match(pos, nil, &models.Diagnostics{})

	require.Equal(t, first, second)
	require.Len(t, first.MissingInPayroll, 3)
	assert.Equal(t, "100", first.MissingInPayroll[0].EmployeeID)
	assert.Equal(t, "200", first.MissingInPayroll[1].EmployeeID)
	assert.Equal(t, "300", first.MissingInPayroll[2].EmployeeID)
}
