package anomaly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timecard-reconciliation-backend/internal/models"
)

func clockEvent(emp, venue, date string, et models.EventType) models.PunchEvent {
	return models.PunchEvent{EmployeeID: emp, Venue: venue, BusinessDate: date, EventType: et}
}

func TestDetectFlagsOddPunchCounts(t *testing.T) {
	events := []models.PunchEvent{
		clockEvent("100", "Venue_A", "2025-07-28", models.EventCheckIn),
		clockEvent("100", "Venue_A", "2025-07-28", models.EventCheckOut),
		clockEvent("100", "Venue_A", "2025-07-28", models.EventCheckIn),
		clockEvent("200", "Venue_A", "2025-07-28", models.EventCheckIn),
		clockEvent("200", "Venue_A", "2025-07-28", models.EventCheckOut),
	}

	findings := Detect(events, true)

	require.Len(t, findings["Venue_A"], 1)
	finding := findings["Venue_A"][0]
	assert.Equal(t, "100", finding.EmployeeID)
	assert.Equal(t, 3, finding.PunchCount)
	assert.Equal(t, []models.EventType{models.EventCheckIn, models.EventCheckOut, models.EventCheckIn}, finding.Sequence)
}

func TestDetectSkipsOpenBusinessDay(t *testing.T) {
	events := []models.PunchEvent{
		clockEvent("100", "Venue_A", "2025-07-28", models.EventCheckIn),
	}

	findings := Detect(events, false)

	assert.Empty(t, findings)
}

func TestDetectCountsMealPunches(t *testing.T) {
	events := []models.PunchEvent{
		clockEvent("100", "Venue_A", "2025-07-28", models.EventCheckIn),
		clockEvent("100", "Venue_A", "2025-07-28", models.EventMealOut),
		clockEvent("100", "Venue_A", "2025-07-28", models.EventMealIn),
		clockEvent("100", "Venue_A", "2025-07-28", models.EventCheckOut),
		clockEvent("100", "Venue_A", "2025-07-28", models.EventCheckOut),
	}

	findings := Detect(events, true)

	require.Len(t, findings["Venue_A"], 1)
	assert.Equal(t, 5, findings["Venue_A"][0].PunchCount)
}

func TestDetectGroupsByVenueEmployeeAndDate(t *testing.T) {
	events := []models.PunchEvent{
		clockEvent("100", "Venue_A", "2025-07-28", models.EventCheckIn),
		clockEvent("100", "Venue_B", "2025-07-28", models.EventCheckIn),
		clockEvent("100", "Venue_A", "2025-07-29", models.EventCheckIn),
	}

	findings := Detect(events, true)

	require.Len(t, findings["Venue_A"], 2)
	require.Len(t, findings["Venue_B"], 1)
	assert.Equal(t, "2025-07-28", findings["Venue_A"][0].BusinessDate)
	assert.Equal(t, "2025-07-29", findings["Venue_A"][1].BusinessDate)
}

func TestDetectIgnoresNonClockEvents(t *testing.T) {
	events := []models.PunchEvent{
		clockEvent("100", "Venue_A", "2025-07-28", "Approved"),
		clockEvent("", "Venue_A", "2025-07-28", models.EventCheckIn),
	}

	findings := Detect(events, true)

	assert.Empty(t, findings)
}

func TestDetectDefaultsMissingVenueAndDate(t *testing.T) {
	events := []models.PunchEvent{
		clockEvent("100", "", "", models.EventCheckIn),
	}

	findings := Detect(events, true)

	require.Len(t, findings["Unknown"], 1)
	assert.Equal(t, "Unknown", findings["Unknown"][0].BusinessDate)
}

func TestDetectSortsFindings(t *testing.T) {
	events := []models.PunchEvent{
		clockEvent("300", "Venue_A", "2025-07-28", models.EventCheckIn),
		clockEvent("100", "Venue_A", "2025-07-29", models.EventCheckIn),
		clockEvent("100", "Venue_A", "2025-07-28", models.EventCheckIn),
	}

	findings := Detect(events, true)

	require.Len(t, findings["Venue_A"], 3)
	assert.Equal(t, "100", findings["Venue_A"][0].EmployeeID)
	assert.Equal(t, "2025-07-28", findings["Venue_A"][0].BusinessDate)
	assert.Equal(t, "2025-07-29", findings["Venue_A"][1].BusinessDate)
	assert.Equal(t, "300", findings["Venue_A"][2].EmployeeID)
}
