package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"timecard-reconciliation-backend/internal/models"
)

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder

	assert.NotPanics(t, func() {
		r.RunObserved("daily", "ok", 1.5)
		r.PunchesIngested("pos", 100)
		r.MatchedPunches(97)
		r.MissingPunches("missing_in_payroll", 3)
		r.OddPunchEmployees(2)
		r.FeedFailure("pos")
		r.SkipsObserved(models.Diagnostics{DanglingCheckIns: 1})
	})
}

func TestRecorderAcceptsObservations(t *testing.T) {
	r := NewRecorder()

	assert.NotPanics(t, func() {
		r.RunObserved("manual", "error", 0.2)
		r.PunchesIngested("payroll", 0)
		r.PunchesIngested("payroll", 12)
		r.MatchedPunches(0)
		r.MissingPunches("missing_in_pos", 0)
		r.OddPunchEmployees(0)
		r.FeedFailure("payroll")
		r.SkipsObserved(models.Diagnostics{
			DegradedTimestampKeys: 2,
			PayrollEventsFiltered: 5,
			NotifyFailures:        1,
		})
	})
}
