// Package matching aligns canonical POS punches with payroll punches on
// minute-precision employee keys.
package matching

import (
	"fmt"
	"sort"

	"timecard-reconciliation-backend/internal/models"
	"timecard-reconciliation-backend/internal/services/normalize"
)

// Match buckets every keyed punch into exactly one of matched,
// missing-in-payroll, or missing-in-pos. Keys carry the employee id, the
// minute-precision UTC timestamp, and the clock direction, so the two sides
// tolerate sub-minute drift and break-vs-regular relabeling of the same
// physical punch.
func Match(posEvents, payrollEvents []models.PunchEvent, diag *models.Diagnostics) models.MatchResult {
	// 1. Key both sides
	posIndex := buildIndex(posEvents, diag)
	payrollIndex := buildIndex(payrollEvents, diag)

	var result models.MatchResult

	// 2. Walk POS keys in stable order
	for _, key := range sortedKeys(posIndex) {
		posEv := posIndex[key]
		payrollEv, ok := payrollIndex[key]
		if !ok {
			result.MissingInPayroll = append(result.MissingInPayroll, posEv)
			continue
		}

		// 3. A key hit still requires equivalent event types
		if !posEv.EventType.EquivalentTo(payrollEv.EventType) {
			if diag != nil {
				diag.EventTypeConflicts++
			}
			result.MissingInPayroll = append(result.MissingInPayroll, posEv)
			continue
		}

		result.Matched = append(result.Matched, models.MatchedPair{
			Key:       key,
			EventType: payrollEv.EventType,
			POS:       posEv,
			Payroll:   payrollEv,
		})
	}

	// 4. Payroll keys with no POS counterpart
	for _, key := range sortedKeys(payrollIndex) {
		if _, ok := posIndex[key]; !ok {
			result.MissingInPOS = append(result.MissingInPOS, payrollIndex[key])
		}
	}

	return result
}

// Key builds the matching key for one event, or "" when the event cannot
// participate: events without an employee id, a timestamp, or a clock
// direction stay out of the keyed lookup and are not reported missing.
func Key(ev models.PunchEvent, diag *models.Diagnostics) string {
	if ev.EmployeeID == "" || ev.Timestamp == "" {
		return ""
	}
	direction, ok := ev.EventType.Direction()
	if !ok {
		return ""
	}
	minute, exact := normalize.ToKey(ev.Timestamp)
	if minute == "" {
		return ""
	}
	if !exact && diag != nil {
		diag.DegradedTimestampKeys++
	}
	return fmt.Sprintf("%s_%s_%s", ev.EmployeeID, minute, direction)
}

func buildIndex(events []models.PunchEvent, diag *models.Diagnostics) map[string]models.PunchEvent {
	index := make(map[string]models.PunchEvent, len(events))
	for _, ev := range events {
		key := Key(ev, diag)
		if key == "" {
			continue
		}
		// Last write wins on duplicate keys.
		if _, dup := index[key]; dup && diag != nil {
			diag.DuplicateMatchKeys++
		}
		index[key] = ev
	}
	return index
}

func sortedKeys(index map[string]models.PunchEvent) []string {
	keys := make([]string, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
