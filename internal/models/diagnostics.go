package models

// Diagnostics counts every skip and degradation a run tolerated. A batch
// never aborts on malformed input; it degrades and the counts land here.
type Diagnostics struct {
	SourceFetchFailures     int `json:"source_fetch_failures,omitempty"`
	DegradedTimestampKeys   int `json:"degraded_timestamp_keys,omitempty"`
	EventsWithoutTimestamp  int `json:"events_without_timestamp,omitempty"`
	EventsWithoutEmployee   int `json:"events_without_employee,omitempty"`
	UnclassifiedEvents      int `json:"unclassified_events,omitempty"`
	UnparseablePairingTimes int `json:"unparseable_pairing_times,omitempty"`
	PayrollEventsFiltered   int `json:"payroll_events_filtered,omitempty"`
	PayrollEventsOffRoster  int `json:"payroll_events_off_roster,omitempty"`
	VenueKeyRewrites        int `json:"venue_key_rewrites,omitempty"`
	VenueFallbacksApplied   int `json:"venue_fallbacks_applied,omitempty"`
	VenueEnrichmentGaps     int `json:"venue_enrichment_gaps,omitempty"`
	UnmatchedCheckOuts      int `json:"unmatched_check_outs,omitempty"`
	DanglingCheckIns        int `json:"dangling_check_ins,omitempty"`
	OrphanMealPunches       int `json:"orphan_meal_punches,omitempty"`
	NonPositiveShifts       int `json:"non_positive_shifts,omitempty"`
	DuplicateMatchKeys      int `json:"duplicate_match_keys,omitempty"`
	EventTypeConflicts      int `json:"event_type_conflicts,omitempty"`
	NotifyFailures          int `json:"notify_failures,omitempty"`
}

func (d *Diagnostics) Merge(o Diagnostics) {
	d.SourceFetchFailures += o.SourceFetchFailures
	d.DegradedTimestampKeys += o.DegradedTimestampKeys
	d.EventsWithoutTimestamp += o.EventsWithoutTimestamp
	d.EventsWithoutEmployee += o.EventsWithoutEmployee
	d.UnclassifiedEvents += o.UnclassifiedEvents
	d.UnparseablePairingTimes += o.UnparseablePairingTimes
	d.PayrollEventsFiltered += o.PayrollEventsFiltered
	d.PayrollEventsOffRoster += o.PayrollEventsOffRoster
	d.VenueKeyRewrites += o.VenueKeyRewrites
	d.VenueFallbacksApplied += o.VenueFallbacksApplied
	d.VenueEnrichmentGaps += o.VenueEnrichmentGaps
	d.UnmatchedCheckOuts += o.UnmatchedCheckOuts
	d.DanglingCheckIns += o.DanglingCheckIns
	d.OrphanMealPunches += o.OrphanMealPunches
	d.NonPositiveShifts += o.NonPositiveShifts
	d.DuplicateMatchKeys += o.DuplicateMatchKeys
	d.EventTypeConflicts += o.EventTypeConflicts
	d.NotifyFailures += o.NotifyFailures
}
