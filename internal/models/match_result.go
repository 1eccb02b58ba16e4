package models

// MatchedPair couples a POS punch with the payroll punch that landed on the
// same employee-minute key.
type MatchedPair struct {
	Key       string     `json:"key"`
	EventType EventType  `json:"event_type"`
	POS       PunchEvent `json:"pos"`
	Payroll   PunchEvent `json:"payroll"`
}

// MatchResult buckets every keyed punch exactly once: matched, present only
// in the POS feed, or present only in the payroll feed.
type MatchResult struct {
	Matched          []MatchedPair `json:"matched"`
	MissingInPayroll []PunchEvent  `json:"missing_in_payroll"`
	MissingInPOS     []PunchEvent  `json:"missing_in_pos"`
}
