package models

// EventType classifies a single clock punch. The string values are the
// payroll feed's native vocabulary; POS punches are mapped onto it.
type EventType string

const (
	EventCheckIn  EventType = "Check-in"
	EventCheckOut EventType = "Check-out"
	EventMealOut  EventType = "meal-out"
	EventMealIn   EventType = "meal-in"
)

// Direction folds meal punches into their clock direction: a meal return
// counts as an inbound punch, a meal start as an outbound one. The second
// return is false for unrecognized types.
func (t EventType) Direction() (EventType, bool) {
	switch t {
	case EventCheckIn, EventMealIn:
		return EventCheckIn, true
	case EventCheckOut, EventMealOut:
		return EventCheckOut, true
	}
	return "", false
}

// EquivalentTo reports whether two punches landing on the same minute should
// be treated as the same event (Check-in pairs with meal-in, Check-out with
// meal-out).
func (t EventType) EquivalentTo(other EventType) bool {
	dt, ok := t.Direction()
	if !ok {
		return false
	}
	do, ok := other.Direction()
	return ok && dt == do
}

type Source string

const (
	SourcePOS     Source = "pos"
	SourcePayroll Source = "payroll"
)

// PunchEvent is the canonical clock event both systems normalize into.
// Timestamp keeps the source's native string form; parsing happens at the
// point of use so one malformed value degrades only the stages that need it.
type PunchEvent struct {
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name,omitempty"`
	EventType    EventType `json:"event_type"`
	Timestamp    string    `json:"timestamp"`
	Venue        string    `json:"venue"`
	VenueName    string    `json:"venue_name,omitempty"`
	VenueGUID    string    `json:"venue_guid,omitempty"`
	SiteID       string    `json:"site_id,omitempty"`
	BusinessDate string    `json:"business_date,omitempty"`
	PositionID   string    `json:"position_id,omitempty"`
	PositionName string    `json:"position_name,omitempty"`
	Reference    string    `json:"reference,omitempty"`
	Hours        float64   `json:"hours,omitempty"`
	Source       Source    `json:"source"`
}
