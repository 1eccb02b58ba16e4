package models

// POSBreak is one meal break segment inside a POS timecard.
type POSBreak struct {
	GUID      string `json:"guid"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// POSExternalRef mirrors the POS API's reference shape. External ids carry a
// namespace prefix, e.g. "CUSTOM-HRIS:1042447".
type POSExternalRef struct {
	GUID       string `json:"guid"`
	ExternalID string `json:"externalId"`
}

// POSTimecard is one time entry as returned by the POS labor API, plus the
// venue metadata the client stamps on during fan-out.
type POSTimecard struct {
	GUID              string         `json:"guid"`
	EmployeeReference POSExternalRef `json:"employeeReference"`
	JobReference      POSExternalRef `json:"jobReference"`
	InDate            string         `json:"inDate"`
	OutDate           string         `json:"outDate"`
	BusinessDate      string         `json:"businessDate"`
	RegularHours      float64        `json:"regularHours"`
	OvertimeHours     float64        `json:"overtimeHours"`
	Breaks            []POSBreak     `json:"breaks"`
	Deleted           bool           `json:"deleted"`
	AutoClockedOut    bool           `json:"autoClockedOut"`
	ModifiedDate      string         `json:"modifiedDate"`

	VenueSiteID  string `json:"venue_site_id,omitempty"`
	VenueName    string `json:"venue_name,omitempty"`
	VenueGUID    string `json:"venue_guid,omitempty"`
	LocationCode string `json:"location_code,omitempty"`
}

// TotalHours is the worked total the POS already computed for the shift.
func (t POSTimecard) TotalHours() float64 {
	return t.RegularHours + t.OvertimeHours
}
