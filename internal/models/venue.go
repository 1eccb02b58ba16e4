package models

// VenueUnknown is the sentinel venue key for events whose venue cannot be
// resolved from any source.
const VenueUnknown = "Venue_Unknown"

// Venue is cache-sourced venue metadata used to drive the POS fan-out and to
// map site ids onto payroll location codes. JSON tags mirror the venue cache
// payload.
type Venue struct {
	SiteID       string `json:"siteId"`
	Name         string `json:"name"`
	POSGUID      string `json:"toastGuid"`
	Offset       string `json:"offSet"`
	POSOffset    string `json:"toastOffSet"`
	LocationCode string `json:"hris_location_id,omitempty"`
}

// VenueDirectory is the bidirectional site id / location code mapping
// discovered from stamped POS timecards. Stats from both sources are re-keyed
// through it so they land on the same venue key.
type VenueDirectory struct {
	siteToCode map[string]string
	codeToSite map[string]string
	siteNames  map[string]string
}

func NewVenueDirectory() *VenueDirectory {
	return &VenueDirectory{
		siteToCode: make(map[string]string),
		codeToSite: make(map[string]string),
		siteNames:  make(map[string]string),
	}
}

func (d *VenueDirectory) Add(siteID, locationCode, name string) {
	if siteID == "" {
		return
	}
	d.siteNames[siteID] = name
	if locationCode != "" && locationCode != siteID {
		d.siteToCode[siteID] = locationCode
		d.codeToSite[locationCode] = siteID
	}
}

// ReportKey rewrites a location code onto its site id so both sources share a
// venue key. Keys with no mapping pass through unchanged.
func (d *VenueDirectory) ReportKey(key string) string {
	if site, ok := d.codeToSite[key]; ok {
		return site
	}
	return key
}

// DisplayName returns the human label for a report key: the location code
// when one is mapped, otherwise the stamped venue name, otherwise the key.
func (d *VenueDirectory) DisplayName(key string) string {
	if code, ok := d.siteToCode[key]; ok {
		return code
	}
	if name, ok := d.siteNames[key]; ok && name != "" {
		return name
	}
	return key
}
