package domain

// AirportRecord is one row of the airport reference table, loaded once at
// startup and never mutated afterwards.
type AirportRecord struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Country string `json:"country"`
	City    string `json:"city"`
	State   string `json:"state"`
}

// Candidate is one possible resolution of a free-text place query.
type Candidate struct {
	Label string `json:"label"`
	Code  string `json:"code"`
}
