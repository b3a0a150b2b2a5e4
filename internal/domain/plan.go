package domain

import "time"

type FlightOption struct {
	Airline          string `json:"airline"`
	AirlineLogo      string `json:"airline_logo,omitempty"`
	Price            int64  `json:"price"`
	Currency         string `json:"currency,omitempty"`
	DurationMinutes  int    `json:"duration_minutes"`
	DepartureAirport string `json:"departure_airport"`
	ArrivalAirport   string `json:"arrival_airport"`
	DepartureTime    string `json:"departure_time"`
	ArrivalTime      string `json:"arrival_time"`
	BookingLink      string `json:"booking_link"`
}

// AgentResponse is the outcome of one agent stage. Degraded responses are
// synthesized placeholders produced after retry exhaustion; Content is always
// non-empty either way.
type AgentResponse struct {
	Content  string `json:"content"`
	Degraded bool   `json:"degraded,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

type Preferences struct {
	Origin           string    `json:"origin"`
	Destination      string    `json:"destination"`
	OriginLabel      string    `json:"origin_label,omitempty"`
	DestinationLabel string    `json:"destination_label,omitempty"`
	DepartureDate    time.Time `json:"departure_date"`
	ReturnDate       time.Time `json:"return_date"`
	Days             int       `json:"days"`
	Theme            string    `json:"theme"`
	Activities       string    `json:"activities"`
	Budget           string    `json:"budget"`
	FlightClass      string    `json:"flight_class"`
	HotelRating      string    `json:"hotel_rating"`
	VisaRequired     bool      `json:"visa_required"`
	TravelInsurance  bool      `json:"travel_insurance"`
	Email            string    `json:"email,omitempty"`
}

type TripPlan struct {
	ID            string         `json:"id"`
	Origin        string         `json:"origin"`
	Destination   string         `json:"destination"`
	DepartureDate string         `json:"departure_date"`
	ReturnDate    string         `json:"return_date"`
	Flights       []FlightOption `json:"flights"`
	Research      AgentResponse  `json:"research"`
	Lodging       AgentResponse  `json:"lodging"`
	Itinerary     AgentResponse  `json:"itinerary"`
	Notices       []string       `json:"notices,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Degraded reports whether any agent stage fell back to placeholder content.
func (p *TripPlan) Degraded() bool {
	return p.Research.Degraded || p.Lodging.Degraded || p.Itinerary.Degraded
}
