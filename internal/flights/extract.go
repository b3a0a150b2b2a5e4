package flights

import (
	"fmt"
	"net/url"
	"time"

	"github.com/Domenick1991/travelplanner/internal/domain"
)

const googleFlightsHome = "https://www.google.com/travel/flights"

// searchResponse covers the provider shapes seen in the wild: some payloads
// populate best_flights, some only other_flights, and field names vary
// between price/total_price, total_duration/duration and airline_logo/logo.
type searchResponse struct {
	BestFlights  []rawFlight `json:"best_flights"`
	OtherFlights []rawFlight `json:"other_flights"`
	Error        string      `json:"error"`
}

type rawFlight struct {
	Price          int64           `json:"price"`
	TotalPrice     int64           `json:"total_price"`
	TotalDuration  int             `json:"total_duration"`
	Duration       int             `json:"duration"`
	AirlineLogo    string          `json:"airline_logo"`
	Logo           string          `json:"logo"`
	Airline        string          `json:"airline"`
	Flights        []rawSegment    `json:"flights"`
	Link           string          `json:"link"`
	BookingToken   string          `json:"booking_token"`
	BookingOptions []bookingOption `json:"booking_options"`
}

type rawSegment struct {
	DepartureAirport rawAirport `json:"departure_airport"`
	ArrivalAirport   rawAirport `json:"arrival_airport"`
	Airline          string     `json:"airline"`
	AirlineLogo      string     `json:"airline_logo"`
}

type rawAirport struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Time string `json:"time"`
}

type bookingOption struct {
	Link string `json:"link"`
}

// extract tries the strict best_flights shape first and falls back to a
// permissive scan over both lists with the alternate field names. The
// returned shape names the path that matched.
func (c *Client) extract(resp *searchResponse, origin, destination string, depart, ret time.Time) ([]domain.FlightOption, string) {
	options := c.collect(resp.BestFlights, false, origin, destination, depart, ret)
	if len(options) > 0 {
		return options, "best_flights"
	}

	combined := make([]rawFlight, 0, len(resp.BestFlights)+len(resp.OtherFlights))
	combined = append(combined, resp.BestFlights...)
	combined = append(combined, resp.OtherFlights...)

	options = c.collect(combined, true, origin, destination, depart, ret)
	if len(options) > 0 {
		return options, "fallback_scan"
	}
	return nil, ""
}

func (c *Client) collect(raws []rawFlight, permissive bool, origin, destination string, depart, ret time.Time) []domain.FlightOption {
	options := make([]domain.FlightOption, 0, c.topFlights)
	for _, rf := range raws {
		option, ok := normalizeFlight(rf, permissive)
		if !ok {
			continue
		}
		option.Currency = c.currency
		option.BookingLink = bookingLink(rf, origin, destination, depart, ret)
		options = append(options, option)
		if len(options) >= c.topFlights {
			break
		}
	}
	return options
}

// normalizeFlight maps one raw provider entry onto the canonical option. An
// entry without a usable price and airline is dropped entirely rather than
// rendered as a partial card.
func normalizeFlight(rf rawFlight, permissive bool) (domain.FlightOption, bool) {
	price := rf.Price
	if permissive && price == 0 {
		price = rf.TotalPrice
	}

	airline := rf.Airline
	if airline == "" && len(rf.Flights) > 0 {
		airline = rf.Flights[0].Airline
	}

	if price <= 0 || airline == "" {
		return domain.FlightOption{}, false
	}

	duration := rf.TotalDuration
	if permissive && duration == 0 {
		duration = rf.Duration
	}

	logo := rf.AirlineLogo
	if logo == "" {
		logo = rf.Logo
	}
	if logo == "" && len(rf.Flights) > 0 {
		logo = rf.Flights[0].AirlineLogo
	}

	option := domain.FlightOption{
		Airline:         airline,
		AirlineLogo:     logo,
		Price:           price,
		DurationMinutes: duration,
	}
	if len(rf.Flights) > 0 {
		first := rf.Flights[0].DepartureAirport
		last := rf.Flights[len(rf.Flights)-1].ArrivalAirport
		option.DepartureAirport = airportLabel(first)
		option.ArrivalAirport = airportLabel(last)
		option.DepartureTime = formatDateTime(first.Time)
		option.ArrivalTime = formatDateTime(last.Time)
	}
	return option, true
}

// bookingLink resolves the card's action link in three tiers: a direct link
// on the option, the first booking_options entry, then a synthesized Google
// Flights search URL. Anything that is not well-formed http(s) falls back to
// the provider homepage, so the link is never broken or empty.
func bookingLink(rf rawFlight, origin, destination string, depart, ret time.Time) string {
	candidate := rf.Link
	if candidate == "" && rf.BookingToken != "" {
		candidate = googleFlightsHome + "?tfs=" + url.QueryEscape(rf.BookingToken)
	}
	if candidate == "" {
		for _, option := range rf.BookingOptions {
			if option.Link != "" {
				candidate = option.Link
				break
			}
		}
	}
	if candidate == "" {
		search := fmt.Sprintf("Flights from %s to %s on %s", origin, destination, depart.Format(dateLayout))
		candidate = googleFlightsHome + "?q=" + url.QueryEscape(search) + "&ret=" + url.QueryEscape(ret.Format(dateLayout))
	}

	parsed, err := url.Parse(candidate)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return googleFlightsHome
	}
	return candidate
}

func airportLabel(a rawAirport) string {
	switch {
	case a.ID != "" && a.Name != "":
		return fmt.Sprintf("%s (%s)", a.Name, a.ID)
	case a.ID != "":
		return a.ID
	default:
		return a.Name
	}
}

// formatDateTime rewrites the provider's "2006-01-02 15:04" timestamps into a
// friendlier form, leaving unparseable values untouched.
func formatDateTime(value string) string {
	t, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		return value
	}
	return t.Format("Jan 02, 2006 | 03:04 PM")
}
