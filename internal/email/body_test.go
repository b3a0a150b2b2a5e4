package email

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Domenick1991/travelplanner/internal/domain"
)

func testPlan() *domain.TripPlan {
	return &domain.TripPlan{
		ID:            "plan-1",
		Origin:        "BOM",
		Destination:   "Ho Chi Minh City",
		DepartureDate: "2026-09-10",
		ReturnDate:    "2026-09-17",
		Flights: []domain.FlightOption{
			{
				Airline:          "Vietnam Airlines",
				AirlineLogo:      "https://logos.example/vn.png",
				Price:            420,
				Currency:         "USD",
				DurationMinutes:  95,
				DepartureAirport: "Chhatrapati Shivaji (BOM)",
				ArrivalAirport:   "Tan Son Nhat (SGN)",
				DepartureTime:    "Sep 10, 2026 | 06:20 AM",
				ArrivalTime:      "Sep 10, 2026 | 08:25 AM",
				BookingLink:      "https://www.google.com/travel/flights?tfs=tok-123",
			},
		},
		Research:  domain.AgentResponse{Content: "• Cu Chi tunnels\n• Tickets at https://example.com/tickets"},
		Lodging:   domain.AgentResponse{Content: "• Hotel Continental"},
		Itinerary: domain.AgentResponse{Content: "Day 1: arrive and rest.\nDay 2: old quarter."},
	}
}

func TestBuildPlanHTML(t *testing.T) {
	subject, body := BuildPlanHTML(testPlan())

	assert.Equal(t, "Your travel plan for Ho Chi Minh City", subject)

	assert.Contains(t, body, "Vietnam Airlines")
	assert.Contains(t, body, "420 USD")
	assert.Contains(t, body, `<a href="https://www.google.com/travel/flights?tfs=tok-123" target="_blank">Book Now</a>`)
	assert.Contains(t, body, `<img src="https://logos.example/vn.png"`)

	// bare URLs in agent content become anchors
	assert.Contains(t, body, `<a href="https://example.com/tickets" target="_blank">https://example.com/tickets</a>`)

	// newlines in prose become explicit breaks
	assert.Contains(t, body, "Day 1: arrive and rest.<br>Day 2: old quarter.")
}

func TestBuildPlanHTML_DegradedSectionNote(t *testing.T) {
	plan := testPlan()
	plan.Research = domain.AgentResponse{
		Content:  "The research stage is unavailable right now. Please try again later.",
		Degraded: true,
		Reason:   "model overloaded",
	}

	_, body := BuildPlanHTML(plan)

	assert.Contains(t, body, "This section could not be generated")
}

func TestBuildPlanHTML_EscapesAttributeValues(t *testing.T) {
	plan := testPlan()
	plan.Flights[0].BookingLink = `https://evil.example/" onclick="steal()`
	plan.Flights[0].AirlineLogo = `https://evil.example/" onerror="steal()`

	_, body := BuildPlanHTML(plan)

	assert.NotContains(t, body, `" onclick="`)
	assert.NotContains(t, body, `" onerror="`)
	assert.Contains(t, body, `https://evil.example/&#34; onclick=&#34;steal()`)
	assert.Contains(t, body, `https://evil.example/&#34; onerror=&#34;steal()`)
}

func TestBuildPlanHTML_NoFlights(t *testing.T) {
	plan := testPlan()
	plan.Flights = nil
	plan.Notices = []string{"no flights available for the requested dates"}

	_, body := BuildPlanHTML(plan)

	assert.Contains(t, body, "No flight data available.")
	assert.Contains(t, body, "no flights available for the requested dates")
	assert.NotContains(t, body, "Book Now")
}
