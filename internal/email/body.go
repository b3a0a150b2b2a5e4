package email

import (
	"fmt"
	"html"
	"strings"

	"github.com/Domenick1991/travelplanner/internal/domain"
	"github.com/Domenick1991/travelplanner/internal/textutil"
)

// BuildPlanHTML renders the subject and HTML body of a plan email. Research
// and lodging content is already in plain-list form by the time it gets here;
// bare URLs inside it become anchors.
func BuildPlanHTML(plan *domain.TripPlan) (subject, body string) {
	subject = fmt.Sprintf("Your travel plan for %s", plan.Destination)

	var b strings.Builder
	b.WriteString("<html><body>")
	fmt.Fprintf(&b, "<h2>Trip to %s (%s - %s)</h2>",
		html.EscapeString(plan.Destination), plan.DepartureDate, plan.ReturnDate)

	if len(plan.Notices) > 0 {
		b.WriteString("<ul>")
		for _, notice := range plan.Notices {
			fmt.Fprintf(&b, "<li><em>%s</em></li>", html.EscapeString(notice))
		}
		b.WriteString("</ul>")
	}

	b.WriteString("<h3>Cheapest flights</h3>")
	if len(plan.Flights) == 0 {
		b.WriteString("<p>No flight data available.</p>")
	} else {
		for _, flight := range plan.Flights {
			b.WriteString(`<div style="border:1px solid #e1e1e1;border-radius:8px;padding:12px;margin-bottom:12px;">`)
			if flight.AirlineLogo != "" {
				fmt.Fprintf(&b, `<img src="%s" width="60" alt="%s" />`, html.EscapeString(flight.AirlineLogo), html.EscapeString(flight.Airline))
			}
			fmt.Fprintf(&b, "<h4>%s</h4>", html.EscapeString(flight.Airline))
			fmt.Fprintf(&b, "<p>%s &rarr; %s</p>",
				html.EscapeString(flight.DepartureAirport), html.EscapeString(flight.ArrivalAirport))
			fmt.Fprintf(&b, "<p>Departure: %s<br>Arrival: %s<br>Duration: %d min</p>",
				flight.DepartureTime, flight.ArrivalTime, flight.DurationMinutes)
			fmt.Fprintf(&b, "<h3>%d %s</h3>", flight.Price, flight.Currency)
			fmt.Fprintf(&b, `<a href="%s" target="_blank">Book Now</a>`, html.EscapeString(flight.BookingLink))
			b.WriteString("</div>")
		}
	}

	writeSection(&b, "Things to see and do", plan.Research)
	writeSection(&b, "Hotels &amp; restaurants", plan.Lodging)

	b.WriteString("<h3>Your itinerary</h3>")
	b.WriteString("<p>")
	b.WriteString(withBreaks(textutil.Linkify(plan.Itinerary.Content, true)))
	b.WriteString("</p>")

	b.WriteString("</body></html>")
	return subject, b.String()
}

func writeSection(b *strings.Builder, title string, resp domain.AgentResponse) {
	fmt.Fprintf(b, "<h3>%s</h3>", title)
	if resp.Degraded {
		b.WriteString("<p><em>This section could not be generated; a placeholder is shown.</em></p>")
	}
	b.WriteString("<p>")
	b.WriteString(withBreaks(textutil.Linkify(resp.Content, true)))
	b.WriteString("</p>")
}

func withBreaks(s string) string {
	return strings.ReplaceAll(s, "\n", "<br>")
}
