package api

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Domenick1991/travelplanner/internal/airports"
	"github.com/Domenick1991/travelplanner/internal/domain"
	"github.com/Domenick1991/travelplanner/internal/service/planner"
)

var iataRe = regexp.MustCompile(`^[A-Za-z]{3}$`)

type PlanHandler struct {
	service  planner.PlannerUseCase
	resolver *airports.Resolver
}

type createPlanRequest struct {
	Origin          string `json:"origin"`
	Destination     string `json:"destination"`
	DepartureDate   string `json:"departure_date"`
	ReturnDate      string `json:"return_date"`
	Days            int    `json:"days"`
	Theme           string `json:"theme"`
	Activities      string `json:"activities"`
	Budget          string `json:"budget"`
	FlightClass     string `json:"flight_class"`
	HotelRating     string `json:"hotel_rating"`
	VisaRequired    bool   `json:"visa_required"`
	TravelInsurance bool   `json:"travel_insurance"`
	Email           string `json:"email"`
}

func NewPlanHandler(service planner.PlannerUseCase, resolver *airports.Resolver) *PlanHandler {
	return &PlanHandler{service: service, resolver: resolver}
}

func (h *PlanHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
}

func (h *PlanHandler) create(c *gin.Context) {
	var req createPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prefs, err := h.buildPreferences(c, req)
	if err != nil {
		// buildPreferences already wrote the response
		return
	}

	plan, err := h.service.Assemble(c.Request.Context(), prefs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "something went wrong while assembling the plan",
			"detail": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) buildPreferences(c *gin.Context, req createPlanRequest) (domain.Preferences, error) {
	var prefs domain.Preferences

	origin, originLabel, ok := h.resolvePlace(c, "origin", req.Origin)
	if !ok {
		return prefs, errUnresolved
	}
	destination, destinationLabel, ok := h.resolvePlace(c, "destination", req.Destination)
	if !ok {
		return prefs, errUnresolved
	}

	depart, err := time.Parse("2006-01-02", req.DepartureDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "departure_date must be YYYY-MM-DD"})
		return prefs, err
	}
	ret, err := time.Parse("2006-01-02", req.ReturnDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "return_date must be YYYY-MM-DD"})
		return prefs, err
	}
	if ret.Before(depart) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "return_date must not be before departure_date"})
		return prefs, errUnresolved
	}

	days := req.Days
	if days <= 0 {
		days = int(ret.Sub(depart).Hours()/24) + 1
	}

	return domain.Preferences{
		Origin:           origin,
		Destination:      destination,
		OriginLabel:      originLabel,
		DestinationLabel: destinationLabel,
		DepartureDate:    depart,
		ReturnDate:       ret,
		Days:             days,
		Theme:            req.Theme,
		Activities:       req.Activities,
		Budget:           req.Budget,
		FlightClass:      req.FlightClass,
		HotelRating:      req.HotelRating,
		VisaRequired:     req.VisaRequired,
		TravelInsurance:  req.TravelInsurance,
		Email:            req.Email,
	}, nil
}

// resolvePlace accepts either a bare IATA code or free text. Free text that
// resolves to nothing gets a 422 with a preview of near-miss rows so the user
// can disambiguate; when several airports match, the first candidate wins.
func (h *PlanHandler) resolvePlace(c *gin.Context, field, value string) (code, label string, ok bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": field + " is required"})
		return "", "", false
	}
	if iataRe.MatchString(value) {
		return strings.ToUpper(value), "", true
	}

	candidates := h.resolver.Resolve(value)
	if len(candidates) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "could not resolve " + field + " to an airport",
			"query":   value,
			"preview": h.resolver.Preview(value),
		})
		return "", "", false
	}
	return candidates[0].Code, candidates[0].Label, true
}
