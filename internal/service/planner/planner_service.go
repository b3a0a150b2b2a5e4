package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Domenick1991/travelplanner/internal/domain"
	"github.com/Domenick1991/travelplanner/internal/email"
	"github.com/Domenick1991/travelplanner/internal/flights"
	"github.com/Domenick1991/travelplanner/internal/kafka"
	"github.com/Domenick1991/travelplanner/internal/retry"
	"github.com/Domenick1991/travelplanner/internal/textutil"
)

type PlannerUseCase interface {
	Assemble(ctx context.Context, prefs domain.Preferences) (*domain.TripPlan, error)
}

type FlightSearcher interface {
	Search(ctx context.Context, origin, destination string, depart, ret time.Time) (*flights.SearchOutcome, error)
}

type Agent interface {
	Name() string
	Invoke(ctx context.Context, prompt string) (string, error)
}

type Producer interface {
	PublishWithRetry(ctx context.Context, topic, key string, payload interface{}, maxRetries int) error
}

// PlannerService drives the plan through its stages in order: flights, then
// the research, lodging and itinerary agents. Later prompts embed the text of
// earlier stages, so the stages cannot run concurrently.
type PlannerService struct {
	flights            FlightSearcher
	researcher         Agent
	lodgingFinder      Agent
	itineraryPlanner   Agent
	caller             retry.Caller
	producer           Producer
	notificationsTopic string
}

type PlannerServiceOption func(*PlannerService)

// WithNotifications makes the service publish a PlanEvent for every plan
// whose preferences carry an email address.
func WithNotifications(producer Producer, topic string) PlannerServiceOption {
	return func(s *PlannerService) {
		s.producer = producer
		s.notificationsTopic = topic
	}
}

func NewPlannerService(
	searcher FlightSearcher,
	researcher, lodgingFinder, itineraryPlanner Agent,
	caller *retry.Caller,
	opts ...PlannerServiceOption,
) *PlannerService {
	service := &PlannerService{
		flights:          searcher,
		researcher:       researcher,
		lodgingFinder:    lodgingFinder,
		itineraryPlanner: itineraryPlanner,
		caller:           *caller,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Assemble produces the full trip plan. Degraded agent stages still feed
// their placeholder content into later prompts; the plan records which stages
// degraded and every retry warning as a notice.
func (s *PlannerService) Assemble(ctx context.Context, prefs domain.Preferences) (*domain.TripPlan, error) {
	var notices []string

	caller := s.caller
	caller.Notify = func(message string) {
		notices = append(notices, message)
	}

	outcome, err := s.flights.Search(ctx, prefs.Origin, prefs.Destination, prefs.DepartureDate, prefs.ReturnDate)
	if err != nil {
		// The adapter degrades internally; an error here is unexpected.
		notices = append(notices, fmt.Sprintf("flight search failed: %v", err))
		outcome = &flights.SearchOutcome{}
	}
	notices = append(notices, outcome.Notices...)

	research := caller.Call(ctx, s.researcher.Name(), func(ctx context.Context) (string, error) {
		return s.researcher.Invoke(ctx, researchPrompt(prefs))
	})

	lodging := caller.Call(ctx, s.lodgingFinder.Name(), func(ctx context.Context) (string, error) {
		return s.lodgingFinder.Invoke(ctx, lodgingPrompt(prefs))
	})

	itinerary := caller.Call(ctx, s.itineraryPlanner.Name(), func(ctx context.Context) (string, error) {
		return s.itineraryPlanner.Invoke(ctx, itineraryPrompt(prefs, research.Content, lodging.Content, outcome.Options))
	})

	// Research and lodging are shown as lists; the itinerary stays prose.
	research.Content = textutil.ToPlainList(research.Content)
	lodging.Content = textutil.ToPlainList(lodging.Content)

	plan := &domain.TripPlan{
		ID:            uuid.NewString(),
		Origin:        placeName(prefs.OriginLabel, prefs.Origin),
		Destination:   placeName(prefs.DestinationLabel, prefs.Destination),
		DepartureDate: prefs.DepartureDate.Format("2006-01-02"),
		ReturnDate:    prefs.ReturnDate.Format("2006-01-02"),
		Flights:       outcome.Options,
		Research:      research,
		Lodging:       lodging,
		Itinerary:     itinerary,
		Notices:       notices,
		CreatedAt:     time.Now().UTC(),
	}

	if prefs.Email != "" {
		s.notify(ctx, plan, prefs.Email)
	}

	return plan, nil
}

func (s *PlannerService) notify(ctx context.Context, plan *domain.TripPlan, recipient string) {
	if s.producer == nil || s.notificationsTopic == "" {
		plan.Notices = append(plan.Notices, "email requested but notifications are not configured")
		return
	}

	subject, body := email.BuildPlanHTML(plan)
	event := kafka.PlanEvent{
		PlanID:      plan.ID,
		Email:       recipient,
		Destination: plan.Destination,
		Subject:     subject,
		HTMLBody:    body,
	}

	if err := s.producer.PublishWithRetry(ctx, s.notificationsTopic, plan.ID, event, 3); err != nil {
		log.Printf("publish plan notification: %v", err)
		plan.Notices = append(plan.Notices, fmt.Sprintf("could not queue the plan email: %v", err))
		return
	}
	plan.Notices = append(plan.Notices, fmt.Sprintf("plan will be emailed to %s", recipient))
}

func researchPrompt(prefs domain.Preferences) string {
	return fmt.Sprintf(
		"Research the best attractions and activities in %s for a %d-day %s trip. "+
			"The traveler enjoys: %s. Budget: %s. Flight Class: %s. Hotel Rating: %s. "+
			"Visa Requirement: %t. Travel Insurance: %t.",
		placeName(prefs.DestinationLabel, prefs.Destination), prefs.Days, strings.ToLower(prefs.Theme),
		prefs.Activities, prefs.Budget, prefs.FlightClass, prefs.HotelRating,
		prefs.VisaRequired, prefs.TravelInsurance,
	)
}

func lodgingPrompt(prefs domain.Preferences) string {
	return fmt.Sprintf(
		"Find the best hotels and restaurants near popular attractions in %s for a %s trip. "+
			"Budget: %s. Hotel Rating: %s. Preferred activities: %s.",
		placeName(prefs.DestinationLabel, prefs.Destination), strings.ToLower(prefs.Theme),
		prefs.Budget, prefs.HotelRating, prefs.Activities,
	)
}

func itineraryPrompt(prefs domain.Preferences, research, lodging string, options []domain.FlightOption) string {
	serialized, err := json.Marshal(options)
	if err != nil {
		serialized = []byte("[]")
	}

	return fmt.Sprintf(
		"Based on the following data, create a %d-day itinerary for a %s trip to %s. "+
			"The traveler enjoys: %s. Budget: %s. Flight Class: %s. Hotel Rating: %s. "+
			"Visa Requirement: %t. Travel Insurance: %t. Research: %s. Flights: %s. "+
			"Hotels & Restaurants: %s.",
		prefs.Days, strings.ToLower(prefs.Theme), placeName(prefs.DestinationLabel, prefs.Destination),
		prefs.Activities, prefs.Budget, prefs.FlightClass, prefs.HotelRating,
		prefs.VisaRequired, prefs.TravelInsurance, research, serialized, lodging,
	)
}

func placeName(label, code string) string {
	if label != "" {
		return label
	}
	return code
}

var _ PlannerUseCase = (*PlannerService)(nil)
