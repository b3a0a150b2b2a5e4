package planner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Domenick1991/travelplanner/internal/domain"
	"github.com/Domenick1991/travelplanner/internal/flights"
	"github.com/Domenick1991/travelplanner/internal/kafka"
	"github.com/Domenick1991/travelplanner/internal/retry"
)

type MockFlightSearcher struct {
	mock.Mock
}

func (m *MockFlightSearcher) Search(ctx context.Context, origin, destination string, depart, ret time.Time) (*flights.SearchOutcome, error) {
	args := m.Called(ctx, origin, destination, depart, ret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flights.SearchOutcome), args.Error(1)
}

type MockAgent struct {
	mock.Mock
	name    string
	prompts []string
}

func (m *MockAgent) Name() string {
	return m.name
}

func (m *MockAgent) Invoke(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) PublishWithRetry(ctx context.Context, topic, key string, payload interface{}, maxRetries int) error {
	args := m.Called(ctx, topic, key, payload, maxRetries)
	return args.Error(0)
}

func testPrefs() domain.Preferences {
	return domain.Preferences{
		Origin:           "BOM",
		Destination:      "SGN",
		DestinationLabel: "Ho Chi Minh City, Vietnam - Tan Son Nhat (SGN)",
		DepartureDate:    time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		ReturnDate:       time.Date(2026, 9, 17, 0, 0, 0, 0, time.UTC),
		Days:             7,
		Theme:            "Family Vacation",
		Activities:       "street food, museums",
		Budget:           "Standard",
		FlightClass:      "Economy",
		HotelRating:      "4*",
	}
}

func testOutcome() *flights.SearchOutcome {
	return &flights.SearchOutcome{
		Options: []domain.FlightOption{
			{Airline: "Vietnam Airlines", Price: 420, BookingLink: "https://example.com/book"},
		},
		MatchedShape: "best_flights",
	}
}

func newTestService(searcher *MockFlightSearcher, researcher, lodging, itinerary *MockAgent, opts ...PlannerServiceOption) *PlannerService {
	caller := retry.New(1, 0)
	caller.Sleep = func(context.Context, time.Duration) error { return nil }
	return NewPlannerService(searcher, researcher, lodging, itinerary, caller, opts...)
}

func TestAssemble_StageChaining(t *testing.T) {
	searcher := &MockFlightSearcher{}
	researcher := &MockAgent{name: "research"}
	lodging := &MockAgent{name: "lodging"}
	itinerary := &MockAgent{name: "itinerary"}

	prefs := testPrefs()
	ctx := context.Background()

	searcher.On("Search", ctx, "BOM", "SGN", prefs.DepartureDate, prefs.ReturnDate).Return(testOutcome(), nil).Once()
	researcher.On("Invoke", ctx, mock.Anything).Return("- Cu Chi tunnels\n- War Remnants Museum", nil).Once()
	lodging.On("Invoke", ctx, mock.Anything).Return("- Hotel Continental", nil).Once()
	itinerary.On("Invoke", ctx, mock.Anything).Return("Day 1: arrive and rest.", nil).Once()

	service := newTestService(searcher, researcher, lodging, itinerary)
	plan, err := service.Assemble(ctx, prefs)

	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.NotEmpty(t, plan.ID)
	assert.False(t, plan.Degraded())

	// prompts embed the preferences and the prior stages' raw output
	require.Len(t, researcher.prompts, 1)
	assert.Contains(t, researcher.prompts[0], "Ho Chi Minh City")
	assert.Contains(t, researcher.prompts[0], "7-day")
	assert.Contains(t, researcher.prompts[0], "family vacation")
	assert.Contains(t, researcher.prompts[0], "street food, museums")

	require.Len(t, itinerary.prompts, 1)
	assert.Contains(t, itinerary.prompts[0], "Cu Chi tunnels")
	assert.Contains(t, itinerary.prompts[0], "Hotel Continental")
	assert.Contains(t, itinerary.prompts[0], "Vietnam Airlines")

	// research and lodging are normalized to bullet lists on the plan
	assert.Contains(t, plan.Research.Content, "• Cu Chi tunnels")
	assert.Contains(t, plan.Lodging.Content, "• Hotel Continental")
	// the itinerary stays prose
	assert.Equal(t, "Day 1: arrive and rest.", plan.Itinerary.Content)

	assert.Equal(t, testOutcome().Options, plan.Flights)
	searcher.AssertExpectations(t)
	researcher.AssertExpectations(t)
	lodging.AssertExpectations(t)
	itinerary.AssertExpectations(t)
}

func TestAssemble_DegradedStageStillFlowsDownstream(t *testing.T) {
	searcher := &MockFlightSearcher{}
	researcher := &MockAgent{name: "research"}
	lodging := &MockAgent{name: "lodging"}
	itinerary := &MockAgent{name: "itinerary"}

	prefs := testPrefs()
	ctx := context.Background()

	searcher.On("Search", ctx, "BOM", "SGN", prefs.DepartureDate, prefs.ReturnDate).Return(testOutcome(), nil).Once()
	researcher.On("Invoke", ctx, mock.Anything).Return("", errors.New("model overloaded")).Once()
	lodging.On("Invoke", ctx, mock.Anything).Return("- Hotel Continental", nil).Once()
	itinerary.On("Invoke", ctx, mock.Anything).Return("Day 1.", nil).Once()

	service := newTestService(searcher, researcher, lodging, itinerary)
	plan, err := service.Assemble(ctx, prefs)

	require.NoError(t, err)
	assert.True(t, plan.Research.Degraded)
	assert.Equal(t, "model overloaded", plan.Research.Reason)
	assert.True(t, plan.Degraded())
	assert.False(t, plan.Lodging.Degraded)

	// the placeholder flows into the itinerary prompt verbatim
	require.Len(t, itinerary.prompts, 1)
	assert.Contains(t, itinerary.prompts[0], "research stage is unavailable")

	// the terminal retry warning shows up as a plan notice
	require.NotEmpty(t, plan.Notices)
	assert.Contains(t, plan.Notices[0], "research")
}

func TestAssemble_FlightNoticesPropagate(t *testing.T) {
	searcher := &MockFlightSearcher{}
	researcher := &MockAgent{name: "research"}
	lodging := &MockAgent{name: "lodging"}
	itinerary := &MockAgent{name: "itinerary"}

	prefs := testPrefs()
	ctx := context.Background()

	outcome := &flights.SearchOutcome{
		Notices: []string{"no flights available for the requested dates"},
	}
	searcher.On("Search", ctx, "BOM", "SGN", prefs.DepartureDate, prefs.ReturnDate).Return(outcome, nil).Once()
	researcher.On("Invoke", ctx, mock.Anything).Return("- a", nil).Once()
	lodging.On("Invoke", ctx, mock.Anything).Return("- b", nil).Once()
	itinerary.On("Invoke", ctx, mock.Anything).Return("c", nil).Once()

	service := newTestService(searcher, researcher, lodging, itinerary)
	plan, err := service.Assemble(ctx, prefs)

	require.NoError(t, err)
	assert.Empty(t, plan.Flights)
	assert.Contains(t, plan.Notices, "no flights available for the requested dates")
}

func TestAssemble_PublishesNotificationWhenEmailSet(t *testing.T) {
	searcher := &MockFlightSearcher{}
	researcher := &MockAgent{name: "research"}
	lodging := &MockAgent{name: "lodging"}
	itinerary := &MockAgent{name: "itinerary"}
	producer := &MockProducer{}

	prefs := testPrefs()
	prefs.Email = "traveler@example.com"
	ctx := context.Background()

	searcher.On("Search", ctx, "BOM", "SGN", prefs.DepartureDate, prefs.ReturnDate).Return(testOutcome(), nil).Once()
	researcher.On("Invoke", ctx, mock.Anything).Return("- a", nil).Once()
	lodging.On("Invoke", ctx, mock.Anything).Return("- b", nil).Once()
	itinerary.On("Invoke", ctx, mock.Anything).Return("c", nil).Once()

	var published kafka.PlanEvent
	producer.On("PublishWithRetry", ctx, "plan-notifications", mock.Anything, mock.Anything, 3).
		Run(func(args mock.Arguments) {
			published = args.Get(3).(kafka.PlanEvent)
		}).
		Return(nil).Once()

	service := newTestService(searcher, researcher, lodging, itinerary,
		WithNotifications(producer, "plan-notifications"))
	plan, err := service.Assemble(ctx, prefs)

	require.NoError(t, err)
	assert.Equal(t, plan.ID, published.PlanID)
	assert.Equal(t, "traveler@example.com", published.Email)
	assert.NotEmpty(t, published.Subject)
	assert.Contains(t, published.HTMLBody, "Vietnam Airlines")
	producer.AssertExpectations(t)
}

func TestAssemble_PublishFailureBecomesNotice(t *testing.T) {
	searcher := &MockFlightSearcher{}
	researcher := &MockAgent{name: "research"}
	lodging := &MockAgent{name: "lodging"}
	itinerary := &MockAgent{name: "itinerary"}
	producer := &MockProducer{}

	prefs := testPrefs()
	prefs.Email = "traveler@example.com"
	ctx := context.Background()

	searcher.On("Search", ctx, "BOM", "SGN", prefs.DepartureDate, prefs.ReturnDate).Return(testOutcome(), nil).Once()
	researcher.On("Invoke", ctx, mock.Anything).Return("- a", nil).Once()
	lodging.On("Invoke", ctx, mock.Anything).Return("- b", nil).Once()
	itinerary.On("Invoke", ctx, mock.Anything).Return("c", nil).Once()
	producer.On("PublishWithRetry", ctx, "plan-notifications", mock.Anything, mock.Anything, 3).
		Return(errors.New("broker down")).Once()

	service := newTestService(searcher, researcher, lodging, itinerary,
		WithNotifications(producer, "plan-notifications"))
	plan, err := service.Assemble(ctx, prefs)

	require.NoError(t, err)
	found := false
	for _, notice := range plan.Notices {
		if strings.Contains(notice, "could not queue the plan email") {
			found = true
		}
	}
	assert.True(t, found, "expected a notice about the failed email publish, got %v", plan.Notices)
}

func TestAssemble_NoPublishWithoutEmail(t *testing.T) {
	searcher := &MockFlightSearcher{}
	researcher := &MockAgent{name: "research"}
	lodging := &MockAgent{name: "lodging"}
	itinerary := &MockAgent{name: "itinerary"}
	producer := &MockProducer{}

	prefs := testPrefs()
	ctx := context.Background()

	searcher.On("Search", ctx, "BOM", "SGN", prefs.DepartureDate, prefs.ReturnDate).Return(testOutcome(), nil).Once()
	researcher.On("Invoke", ctx, mock.Anything).Return("- a", nil).Once()
	lodging.On("Invoke", ctx, mock.Anything).Return("- b", nil).Once()
	itinerary.On("Invoke", ctx, mock.Anything).Return("c", nil).Once()

	service := newTestService(searcher, researcher, lodging, itinerary,
		WithNotifications(producer, "plan-notifications"))
	_, err := service.Assemble(ctx, prefs)

	require.NoError(t, err)
	producer.AssertNotCalled(t, "PublishWithRetry")
}
