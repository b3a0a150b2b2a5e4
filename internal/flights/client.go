// Package flights adapts the SerpAPI google_flights engine to the planner's
// FlightOption shape. Provider failures degrade to an empty outcome with a
// notice; they never fail the surrounding plan.
package flights

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Domenick1991/travelplanner/config"
	"github.com/Domenick1991/travelplanner/internal/domain"
)

const (
	defaultBaseURL = "https://serpapi.com/search"
	dateLayout     = "2006-01-02"
)

// SearchOutcome is the normalized result of one flight search. MatchedShape
// names the decode path that produced Options; Raw keeps the provider payload
// for diagnostics when Options is empty.
type SearchOutcome struct {
	Options      []domain.FlightOption `json:"options"`
	MatchedShape string                `json:"matched_shape,omitempty"`
	Notices      []string              `json:"notices,omitempty"`
	Raw          json.RawMessage       `json:"raw,omitempty"`
}

// SearchCache is implemented by the redis cache; a nil cache disables caching.
type SearchCache interface {
	GetSearch(ctx context.Context, key string) (*SearchOutcome, error)
	SetSearch(ctx context.Context, key string, outcome *SearchOutcome) error
}

type Client struct {
	apiKey     string
	baseURL    string
	currency   string
	locale     string
	topFlights int
	cache      SearchCache
	httpClient *http.Client
}

func NewClient(cfg config.SerpAPIConfig, cache SearchCache) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	currency := cfg.Currency
	if currency == "" {
		currency = "USD"
	}
	locale := cfg.Locale
	if locale == "" {
		locale = "en"
	}
	topFlights := cfg.TopFlights
	if topFlights <= 0 {
		topFlights = 3
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		currency:   currency,
		locale:     locale,
		topFlights: topFlights,
		cache:      cache,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Search returns the cheapest flight options for the route and dates. When
// the requested window yields nothing it shifts the window by one day in each
// direction before giving up with the raw payload attached.
func (c *Client) Search(ctx context.Context, origin, destination string, depart, ret time.Time) (*SearchOutcome, error) {
	key := cacheKey(origin, destination, depart, ret)
	if c.cache != nil {
		if cached, err := c.cache.GetSearch(ctx, key); err == nil && cached != nil {
			return cached, nil
		}
	}

	outcome := c.search(ctx, origin, destination, depart, ret)

	if c.cache != nil && len(outcome.Options) > 0 {
		_ = c.cache.SetSearch(ctx, key, outcome)
	}
	return outcome, nil
}

func (c *Client) search(ctx context.Context, origin, destination string, depart, ret time.Time) *SearchOutcome {
	resp, raw, err := c.fetch(ctx, origin, destination, depart, ret)
	if err != nil {
		return &SearchOutcome{
			Notices: []string{fmt.Sprintf("flight search unavailable: %v", err)},
		}
	}

	options, shape := c.extract(resp, origin, destination, depart, ret)
	if len(options) > 0 {
		return &SearchOutcome{Options: options, MatchedShape: shape}
	}

	for _, shift := range []int{1, -1} {
		shiftedDepart := depart.AddDate(0, 0, shift)
		shiftedRet := ret.AddDate(0, 0, shift)

		shiftedResp, _, err := c.fetch(ctx, origin, destination, shiftedDepart, shiftedRet)
		if err != nil {
			continue
		}
		options, shape := c.extract(shiftedResp, origin, destination, shiftedDepart, shiftedRet)
		if len(options) == 0 {
			continue
		}

		notice := fmt.Sprintf("no flights found for %s - %s, showing %s - %s instead",
			depart.Format(dateLayout), ret.Format(dateLayout),
			shiftedDepart.Format(dateLayout), shiftedRet.Format(dateLayout))
		return &SearchOutcome{
			Options:      options,
			MatchedShape: fmt.Sprintf("%s (shifted %+d day)", shape, shift),
			Notices:      []string{notice},
		}
	}

	return &SearchOutcome{
		Notices: []string{"no flights available for the requested dates"},
		Raw:     raw,
	}
}

func (c *Client) fetch(ctx context.Context, origin, destination string, depart, ret time.Time) (*searchResponse, json.RawMessage, error) {
	query := url.Values{}
	query.Set("engine", "google_flights")
	query.Set("departure_id", origin)
	query.Set("arrival_id", destination)
	query.Set("outbound_date", depart.Format(dateLayout))
	query.Set("return_date", ret.Format(dateLayout))
	query.Set("currency", c.currency)
	query.Set("hl", c.locale)
	query.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, nil, fmt.Errorf("flight provider returned %s", resp.Status)
	}

	var decoded searchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, nil, fmt.Errorf("decode flight response: %w", err)
	}
	if decoded.Error != "" {
		return nil, nil, fmt.Errorf("flight provider error: %s", decoded.Error)
	}

	return &decoded, json.RawMessage(body), nil
}

func cacheKey(origin, destination string, depart, ret time.Time) string {
	return fmt.Sprintf("cache:flightsearch:%s:%s:%s:%s",
		origin, destination, depart.Format(dateLayout), ret.Format(dateLayout))
}
