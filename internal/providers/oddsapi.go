package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/nba-projections/internal/nba"
)

const oddsSportKey = "basketball_nba"

// Event is one scheduled game from the odds feed. Team names arrive as
// full names, not abbreviations.
type Event struct {
	ID           string    `json:"id"`
	SportKey     string    `json:"sport_key"`
	SportTitle   string    `json:"sport_title"`
	CommenceTime time.Time `json:"commence_time"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
}

// OddsAPIClient fetches the NBA schedule from the odds API events
// endpoint, which costs no odds quota.
type OddsAPIClient struct {
	httpClient *http.Client
	cache      nba.CacheProvider
	logger     *logrus.Logger
	baseURL    string
	apiKey     string
}

// NewOddsAPIClient creates an odds API client.
func NewOddsAPIClient(baseURL, apiKey string, cache nba.CacheProvider, logger *logrus.Logger) *OddsAPIClient {
	return &OddsAPIClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache:   cache,
		logger:  logger,
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// GetEvents fetches every game whose tip-off falls on the given slate
// date in the given location.
func (c *OddsAPIClient) GetEvents(ctx context.Context, date string, loc *time.Location) ([]Event, error) {
	cacheKey := fmt.Sprintf("oddsapi:events:%s", date)

	// Check cache first
	var cached []Event
	if err := c.cache.GetSimple(cacheKey, &cached); err == nil {
		return cached, nil
	}

	start, end, err := nba.DayWindowUTC(date, loc)
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"commenceTimeFrom": {start.Format("2006-01-02T15:04:05Z")},
		"commenceTimeTo":   {end.Format("2006-01-02T15:04:05Z")},
		"dateFormat":       {"iso"},
	}
	if c.apiKey != "" {
		params.Set("apiKey", c.apiKey)
	}

	reqURL := fmt.Sprintf("%s/v4/sports/%s/events?%s", c.baseURL, oddsSportKey, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if remaining := resp.Header.Get("x-requests-remaining"); remaining != "" {
		c.logger.Debugf("Odds API requests remaining: %s", remaining)
	}

	var events []Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, err
	}

	// Cache for 15 minutes
	if len(events) > 0 {
		c.cache.SetSimple(cacheKey, events, 15*time.Minute)
	}

	return events, nil
}
