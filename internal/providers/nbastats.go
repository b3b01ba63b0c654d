package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/jstittsworth/nba-projections/internal/nba"
)

// statsHeaders are required by stats.nba.com; requests without them are
// silently dropped or hang.
var statsHeaders = map[string]string{
	"User-Agent":         "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
	"Accept":             "application/json",
	"Referer":            "https://stats.nba.com/",
	"Origin":             "https://stats.nba.com",
	"x-nba-stats-origin": "stats",
	"x-nba-stats-token":  "true",
}

// TeamStatsRow is one team's advanced line as the stats feed reports it.
type TeamStatsRow struct {
	TeamID      int
	TeamName    string
	GamesPlayed float64
	Pace        float64
	OffRtg      float64
	DefRtg      float64
	NetRtg      float64
	Poss        float64
}

// PlayerStatsRow is one player's merged line across the base, usage,
// misc, and tracking result sets.
type PlayerStatsRow struct {
	PlayerID      int
	PlayerName    string
	TeamAbbrev    string
	GamesPlayed   float64
	Minutes       float64
	UsagePct      float64
	FantasyPoints float64
	Touches       float64
	Poss          float64
}

// NBAStatsClient fetches league-wide per-game aggregates from the
// stats.nba.com dashboard endpoints.
type NBAStatsClient struct {
	httpClient  *http.Client
	cache       nba.CacheProvider
	logger      *logrus.Logger
	rateLimiter *rate.Limiter
	baseURL     string
	season      string
}

// NewNBAStatsClient creates a stats.nba.com client. ratePerMinute
// throttles the dashboard calls; the feed bans aggressive callers.
func NewNBAStatsClient(baseURL string, ratePerMinute int, cache nba.CacheProvider, logger *logrus.Logger) *NBAStatsClient {
	if ratePerMinute <= 0 {
		ratePerMinute = 5
	}
	return &NBAStatsClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache:       cache,
		logger:      logger,
		rateLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(ratePerMinute)), 1),
		baseURL:     baseURL,
		season:      SeasonForDate(time.Now()),
	}
}

// SeasonForDate returns the stats.nba.com season label covering the
// given instant. The season rolls over in October; the offseason
// belongs to the season just finished.
func SeasonForDate(t time.Time) string {
	start := t.Year()
	if t.Month() < time.October {
		start--
	}
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}

// stats.nba.com response structures
type statsResponse struct {
	Resource   string      `json:"resource"`
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string          `json:"name"`
	Headers []string        `json:"headers"`
	RowSet  [][]interface{} `json:"rowSet"`
}

func columnIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[h] = i
	}
	return idx
}

// Row values arrive as JSON numbers, strings, or nulls depending on the
// column and the night's data quality.
func asFloat(v interface{}) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// GetTeamStats fetches every team's advanced line for one historical
// window.
func (c *NBAStatsClient) GetTeamStats(ctx context.Context, timeframe nba.Timeframe) ([]TeamStatsRow, error) {
	cacheKey := fmt.Sprintf("nbastats:teams:%s", timeframe)

	// Check cache first
	var cached []TeamStatsRow
	if err := c.cache.GetSimple(cacheKey, &cached); err == nil {
		return cached, nil
	}

	params := c.teamDashParams("Advanced", timeframe.GamesWindow())
	rs, err := c.fetchResultSet(ctx, "leaguedashteamstats", params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch team stats for %s: %w", timeframe, err)
	}

	idx := columnIndex(rs.Headers)
	teams := make([]TeamStatsRow, 0, len(rs.RowSet))
	for _, row := range rs.RowSet {
		teams = append(teams, TeamStatsRow{
			TeamID:      int(asFloat(row[idx["TEAM_ID"]])),
			TeamName:    asString(row[idx["TEAM_NAME"]]),
			GamesPlayed: asFloat(row[idx["GP"]]),
			Pace:        asFloat(row[idx["PACE"]]),
			OffRtg:      asFloat(row[idx["OFF_RATING"]]),
			DefRtg:      asFloat(row[idx["DEF_RATING"]]),
			NetRtg:      asFloat(row[idx["NET_RATING"]]),
			Poss:        asFloat(row[idx["POSS"]]),
		})
	}

	// Cache for 1 hour
	if len(teams) > 0 {
		c.cache.SetSimple(cacheKey, teams, time.Hour)
	}

	return teams, nil
}

// GetPlayerStats fetches and merges every player's line for one
// historical window. Four result sets contribute: Base carries games,
// minutes, and fantasy points, Usage carries usage rate, Misc carries
// possessions, and the tracking feed carries touches.
func (c *NBAStatsClient) GetPlayerStats(ctx context.Context, timeframe nba.Timeframe) ([]PlayerStatsRow, error) {
	cacheKey := fmt.Sprintf("nbastats:players:%s", timeframe)

	// Check cache first
	var cached []PlayerStatsRow
	if err := c.cache.GetSimple(cacheKey, &cached); err == nil {
		return cached, nil
	}

	lastN := timeframe.GamesWindow()

	base, err := c.fetchResultSet(ctx, "leaguedashplayerstats", c.playerDashParams("Base", lastN))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch base player stats for %s: %w", timeframe, err)
	}

	byID := make(map[int]*PlayerStatsRow, len(base.RowSet))
	order := make([]int, 0, len(base.RowSet))
	idx := columnIndex(base.Headers)
	for _, row := range base.RowSet {
		id := int(asFloat(row[idx["PLAYER_ID"]]))
		byID[id] = &PlayerStatsRow{
			PlayerID:      id,
			PlayerName:    asString(row[idx["PLAYER_NAME"]]),
			TeamAbbrev:    asString(row[idx["TEAM_ABBREVIATION"]]),
			GamesPlayed:   asFloat(row[idx["GP"]]),
			Minutes:       asFloat(row[idx["MIN"]]),
			FantasyPoints: asFloat(row[idx["NBA_FANTASY_PTS"]]),
		}
		order = append(order, id)
	}

	usage, err := c.fetchResultSet(ctx, "leaguedashplayerstats", c.playerDashParams("Usage", lastN))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch usage player stats for %s: %w", timeframe, err)
	}
	idx = columnIndex(usage.Headers)
	for _, row := range usage.RowSet {
		if p, ok := byID[int(asFloat(row[idx["PLAYER_ID"]]))]; ok {
			p.UsagePct = asFloat(row[idx["USG_PCT"]])
		}
	}

	misc, err := c.fetchResultSet(ctx, "leaguedashplayerstats", c.playerDashParams("Misc", lastN))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch misc player stats for %s: %w", timeframe, err)
	}
	idx = columnIndex(misc.Headers)
	for _, row := range misc.RowSet {
		if p, ok := byID[int(asFloat(row[idx["PLAYER_ID"]]))]; ok {
			p.Poss = asFloat(row[idx["POSS"]])
		}
	}

	tracking, err := c.fetchResultSet(ctx, "leaguedashptstats", c.trackingParams("Possessions", lastN))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tracking player stats for %s: %w", timeframe, err)
	}
	idx = columnIndex(tracking.Headers)
	for _, row := range tracking.RowSet {
		if p, ok := byID[int(asFloat(row[idx["PLAYER_ID"]]))]; ok {
			p.Touches = asFloat(row[idx["TOUCHES"]])
		}
	}

	players := make([]PlayerStatsRow, 0, len(order))
	for _, id := range order {
		players = append(players, *byID[id])
	}

	// Cache for 1 hour
	if len(players) > 0 {
		c.cache.SetSimple(cacheKey, players, time.Hour)
	}

	return players, nil
}

func (c *NBAStatsClient) fetchResultSet(ctx context.Context, endpoint string, params url.Values) (*resultSet, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range statsHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var decoded statsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	if len(decoded.ResultSets) == 0 {
		return nil, fmt.Errorf("empty result sets from %s", endpoint)
	}
	return &decoded.ResultSets[0], nil
}

// The dashboard endpoints reject requests missing any of their
// expected parameters, so every filter is sent even when blank.
func (c *NBAStatsClient) teamDashParams(measureType string, lastN int) url.Values {
	return url.Values{
		"Conference":       {""},
		"DateFrom":         {""},
		"DateTo":           {""},
		"Division":         {""},
		"GameScope":        {""},
		"GameSegment":      {""},
		"LastNGames":       {strconv.Itoa(lastN)},
		"LeagueID":         {"00"},
		"Location":         {""},
		"MeasureType":      {measureType},
		"Month":            {"0"},
		"OpponentTeamID":   {"0"},
		"Outcome":          {""},
		"PORound":          {"0"},
		"PaceAdjust":       {"N"},
		"PerMode":          {"PerGame"},
		"Period":           {"0"},
		"PlayerExperience": {""},
		"PlayerPosition":   {""},
		"PlusMinus":        {"N"},
		"Rank":             {"N"},
		"Season":           {c.season},
		"SeasonSegment":    {""},
		"SeasonType":       {"Regular Season"},
		"ShotClockRange":   {""},
		"StarterBench":     {""},
		"TeamID":           {"0"},
		"VsConference":     {""},
		"VsDivision":       {""},
	}
}

func (c *NBAStatsClient) playerDashParams(measureType string, lastN int) url.Values {
	params := c.teamDashParams(measureType, lastN)
	params.Set("College", "")
	params.Set("Country", "")
	params.Set("DraftPick", "")
	params.Set("DraftYear", "")
	params.Set("Height", "")
	params.Set("Weight", "")
	return params
}

func (c *NBAStatsClient) trackingParams(ptMeasureType string, lastN int) url.Values {
	return url.Values{
		"College":          {""},
		"Conference":       {""},
		"Country":          {""},
		"DateFrom":         {""},
		"DateTo":           {""},
		"Division":         {""},
		"DraftPick":        {""},
		"DraftYear":        {""},
		"GameScope":        {""},
		"Height":           {""},
		"LastNGames":       {strconv.Itoa(lastN)},
		"LeagueID":         {"00"},
		"Location":         {""},
		"Month":            {"0"},
		"OpponentTeamID":   {"0"},
		"Outcome":          {""},
		"PORound":          {"0"},
		"PerMode":          {"PerGame"},
		"PlayerExperience": {""},
		"PlayerOrTeam":     {"Player"},
		"PlayerPosition":   {""},
		"PtMeasureType":    {ptMeasureType},
		"Season":           {c.season},
		"SeasonSegment":    {""},
		"SeasonType":       {"Regular Season"},
		"StarterBench":     {""},
		"TeamID":           {"0"},
		"VsConference":     {""},
		"VsDivision":       {""},
		"Weight":           {""},
	}
}
