package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/nba-projections/internal/nba"
)

// stubCache implements nba.CacheProvider without a redis server.
type stubCache struct {
	store map[string][]byte
}

func newStubCache() *stubCache {
	return &stubCache{store: make(map[string][]byte)}
}

func (s *stubCache) SetSimple(key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = data
	return nil
}

func (s *stubCache) GetSimple(key string, dest interface{}) error {
	data, ok := s.store[key]
	if !ok {
		return fmt.Errorf("key not found")
	}
	return json.Unmarshal(data, dest)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func TestSeasonForDate(t *testing.T) {
	tests := []struct {
		date   string
		season string
	}{
		{"2024-11-15", "2024-25"},
		{"2025-03-02", "2024-25"},
		{"2025-06-20", "2024-25"},
		{"2025-10-01", "2025-26"},
		{"2026-01-10", "2025-26"},
		{"1999-11-01", "1999-00"},
	}
	for _, tt := range tests {
		day, err := time.Parse("2006-01-02", tt.date)
		require.NoError(t, err)
		assert.Equal(t, tt.season, SeasonForDate(day), "date %s", tt.date)
	}
}

func TestGetTeamStats(t *testing.T) {
	var calls int32
	body := statsResponse{
		Resource: "leaguedashteamstats",
		ResultSets: []resultSet{{
			Name:    "LeagueDashTeamStats",
			Headers: []string{"TEAM_ID", "TEAM_NAME", "GP", "PACE", "OFF_RATING", "DEF_RATING", "NET_RATING", "POSS"},
			RowSet: [][]interface{}{
				{1610612738.0, "Boston Celtics", 40.0, 99.1, 118.2, 110.3, 7.9, 99.0},
				{1610612752.0, "New York Knicks", 41.0, 96.8, 114.5, 112.0, 2.5, 97.2},
			},
		}},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/leaguedashteamstats", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "Advanced", q.Get("MeasureType"))
		assert.Equal(t, "10", q.Get("LastNGames"))
		assert.Equal(t, "PerGame", q.Get("PerMode"))
		assert.Equal(t, "00", q.Get("LeagueID"))
		assert.Equal(t, "Regular Season", q.Get("SeasonType"))

		// The feed rejects requests without browser headers.
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		assert.Equal(t, "stats", r.Header.Get("x-nba-stats-origin"))
		assert.Equal(t, "true", r.Header.Get("x-nba-stats-token"))

		json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	client := NewNBAStatsClient(srv.URL, 6000, newStubCache(), testLogger())

	rows, err := client.GetTeamStats(context.Background(), nba.Last10)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	bos := rows[0]
	assert.Equal(t, 1610612738, bos.TeamID)
	assert.Equal(t, "Boston Celtics", bos.TeamName)
	assert.Equal(t, 40.0, bos.GamesPlayed)
	assert.Equal(t, 99.1, bos.Pace)
	assert.Equal(t, 118.2, bos.OffRtg)
	assert.Equal(t, 110.3, bos.DefRtg)
	assert.Equal(t, 99.0, bos.Poss)

	// Second call for the same window hits the cache.
	again, err := client.GetTeamStats(context.Background(), nba.Last10)
	require.NoError(t, err)
	assert.Equal(t, rows, again)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetTeamStatsSeasonLongWindow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Season-long means no games filter.
		assert.Equal(t, "0", r.URL.Query().Get("LastNGames"))
		json.NewEncoder(w).Encode(statsResponse{ResultSets: []resultSet{{
			Headers: []string{"TEAM_ID", "TEAM_NAME", "GP", "PACE", "OFF_RATING", "DEF_RATING", "NET_RATING", "POSS"},
		}}})
	}))
	defer srv.Close()

	client := NewNBAStatsClient(srv.URL, 6000, newStubCache(), testLogger())
	rows, err := client.GetTeamStats(context.Background(), nba.SeasonLong)
	require.NoError(t, err)
	assert.Len(t, rows, 0)
}

func TestGetPlayerStatsMergesResultSets(t *testing.T) {
	const (
		tatumID   = 1628369.0
		brunsonID = 1628973.0
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var rs resultSet
		switch {
		case r.URL.Path == "/leaguedashplayerstats" && q.Get("MeasureType") == "Base":
			rs = resultSet{
				Headers: []string{"PLAYER_ID", "PLAYER_NAME", "TEAM_ABBREVIATION", "GP", "MIN", "NBA_FANTASY_PTS"},
				RowSet: [][]interface{}{
					{tatumID, "Jayson Tatum", "BOS", 40.0, 36.1, 45.2},
					{brunsonID, "Jalen Brunson", "NYK", 41.0, 35.4, 42.8},
				},
			}
		case r.URL.Path == "/leaguedashplayerstats" && q.Get("MeasureType") == "Usage":
			rs = resultSet{
				Headers: []string{"PLAYER_ID", "USG_PCT"},
				RowSet: [][]interface{}{
					{brunsonID, 0.29},
					{tatumID, 0.31},
					{99999.0, 0.50}, // not in Base, merge skips it
				},
			}
		case r.URL.Path == "/leaguedashplayerstats" && q.Get("MeasureType") == "Misc":
			rs = resultSet{
				Headers: []string{"PLAYER_ID", "POSS"},
				RowSet: [][]interface{}{
					{tatumID, 72.3},
					{brunsonID, 74.1},
				},
			}
		case r.URL.Path == "/leaguedashptstats":
			assert.Equal(t, "Possessions", q.Get("PtMeasureType"))
			assert.Equal(t, "Player", q.Get("PlayerOrTeam"))
			rs = resultSet{
				Headers: []string{"PLAYER_ID", "TOUCHES"},
				RowSet: [][]interface{}{
					{tatumID, 68.9},
				},
			}
		default:
			t.Errorf("unexpected request: %s", r.URL.String())
		}
		json.NewEncoder(w).Encode(statsResponse{ResultSets: []resultSet{rs}})
	}))
	defer srv.Close()

	client := NewNBAStatsClient(srv.URL, 6000, newStubCache(), testLogger())

	rows, err := client.GetPlayerStats(context.Background(), nba.Last5)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Output order follows the Base result set.
	tatum := rows[0]
	assert.Equal(t, 1628369, tatum.PlayerID)
	assert.Equal(t, "Jayson Tatum", tatum.PlayerName)
	assert.Equal(t, "BOS", tatum.TeamAbbrev)
	assert.Equal(t, 36.1, tatum.Minutes)
	assert.Equal(t, 45.2, tatum.FantasyPoints)
	assert.Equal(t, 0.31, tatum.UsagePct)
	assert.Equal(t, 72.3, tatum.Poss)
	assert.Equal(t, 68.9, tatum.Touches)

	brunson := rows[1]
	assert.Equal(t, "Jalen Brunson", brunson.PlayerName)
	assert.Equal(t, 0.29, brunson.UsagePct)
	// No tracking row for Brunson in this window.
	assert.Equal(t, 0.0, brunson.Touches)
}

func TestFetchResultSetErrors(t *testing.T) {
	t.Run("upstream error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		client := NewNBAStatsClient(srv.URL, 6000, newStubCache(), testLogger())
		_, err := client.GetTeamStats(context.Background(), nba.Last3)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("empty result sets", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(statsResponse{})
		}))
		defer srv.Close()

		client := NewNBAStatsClient(srv.URL, 6000, newStubCache(), testLogger())
		_, err := client.GetTeamStats(context.Background(), nba.Last3)
		require.Error(t, err)
	})
}

func TestAsFloat(t *testing.T) {
	assert.Equal(t, 99.1, asFloat(99.1))
	assert.Equal(t, 42.0, asFloat("42"))
	assert.Equal(t, 0.0, asFloat("n/a"))
	assert.Equal(t, 0.0, asFloat(nil))
}
