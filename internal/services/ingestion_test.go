package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/nba-projections/internal/models"
	"github.com/jstittsworth/nba-projections/internal/nba"
	"github.com/jstittsworth/nba-projections/internal/providers"
)

// statsFeedHandler serves minimal stats.nba.com responses for every
// dashboard the ingestion pass requests.
func statsFeedHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var payload interface{}
		switch {
		case r.URL.Path == "/leaguedashteamstats":
			payload = map[string]interface{}{
				"resultSets": []map[string]interface{}{{
					"name":    "LeagueDashTeamStats",
					"headers": []string{"TEAM_ID", "TEAM_NAME", "GP", "PACE", "OFF_RATING", "DEF_RATING", "NET_RATING", "POSS"},
					"rowSet": [][]interface{}{
						{1610612738, "Boston Celtics", 40, 99.1, 118.2, 110.3, 7.9, 99.0},
						{1610612752, "New York Knicks", 41, 96.8, 114.5, 112.0, 2.5, 97.2},
					},
				}},
			}
		case r.URL.Path == "/leaguedashplayerstats" && q.Get("MeasureType") == "Base":
			payload = map[string]interface{}{
				"resultSets": []map[string]interface{}{{
					"headers": []string{"PLAYER_ID", "PLAYER_NAME", "TEAM_ABBREVIATION", "GP", "MIN", "NBA_FANTASY_PTS"},
					"rowSet": [][]interface{}{
						{1628369, "Jayson Tatum", "BOS", 40, 36.1, 45.2},
					},
				}},
			}
		case r.URL.Path == "/leaguedashplayerstats" && q.Get("MeasureType") == "Usage":
			payload = map[string]interface{}{
				"resultSets": []map[string]interface{}{{
					"headers": []string{"PLAYER_ID", "USG_PCT"},
					"rowSet":  [][]interface{}{{1628369, 0.31}},
				}},
			}
		case r.URL.Path == "/leaguedashplayerstats" && q.Get("MeasureType") == "Misc":
			payload = map[string]interface{}{
				"resultSets": []map[string]interface{}{{
					"headers": []string{"PLAYER_ID", "POSS"},
					"rowSet":  [][]interface{}{{1628369, 72.3}},
				}},
			}
		case r.URL.Path == "/leaguedashptstats":
			payload = map[string]interface{}{
				"resultSets": []map[string]interface{}{{
					"headers": []string{"PLAYER_ID", "TOUCHES"},
					"rowSet":  [][]interface{}{{1628369, 68.9}},
				}},
			}
		default:
			t.Errorf("unexpected stats request: %s", r.URL.String())
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(payload)
	}
}

func newTestIngestion(t *testing.T, statsURL, oddsURL string) (*IngestionService, *CacheService) {
	t.Helper()

	db := newTestDB(t)
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	cache, _ := newTestCache(t)
	stats := providers.NewNBAStatsClient(statsURL, 6000, cache, logger)
	odds := providers.NewOddsAPIClient(oddsURL, "test-key", cache, logger)
	breaker := NewCircuitBreakerService(5, 30*time.Second, logger)
	svc := NewIngestionService(db, stats, odds, breaker, cache, logger, time.UTC)
	return svc, cache
}

func TestRefreshStats(t *testing.T) {
	srv := httptest.NewServer(statsFeedHandler(t))
	defer srv.Close()

	svc, _ := newTestIngestion(t, srv.URL, "http://unused")

	err := svc.RefreshStats(context.Background())
	require.NoError(t, err)

	teamRecords, err := models.TeamStatRecords(svc.db)
	require.NoError(t, err)
	// Two teams across four windows.
	assert.Len(t, teamRecords, 8)

	byTF := make(map[nba.Timeframe]int)
	for _, rec := range teamRecords {
		byTF[rec.Timeframe]++
	}
	for _, tf := range nba.Timeframes {
		assert.Equal(t, 2, byTF[tf], "window %s", tf)
	}

	playerRecords, err := models.PlayerStatRecords(svc.db)
	require.NoError(t, err)
	require.Len(t, playerRecords, 4)

	tatum := playerRecords[0]
	assert.Equal(t, "Jayson Tatum", tatum.PlayerName)
	// Abbreviations from the player feed are stored as full names so
	// they key identically to the team feed.
	assert.Equal(t, "Boston Celtics", tatum.TeamName)
	assert.Equal(t, 0.31, tatum.UsagePct)
	assert.Equal(t, 68.9, tatum.Touches)
}

func TestRefreshStatsRerunReplaces(t *testing.T) {
	srv := httptest.NewServer(statsFeedHandler(t))
	defer srv.Close()

	svc, cache := newTestIngestion(t, srv.URL, "http://unused")
	ctx := context.Background()

	require.NoError(t, svc.RefreshStats(ctx))

	// Drop the provider-level cache so the rerun fetches again.
	require.NoError(t, cache.Flush())
	require.NoError(t, svc.RefreshStats(ctx))

	teamRecords, err := models.TeamStatRecords(svc.db)
	require.NoError(t, err)
	assert.Len(t, teamRecords, 8, "replace-all rerun must not duplicate rows")
}

func TestRefreshSchedule(t *testing.T) {
	statsSrv := httptest.NewServer(statsFeedHandler(t))
	defer statsSrv.Close()

	oddsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]providers.Event{
			{
				ID:           "e1",
				SportKey:     "basketball_nba",
				CommenceTime: time.Date(2025, 1, 16, 0, 30, 0, 0, time.UTC),
				HomeTeam:     "Boston Celtics",
				AwayTeam:     "New York Knicks",
			},
		})
	}))
	defer oddsSrv.Close()

	svc, _ := newTestIngestion(t, statsSrv.URL, oddsSrv.URL)
	date := "2025-01-15"

	n, err := svc.RefreshSchedule(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	games, err := models.ScheduledGames(svc.db, date)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "New York Knicks", games[0].AwayTeam)
	assert.Equal(t, "Boston Celtics", games[0].HomeTeam)
	assert.Equal(t, date, games[0].GameDate)
}

func TestRefreshStatsUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	svc, _ := newTestIngestion(t, srv.URL, "http://unused")

	err := svc.RefreshStats(context.Background())
	require.Error(t, err)

	records, recErr := models.TeamStatRecords(svc.db)
	require.NoError(t, recErr)
	assert.Len(t, records, 0, "failed refresh must not write partial windows")
}
