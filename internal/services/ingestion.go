package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/nba-projections/internal/models"
	"github.com/jstittsworth/nba-projections/internal/nba"
	"github.com/jstittsworth/nba-projections/internal/projection"
	"github.com/jstittsworth/nba-projections/internal/providers"
	"github.com/jstittsworth/nba-projections/pkg/database"
)

// IngestionService pulls team stats, player stats, and the slate
// schedule from the upstream feeds and persists them. Every upstream
// call runs behind the circuit breaker.
type IngestionService struct {
	db       *database.DB
	stats    *providers.NBAStatsClient
	odds     *providers.OddsAPIClient
	breaker  *CircuitBreakerService
	cache    *CacheService
	logger   *logrus.Logger
	location *time.Location
}

func NewIngestionService(
	db *database.DB,
	stats *providers.NBAStatsClient,
	odds *providers.OddsAPIClient,
	breaker *CircuitBreakerService,
	cache *CacheService,
	logger *logrus.Logger,
	location *time.Location,
) *IngestionService {
	return &IngestionService{
		db:       db,
		stats:    stats,
		odds:     odds,
		breaker:  breaker,
		cache:    cache,
		logger:   logger,
		location: location,
	}
}

// RefreshStats replaces the stored team and player stats for every
// historical window. A failed window aborts the refresh so the windows
// never diverge in age.
func (s *IngestionService) RefreshStats(ctx context.Context) error {
	for _, tf := range nba.Timeframes {
		if err := s.refreshTeamWindow(ctx, tf); err != nil {
			return err
		}
		if err := s.refreshPlayerWindow(ctx, tf); err != nil {
			return err
		}
	}
	return nil
}

func (s *IngestionService) refreshTeamWindow(ctx context.Context, tf nba.Timeframe) error {
	result, err := s.breaker.Execute(UpstreamNBAStats, func() (interface{}, error) {
		return s.stats.GetTeamStats(ctx, tf)
	})
	if err != nil {
		return fmt.Errorf("team stats fetch for %s: %w", tf, err)
	}
	rows := result.([]providers.TeamStatsRow)

	stats := make([]models.TeamStat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, models.TeamStat{
			TeamID:      row.TeamID,
			TeamName:    row.TeamName,
			Timeframe:   string(tf),
			GamesPlayed: row.GamesPlayed,
			Pace:        row.Pace,
			OffRtg:      row.OffRtg,
			DefRtg:      row.DefRtg,
			NetRtg:      row.NetRtg,
			Poss:        row.Poss,
		})
	}
	if err := models.ReplaceTeamStats(s.db, tf, stats); err != nil {
		return fmt.Errorf("team stats store for %s: %w", tf, err)
	}

	s.logger.WithFields(logrus.Fields{
		"timeframe": tf,
		"teams":     len(stats),
	}).Info("Refreshed team stats")
	return nil
}

func (s *IngestionService) refreshPlayerWindow(ctx context.Context, tf nba.Timeframe) error {
	result, err := s.breaker.Execute(UpstreamNBAStats, func() (interface{}, error) {
		return s.stats.GetPlayerStats(ctx, tf)
	})
	if err != nil {
		return fmt.Errorf("player stats fetch for %s: %w", tf, err)
	}
	rows := result.([]providers.PlayerStatsRow)

	stats := make([]models.PlayerStat, 0, len(rows))
	for _, row := range rows {
		// Player rows carry abbreviations; team rows carry full names.
		// Store the full name so both sides key identically.
		teamName := row.TeamAbbrev
		if full, ok := projection.FullTeamName(row.TeamAbbrev); ok {
			teamName = full
		}
		stats = append(stats, models.PlayerStat{
			PlayerID:      row.PlayerID,
			PlayerName:    row.PlayerName,
			TeamName:      teamName,
			Timeframe:     string(tf),
			GamesPlayed:   row.GamesPlayed,
			UsagePct:      row.UsagePct,
			FantasyPoints: row.FantasyPoints,
			Touches:       row.Touches,
			Minutes:       row.Minutes,
			Poss:          row.Poss,
		})
	}
	if err := models.ReplacePlayerStats(s.db, tf, stats); err != nil {
		return fmt.Errorf("player stats store for %s: %w", tf, err)
	}

	s.logger.WithFields(logrus.Fields{
		"timeframe": tf,
		"players":   len(stats),
	}).Info("Refreshed player stats")
	return nil
}

// RefreshSchedule replaces the stored slate for one date from the odds
// feed and returns the number of games.
func (s *IngestionService) RefreshSchedule(ctx context.Context, date string) (int, error) {
	result, err := s.breaker.Execute(UpstreamOddsAPI, func() (interface{}, error) {
		return s.odds.GetEvents(ctx, date, s.location)
	})
	if err != nil {
		return 0, fmt.Errorf("schedule fetch for %s: %w", date, err)
	}
	events := result.([]providers.Event)

	games := make([]models.GameSchedule, 0, len(events))
	for _, ev := range events {
		games = append(games, models.GameSchedule{
			GameDate:  date,
			AwayTeam:  ev.AwayTeam,
			HomeTeam:  ev.HomeTeam,
			StartTime: ev.CommenceTime,
			Source:    "odds-api",
		})
	}
	if err := models.ReplaceSchedule(s.db, date, games); err != nil {
		return 0, fmt.Errorf("schedule store for %s: %w", date, err)
	}
	s.cache.Delete(ctx, ScheduleCacheKey(date))

	s.logger.WithFields(logrus.Fields{
		"date":  date,
		"games": len(games),
	}).Info("Refreshed schedule")
	return len(games), nil
}
