package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/nba-projections/internal/models"
	"github.com/jstittsworth/nba-projections/internal/nba"
	"github.com/jstittsworth/nba-projections/internal/projection"
	"github.com/jstittsworth/nba-projections/pkg/database"
)

// ErrNoSchedule means the slate has no stored games, so there is
// nothing to compute a matchup from.
var ErrNoSchedule = errors.New("no schedule rows for date")

// MatchupService computes and serves the per-game matchup rows.
type MatchupService struct {
	db       *database.DB
	cache    *CacheService
	engine   *projection.Engine
	logger   *logrus.Logger
	cacheTTL time.Duration
}

func NewMatchupService(db *database.DB, cache *CacheService, engine *projection.Engine, logger *logrus.Logger, cacheTTL time.Duration) *MatchupService {
	return &MatchupService{
		db:       db,
		cache:    cache,
		engine:   engine,
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// ComputeAndStore recalculates every matchup row for one date from the
// stored schedule and team stats, then upserts the results.
func (s *MatchupService) ComputeAndStore(ctx context.Context, date string) ([]nba.MatchupRow, error) {
	games, err := models.ScheduledGames(s.db, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSchedule, date)
	}

	teamStats, err := models.TeamStatRecords(s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to load team stats: %w", err)
	}

	rows, err := s.engine.ComputeMatchups(projection.MatchupInputs{
		Date:      date,
		Games:     games,
		TeamStats: teamStats,
	})
	if err != nil {
		return nil, err
	}

	if err := models.SaveMatchups(s.db, rows); err != nil {
		return nil, fmt.Errorf("failed to store matchups: %w", err)
	}
	s.cache.Set(ctx, MatchupsCacheKey(date), rows, s.cacheTTL)

	s.logger.WithFields(logrus.Fields{
		"date": date,
		"rows": len(rows),
	}).Info("Computed matchups")
	return rows, nil
}

// GetMatchups serves the stored rows for one date, cache first.
func (s *MatchupService) GetMatchups(ctx context.Context, date string) ([]nba.MatchupRow, error) {
	var cached []nba.MatchupRow
	if err := s.cache.Get(ctx, MatchupsCacheKey(date), &cached); err == nil {
		return cached, nil
	}

	rows, err := models.MatchupRecords(s.db, date)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		s.cache.Set(ctx, MatchupsCacheKey(date), rows, s.cacheTTL)
	}
	return rows, nil
}
