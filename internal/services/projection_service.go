package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/nba-projections/internal/models"
	"github.com/jstittsworth/nba-projections/internal/nba"
	"github.com/jstittsworth/nba-projections/internal/projection"
	"github.com/jstittsworth/nba-projections/pkg/database"
)

// ProjectionService runs the player pipeline against stored inputs and
// serves the resulting slate.
type ProjectionService struct {
	db       *database.DB
	cache    *CacheService
	engine   *projection.Engine
	logger   *logrus.Logger
	cacheTTL time.Duration
}

func NewProjectionService(db *database.DB, cache *CacheService, engine *projection.Engine, logger *logrus.Logger, cacheTTL time.Duration) *ProjectionService {
	return &ProjectionService{
		db:       db,
		cache:    cache,
		engine:   engine,
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// Run projects the full slate for one date from the stored baseline,
// stats, and matchups, then replaces the stored projections. The
// exclusion summary is returned even when the run fails because every
// row was excluded.
func (s *ProjectionService) Run(ctx context.Context, date string) ([]nba.ProjectionRow, *projection.ExclusionSummary, error) {
	baseline, err := models.BaselineEntries(s.db, date)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load baseline: %w", err)
	}
	playerStats, err := models.PlayerStatRecords(s.db)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load player stats: %w", err)
	}
	teamStats, err := models.TeamStatRecords(s.db)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load team stats: %w", err)
	}
	matchups, err := models.MatchupRecords(s.db, date)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load matchups: %w", err)
	}

	rows, summary, err := s.engine.ProjectSlate(projection.SlateInputs{
		Date:        date,
		Baseline:    baseline,
		PlayerStats: playerStats,
		TeamStats:   teamStats,
		Matchups:    matchups,
	})
	if err != nil {
		return nil, summary, err
	}

	if err := models.ReplaceProjections(s.db, date, rows); err != nil {
		return nil, summary, fmt.Errorf("failed to store projections: %w", err)
	}
	s.cache.Set(ctx, ProjectionsCacheKey(date), rows, s.cacheTTL)

	s.logger.WithFields(logrus.Fields{
		"date":     date,
		"rows":     len(rows),
		"excluded": summary.Total(),
	}).Info("Projected slate")
	return rows, summary, nil
}

// GetProjections serves the stored slate for one date, cache first.
func (s *ProjectionService) GetProjections(ctx context.Context, date string) ([]nba.ProjectionRow, error) {
	var cached []nba.ProjectionRow
	if err := s.cache.Get(ctx, ProjectionsCacheKey(date), &cached); err == nil {
		return cached, nil
	}

	rows, err := models.ProjectionRows(s.db, date)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		s.cache.Set(ctx, ProjectionsCacheKey(date), rows, s.cacheTTL)
	}
	return rows, nil
}
