package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/nba-projections/internal/models"
	"github.com/jstittsworth/nba-projections/internal/projection"
	"github.com/jstittsworth/nba-projections/pkg/database"
)

// ErrRunInProgress reports that the date already has an active pipeline run.
var ErrRunInProgress = errors.New("pipeline run already in progress")

// Values recorded on a run's triggered_by column.
const (
	TriggeredByAPI       = "api"
	TriggeredByScheduler = "scheduler"
	TriggeredByUpload    = "upload"
	TriggeredByStartup   = "startup"
)

// runTimeout bounds a single background run, scheduled or manual.
const runTimeout = 10 * time.Minute

// PipelineService coordinates the ingestion, matchup, and projection stages.
// It serializes runs per slate date, records every run in pipeline_runs,
// broadcasts run lifecycle events, and alerts on failures.
type PipelineService struct {
	db          *database.DB
	ingestion   *IngestionService
	matchups    *MatchupService
	projections *ProjectionService
	cache       *CacheService
	hub         *WebSocketHub
	alerts      AlertService
	logger      *logrus.Logger

	mu     sync.Mutex
	active map[string]models.RunType
}

func NewPipelineService(
	db *database.DB,
	ingestion *IngestionService,
	matchups *MatchupService,
	projections *ProjectionService,
	cache *CacheService,
	hub *WebSocketHub,
	alerts AlertService,
	logger *logrus.Logger,
) *PipelineService {
	return &PipelineService{
		db:          db,
		ingestion:   ingestion,
		matchups:    matchups,
		projections: projections,
		cache:       cache,
		hub:         hub,
		alerts:      alerts,
		logger:      logger,
		active:      make(map[string]models.RunType),
	}
}

// Trigger starts a run in the background and returns its record immediately.
// At most one run may be in flight per date; a second trigger for the same
// date returns ErrRunInProgress. Different dates run concurrently.
func (s *PipelineService) Trigger(runType models.RunType, date, triggeredBy string) (*models.PipelineRun, error) {
	if err := s.acquire(date, runType); err != nil {
		return nil, err
	}

	run := models.NewPipelineRun(runType, date, triggeredBy)
	if err := models.CreateRun(s.db, run); err != nil {
		s.release(date)
		return nil, fmt.Errorf("failed to create run record: %w", err)
	}

	s.broadcast("run_started", run)
	s.logger.WithFields(logrus.Fields{
		"run_id":       run.ID,
		"run_type":     run.RunType,
		"date":         run.GameDate,
		"triggered_by": run.TriggeredBy,
	}).Info("Pipeline run started")

	go s.execute(run)
	return run, nil
}

// ActiveRuns reports the in-flight runs keyed by date, for status endpoints.
func (s *PipelineService) ActiveRuns() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string, len(s.active))
	for date, runType := range s.active {
		out[date] = string(runType)
	}
	return out
}

func (s *PipelineService) acquire(date string, runType models.RunType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.active[date]; ok {
		return fmt.Errorf("%w: %s run active for %s", ErrRunInProgress, current, date)
	}
	s.active[date] = runType
	return nil
}

func (s *PipelineService) release(date string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, date)
}

func (s *PipelineService) execute(run *models.PipelineRun) {
	defer s.release(run.GameDate)

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	start := time.Now()
	rowCount, counts, unmatched, err := s.runStages(ctx, run.RunType, run.GameDate)
	if err != nil {
		run.Fail(err)
		run.AttachSummary(counts, unmatched)
		s.saveRun(run)
		s.broadcast("run_failed", run)
		s.logger.WithFields(logrus.Fields{
			"run_id":   run.ID,
			"run_type": run.RunType,
			"date":     run.GameDate,
			"duration": time.Since(start).Round(time.Millisecond).String(),
		}).Errorf("Pipeline run failed: %v", err)

		if alertErr := s.alerts.SendAlert(PipelineFailureAlert(string(run.RunType), run.GameDate, err)); alertErr != nil {
			s.logger.Warnf("Failed to send failure alert: %v", alertErr)
		}
		return
	}

	run.Complete(rowCount, counts, unmatched)
	s.saveRun(run)
	s.broadcast("run_completed", run)
	switch run.RunType {
	case models.RunTypeProjections:
		s.announceProjections(run.GameDate, rowCount)
	case models.RunTypeFull:
		if n := counts["projected_players"]; n > 0 {
			s.announceProjections(run.GameDate, n)
		}
	}
	s.logger.WithFields(logrus.Fields{
		"run_id":    run.ID,
		"run_type":  run.RunType,
		"date":      run.GameDate,
		"rows":      rowCount,
		"unmatched": len(unmatched),
		"duration":  time.Since(start).Round(time.Millisecond).String(),
	}).Info("Pipeline run completed")

	if run.TriggeredBy == TriggeredByScheduler {
		excluded := 0
		if run.RunType == models.RunTypeProjections || run.RunType == models.RunTypeFull {
			excluded = counts["excluded_total"]
		}
		if alertErr := s.alerts.SendAlert(PipelineSummaryAlert(string(run.RunType), run.GameDate, rowCount, excluded)); alertErr != nil {
			s.logger.Warnf("Failed to send summary alert: %v", alertErr)
		}
	}
}

func (s *PipelineService) saveRun(run *models.PipelineRun) {
	if err := models.SaveRun(s.db, run); err != nil {
		s.logger.Errorf("Failed to save run %s: %v", run.ID, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.cache.Set(ctx, RunCacheKey(run.ID.String()), run, time.Hour); err != nil {
		s.logger.Warnf("Failed to cache run %s: %v", run.ID, err)
	}
}

func (s *PipelineService) broadcast(event string, run *models.PipelineRun) {
	if s.hub == nil {
		return
	}
	if err := s.hub.BroadcastToTopic(TopicRuns, event, run); err != nil {
		s.logger.Warnf("Failed to broadcast %s for run %s: %v", event, run.ID, err)
	}
}

// announceProjections tells slate subscribers a fresh set of rows landed,
// separately from the run lifecycle events.
func (s *PipelineService) announceProjections(date string, rows int) {
	if s.hub == nil {
		return
	}
	payload := map[string]interface{}{"date": date, "rows": rows}
	if err := s.hub.BroadcastToTopic(TopicProjections, "projections_updated", payload); err != nil {
		s.logger.Warnf("Failed to broadcast projections update for %s: %v", date, err)
	}
}

func (s *PipelineService) runStages(ctx context.Context, runType models.RunType, date string) (int, map[string]int, []string, error) {
	switch runType {
	case models.RunTypeIngestion:
		return s.runIngestion(ctx, date)
	case models.RunTypeMatchups:
		return s.runMatchups(ctx, date)
	case models.RunTypeProjections:
		return s.runProjections(ctx, date)
	case models.RunTypeFull:
		return s.runFull(ctx, date)
	default:
		return 0, nil, nil, fmt.Errorf("unknown run type: %s", runType)
	}
}

// runIngestion refreshes the schedule before the stat windows so matchup
// math always sees games and stats from the same update cycle.
func (s *PipelineService) runIngestion(ctx context.Context, date string) (int, map[string]int, []string, error) {
	games, err := s.ingestion.RefreshSchedule(ctx, date)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("schedule refresh failed: %w", err)
	}
	if err := s.ingestion.RefreshStats(ctx); err != nil {
		return 0, nil, nil, fmt.Errorf("stats refresh failed: %w", err)
	}
	return games, map[string]int{"scheduled_games": games}, nil, nil
}

func (s *PipelineService) runMatchups(ctx context.Context, date string) (int, map[string]int, []string, error) {
	rows, err := s.matchups.ComputeAndStore(ctx, date)
	if err != nil {
		return 0, nil, nil, err
	}
	return len(rows), map[string]int{"matchup_rows": len(rows)}, nil, nil
}

func (s *PipelineService) runProjections(ctx context.Context, date string) (int, map[string]int, []string, error) {
	rows, summary, err := s.projections.Run(ctx, date)
	counts, unmatched := summaryCounts(summary)
	if err != nil {
		return 0, counts, unmatched, err
	}
	return len(rows), counts, unmatched, nil
}

// runFull mirrors the daily update: schedule, stats, matchups, then
// projections when a baseline sheet has been uploaded for the date.
func (s *PipelineService) runFull(ctx context.Context, date string) (int, map[string]int, []string, error) {
	counts := make(map[string]int)

	games, _, _, err := s.runIngestion(ctx, date)
	if err != nil {
		return 0, nil, nil, err
	}
	counts["scheduled_games"] = games

	matchupRows, err := s.matchups.ComputeAndStore(ctx, date)
	if err != nil {
		return 0, counts, nil, fmt.Errorf("matchup stage failed: %w", err)
	}
	counts["matchup_rows"] = len(matchupRows)

	baseline, err := models.BaselineEntries(s.db, date)
	if err != nil {
		return 0, counts, nil, fmt.Errorf("failed to check baseline: %w", err)
	}
	if len(baseline) == 0 {
		// The projection stage needs the uploaded salary sheet. A run
		// without one still refreshes stats and matchups.
		s.logger.Infof("No baseline uploaded for %s, skipping projection stage", date)
		return len(matchupRows), counts, nil, nil
	}

	rows, summary, err := s.projections.Run(ctx, date)
	exclusions, unmatched := summaryCounts(summary)
	for k, v := range exclusions {
		counts[k] = v
	}
	if err != nil {
		return 0, counts, unmatched, fmt.Errorf("projection stage failed: %w", err)
	}
	counts["projected_players"] = len(rows)
	return len(rows), counts, unmatched, nil
}

// summaryCounts flattens an exclusion summary into the shape stored on the
// run record.
func summaryCounts(summary *projection.ExclusionSummary) (map[string]int, []string) {
	if summary == nil {
		return nil, nil
	}
	counts := make(map[string]int, len(summary.Counts)+1)
	for reason, n := range summary.Counts {
		counts[string(reason)] = n
	}
	counts["excluded_total"] = summary.Total()
	return counts, summary.UnmatchedNames()
}
