package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/nba-projections/internal/models"
	"github.com/jstittsworth/nba-projections/internal/nba"
)

// SchedulerService fires the daily full pipeline on a cron schedule in the
// slate timezone. Paused means the cron keeps ticking but the job body
// skips, so resume does not reshuffle the schedule.
type SchedulerService struct {
	pipeline *PipelineService
	logger   *logrus.Logger
	cron     *cron.Cron
	spec     string
	location *time.Location

	mu        sync.Mutex
	isRunning bool
	paused    bool
	lastFired time.Time
}

func NewSchedulerService(pipeline *PipelineService, spec string, location *time.Location, logger *logrus.Logger) *SchedulerService {
	return &SchedulerService{
		pipeline: pipeline,
		logger:   logger,
		cron:     cron.New(cron.WithLocation(location)),
		spec:     spec,
		location: location,
	}
}

// Start schedules the daily job and begins ticking.
func (s *SchedulerService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	_, err := s.cron.AddFunc(s.spec, s.runDailyUpdate)
	if err != nil {
		return fmt.Errorf("failed to schedule daily update: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	s.logger.Infof("Scheduler started: %q in %s", s.spec, s.location.String())
	return nil
}

// Stop halts the cron and waits for any in-flight job to finish.
func (s *SchedulerService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Scheduler stopped")
}

// Pause keeps the schedule but makes fired jobs no-ops.
func (s *SchedulerService) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.paused {
		return
	}
	s.paused = true
	s.logger.Info("Scheduler paused")
}

// Resume re-enables fired jobs.
func (s *SchedulerService) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.paused {
		return
	}
	s.paused = false
	s.logger.Info("Scheduler resumed")
}

// Status reports the scheduler state for the status endpoint.
func (s *SchedulerService) Status() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	nextRuns := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		nextRuns = append(nextRuns, entry.Next)
	}

	status := map[string]interface{}{
		"is_running": s.isRunning,
		"paused":     s.paused,
		"cron":       s.spec,
		"timezone":   s.location.String(),
		"next_runs":  nextRuns,
	}
	if !s.lastFired.IsZero() {
		status["last_fired"] = s.lastFired
	}
	return status
}

// runDailyUpdate triggers the full pipeline for today's slate date. The
// pipeline runs in the background; overlap with a manual run for the same
// date surfaces as ErrRunInProgress and is logged, not retried.
func (s *SchedulerService) runDailyUpdate() {
	s.mu.Lock()
	if s.paused {
		s.mu.Unlock()
		s.logger.Info("Scheduler paused, skipping daily update")
		return
	}
	s.lastFired = time.Now()
	s.mu.Unlock()

	date := nba.Today(s.location)
	s.logger.Infof("Scheduled daily update firing for %s", date)

	run, err := s.pipeline.Trigger(models.RunTypeFull, date, TriggeredByScheduler)
	if err != nil {
		if errors.Is(err, ErrRunInProgress) {
			s.logger.Warnf("Scheduled update skipped: %v", err)
			return
		}
		s.logger.Errorf("Scheduled update failed to start: %v", err)
		return
	}
	s.logger.Infof("Scheduled update started run %s", run.ID)
}
