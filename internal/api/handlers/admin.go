package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/nba-projections/internal/models"
	"github.com/jstittsworth/nba-projections/internal/nba"
	"github.com/jstittsworth/nba-projections/internal/services"
	"github.com/jstittsworth/nba-projections/pkg/database"
	"github.com/jstittsworth/nba-projections/pkg/utils"
)

type AdminHandler struct {
	db        *database.DB
	pipeline  *services.PipelineService
	baseline  *services.BaselineService
	scheduler *services.SchedulerService
	location  *time.Location
	logger    *logrus.Logger
}

func NewAdminHandler(db *database.DB, pipeline *services.PipelineService, baseline *services.BaselineService, scheduler *services.SchedulerService, location *time.Location, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		db:        db,
		pipeline:  pipeline,
		baseline:  baseline,
		scheduler: scheduler,
		location:  location,
		logger:    logger,
	}
}

// slateDate resolves the date query parameter, defaulting to today in the
// configured timezone. Writes the error response itself on a bad date.
func (h *AdminHandler) slateDate(c *gin.Context) (string, bool) {
	date := c.DefaultQuery("date", nba.Today(h.location))
	if _, err := nba.ParseDate(date); err != nil {
		utils.SendValidationError(c, "Invalid date", err.Error())
		return "", false
	}
	return date, true
}

// trigger starts a background run and writes the standard trigger responses.
func (h *AdminHandler) trigger(c *gin.Context, runType models.RunType, date, triggeredBy string) {
	run, err := h.pipeline.Trigger(runType, date, triggeredBy)
	if err != nil {
		if errors.Is(err, services.ErrRunInProgress) {
			utils.SendConflict(c, err.Error())
			return
		}
		h.logger.Errorf("Failed to start %s run for %s: %v", runType, date, err)
		utils.SendInternalError(c, "Failed to start run")
		return
	}
	utils.SendAccepted(c, run)
}

// TriggerIngestion refreshes the schedule and every stat window for a date
func (h *AdminHandler) TriggerIngestion(c *gin.Context) {
	date, ok := h.slateDate(c)
	if !ok {
		return
	}
	h.trigger(c, models.RunTypeIngestion, date, services.TriggeredByAPI)
}

// TriggerMatchups recomputes game matchup rows for a date
func (h *AdminHandler) TriggerMatchups(c *gin.Context) {
	date, ok := h.slateDate(c)
	if !ok {
		return
	}
	h.trigger(c, models.RunTypeMatchups, date, services.TriggeredByAPI)
}

// TriggerProjections recomputes player projections for a date. The run
// happens in the background, so the stage prerequisites are checked here
// to fail fast instead of recording a doomed run.
func (h *AdminHandler) TriggerProjections(c *gin.Context) {
	date, ok := h.slateDate(c)
	if !ok {
		return
	}

	matchups, err := models.MatchupRecords(h.db, date)
	if err != nil {
		h.logger.Errorf("Failed to check matchups for %s: %v", date, err)
		utils.SendInternalError(c, "Failed to check matchups")
		return
	}
	if len(matchups) == 0 {
		utils.SendPreconditionFailed(c, "No matchups computed for "+date, "run the matchup stage first")
		return
	}

	baseline, err := models.BaselineEntries(h.db, date)
	if err != nil {
		h.logger.Errorf("Failed to check baseline for %s: %v", date, err)
		utils.SendInternalError(c, "Failed to check baseline")
		return
	}
	if len(baseline) == 0 {
		utils.SendPreconditionFailed(c, "No baseline uploaded for "+date, "upload a projections baseline CSV first")
		return
	}

	h.trigger(c, models.RunTypeProjections, date, services.TriggeredByAPI)
}

// TriggerPipeline runs ingestion, matchups, and projections in order
func (h *AdminHandler) TriggerPipeline(c *gin.Context) {
	date, ok := h.slateDate(c)
	if !ok {
		return
	}
	h.trigger(c, models.RunTypeFull, date, services.TriggeredByAPI)
}

// UploadBaseline stores a projections baseline CSV for a slate date.
// Sending auto_run=true also triggers the projection run once the rows land.
func (h *AdminHandler) UploadBaseline(c *gin.Context) {
	date := c.PostForm("date")
	if date == "" {
		date = nba.Today(h.location)
	}
	if _, err := nba.ParseDate(date); err != nil {
		utils.SendValidationError(c, "Invalid date", err.Error())
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.SendValidationError(c, "Missing baseline file", "expected a multipart field named \"file\"")
		return
	}
	defer file.Close()

	rows, err := h.baseline.Upload(c.Request.Context(), date, file)
	if err != nil {
		utils.SendValidationError(c, "Failed to ingest baseline CSV", err.Error())
		return
	}

	h.logger.WithFields(logrus.Fields{
		"date":     date,
		"rows":     rows,
		"filename": header.Filename,
	}).Info("Baseline uploaded")

	result := gin.H{
		"date":     date,
		"rows":     rows,
		"filename": header.Filename,
	}

	autoRun, _ := strconv.ParseBool(c.DefaultPostForm("auto_run", "false"))
	if autoRun {
		run, err := h.pipeline.Trigger(models.RunTypeProjections, date, services.TriggeredByUpload)
		if err != nil {
			// The upload itself succeeded, so report the run problem in
			// the payload rather than failing the request.
			result["auto_run_error"] = err.Error()
		} else {
			result["run"] = run
		}
	}

	utils.SendSuccess(c, result)
}

// SchedulerStatus reports the cron spec, pause state, and upcoming fire times
func (h *AdminHandler) SchedulerStatus(c *gin.Context) {
	utils.SendSuccess(c, h.scheduler.Status())
}

// PauseScheduler keeps the cron ticking but skips the daily update body
func (h *AdminHandler) PauseScheduler(c *gin.Context) {
	h.scheduler.Pause()
	utils.SendSuccess(c, h.scheduler.Status())
}

// ResumeScheduler re-enables the scheduled daily update
func (h *AdminHandler) ResumeScheduler(c *gin.Context) {
	h.scheduler.Resume()
	utils.SendSuccess(c, h.scheduler.Status())
}
