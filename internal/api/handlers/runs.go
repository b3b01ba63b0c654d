package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jstittsworth/nba-projections/internal/models"
	"github.com/jstittsworth/nba-projections/internal/nba"
	"github.com/jstittsworth/nba-projections/internal/services"
	"github.com/jstittsworth/nba-projections/pkg/database"
	"github.com/jstittsworth/nba-projections/pkg/utils"
)

type RunHandler struct {
	db       *database.DB
	cache    *services.CacheService
	pipeline *services.PipelineService
}

func NewRunHandler(db *database.DB, cache *services.CacheService, pipeline *services.PipelineService) *RunHandler {
	return &RunHandler{
		db:       db,
		cache:    cache,
		pipeline: pipeline,
	}
}

// ListRuns returns recent pipeline runs, newest first. An optional date
// filter narrows the history to one slate.
func (h *RunHandler) ListRuns(c *gin.Context) {
	date := c.Query("date")
	if date != "" {
		if _, err := nba.ParseDate(date); err != nil {
			utils.SendValidationError(c, "Invalid date", err.Error())
			return
		}
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	runs, err := models.ListRuns(h.db, date, limit)
	if err != nil {
		utils.SendInternalError(c, "Failed to load run history")
		return
	}

	utils.SendSuccess(c, gin.H{
		"count":  len(runs),
		"active": h.pipeline.ActiveRuns(),
		"runs":   runs,
	})
}

// GetRun returns one pipeline run by ID. Finished runs are served from
// the cache when present; the database is the fallback.
func (h *RunHandler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid run ID", err.Error())
		return
	}

	var cached models.PipelineRun
	if err := h.cache.Get(c.Request.Context(), services.RunCacheKey(id.String()), &cached); err == nil {
		utils.SendSuccess(c, cached)
		return
	}

	run, err := models.GetRun(h.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendNotFound(c, "Run not found")
			return
		}
		utils.SendInternalError(c, "Failed to load run")
		return
	}

	utils.SendSuccess(c, run)
}
