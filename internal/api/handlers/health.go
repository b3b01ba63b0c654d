package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/jstittsworth/nba-projections/internal/services"
	"github.com/jstittsworth/nba-projections/pkg/database"
)

type HealthHandler struct {
	db        *database.DB
	redis     *redis.Client
	breakers  *services.CircuitBreakerService
	scheduler *services.SchedulerService
	pipeline  *services.PipelineService
}

func NewHealthHandler(db *database.DB, redisClient *redis.Client, breakers *services.CircuitBreakerService, scheduler *services.SchedulerService, pipeline *services.PipelineService) *HealthHandler {
	return &HealthHandler{
		db:        db,
		redis:     redisClient,
		breakers:  breakers,
		scheduler: scheduler,
		pipeline:  pipeline,
	}
}

// GetHealth reports liveness plus dependency detail. The endpoint stays
// 200 as long as the server can answer; degraded dependencies show up in
// the payload so probes and dashboards share one view.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx := c.Request.Context()

	dbStatus := "ok"
	if sqlDB, err := h.db.DB.DB(); err != nil {
		dbStatus = err.Error()
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = err.Error()
	}

	redisStatus := "ok"
	if err := h.redis.Ping(ctx).Err(); err != nil {
		redisStatus = err.Error()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"timestamp":   time.Now().UTC(),
		"service":     "nba-projections",
		"database":    dbStatus,
		"redis":       redisStatus,
		"upstreams":   h.breakers.States(),
		"scheduler":   h.scheduler.Status(),
		"active_runs": h.pipeline.ActiveRuns(),
	})
}
