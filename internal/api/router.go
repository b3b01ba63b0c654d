package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/nba-projections/internal/api/handlers"
	"github.com/jstittsworth/nba-projections/internal/services"
	"github.com/jstittsworth/nba-projections/pkg/database"
)

// Services bundles the constructed service layer for route wiring.
// Everything here is built once in main and shared with the scheduler.
type Services struct {
	Cache       *services.CacheService
	Pipeline    *services.PipelineService
	Scheduler   *services.SchedulerService
	Matchups    *services.MatchupService
	Projections *services.ProjectionService
	Baseline    *services.BaselineService
}

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, db *database.DB, svcs *Services, location *time.Location, logger *logrus.Logger) {
	// Initialize services
	exportService := services.NewExportService()

	// Initialize handlers
	adminHandler := handlers.NewAdminHandler(db, svcs.Pipeline, svcs.Baseline, svcs.Scheduler, location, logger)
	matchupHandler := handlers.NewMatchupHandler(svcs.Matchups, location)
	projectionHandler := handlers.NewProjectionHandler(svcs.Projections, exportService, location)
	runHandler := handlers.NewRunHandler(db, svcs.Cache, svcs.Pipeline)
	statsHandler := handlers.NewStatsHandler(db)

	// Admin endpoints trigger background pipeline work
	admin := group.Group("/admin")
	{
		admin.POST("/ingest", adminHandler.TriggerIngestion)
		admin.POST("/matchups/run", adminHandler.TriggerMatchups)
		admin.POST("/projections/run", adminHandler.TriggerProjections)
		admin.POST("/pipeline/run", adminHandler.TriggerPipeline)
		admin.POST("/baseline/upload", adminHandler.UploadBaseline)
		admin.GET("/scheduler/status", adminHandler.SchedulerStatus)
		admin.POST("/scheduler/pause", adminHandler.PauseScheduler)
		admin.POST("/scheduler/resume", adminHandler.ResumeScheduler)
	}

	// Read endpoints
	group.GET("/teams", statsHandler.GetTeamDirectory)
	group.GET("/stats/teams", statsHandler.GetTeamStats)
	group.GET("/stats/players", statsHandler.GetPlayerStats)
	group.GET("/matchups", matchupHandler.GetMatchups)
	group.GET("/projections", projectionHandler.GetProjections)
	group.GET("/projections/export", projectionHandler.ExportProjections)
	group.GET("/runs", runHandler.ListRuns)
	group.GET("/runs/:id", runHandler.GetRun)

	// Health and WebSocket endpoints live at the root level, not under
	// /api/v1. They are registered in main.go.
}
