package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/nba-projections/internal/api"
	"github.com/jstittsworth/nba-projections/internal/api/handlers"
	"github.com/jstittsworth/nba-projections/internal/api/middleware"
	"github.com/jstittsworth/nba-projections/internal/models"
	"github.com/jstittsworth/nba-projections/internal/nba"
	"github.com/jstittsworth/nba-projections/internal/projection"
	"github.com/jstittsworth/nba-projections/internal/providers"
	"github.com/jstittsworth/nba-projections/internal/services"
	"github.com/jstittsworth/nba-projections/pkg/config"
	"github.com/jstittsworth/nba-projections/pkg/database"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}
	logger := logrus.StandardLogger()

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Migrate and seed the league directory
	if err := db.AutoMigrate(
		&models.TeamInfo{},
		&models.TeamStat{},
		&models.PlayerStat{},
		&models.GameSchedule{},
		&models.GameMatchup{},
		&models.DailyBaseline{},
		&models.PlayerProjection{},
		&models.PipelineRun{},
	); err != nil {
		logrus.Fatalf("Failed to migrate database: %v", err)
	}
	if err := models.SeedTeams(db); err != nil {
		logrus.Fatalf("Failed to seed team directory: %v", err)
	}

	// Connect to Redis
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Slate clock. Dates, schedules, and the cron all resolve in this zone.
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logrus.Fatalf("Invalid timezone %q: %v", cfg.Timezone, err)
	}

	// Initialize services
	cacheService := services.NewCacheService(redisClient)
	webSocketHub := services.NewWebSocketHub()
	go webSocketHub.Run()

	breakers := services.NewCircuitBreakerService(cfg.CircuitBreakerThreshold, 30*time.Second, logger)
	statsClient := providers.NewNBAStatsClient(cfg.NBAStatsBaseURL, cfg.StatsRateLimit, cacheService, logger)
	oddsClient := providers.NewOddsAPIClient(cfg.OddsAPIBaseURL, cfg.OddsAPIKey, cacheService, logger)

	engineCfg := projection.DefaultConfig()
	engineCfg.MatchThreshold = cfg.NameMatchThreshold
	engineCfg.MinMinutes = cfg.MinProjectedMinutes
	engineCfg.HCAPace = cfg.HomeCourtPace
	engineCfg.HCAPP100 = cfg.HomeCourtPP100
	engine := projection.NewEngine(engineCfg, logger)

	ingestionService := services.NewIngestionService(db, statsClient, oddsClient, breakers, cacheService, logger, location)
	matchupService := services.NewMatchupService(db, cacheService, engine, logger, time.Duration(cfg.MatchupCacheExpiration)*time.Second)
	projectionService := services.NewProjectionService(db, cacheService, engine, logger, time.Duration(cfg.ProjectionCacheExpiration)*time.Second)
	baselineService := services.NewBaselineService(db, logger)
	alertService := services.NewAlertServiceFromConfig(cfg)

	pipelineService := services.NewPipelineService(
		db,
		ingestionService,
		matchupService,
		projectionService,
		cacheService,
		webSocketHub,
		alertService,
		logger,
	)

	// Daily update at noon Eastern, after the overnight stat feeds settle
	schedulerService := services.NewSchedulerService(pipelineService, cfg.MatchupCron, location, logger)
	if cfg.EnableScheduler {
		if err := schedulerService.Start(); err != nil {
			logrus.Errorf("Failed to start scheduler: %v", err)
		}
	}
	defer schedulerService.Stop()

	// Warm start: refresh stats and the schedule in the background so the
	// first matchup run of the day has data to work with
	if !cfg.SkipInitialIngest {
		go func() {
			if cfg.StartupDelaySeconds > 0 {
				time.Sleep(time.Duration(cfg.StartupDelaySeconds) * time.Second)
			}
			date := nba.Today(location)
			if _, err := pipelineService.Trigger(models.RunTypeIngestion, date, services.TriggeredByStartup); err != nil {
				logrus.Warnf("Startup ingestion not started: %v", err)
			}
		}()
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.CorsOrigins))

	// Root endpoint with API info
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "nba-projections",
			"version": "0.1.0",
			"endpoints": gin.H{
				"teams":       "/api/v1/teams",
				"stats":       "/api/v1/stats/*",
				"admin":       "/api/v1/admin/*",
				"matchups":    "/api/v1/matchups",
				"projections": "/api/v1/projections",
				"runs":        "/api/v1/runs",
			},
		})
	})

	// Health check endpoint
	healthHandler := handlers.NewHealthHandler(db, redisClient, breakers, schedulerService, pipelineService)
	router.GET("/health", healthHandler.GetHealth)

	// Setup API routes under /api/v1
	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, db, &api.Services{
		Cache:       cacheService,
		Pipeline:    pipelineService,
		Scheduler:   schedulerService,
		Matchups:    matchupService,
		Projections: projectionService,
		Baseline:    baselineService,
	}, location, logger)

	// Setup WebSocket endpoint at root level (not under /api/v1)
	wsHandler := handlers.NewWebSocketHandler(webSocketHub, logger)
	router.GET("/ws", wsHandler.HandleWebSocket)

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
