package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/nba-projections/internal/models"
	"github.com/jstittsworth/nba-projections/pkg/config"
	"github.com/jstittsworth/nba-projections/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "up":
		if err := runMigrations(db); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "seed":
		if err := models.SeedTeams(db); err != nil {
			logrus.Fatalf("Failed to seed teams: %v", err)
		}
		logrus.Info("Team directory seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB) error {
	// Auto migrate all models
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
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	// Create indexes for the per-date query paths
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_schedules_game_date ON game_schedules(game_date)",
		"CREATE INDEX IF NOT EXISTS idx_matchups_game_date ON game_matchups(game_date)",
		"CREATE INDEX IF NOT EXISTS idx_baselines_game_date ON daily_baselines(game_date)",
		"CREATE INDEX IF NOT EXISTS idx_projections_game_date ON player_projections(game_date)",
		"CREATE INDEX IF NOT EXISTS idx_runs_game_date ON pipeline_runs(game_date)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func dropTables(db *database.DB) error {
	// Drop tables in reverse dependency order
	tables := []string{
		"pipeline_runs",
		"player_projections",
		"daily_baselines",
		"game_matchups",
		"game_schedules",
		"player_stats",
		"team_stats",
		"team_info",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}
