package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/jstittsworth/nba-projections/internal/models"
	"github.com/jstittsworth/nba-projections/internal/nba"
	"github.com/jstittsworth/nba-projections/pkg/database"
	"github.com/jstittsworth/nba-projections/pkg/utils"
)

type StatsHandler struct {
	db *database.DB
}

func NewStatsHandler(db *database.DB) *StatsHandler {
	return &StatsHandler{
		db: db,
	}
}

// timeframeParam validates the optional timeframe filter. Empty means
// every window.
func timeframeParam(c *gin.Context) (string, bool) {
	timeframe := c.Query("timeframe")
	if timeframe == "" {
		return "", true
	}
	for _, tf := range nba.Timeframes {
		if string(tf) == timeframe {
			return timeframe, true
		}
	}
	utils.SendValidationError(c, "Invalid timeframe", "expected one of season_long, last_10, last_5, last_3")
	return "", false
}

// GetTeamDirectory returns the seeded league directory
func (h *StatsHandler) GetTeamDirectory(c *gin.Context) {
	teams, err := models.ListTeams(h.db)
	if err != nil {
		utils.SendInternalError(c, "Failed to load team directory")
		return
	}

	utils.SendSuccess(c, gin.H{
		"count": len(teams),
		"teams": teams,
	})
}

// GetTeamStats returns the stored team pace and rating lines
func (h *StatsHandler) GetTeamStats(c *gin.Context) {
	timeframe, ok := timeframeParam(c)
	if !ok {
		return
	}

	stats, err := models.GetTeamStats(h.db, timeframe)
	if err != nil {
		utils.SendInternalError(c, "Failed to load team stats")
		return
	}

	utils.SendSuccess(c, gin.H{
		"count": len(stats),
		"teams": stats,
	})
}

// GetPlayerStats returns the stored player counting lines
func (h *StatsHandler) GetPlayerStats(c *gin.Context) {
	timeframe, ok := timeframeParam(c)
	if !ok {
		return
	}

	query := h.db.Model(&models.PlayerStat{})
	if timeframe != "" {
		query = query.Where("timeframe = ?", timeframe)
	}
	if team := c.Query("team"); team != "" {
		query = query.Where("team_name = ?", team)
	}

	var stats []models.PlayerStat
	if err := query.Order("timeframe, player_name").Find(&stats).Error; err != nil {
		utils.SendInternalError(c, "Failed to load player stats")
		return
	}

	utils.SendSuccess(c, gin.H{
		"count":   len(stats),
		"players": stats,
	})
}
