package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jstittsworth/nba-projections/internal/nba"
	"github.com/jstittsworth/nba-projections/internal/services"
	"github.com/jstittsworth/nba-projections/pkg/utils"
)

type MatchupHandler struct {
	service  *services.MatchupService
	location *time.Location
}

func NewMatchupHandler(service *services.MatchupService, location *time.Location) *MatchupHandler {
	return &MatchupHandler{
		service:  service,
		location: location,
	}
}

// GetMatchups returns the stored matchup rows for a slate date
func (h *MatchupHandler) GetMatchups(c *gin.Context) {
	date := c.DefaultQuery("date", nba.Today(h.location))
	if _, err := nba.ParseDate(date); err != nil {
		utils.SendValidationError(c, "Invalid date", err.Error())
		return
	}

	rows, err := h.service.GetMatchups(c.Request.Context(), date)
	if err != nil {
		utils.SendInternalError(c, "Failed to load matchups")
		return
	}

	utils.SendSuccess(c, gin.H{
		"date":     date,
		"count":    len(rows),
		"matchups": rows,
	})
}
