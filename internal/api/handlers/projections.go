package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jstittsworth/nba-projections/internal/nba"
	"github.com/jstittsworth/nba-projections/internal/services"
	"github.com/jstittsworth/nba-projections/pkg/utils"
)

type ProjectionHandler struct {
	service  *services.ProjectionService
	export   *services.ExportService
	location *time.Location
}

func NewProjectionHandler(service *services.ProjectionService, export *services.ExportService, location *time.Location) *ProjectionHandler {
	return &ProjectionHandler{
		service:  service,
		export:   export,
		location: location,
	}
}

func (h *ProjectionHandler) slateDate(c *gin.Context) (string, bool) {
	date := c.DefaultQuery("date", nba.Today(h.location))
	if _, err := nba.ParseDate(date); err != nil {
		utils.SendValidationError(c, "Invalid date", err.Error())
		return "", false
	}
	return date, true
}

// GetProjections returns the stored projections for a slate date
func (h *ProjectionHandler) GetProjections(c *gin.Context) {
	date, ok := h.slateDate(c)
	if !ok {
		return
	}

	rows, err := h.service.GetProjections(c.Request.Context(), date)
	if err != nil {
		utils.SendInternalError(c, "Failed to load projections")
		return
	}

	utils.SendSuccess(c, gin.H{
		"date":        date,
		"count":       len(rows),
		"projections": rows,
	})
}

// ExportProjections streams the projection table as a CSV download
func (h *ProjectionHandler) ExportProjections(c *gin.Context) {
	date, ok := h.slateDate(c)
	if !ok {
		return
	}

	rows, err := h.service.GetProjections(c.Request.Context(), date)
	if err != nil {
		utils.SendInternalError(c, "Failed to load projections")
		return
	}
	if len(rows) == 0 {
		utils.SendNotFound(c, "No projections for "+date)
		return
	}

	data, err := h.export.ExportProjections(rows)
	if err != nil {
		utils.SendInternalError(c, "Failed to build CSV export")
		return
	}

	filename := fmt.Sprintf("projections_%s.csv", date)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}
