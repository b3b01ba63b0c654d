package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/jstittsworth/nba-projections/internal/nba"
	"github.com/jstittsworth/nba-projections/pkg/database"
)

// PlayerProjection stores one player's final projection for one date.
// The per-timeframe metric breakdown rides along as a JSON document so
// the API can serve the full drill-down without a second table.
type PlayerProjection struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	GameDate        string         `gorm:"size:10;not null;uniqueIndex:idx_projection_player,priority:1" json:"game_date"`
	Player          string         `gorm:"size:100;not null;uniqueIndex:idx_projection_player,priority:2" json:"player"`
	Team            string         `gorm:"size:10;not null;uniqueIndex:idx_projection_player,priority:3" json:"team"`
	BaselineName    string         `gorm:"size:100" json:"baseline_name"`
	MatchConfidence float64        `json:"match_confidence"`
	Pos             string         `gorm:"size:20" json:"pos"`
	TeamName        string         `gorm:"size:100" json:"team_name"`
	Opp             string         `gorm:"size:10" json:"opp"`
	OppTeamName     string         `gorm:"size:100" json:"opp_team_name"`
	Status          string         `gorm:"size:50" json:"status"`
	GameInfo        string         `gorm:"size:100" json:"game_info"`
	Salary          float64        `json:"salary"`
	ProjMins        float64        `json:"proj_mins"`
	Ownership       float64        `json:"ownership"`
	TeamSalary      float64        `json:"team_salary"`
	SalaryShare     float64        `json:"salary_share"`
	TeamOwnership   float64        `json:"team_ownership"`
	TeamMinutes     float64        `json:"team_minutes"`
	MinutesAvail    float64        `json:"minutes_avail"`
	Metrics         datatypes.JSON `gorm:"type:jsonb" json:"metrics"`
	FPProj          float64        `gorm:"index" json:"fp_proj"`
	ProjectedValue  float64        `json:"projected_value"`
	CalcVersion     string         `gorm:"size:10" json:"calc_version"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (PlayerProjection) TableName() string {
	return "player_projections"
}

// Row converts the stored form back into the engine's output shape.
func (p *PlayerProjection) Row() (nba.ProjectionRow, error) {
	row := nba.ProjectionRow{
		GameDate:        p.GameDate,
		Player:          p.Player,
		BaselineName:    p.BaselineName,
		MatchConfidence: p.MatchConfidence,
		Pos:             p.Pos,
		Team:            p.Team,
		TeamName:        p.TeamName,
		Opp:             p.Opp,
		OppTeamName:     p.OppTeamName,
		Status:          p.Status,
		GameInfo:        p.GameInfo,
		Salary:          p.Salary,
		ProjMins:        p.ProjMins,
		Ownership:       p.Ownership,
		TeamSalary:      p.TeamSalary,
		SalaryShare:     p.SalaryShare,
		TeamOwnership:   p.TeamOwnership,
		TeamMinutes:     p.TeamMinutes,
		MinutesAvail:    p.MinutesAvail,
		FPProj:          p.FPProj,
		ProjectedValue:  p.ProjectedValue,
		CalcVersion:     p.CalcVersion,
	}
	if len(p.Metrics) > 0 {
		if err := json.Unmarshal(p.Metrics, &row.Metrics); err != nil {
			return nba.ProjectionRow{}, err
		}
	}
	return row, nil
}

// ProjectionFromRow converts an engine output row into its stored
// form.
func ProjectionFromRow(row nba.ProjectionRow) (PlayerProjection, error) {
	metrics, err := json.Marshal(row.Metrics)
	if err != nil {
		return PlayerProjection{}, err
	}
	return PlayerProjection{
		GameDate:        row.GameDate,
		Player:          row.Player,
		Team:            row.Team,
		BaselineName:    row.BaselineName,
		MatchConfidence: row.MatchConfidence,
		Pos:             row.Pos,
		TeamName:        row.TeamName,
		Opp:             row.Opp,
		OppTeamName:     row.OppTeamName,
		Status:          row.Status,
		GameInfo:        row.GameInfo,
		Salary:          row.Salary,
		ProjMins:        row.ProjMins,
		Ownership:       row.Ownership,
		TeamSalary:      row.TeamSalary,
		SalaryShare:     row.SalaryShare,
		TeamOwnership:   row.TeamOwnership,
		TeamMinutes:     row.TeamMinutes,
		MinutesAvail:    row.MinutesAvail,
		Metrics:         datatypes.JSON(metrics),
		FPProj:          row.FPProj,
		ProjectedValue:  row.ProjectedValue,
		CalcVersion:     row.CalcVersion,
	}, nil
}

// ReplaceProjections swaps out the slate's projections for one date in
// a single transaction, so a failed rerun never leaves a partial mix
// of old and new rows.
func ReplaceProjections(db *database.DB, date string, rows []nba.ProjectionRow) error {
	projections := make([]PlayerProjection, 0, len(rows))
	for _, row := range rows {
		projection, err := ProjectionFromRow(row)
		if err != nil {
			return err
		}
		projections = append(projections, projection)
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_date = ?", date).Delete(&PlayerProjection{}).Error; err != nil {
			return err
		}
		if len(projections) == 0 {
			return nil
		}
		return tx.CreateInBatches(&projections, 100).Error
	})
}

// GetProjections fetches the stored slate for one date, best
// projection first.
func GetProjections(db *database.DB, date string) ([]PlayerProjection, error) {
	var projections []PlayerProjection
	err := db.Where("game_date = ?", date).
		Order("fp_proj DESC, player ASC").
		Find(&projections).Error
	return projections, err
}

// ProjectionRows loads the stored slate for one date in the engine's
// output shape.
func ProjectionRows(db *database.DB, date string) ([]nba.ProjectionRow, error) {
	projections, err := GetProjections(db, date)
	if err != nil {
		return nil, err
	}
	rows := make([]nba.ProjectionRow, 0, len(projections))
	for i := range projections {
		row, err := projections[i].Row()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
