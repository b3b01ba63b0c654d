package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/jstittsworth/nba-projections/internal/nba"
	"github.com/jstittsworth/nba-projections/pkg/database"
)

// TeamStat stores one team's pace and rating line for one historical
// window. The stats feed replaces each (team, timeframe) row wholesale
// on every ingestion cycle.
type TeamStat struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TeamID      int       `gorm:"index" json:"team_id"`
	TeamName    string    `gorm:"size:100;not null;uniqueIndex:idx_team_timeframe,priority:1" json:"team_name"`
	Timeframe   string    `gorm:"size:20;not null;uniqueIndex:idx_team_timeframe,priority:2" json:"timeframe"`
	GamesPlayed float64   `json:"gp"`
	Pace        float64   `json:"pace"`
	OffRtg      float64   `json:"offrtg"`
	DefRtg      float64   `json:"defrtg"`
	NetRtg      float64   `json:"netrtg"`
	Poss        float64   `json:"poss"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (TeamStat) TableName() string {
	return "team_stats"
}

// Record converts the row into the engine's input shape.
func (t *TeamStat) Record() nba.TeamStatRecord {
	return nba.TeamStatRecord{
		TeamID:    t.TeamID,
		TeamName:  t.TeamName,
		Timeframe: nba.Timeframe(t.Timeframe),
		Pace:      t.Pace,
		OffRtg:    t.OffRtg,
		DefRtg:    t.DefRtg,
		Poss:      t.Poss,
	}
}

// PlayerStat stores one player's counting line for one historical
// window, replaced wholesale per (player, timeframe) on ingestion.
type PlayerStat struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PlayerID      int       `gorm:"index" json:"player_id"`
	PlayerName    string    `gorm:"size:100;not null;uniqueIndex:idx_player_timeframe,priority:1" json:"player_name"`
	TeamName      string    `gorm:"size:100;not null;index" json:"team_name"`
	Timeframe     string    `gorm:"size:20;not null;uniqueIndex:idx_player_timeframe,priority:2" json:"timeframe"`
	GamesPlayed   float64   `json:"gp"`
	UsagePct      float64   `json:"usg_pct"`
	FantasyPoints float64   `json:"fp"`
	Touches       float64   `json:"touches"`
	Minutes       float64   `json:"min"`
	Poss          float64   `json:"poss"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (PlayerStat) TableName() string {
	return "player_stats"
}

// Record converts the row into the engine's input shape.
func (p *PlayerStat) Record() nba.PlayerStatRecord {
	return nba.PlayerStatRecord{
		PlayerID:      p.PlayerID,
		PlayerName:    p.PlayerName,
		TeamName:      p.TeamName,
		Timeframe:     nba.Timeframe(p.Timeframe),
		GamesPlayed:   p.GamesPlayed,
		UsagePct:      p.UsagePct,
		FantasyPoints: p.FantasyPoints,
		Touches:       p.Touches,
		Minutes:       p.Minutes,
		Poss:          p.Poss,
	}
}

// ReplaceTeamStats swaps out every row for one timeframe in a single
// transaction, so readers never observe a half-refreshed window.
func ReplaceTeamStats(db *database.DB, timeframe nba.Timeframe, stats []TeamStat) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("timeframe = ?", string(timeframe)).Delete(&TeamStat{}).Error; err != nil {
			return err
		}
		if len(stats) == 0 {
			return nil
		}
		return tx.CreateInBatches(&stats, 100).Error
	})
}

// ReplacePlayerStats swaps out every row for one timeframe in a single
// transaction.
func ReplacePlayerStats(db *database.DB, timeframe nba.Timeframe, stats []PlayerStat) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("timeframe = ?", string(timeframe)).Delete(&PlayerStat{}).Error; err != nil {
			return err
		}
		if len(stats) == 0 {
			return nil
		}
		return tx.CreateInBatches(&stats, 100).Error
	})
}

// GetTeamStats fetches every team row, optionally limited to one
// timeframe.
func GetTeamStats(db *database.DB, timeframe string) ([]TeamStat, error) {
	var stats []TeamStat
	query := db.Model(&TeamStat{})
	if timeframe != "" {
		query = query.Where("timeframe = ?", timeframe)
	}
	err := query.Order("team_name ASC").Find(&stats).Error
	return stats, err
}

// GetPlayerStats fetches every player row, optionally limited to one
// timeframe.
func GetPlayerStats(db *database.DB, timeframe string) ([]PlayerStat, error) {
	var stats []PlayerStat
	query := db.Model(&PlayerStat{})
	if timeframe != "" {
		query = query.Where("timeframe = ?", timeframe)
	}
	err := query.Order("player_name ASC").Find(&stats).Error
	return stats, err
}

// TeamStatRecords loads all team rows as engine inputs.
func TeamStatRecords(db *database.DB) ([]nba.TeamStatRecord, error) {
	stats, err := GetTeamStats(db, "")
	if err != nil {
		return nil, err
	}
	records := make([]nba.TeamStatRecord, 0, len(stats))
	for i := range stats {
		records = append(records, stats[i].Record())
	}
	return records, nil
}

// PlayerStatRecords loads all player rows as engine inputs.
func PlayerStatRecords(db *database.DB) ([]nba.PlayerStatRecord, error) {
	stats, err := GetPlayerStats(db, "")
	if err != nil {
		return nil, err
	}
	records := make([]nba.PlayerStatRecord, 0, len(stats))
	for i := range stats {
		records = append(records, stats[i].Record())
	}
	return records, nil
}
