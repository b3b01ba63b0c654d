package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/jstittsworth/nba-projections/internal/nba"
	"github.com/jstittsworth/nba-projections/pkg/database"
)

// DailyBaseline stores one player's row from the uploaded daily sheet,
// spelled exactly as the sheet spells it. Name resolution happens at
// projection time, not at upload time.
type DailyBaseline struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GameDate  string    `gorm:"size:10;not null;uniqueIndex:idx_baseline_player,priority:1" json:"game_date"`
	Name      string    `gorm:"size:100;not null;uniqueIndex:idx_baseline_player,priority:2" json:"name"`
	Team      string    `gorm:"size:10;not null;uniqueIndex:idx_baseline_player,priority:3" json:"team"`
	Pos       string    `gorm:"size:20" json:"pos"`
	Opp       string    `gorm:"size:10" json:"opp"`
	Status    string    `gorm:"size:50" json:"status"`
	GameInfo  string    `gorm:"size:100" json:"game_info"`
	Salary    float64   `json:"salary"`
	ProjMins  float64   `json:"proj_mins"`
	Ownership float64   `json:"ownership"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (DailyBaseline) TableName() string {
	return "daily_baselines"
}

// Entry converts the row into the engine's input shape.
func (b *DailyBaseline) Entry() nba.BaselineEntry {
	return nba.BaselineEntry{
		Name:      b.Name,
		Pos:       b.Pos,
		Team:      b.Team,
		Opp:       b.Opp,
		Status:    b.Status,
		GameInfo:  b.GameInfo,
		Salary:    b.Salary,
		ProjMins:  b.ProjMins,
		Ownership: b.Ownership,
	}
}

// BaselineFromEntry converts a parsed sheet row into its stored form.
func BaselineFromEntry(date string, entry nba.BaselineEntry) DailyBaseline {
	return DailyBaseline{
		GameDate:  date,
		Name:      entry.Name,
		Team:      entry.Team,
		Pos:       entry.Pos,
		Opp:       entry.Opp,
		Status:    entry.Status,
		GameInfo:  entry.GameInfo,
		Salary:    entry.Salary,
		ProjMins:  entry.ProjMins,
		Ownership: entry.Ownership,
	}
}

// ReplaceBaseline swaps out the sheet for one date in a single
// transaction. Re-uploading a sheet replaces the previous upload.
func ReplaceBaseline(db *database.DB, date string, rows []DailyBaseline) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_date = ?", date).Delete(&DailyBaseline{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(&rows, 100).Error
	})
}

// GetBaseline fetches the stored sheet for one date.
func GetBaseline(db *database.DB, date string) ([]DailyBaseline, error) {
	var rows []DailyBaseline
	err := db.Where("game_date = ?", date).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

// BaselineEntries loads the stored sheet for one date as engine
// inputs.
func BaselineEntries(db *database.DB, date string) ([]nba.BaselineEntry, error) {
	rows, err := GetBaseline(db, date)
	if err != nil {
		return nil, err
	}
	entries := make([]nba.BaselineEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, rows[i].Entry())
	}
	return entries, nil
}
