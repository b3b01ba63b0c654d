package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/jstittsworth/nba-projections/internal/nba"
	"github.com/jstittsworth/nba-projections/pkg/database"
)

// GameSchedule stores one scheduled game on a slate, keyed by date and
// the two participating teams as the odds feed spells them.
type GameSchedule struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GameDate  string    `gorm:"size:10;not null;uniqueIndex:idx_schedule_game,priority:1" json:"game_date"`
	AwayTeam  string    `gorm:"size:100;not null;uniqueIndex:idx_schedule_game,priority:2" json:"away_team"`
	HomeTeam  string    `gorm:"size:100;not null;uniqueIndex:idx_schedule_game,priority:3" json:"home_team"`
	StartTime time.Time `json:"start_time"`
	Source    string    `gorm:"size:50" json:"source"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (GameSchedule) TableName() string {
	return "game_schedules"
}

// Game converts the row into the engine's input shape.
func (g *GameSchedule) Game() nba.ScheduledGame {
	return nba.ScheduledGame{
		GameDate: g.GameDate,
		AwayTeam: g.AwayTeam,
		HomeTeam: g.HomeTeam,
	}
}

// ReplaceSchedule swaps out the slate for one date in a single
// transaction.
func ReplaceSchedule(db *database.DB, date string, games []GameSchedule) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_date = ?", date).Delete(&GameSchedule{}).Error; err != nil {
			return err
		}
		if len(games) == 0 {
			return nil
		}
		return tx.CreateInBatches(&games, 100).Error
	})
}

// GetSchedule fetches the slate for one date.
func GetSchedule(db *database.DB, date string) ([]GameSchedule, error) {
	var games []GameSchedule
	err := db.Where("game_date = ?", date).
		Order("start_time ASC, away_team ASC").
		Find(&games).Error
	return games, err
}

// ScheduledGames loads the slate for one date as engine inputs.
func ScheduledGames(db *database.DB, date string) ([]nba.ScheduledGame, error) {
	games, err := GetSchedule(db, date)
	if err != nil {
		return nil, err
	}
	out := make([]nba.ScheduledGame, 0, len(games))
	for i := range games {
		out = append(out, games[i].Game())
	}
	return out, nil
}
