package models

import (
	"time"

	"gorm.io/gorm/clause"

	"github.com/jstittsworth/nba-projections/pkg/database"
)

// TeamInfo stores the league directory: one row per franchise, keyed
// by the canonical abbreviation the rest of the system uses.
type TeamInfo struct {
	Abbreviation string    `gorm:"primaryKey;size:10" json:"abbreviation"`
	FullName     string    `gorm:"size:100;not null" json:"full_name"`
	Conference   string    `gorm:"size:20" json:"conference"`
	Division     string    `gorm:"size:20" json:"division"`
	Timezone     string    `gorm:"size:50" json:"timezone"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (TeamInfo) TableName() string {
	return "team_info"
}

// nbaTeams is the static league directory used to seed the table.
var nbaTeams = []TeamInfo{
	{Abbreviation: "ATL", FullName: "Atlanta Hawks", Conference: "Eastern", Division: "Southeast", Timezone: "America/New_York"},
	{Abbreviation: "BOS", FullName: "Boston Celtics", Conference: "Eastern", Division: "Atlantic", Timezone: "America/New_York"},
	{Abbreviation: "BKN", FullName: "Brooklyn Nets", Conference: "Eastern", Division: "Atlantic", Timezone: "America/New_York"},
	{Abbreviation: "CHA", FullName: "Charlotte Hornets", Conference: "Eastern", Division: "Southeast", Timezone: "America/New_York"},
	{Abbreviation: "CHI", FullName: "Chicago Bulls", Conference: "Eastern", Division: "Central", Timezone: "America/Chicago"},
	{Abbreviation: "CLE", FullName: "Cleveland Cavaliers", Conference: "Eastern", Division: "Central", Timezone: "America/New_York"},
	{Abbreviation: "DAL", FullName: "Dallas Mavericks", Conference: "Western", Division: "Southwest", Timezone: "America/Chicago"},
	{Abbreviation: "DEN", FullName: "Denver Nuggets", Conference: "Western", Division: "Northwest", Timezone: "America/Denver"},
	{Abbreviation: "DET", FullName: "Detroit Pistons", Conference: "Eastern", Division: "Central", Timezone: "America/New_York"},
	{Abbreviation: "GSW", FullName: "Golden State Warriors", Conference: "Western", Division: "Pacific", Timezone: "America/Los_Angeles"},
	{Abbreviation: "HOU", FullName: "Houston Rockets", Conference: "Western", Division: "Southwest", Timezone: "America/Chicago"},
	{Abbreviation: "IND", FullName: "Indiana Pacers", Conference: "Eastern", Division: "Central", Timezone: "America/New_York"},
	{Abbreviation: "LAC", FullName: "LA Clippers", Conference: "Western", Division: "Pacific", Timezone: "America/Los_Angeles"},
	{Abbreviation: "LAL", FullName: "Los Angeles Lakers", Conference: "Western", Division: "Pacific", Timezone: "America/Los_Angeles"},
	{Abbreviation: "MEM", FullName: "Memphis Grizzlies", Conference: "Western", Division: "Southwest", Timezone: "America/Chicago"},
	{Abbreviation: "MIA", FullName: "Miami Heat", Conference: "Eastern", Division: "Southeast", Timezone: "America/New_York"},
	{Abbreviation: "MIL", FullName: "Milwaukee Bucks", Conference: "Eastern", Division: "Central", Timezone: "America/Chicago"},
	{Abbreviation: "MIN", FullName: "Minnesota Timberwolves", Conference: "Western", Division: "Northwest", Timezone: "America/Chicago"},
	{Abbreviation: "NOP", FullName: "New Orleans Pelicans", Conference: "Western", Division: "Southwest", Timezone: "America/Chicago"},
	{Abbreviation: "NYK", FullName: "New York Knicks", Conference: "Eastern", Division: "Atlantic", Timezone: "America/New_York"},
	{Abbreviation: "OKC", FullName: "Oklahoma City Thunder", Conference: "Western", Division: "Northwest", Timezone: "America/Chicago"},
	{Abbreviation: "ORL", FullName: "Orlando Magic", Conference: "Eastern", Division: "Southeast", Timezone: "America/New_York"},
	{Abbreviation: "PHI", FullName: "Philadelphia 76ers", Conference: "Eastern", Division: "Atlantic", Timezone: "America/New_York"},
	{Abbreviation: "PHX", FullName: "Phoenix Suns", Conference: "Western", Division: "Pacific", Timezone: "America/Phoenix"},
	{Abbreviation: "POR", FullName: "Portland Trail Blazers", Conference: "Western", Division: "Northwest", Timezone: "America/Los_Angeles"},
	{Abbreviation: "SAC", FullName: "Sacramento Kings", Conference: "Western", Division: "Pacific", Timezone: "America/Los_Angeles"},
	{Abbreviation: "SAS", FullName: "San Antonio Spurs", Conference: "Western", Division: "Southwest", Timezone: "America/Chicago"},
	{Abbreviation: "TOR", FullName: "Toronto Raptors", Conference: "Eastern", Division: "Atlantic", Timezone: "America/New_York"},
	{Abbreviation: "UTA", FullName: "Utah Jazz", Conference: "Western", Division: "Northwest", Timezone: "America/Denver"},
	{Abbreviation: "WAS", FullName: "Washington Wizards", Conference: "Eastern", Division: "Southeast", Timezone: "America/New_York"},
}

// SeedTeams writes the league directory, updating rows that already
// exist. Safe to run on every startup.
func SeedTeams(db *database.DB) error {
	teams := make([]TeamInfo, len(nbaTeams))
	copy(teams, nbaTeams)
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "abbreviation"}},
		UpdateAll: true,
	}).Create(&teams).Error
}

// ListTeams fetches the full league directory.
func ListTeams(db *database.DB) ([]TeamInfo, error) {
	var teams []TeamInfo
	err := db.Order("abbreviation ASC").Find(&teams).Error
	return teams, err
}
