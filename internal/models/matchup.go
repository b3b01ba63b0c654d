package models

import (
	"time"

	"gorm.io/gorm/clause"

	"github.com/jstittsworth/nba-projections/internal/nba"
	"github.com/jstittsworth/nba-projections/pkg/database"
)

// GameMatchup stores one team-perspective of one game for one
// timeframe. Reruns for a date upsert on the natural key so a slate
// can be recalculated in place.
type GameMatchup struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	GameDate     string    `gorm:"size:10;not null;uniqueIndex:idx_matchup_row,priority:1" json:"game_date"`
	TeamName     string    `gorm:"size:100;not null;uniqueIndex:idx_matchup_row,priority:2" json:"team_name"`
	OppTeamName  string    `gorm:"size:100;not null;uniqueIndex:idx_matchup_row,priority:3" json:"opp_team_name"`
	Timeframe    string    `gorm:"size:20;not null;uniqueIndex:idx_matchup_row,priority:4" json:"timeframe"`
	IsHome       bool      `json:"is_home"`
	Pace         float64   `json:"pace"`
	OppPace      float64   `json:"opp_pace"`
	LgPace       float64   `json:"lg_pace"`
	PossAboveLg  float64   `json:"poss_above_lg"`
	ImpliedPoss  float64   `json:"implied_poss"`
	OffRtg       float64   `json:"offrtg"`
	DefRtg       float64   `json:"defrtg"`
	OppOffRtg    float64   `json:"opp_offrtg"`
	OppDefRtg    float64   `json:"opp_defrtg"`
	LgPP100      float64   `json:"lg_pp100"`
	HCAPossAdj   float64   `json:"hca_poss_adj"`
	HCAPP100Adj  float64   `json:"hca_pp100_adj"`
	ExpPP100     float64   `json:"exp_pp100"`
	OppExpPP100  float64   `json:"opp_exp_pp100"`
	ProjPts      float64   `json:"proj_pts"`
	OppProjPts   float64   `json:"opp_proj_pts"`
	ProjTotal    float64   `json:"proj_total"`
	Matchup      float64   `json:"matchup"`
	PtsAllowedPG float64   `json:"pts_allowed_pg"`
	CalcVersion  string    `gorm:"size:10" json:"calc_version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (GameMatchup) TableName() string {
	return "game_matchups"
}

// Record converts the row into the engine's input shape.
func (m *GameMatchup) Record() nba.MatchupRow {
	return nba.MatchupRow{
		GameDate:     m.GameDate,
		TeamName:     m.TeamName,
		OppTeamName:  m.OppTeamName,
		IsHome:       m.IsHome,
		Timeframe:    nba.Timeframe(m.Timeframe),
		Pace:         m.Pace,
		OppPace:      m.OppPace,
		LgPace:       m.LgPace,
		PossAboveLg:  m.PossAboveLg,
		ImpliedPoss:  m.ImpliedPoss,
		OffRtg:       m.OffRtg,
		DefRtg:       m.DefRtg,
		OppOffRtg:    m.OppOffRtg,
		OppDefRtg:    m.OppDefRtg,
		LgPP100:      m.LgPP100,
		HCAPossAdj:   m.HCAPossAdj,
		HCAPP100Adj:  m.HCAPP100Adj,
		ExpPP100:     m.ExpPP100,
		OppExpPP100:  m.OppExpPP100,
		ProjPts:      m.ProjPts,
		OppProjPts:   m.OppProjPts,
		ProjTotal:    m.ProjTotal,
		Matchup:      m.Matchup,
		PtsAllowedPG: m.PtsAllowedPG,
		CalcVersion:  m.CalcVersion,
	}
}

// MatchupFromRow converts an engine output row into its stored form.
func MatchupFromRow(row nba.MatchupRow) GameMatchup {
	return GameMatchup{
		GameDate:     row.GameDate,
		TeamName:     row.TeamName,
		OppTeamName:  row.OppTeamName,
		IsHome:       row.IsHome,
		Timeframe:    string(row.Timeframe),
		Pace:         row.Pace,
		OppPace:      row.OppPace,
		LgPace:       row.LgPace,
		PossAboveLg:  row.PossAboveLg,
		ImpliedPoss:  row.ImpliedPoss,
		OffRtg:       row.OffRtg,
		DefRtg:       row.DefRtg,
		OppOffRtg:    row.OppOffRtg,
		OppDefRtg:    row.OppDefRtg,
		LgPP100:      row.LgPP100,
		HCAPossAdj:   row.HCAPossAdj,
		HCAPP100Adj:  row.HCAPP100Adj,
		ExpPP100:     row.ExpPP100,
		OppExpPP100:  row.OppExpPP100,
		ProjPts:      row.ProjPts,
		OppProjPts:   row.OppProjPts,
		ProjTotal:    row.ProjTotal,
		Matchup:      row.Matchup,
		PtsAllowedPG: row.PtsAllowedPG,
		CalcVersion:  row.CalcVersion,
	}
}

// SaveMatchups upserts a batch of computed rows keyed on
// (date, team, opponent, timeframe).
func SaveMatchups(db *database.DB, rows []nba.MatchupRow) error {
	if len(rows) == 0 {
		return nil
	}
	matchups := make([]GameMatchup, 0, len(rows))
	for _, row := range rows {
		matchups = append(matchups, MatchupFromRow(row))
	}
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "game_date"},
			{Name: "team_name"},
			{Name: "opp_team_name"},
			{Name: "timeframe"},
		},
		UpdateAll: true,
	}).CreateInBatches(&matchups, 100).Error
}

// GetMatchups fetches every stored row for one date.
func GetMatchups(db *database.DB, date string) ([]GameMatchup, error) {
	var matchups []GameMatchup
	err := db.Where("game_date = ?", date).
		Order("team_name ASC, timeframe ASC").
		Find(&matchups).Error
	return matchups, err
}

// MatchupRecords loads every stored row for one date as engine inputs.
func MatchupRecords(db *database.DB, date string) ([]nba.MatchupRow, error) {
	matchups, err := GetMatchups(db, date)
	if err != nil {
		return nil, err
	}
	rows := make([]nba.MatchupRow, 0, len(matchups))
	for i := range matchups {
		rows = append(rows, matchups[i].Record())
	}
	return rows, nil
}
