package nba

import (
	"time"
)

// CalcVersion tags every computed row so downstream consumers can tell
// which formula generation produced it.
const CalcVersion = "v1"

// TeamStatRecord is one team's box-score aggregates for one timeframe.
// Records are replaced wholesale on each ingestion cycle and read-only
// to the projection engine.
type TeamStatRecord struct {
	TeamID    int       `json:"team_id"`
	TeamName  string    `json:"team_name"`
	Timeframe Timeframe `json:"timeframe"`
	Pace      float64   `json:"pace"`
	OffRtg    float64   `json:"offrtg"`
	DefRtg    float64   `json:"defrtg"`
	Poss      float64   `json:"poss"`
}

// PlayerStatRecord is one player's aggregates for one timeframe.
type PlayerStatRecord struct {
	PlayerID      int       `json:"player_id"`
	PlayerName    string    `json:"player_name"`
	TeamName      string    `json:"team_name"`
	Timeframe     Timeframe `json:"timeframe"`
	GamesPlayed   float64   `json:"gp"`
	UsagePct      float64   `json:"usg_pct"`
	FantasyPoints float64   `json:"fp"`
	Touches       float64   `json:"touches"`
	Minutes       float64   `json:"min"`
	Poss          float64   `json:"poss"`
}

// ScheduledGame is one entry of the slate for a date. Unique per
// (date, away, home).
type ScheduledGame struct {
	GameDate string `json:"game_date"`
	AwayTeam string `json:"away_team"`
	HomeTeam string `json:"home_team"`
}

// MatchupRow is one team-perspective of one game for one timeframe.
// Each game yields two rows per timeframe, and both perspectives carry
// identical implied possessions and league baselines.
type MatchupRow struct {
	GameDate     string    `json:"game_date"`
	TeamName     string    `json:"team_name"`
	OppTeamName  string    `json:"opp_team_name"`
	IsHome       bool      `json:"is_home"`
	Timeframe    Timeframe `json:"timeframe"`
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
	CalcVersion  string    `json:"calc_version"`
}

// BaselineEntry is one player's row from the manually supplied daily
// sheet. Names and team abbreviations are source-spelled and not
// guaranteed to match canonical identities.
type BaselineEntry struct {
	Name      string  `json:"name"`
	Pos       string  `json:"pos"`
	Team      string  `json:"team"`
	Opp       string  `json:"opp"`
	Status    string  `json:"status"`
	GameInfo  string  `json:"game_info"`
	Salary    float64 `json:"salary"`
	ProjMins  float64 `json:"proj_mins"`
	Ownership float64 `json:"ownership"`
}

// TimeframeMetrics holds everything derived for one player in one
// timeframe: the post-fallback stats, the efficiency rates, and the two
// touch/fantasy projections.
type TimeframeMetrics struct {
	GamesPlayed   float64 `json:"gp"`
	UsagePct      float64 `json:"usg_pct"`
	FantasyPoints float64 `json:"fp"`
	Touches       float64 `json:"touches"`
	Minutes       float64 `json:"min"`
	Poss          float64 `json:"poss"`

	FPPM    float64 `json:"fppm"`
	FPPT    float64 `json:"fppt"`
	FPPP    float64 `json:"fppp"`
	TPM     float64 `json:"tpm"`
	TPP     float64 `json:"tpp"`
	PossPct float64 `json:"poss_pct"`

	HasMatchup  bool    `json:"has_matchup"`
	ImpliedPoss float64 `json:"implied_poss"`
	TouchesIP   float64 `json:"touches_ip"`
	TouchesTPM  float64 `json:"touches_tpm"`
	FPProjIT    float64 `json:"fp_proj_it"`
	FPProjTPM   float64 `json:"fp_proj_tpm"`

	TeamFP float64 `json:"team_fp"`
	FPPer  float64 `json:"fp_per"`
}

// ProjectionRow is the final output for one player on one date.
type ProjectionRow struct {
	GameDate        string  `json:"game_date"`
	Player          string  `json:"player"`
	BaselineName    string  `json:"baseline_name"`
	MatchConfidence float64 `json:"match_confidence"`
	Pos             string  `json:"pos"`
	Team            string  `json:"team"`
	TeamName        string  `json:"team_name"`
	Opp             string  `json:"opp"`
	OppTeamName     string  `json:"opp_team_name"`
	Status          string  `json:"status"`
	GameInfo        string  `json:"game_info"`
	Salary          float64 `json:"salary"`
	ProjMins        float64 `json:"proj_mins"`
	Ownership       float64 `json:"ownership"`

	TeamSalary    float64 `json:"team_salary"`
	SalaryShare   float64 `json:"salary_share"`
	TeamOwnership float64 `json:"team_ownership"`
	TeamMinutes   float64 `json:"team_minutes"`
	MinutesAvail  float64 `json:"minutes_avail"`

	Metrics map[Timeframe]TimeframeMetrics `json:"metrics"`

	FPProj         float64 `json:"fp_proj"`
	ProjectedValue float64 `json:"projected_value"`
	CalcVersion    string  `json:"calc_version"`
}

// CacheProvider is the minimal cache surface provider clients depend on.
type CacheProvider interface {
	SetSimple(key string, value interface{}, expiration time.Duration) error
	GetSimple(key string, dest interface{}) error
}
