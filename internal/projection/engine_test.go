package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/nba-projections/internal/nba"
)

const slateDate = "2026-01-15"

// slateConfig zeroes the pp100 home-court constant so the matchup side
// of the fixture stays at round numbers; everything else is production
// defaults.
func slateConfig() Config {
	cfg := DefaultConfig()
	cfg.HCAPP100 = 0
	return cfg
}

// Two teams with identical records across all four timeframes, so every
// timeframe computes the same 99.0 implied possessions.
func slateTeamStats() []nba.TeamStatRecord {
	var stats []nba.TeamStatRecord
	for _, tf := range nba.Timeframes {
		stats = append(stats,
			nba.TeamStatRecord{TeamName: "Boston Celtics", Timeframe: tf, Pace: 100, OffRtg: 112, DefRtg: 110, Poss: 32},
			nba.TeamStatRecord{TeamName: "Brooklyn Nets", Timeframe: tf, Pace: 98, OffRtg: 114, DefRtg: 110, Poss: 32},
		)
	}
	return stats
}

func slatePlayerRow(name, team string, tf nba.Timeframe, fp, touches, minutes, poss float64) nba.PlayerStatRecord {
	return nba.PlayerStatRecord{
		PlayerName:    name,
		TeamName:      team,
		Timeframe:     tf,
		GamesPlayed:   4,
		UsagePct:      25,
		FantasyPoints: fp,
		Touches:       touches,
		Minutes:       minutes,
		Poss:          poss,
	}
}

func slatePlayerStats() []nba.PlayerStatRecord {
	var stats []nba.PlayerStatRecord
	for _, tf := range nba.Timeframes {
		stats = append(stats,
			slatePlayerRow("Jayson Tatum", "Boston Celtics", tf, 180, 320, 160, 8),
			slatePlayerRow("Jaylen Brown", "Boston Celtics", tf, 150, 300, 150, 6),
			slatePlayerRow("Mikal Bridges", "Brooklyn Nets", tf, 140, 280, 140, 8),
		)
	}
	return stats
}

func slateBaseline() []nba.BaselineEntry {
	return []nba.BaselineEntry{
		{Name: "Jayson Tatum", Pos: "SF", Team: "BOS", Opp: "BKN", GameInfo: "BKN@BOS 07:30PM ET", Salary: 10000, ProjMins: 36, Ownership: 25},
		{Name: "Jaylen Brown", Pos: "SG", Team: "BOS", Opp: "BKN", GameInfo: "BKN@BOS 07:30PM ET", Salary: 8000, ProjMins: 34, Ownership: 20},
		{Name: "Mikal Bridges", Pos: "SF", Team: "BKN", Opp: "BOS", GameInfo: "BKN@BOS 07:30PM ET", Salary: 7000, ProjMins: 35, Ownership: 15},
	}
}

func slateMatchups(t *testing.T, eng *Engine) []nba.MatchupRow {
	t.Helper()
	rows, err := eng.ComputeMatchups(MatchupInputs{
		Date: slateDate,
		Games: []nba.ScheduledGame{
			{GameDate: slateDate, HomeTeam: "Boston Celtics", AwayTeam: "Brooklyn Nets"},
		},
		TeamStats: slateTeamStats(),
	})
	require.NoError(t, err)
	require.Len(t, rows, 8)
	return rows
}

func TestProjectSlate_EndToEnd(t *testing.T) {
	eng := NewEngine(slateConfig(), nil)
	rows, summary, err := eng.ProjectSlate(SlateInputs{
		Date:        slateDate,
		Baseline:    slateBaseline(),
		PlayerStats: slatePlayerStats(),
		TeamStats:   slateTeamStats(),
		Matchups:    slateMatchups(t, eng),
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 0, summary.Total())

	// Sorted by blended projection descending.
	assert.Equal(t, "Jayson Tatum", rows[0].Player)
	assert.Equal(t, "Jaylen Brown", rows[1].Player)
	assert.Equal(t, "Mikal Bridges", rows[2].Player)

	// Tatum per timeframe: fppt 180/320 = 0.5625, tpp 320/(8/4) = 160,
	// poss share 8/32 = 25%. touches_ip = 0.25*160*99 = 3960 so
	// fp_proj_it = 2227.5; touches_tpm = 2*36 = 72 so fp_proj_tpm =
	// 40.5. Identical timeframes collapse the blend to
	// (2227.5*13 + 40.5*17) / 30.
	assert.InDelta(t, 29646.0/30.0, rows[0].FPProj, 1e-9)
	assert.InDelta(t, 24709.25/30.0, rows[1].FPProj, 1e-9)
	assert.InDelta(t, 23117.5/30.0, rows[2].FPProj, 1e-9)

	tatum := rows[0]
	assert.Equal(t, slateDate, tatum.GameDate)
	assert.Equal(t, "Jayson Tatum", tatum.BaselineName)
	assert.Equal(t, 1.0, tatum.MatchConfidence)
	assert.Equal(t, "SF", tatum.Pos)
	assert.Equal(t, "BOS", tatum.Team)
	assert.Equal(t, "Boston Celtics", tatum.TeamName)
	assert.Equal(t, "BKN", tatum.Opp)
	assert.Equal(t, "Brooklyn Nets", tatum.OppTeamName)
	assert.Equal(t, 10000.0, tatum.Salary)
	assert.Equal(t, 36.0, tatum.ProjMins)
	assert.Equal(t, nba.CalcVersion, tatum.CalcVersion)
	assert.InDelta(t, 29646.0/30.0/10.0, tatum.ProjectedValue, 1e-9)

	// Team aggregates cover only today's surviving entries.
	assert.InDelta(t, 18000.0, tatum.TeamSalary, 1e-9)
	assert.InDelta(t, 100.0*10000/18000, tatum.SalaryShare, 1e-9)
	assert.InDelta(t, 45.0, tatum.TeamOwnership, 1e-9)
	assert.InDelta(t, 70.0, tatum.TeamMinutes, 1e-9)
	assert.InDelta(t, 170.0, tatum.MinutesAvail, 1e-9)

	require.Len(t, tatum.Metrics, 4)
	for _, tf := range nba.Timeframes {
		m, ok := tatum.Metrics[tf]
		require.True(t, ok, "%s metrics missing", tf)
		assert.True(t, m.HasMatchup, "%s", tf)
		assert.InDelta(t, 99.0, m.ImpliedPoss, 1e-9, "%s", tf)
		assert.InDelta(t, 1.125, m.FPPM, 1e-9, "%s", tf)
		assert.InDelta(t, 0.5625, m.FPPT, 1e-9, "%s", tf)
		assert.InDelta(t, 90.0, m.FPPP, 1e-9, "%s", tf)
		assert.InDelta(t, 2.0, m.TPM, 1e-9, "%s", tf)
		assert.InDelta(t, 160.0, m.TPP, 1e-9, "%s", tf)
		assert.InDelta(t, 25.0, m.PossPct, 1e-9, "%s", tf)
		assert.InDelta(t, 3960.0, m.TouchesIP, 1e-9, "%s", tf)
		assert.InDelta(t, 72.0, m.TouchesTPM, 1e-9, "%s", tf)
		assert.InDelta(t, 2227.5, m.FPProjIT, 1e-9, "%s", tf)
		assert.InDelta(t, 40.5, m.FPProjTPM, 1e-9, "%s", tf)
		assert.InDelta(t, 330.0, m.TeamFP, 1e-9, "%s", tf)
		assert.InDelta(t, 100.0*180/330, m.FPPer, 1e-9, "%s", tf)
	}

	bridges := rows[2]
	assert.InDelta(t, 7000.0, bridges.TeamSalary, 1e-9)
	assert.InDelta(t, 100.0, bridges.SalaryShare, 1e-9)
	assert.InDelta(t, 205.0, bridges.MinutesAvail, 1e-9)
	assert.InDelta(t, 100.0, bridges.Metrics[nba.SeasonLong].FPPer, 1e-9)
}

func TestProjectSlate_MissingMatchupDropsIPFromBlend(t *testing.T) {
	eng := NewEngine(slateConfig(), nil)

	// Keep only Boston's matchup rows; Brooklyn players lose the
	// implied-possessions side entirely and blend over the TPM pairs
	// alone.
	var bostonOnly []nba.MatchupRow
	for _, r := range slateMatchups(t, eng) {
		if r.TeamName == "Boston Celtics" {
			bostonOnly = append(bostonOnly, r)
		}
	}

	rows, _, err := eng.ProjectSlate(SlateInputs{
		Date:        slateDate,
		Baseline:    slateBaseline(),
		PlayerStats: slatePlayerStats(),
		TeamStats:   slateTeamStats(),
		Matchups:    bostonOnly,
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Bridges' fp_proj_tpm is 35 in every timeframe, so the TPM-only
	// blend is exactly 35.
	bridges := rows[2]
	assert.Equal(t, "Mikal Bridges", bridges.Player)
	assert.InDelta(t, 35.0, bridges.FPProj, 1e-9)
	for _, tf := range nba.Timeframes {
		m := bridges.Metrics[tf]
		assert.False(t, m.HasMatchup, "%s", tf)
		assert.Equal(t, 0.0, m.ImpliedPoss, "%s", tf)
		assert.Equal(t, 0.0, m.TouchesIP, "%s", tf)
		assert.Equal(t, 0.0, m.FPProjIT, "%s", tf)
	}

	// Boston is unaffected.
	assert.InDelta(t, 29646.0/30.0, rows[0].FPProj, 1e-9)
}

func TestProjectSlate_FallbackAndFuzzyMatch(t *testing.T) {
	eng := NewEngine(slateConfig(), nil)

	// Only a season-long record exists; the shorter windows are repaired
	// from it. The baseline spells the name with a suffix the stats feed
	// omits, so the match lands on the 0.95 suffix-stripped score.
	stats := []nba.PlayerStatRecord{
		slatePlayerRow("J. Smith", "Boston Celtics", nba.SeasonLong, 100, 200, 100, 8),
	}
	baseline := []nba.BaselineEntry{
		{Name: "J. Smith Jr.", Pos: "PF", Team: "BOS", Opp: "BKN", Salary: 5000, ProjMins: 20, Ownership: 10},
	}

	rows, summary, err := eng.ProjectSlate(SlateInputs{
		Date:        slateDate,
		Baseline:    baseline,
		PlayerStats: stats,
		TeamStats:   slateTeamStats(),
		Matchups:    slateMatchups(t, eng),
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 0, summary.Total())

	row := rows[0]
	assert.Equal(t, "J. Smith", row.Player)
	assert.Equal(t, "J. Smith Jr.", row.BaselineName)
	assert.InDelta(t, 0.95, row.MatchConfidence, 1e-9)

	// Every timeframe carries the season-long numbers after repair:
	// fppt 0.5, tpp 200/(8/4) = 100, poss share 25%. touches_ip =
	// 0.25*100*99 = 2475 and touches_tpm = 2*20 = 40, so the blend is
	// (1237.5*13 + 20*17) / 30.
	for _, tf := range nba.Timeframes {
		m := row.Metrics[tf]
		assert.InDelta(t, 100.0, m.FantasyPoints, 1e-9, "%s", tf)
		assert.InDelta(t, 1237.5, m.FPProjIT, 1e-9, "%s", tf)
		assert.InDelta(t, 20.0, m.FPProjTPM, 1e-9, "%s", tf)
	}
	assert.InDelta(t, 16427.5/30.0, row.FPProj, 1e-9)
}

func TestProjectSlate_Exclusions(t *testing.T) {
	eng := NewEngine(slateConfig(), nil)

	stats := slatePlayerStats()
	stats = append(stats, nba.PlayerStatRecord{
		PlayerName: "Payton Pritchard",
		TeamName:   "Boston Celtics",
		Timeframe:  nba.SeasonLong,
	})

	baseline := []nba.BaselineEntry{
		{Name: "Jayson Tatum", Pos: "SF", Team: "BOS", Opp: "BKN", Salary: 10000, ProjMins: 36, Ownership: 25},
		{Name: "", Team: "BOS", Salary: 5000, ProjMins: 20},
		{Name: "Derrick White", Team: "", Salary: 6000, ProjMins: 30},
		{Name: "Jrue Holiday", Team: "BOS", Salary: 0, ProjMins: 30},
		{Name: "Al Horford", Team: "BOS", Salary: 4800, ProjMins: 12},
		{Name: "Sam Hauser", Team: "ZZZ", Salary: 3000, ProjMins: 22},
		{Name: "Totally Unknown Player", Team: "BOS", Salary: 3000, ProjMins: 22},
		{Name: "Payton Pritchard", Team: "BOS", Salary: 4000, ProjMins: 24},
		{Name: "Neemias Queta", Team: "BOS", Salary: 3500, ProjMins: -5},
		{Name: "Luke Kornet", Team: "BOS", Salary: -100, ProjMins: 20},
		{Name: "Mikal Bridges", Team: "BKN", Salary: 7000, ProjMins: 35},
		{Name: "Mikal  Bridges", Team: "BKN", Salary: 7100, ProjMins: 34},
	}

	rows, summary, err := eng.ProjectSlate(SlateInputs{
		Date:        slateDate,
		Baseline:    baseline,
		PlayerStats: stats,
		TeamStats:   slateTeamStats(),
		Matchups:    slateMatchups(t, eng),
	})
	require.NoError(t, err)

	// Only Tatum survives; every other entry is excluded with its own
	// reason, and the blend is untouched by teammates dropping out.
	require.Len(t, rows, 1)
	assert.Equal(t, "Jayson Tatum", rows[0].Player)
	assert.InDelta(t, 29646.0/30.0, rows[0].FPProj, 1e-9)
	assert.InDelta(t, 10000.0, rows[0].TeamSalary, 1e-9)

	assert.Equal(t, 11, summary.Total())
	assert.Equal(t, map[ExclusionReason]int{
		ReasonMissingField:   3,
		ReasonBelowMinutes:   1,
		ReasonUnmatchedTeam:  1,
		ReasonUnmatchedName:  1,
		ReasonNoHistory:      1,
		ReasonMalformedRow:   2,
		ReasonDuplicateEntry: 2,
	}, summary.Counts)
	assert.Equal(t, []string{"Totally Unknown Player"}, summary.UnmatchedNames())
}

func TestProjectSlate_Errors(t *testing.T) {
	eng := NewEngine(slateConfig(), nil)
	matchups := slateMatchups(t, eng)

	_, _, err := eng.ProjectSlate(SlateInputs{Date: "Jan 15, 2026"})
	assert.Error(t, err)

	_, _, err = eng.ProjectSlate(SlateInputs{Date: slateDate, Matchups: matchups})
	assert.ErrorIs(t, err, ErrNoBaseline)

	_, _, err = eng.ProjectSlate(SlateInputs{
		Date:     slateDate,
		Baseline: slateBaseline(),
	})
	assert.ErrorIs(t, err, ErrNoMatchups)

	rows, summary, err := eng.ProjectSlate(SlateInputs{
		Date:        slateDate,
		Baseline:    []nba.BaselineEntry{{Name: "Al Horford", Team: "BOS", Salary: 4800, ProjMins: 12}},
		PlayerStats: slatePlayerStats(),
		TeamStats:   slateTeamStats(),
		Matchups:    matchups,
	})
	assert.ErrorIs(t, err, ErrAllRowsExcluded)
	assert.Nil(t, rows)
	require.NotNil(t, summary)
	assert.Equal(t, 1, summary.Total())
}

func TestProjectSlate_Deterministic(t *testing.T) {
	eng := NewEngine(slateConfig(), nil)
	in := SlateInputs{
		Date:        slateDate,
		Baseline:    slateBaseline(),
		PlayerStats: slatePlayerStats(),
		TeamStats:   slateTeamStats(),
		Matchups:    slateMatchups(t, eng),
	}

	first, firstSummary, err := eng.ProjectSlate(in)
	require.NoError(t, err)
	second, secondSummary, err := eng.ProjectSlate(in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstSummary.Counts, secondSummary.Counts)
}
