package projection

import "github.com/jstittsworth/nba-projections/internal/nba"

// RegulationTeamMinutes is the fixed player-minute pool of one game:
// five on-court slots times 48 minutes.
const RegulationTeamMinutes = 240.0

// teamTotals are the per-team sums over today's surviving baseline
// entries, plus the summed historical fantasy points per timeframe.
type teamTotals struct {
	Salary    float64
	Ownership float64
	Minutes   float64
	FP        map[nba.Timeframe]float64
}

// aggregateTeams sums the current date's baseline values per canonical
// team. Only players that survived every exclusion contribute; a dropped
// entry is invisible to its teammates' shares.
func aggregateTeams(players []*playerComputation) map[string]*teamTotals {
	totals := make(map[string]*teamTotals)
	for _, p := range players {
		t, ok := totals[p.TeamName]
		if !ok {
			t = &teamTotals{FP: make(map[nba.Timeframe]float64, len(nba.Timeframes))}
			totals[p.TeamName] = t
		}
		t.Salary += p.Entry.Salary
		t.Ownership += p.Entry.Ownership
		t.Minutes += p.Entry.ProjMins
		for tf, m := range p.Metrics {
			t.FP[tf] += m.FantasyPoints
		}
	}
	return totals
}
