package projection

import (
	"fmt"
	"math"

	"github.com/jstittsworth/nba-projections/internal/nba"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type leagueBaseline struct {
	pace  float64
	pp100 float64
}

// leagueBaselines computes the mean pace and mean points-per-100 across
// every team record, per timeframe. Computed once per run and shared by
// all games.
func leagueBaselines(stats []nba.TeamStatRecord) map[nba.Timeframe]leagueBaseline {
	sums := make(map[nba.Timeframe]*struct {
		pace, pp100 float64
		n           int
	})
	for _, s := range stats {
		agg, ok := sums[s.Timeframe]
		if !ok {
			agg = &struct {
				pace, pp100 float64
				n           int
			}{}
			sums[s.Timeframe] = agg
		}
		agg.pace += s.Pace
		agg.pp100 += s.OffRtg
		agg.n++
	}
	out := make(map[nba.Timeframe]leagueBaseline, len(sums))
	for tf, agg := range sums {
		out[tf] = leagueBaseline{
			pace:  agg.pace / float64(agg.n),
			pp100: agg.pp100 / float64(agg.n),
		}
	}
	return out
}

// MatchupInputs is everything the matchup calculator consumes for one
// date.
type MatchupInputs struct {
	Date      string
	Games     []nba.ScheduledGame
	TeamStats []nba.TeamStatRecord
}

// ComputeMatchups turns the date's schedule and the team stat records
// into matchup rows: two perspectives per game per timeframe. Games
// whose teams cannot be resolved against the stat records are skipped
// with a warning; a timeframe missing on either side yields no rows for
// that timeframe.
func (e *Engine) ComputeMatchups(in MatchupInputs) ([]nba.MatchupRow, error) {
	if _, err := nba.ParseDate(in.Date); err != nil {
		return nil, err
	}
	if len(in.Games) == 0 {
		e.logger.Warnf("No scheduled games for %s, nothing to compute", in.Date)
		return nil, nil
	}

	baselines := leagueBaselines(in.TeamStats)
	index := make(map[nba.Timeframe]map[string]nba.TeamStatRecord)
	names := make([]string, 0, 30)
	seen := make(map[string]bool)
	for _, s := range in.TeamStats {
		byName, ok := index[s.Timeframe]
		if !ok {
			byName = make(map[string]nba.TeamStatRecord)
			index[s.Timeframe] = byName
		}
		byName[s.TeamName] = s
		if !seen[s.TeamName] {
			seen[s.TeamName] = true
			names = append(names, s.TeamName)
		}
	}
	resolver := NewTeamResolver(names)

	rows := make([]nba.MatchupRow, 0, len(in.Games)*2*len(nba.Timeframes))
	for _, g := range in.Games {
		homeName, homeOK := resolver.Resolve(g.HomeTeam)
		awayName, awayOK := resolver.Resolve(g.AwayTeam)
		if !homeOK || !awayOK {
			e.logger.Warnf("Skipping game %s @ %s on %s: no team stats found for %s",
				g.AwayTeam, g.HomeTeam, in.Date, unresolvedSide(g, homeOK, awayOK))
			continue
		}
		for _, tf := range nba.Timeframes {
			homeStat, homeHas := index[tf][homeName]
			awayStat, awayHas := index[tf][awayName]
			if !homeHas || !awayHas {
				continue
			}
			home, away := e.buildMatchupPair(in.Date, tf, homeStat, awayStat, baselines[tf])
			rows = append(rows, home, away)
		}
	}
	return rows, nil
}

func unresolvedSide(g nba.ScheduledGame, homeOK, awayOK bool) string {
	switch {
	case !homeOK && !awayOK:
		return fmt.Sprintf("%s and %s", g.HomeTeam, g.AwayTeam)
	case !homeOK:
		return g.HomeTeam
	default:
		return g.AwayTeam
	}
}

// buildMatchupPair computes both perspectives of one game for one
// timeframe. Implied possessions average the two home/away-adjusted
// paces and are therefore identical from either side; expected
// points-per-100 blends the team's offense and the opponent's defense
// equally around the league mean, then applies the home-court scoring
// adjustment.
func (e *Engine) buildMatchupPair(date string, tf nba.Timeframe, home, away nba.TeamStatRecord, lg leagueBaseline) (nba.MatchupRow, nba.MatchupRow) {
	implied := round2(((home.Pace + e.cfg.HCAPace) + (away.Pace - e.cfg.HCAPace)) / 2)
	homeExp := round2(lg.pp100 + 0.5*(home.OffRtg-lg.pp100) + 0.5*(lg.pp100-away.DefRtg) + e.cfg.HCAPP100)
	awayExp := round2(lg.pp100 + 0.5*(away.OffRtg-lg.pp100) + 0.5*(lg.pp100-home.DefRtg) - e.cfg.HCAPP100)
	homePts := round2(homeExp * implied / 100)
	awayPts := round2(awayExp * implied / 100)
	total := round2(homePts + awayPts)

	homeRow := nba.MatchupRow{
		GameDate:     date,
		TeamName:     home.TeamName,
		OppTeamName:  away.TeamName,
		IsHome:       true,
		Timeframe:    tf,
		Pace:         round2(home.Pace),
		OppPace:      round2(away.Pace),
		LgPace:       round2(lg.pace),
		PossAboveLg:  round2(home.Pace - lg.pace),
		ImpliedPoss:  implied,
		OffRtg:       round2(home.OffRtg),
		DefRtg:       round2(home.DefRtg),
		OppOffRtg:    round2(away.OffRtg),
		OppDefRtg:    round2(away.DefRtg),
		LgPP100:      round2(lg.pp100),
		HCAPossAdj:   e.cfg.HCAPace,
		HCAPP100Adj:  e.cfg.HCAPP100,
		ExpPP100:     homeExp,
		OppExpPP100:  awayExp,
		ProjPts:      homePts,
		OppProjPts:   awayPts,
		ProjTotal:    total,
		Matchup:      round2(homePts - awayPts),
		PtsAllowedPG: round2(home.DefRtg * home.Pace / 100),
		CalcVersion:  nba.CalcVersion,
	}
	awayRow := nba.MatchupRow{
		GameDate:     date,
		TeamName:     away.TeamName,
		OppTeamName:  home.TeamName,
		IsHome:       false,
		Timeframe:    tf,
		Pace:         round2(away.Pace),
		OppPace:      round2(home.Pace),
		LgPace:       round2(lg.pace),
		PossAboveLg:  round2(away.Pace - lg.pace),
		ImpliedPoss:  implied,
		OffRtg:       round2(away.OffRtg),
		DefRtg:       round2(away.DefRtg),
		OppOffRtg:    round2(home.OffRtg),
		OppDefRtg:    round2(home.DefRtg),
		LgPP100:      round2(lg.pp100),
		HCAPossAdj:   -e.cfg.HCAPace,
		HCAPP100Adj:  -e.cfg.HCAPP100,
		ExpPP100:     awayExp,
		OppExpPP100:  homeExp,
		ProjPts:      awayPts,
		OppProjPts:   homePts,
		ProjTotal:    total,
		Matchup:      round2(awayPts - homePts),
		PtsAllowedPG: round2(away.DefRtg * away.Pace / 100),
		CalcVersion:  nba.CalcVersion,
	}
	return homeRow, awayRow
}
