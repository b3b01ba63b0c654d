package projection

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/nba-projections/internal/nba"
)

var (
	// ErrNoMatchups means the matchup computation has not run for the
	// date. The projection run aborts; implied possessions cannot be
	// derived without matchup rows.
	ErrNoMatchups = errors.New("no matchup rows for date")

	// ErrNoBaseline means no daily baseline sheet was supplied for the
	// date.
	ErrNoBaseline = errors.New("no baseline entries for date")

	// ErrAllRowsExcluded means every baseline entry was rejected or
	// excluded; writing an empty result would silently wipe the date, so
	// the run fails instead.
	ErrAllRowsExcluded = errors.New("every baseline entry was excluded")
)

// Engine runs the two batch computations for a single date. It is pure:
// callers load every input and persist every output.
type Engine struct {
	cfg    Config
	logger *logrus.Logger
}

// NewEngine builds an engine. A nil logger falls back to the standard
// logrus logger.
func NewEngine(cfg Config, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Engine{cfg: cfg, logger: logger}
}

// SlateInputs is everything the player pipeline consumes for one date.
type SlateInputs struct {
	Date        string
	Baseline    []nba.BaselineEntry
	PlayerStats []nba.PlayerStatRecord
	TeamStats   []nba.TeamStatRecord
	Matchups    []nba.MatchupRow
}

// playerComputation is the in-flight state for one surviving baseline
// entry as it moves through the pipeline passes.
type playerComputation struct {
	Entry       nba.BaselineEntry
	Canonical   string
	Confidence  float64
	TeamName    string
	OppTeamName string
	Metrics     map[nba.Timeframe]nba.TimeframeMetrics
	stats       map[nba.Timeframe]nba.PlayerStatRecord
}

// ProjectSlate runs the full player pipeline for one date: resolve
// identities, repair missing history, derive rates, project touches and
// fantasy points per timeframe, aggregate teams, and blend into the
// final projection and value. Per-player problems become exclusions in
// the returned summary; only missing prerequisites abort the run.
func (e *Engine) ProjectSlate(in SlateInputs) ([]nba.ProjectionRow, *ExclusionSummary, error) {
	if _, err := nba.ParseDate(in.Date); err != nil {
		return nil, nil, err
	}
	if len(in.Baseline) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoBaseline, in.Date)
	}
	if len(in.Matchups) == 0 {
		return nil, nil, fmt.Errorf("%w: %s (run the matchup computation first)", ErrNoMatchups, in.Date)
	}

	summary := newExclusionSummary()

	playerIdx, candidates := indexPlayerStats(in.PlayerStats)
	teamIdx, teamNames := indexTeamStats(in.TeamStats)
	resolver := NewTeamResolver(teamNames)
	matchupIdx := indexMatchups(in.Matchups, in.Date)
	matcher := NewMatcher(e.cfg.MatchThreshold)

	// Pass 1: validate rows and resolve identities.
	var resolved []*playerComputation
	countByCanonical := make(map[string]int)
	for _, entry := range in.Baseline {
		if reason, detail, bad := validateEntry(entry, e.cfg.MinMinutes); bad {
			summary.add(entry.Name, entry.Team, reason, detail)
			continue
		}
		teamFull, ok := FullTeamName(entry.Team)
		if !ok {
			summary.add(entry.Name, entry.Team, ReasonUnmatchedTeam,
				fmt.Sprintf("unknown team abbreviation %q", entry.Team))
			continue
		}
		canonicalTeam, ok := resolver.Resolve(teamFull)
		if !ok {
			summary.add(entry.Name, entry.Team, ReasonUnmatchedTeam,
				fmt.Sprintf("no team stats for %q", teamFull))
			continue
		}
		match, ok := matcher.BestMatch(entry.Name, canonicalTeam, candidates)
		if !ok {
			summary.add(entry.Name, entry.Team, ReasonUnmatchedName,
				"no stat record name at or above the match threshold")
			continue
		}
		resolved = append(resolved, &playerComputation{
			Entry:       entry,
			Canonical:   match.Name,
			Confidence:  match.Score,
			TeamName:    canonicalTeam,
			OppTeamName: resolveOpponent(entry.Opp, resolver),
		})
		countByCanonical[match.Name]++
	}

	// Two baseline entries resolving to the same player is a validation
	// error; every occurrence is dropped rather than guessing a winner.
	var included []*playerComputation
	for _, p := range resolved {
		if n := countByCanonical[p.Canonical]; n > 1 {
			summary.add(p.Entry.Name, p.Entry.Team, ReasonDuplicateEntry,
				fmt.Sprintf("%d baseline entries resolve to %q", n, p.Canonical))
			continue
		}
		included = append(included, p)
	}

	// Pass 2: backfill missing history, dropping players with none.
	var ready []*playerComputation
	for _, p := range included {
		byTF := make(map[nba.Timeframe]nba.PlayerStatRecord, len(nba.Timeframes))
		for tf, byName := range playerIdx {
			if s, ok := byName[p.Canonical]; ok {
				byTF[tf] = s
			}
		}
		if !RepairHistory(byTF) {
			summary.add(p.Entry.Name, p.Entry.Team, ReasonNoHistory, "")
			continue
		}
		p.stats = byTF
		ready = append(ready, p)
	}

	// Pass 3: rates, possession share, and both touch projections per
	// timeframe.
	for _, p := range ready {
		p.Metrics = make(map[nba.Timeframe]nba.TimeframeMetrics, len(nba.Timeframes))
		for _, tf := range nba.Timeframes {
			s := p.stats[tf]
			rates := ComputeRates(s)
			var teamPoss float64
			if ts, ok := teamIdx[tf][p.TeamName]; ok {
				teamPoss = ts.Poss
			}
			possPct := PossessionShare(s.Poss, teamPoss)

			m := nba.TimeframeMetrics{
				GamesPlayed:   s.GamesPlayed,
				UsagePct:      s.UsagePct,
				FantasyPoints: s.FantasyPoints,
				Touches:       s.Touches,
				Minutes:       s.Minutes,
				Poss:          s.Poss,
				FPPM:          rates.FPPM,
				FPPT:          rates.FPPT,
				FPPP:          rates.FPPP,
				TPM:           rates.TPM,
				TPP:           rates.TPP,
				PossPct:       possPct,
			}
			mu, hasMatchup := matchupIdx[tf][p.TeamName]
			tp := projectTouches(rates, possPct, mu.ImpliedPoss, p.Entry.ProjMins)
			m.HasMatchup = hasMatchup
			m.ImpliedPoss = mu.ImpliedPoss
			m.TouchesIP = tp.TouchesIP
			m.TouchesTPM = tp.TouchesTPM
			m.FPProjIT = tp.FPProjIT
			m.FPProjTPM = tp.FPProjTPM
			p.Metrics[tf] = m
		}
	}

	// Pass 4: team aggregates over the surviving players, then the final
	// blend and value per player.
	totals := aggregateTeams(ready)
	rows := make([]nba.ProjectionRow, 0, len(ready))
	for _, p := range ready {
		t := totals[p.TeamName]
		for _, tf := range nba.Timeframes {
			m := p.Metrics[tf]
			m.TeamFP = t.FP[tf]
			m.FPPer = 100 * SafeDivide(m.FantasyPoints, t.FP[tf])
			p.Metrics[tf] = m
		}
		fpProj := e.blendProjections(p.Metrics)
		rows = append(rows, nba.ProjectionRow{
			GameDate:        in.Date,
			Player:          p.Canonical,
			BaselineName:    p.Entry.Name,
			MatchConfidence: p.Confidence,
			Pos:             p.Entry.Pos,
			Team:            strings.ToUpper(strings.TrimSpace(p.Entry.Team)),
			TeamName:        p.TeamName,
			Opp:             strings.ToUpper(strings.TrimSpace(p.Entry.Opp)),
			OppTeamName:     p.OppTeamName,
			Status:          p.Entry.Status,
			GameInfo:        p.Entry.GameInfo,
			Salary:          p.Entry.Salary,
			ProjMins:        p.Entry.ProjMins,
			Ownership:       p.Entry.Ownership,
			TeamSalary:      t.Salary,
			SalaryShare:     100 * SafeDivide(p.Entry.Salary, t.Salary),
			TeamOwnership:   t.Ownership,
			TeamMinutes:     t.Minutes,
			MinutesAvail:    RegulationTeamMinutes - t.Minutes,
			Metrics:         p.Metrics,
			FPProj:          fpProj,
			ProjectedValue:  ProjectedValue(fpProj, p.Entry.Salary),
			CalcVersion:     nba.CalcVersion,
		})
	}

	if len(rows) == 0 {
		return nil, summary, fmt.Errorf("%w: %d entries for %s", ErrAllRowsExcluded, summary.Total(), in.Date)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].FPProj != rows[j].FPProj {
			return rows[i].FPProj > rows[j].FPProj
		}
		return rows[i].Player < rows[j].Player
	})

	if summary.Total() > 0 {
		e.logger.Warnf("Excluded %d of %d baseline entries for %s: %v",
			summary.Total(), len(in.Baseline), in.Date, summary.Counts)
	}
	e.logger.Infof("Projected %d players for %s", len(rows), in.Date)
	return rows, summary, nil
}

func validateEntry(entry nba.BaselineEntry, minMinutes float64) (ExclusionReason, string, bool) {
	if strings.TrimSpace(entry.Name) == "" {
		return ReasonMissingField, "name is empty", true
	}
	if strings.TrimSpace(entry.Team) == "" {
		return ReasonMissingField, "team is empty", true
	}
	if entry.Salary < 0 {
		return ReasonMalformedRow, fmt.Sprintf("negative salary %.0f", entry.Salary), true
	}
	if entry.Salary == 0 {
		return ReasonMissingField, "salary is missing", true
	}
	if entry.ProjMins < 0 {
		return ReasonMalformedRow, fmt.Sprintf("negative projected minutes %.1f", entry.ProjMins), true
	}
	if entry.ProjMins == 0 {
		return ReasonMissingField, "projected minutes is missing", true
	}
	if entry.ProjMins < minMinutes {
		return ReasonBelowMinutes, fmt.Sprintf("%.1f projected minutes", entry.ProjMins), true
	}
	return "", "", false
}

// resolveOpponent maps the opponent abbreviation to a canonical name on
// a best-effort basis. The opponent column is informational; an
// unresolvable value keeps the sheet's spelling rather than excluding
// the player.
func resolveOpponent(abbrev string, resolver *TeamResolver) string {
	full, ok := FullTeamName(abbrev)
	if !ok {
		return strings.TrimSpace(abbrev)
	}
	if canon, ok := resolver.Resolve(full); ok {
		return canon
	}
	return full
}

func indexPlayerStats(stats []nba.PlayerStatRecord) (map[nba.Timeframe]map[string]nba.PlayerStatRecord, []Candidate) {
	idx := make(map[nba.Timeframe]map[string]nba.PlayerStatRecord)
	var candidates []Candidate
	seen := make(map[string]bool)
	for _, s := range stats {
		byName, ok := idx[s.Timeframe]
		if !ok {
			byName = make(map[string]nba.PlayerStatRecord)
			idx[s.Timeframe] = byName
		}
		byName[s.PlayerName] = s
		if !seen[s.PlayerName] {
			seen[s.PlayerName] = true
			candidates = append(candidates, Candidate{Name: s.PlayerName, Team: s.TeamName})
		}
	}
	return idx, candidates
}

func indexTeamStats(stats []nba.TeamStatRecord) (map[nba.Timeframe]map[string]nba.TeamStatRecord, []string) {
	idx := make(map[nba.Timeframe]map[string]nba.TeamStatRecord)
	var names []string
	seen := make(map[string]bool)
	for _, s := range stats {
		byName, ok := idx[s.Timeframe]
		if !ok {
			byName = make(map[string]nba.TeamStatRecord)
			idx[s.Timeframe] = byName
		}
		byName[s.TeamName] = s
		if !seen[s.TeamName] {
			seen[s.TeamName] = true
			names = append(names, s.TeamName)
		}
	}
	return idx, names
}

func indexMatchups(rows []nba.MatchupRow, date string) map[nba.Timeframe]map[string]nba.MatchupRow {
	idx := make(map[nba.Timeframe]map[string]nba.MatchupRow)
	for _, m := range rows {
		if m.GameDate != date {
			continue
		}
		byTeam, ok := idx[m.Timeframe]
		if !ok {
			byTeam = make(map[string]nba.MatchupRow)
			idx[m.Timeframe] = byTeam
		}
		byTeam[m.TeamName] = m
	}
	return idx
}
