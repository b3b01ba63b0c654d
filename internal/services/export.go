package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"

	"github.com/jstittsworth/nba-projections/internal/nba"
)

// ExportService renders a projected slate as the wide CSV layout the
// downstream lineup tooling consumes.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// Column suffixes per window, longest first, matching the wide layout.
var timeframeSuffixes = []struct {
	tf  nba.Timeframe
	sfx string
}{
	{nba.SeasonLong, "sl"},
	{nba.Last10, "l10"},
	{nba.Last5, "l5"},
	{nba.Last3, "l3"},
}

var metricColumns = []string{
	"gp", "usg_pct", "fp", "touches", "min", "poss",
	"fppm", "fppt", "fppp", "tpm", "tpp", "poss_pct",
	"implied_poss", "touches_ip", "touches_tpm", "fp_proj_it", "fp_proj_tpm",
	"team_fp", "fp_per",
}

// ProjectionHeaders returns the CSV header row: the key columns first,
// then the identity and team aggregate columns, then every
// per-timeframe metric with its window suffix.
func ProjectionHeaders() []string {
	headers := []string{
		"game_date", "player", "pos", "team", "opp",
		"salary", "proj_mins", "ownership", "fp_proj", "projected_value",
		"baseline_name", "match_confidence", "team_name", "opp_team_name",
		"status", "game_info",
		"team_salary", "salary_share", "team_ownership", "team_minutes", "minutes_avail",
		"calc_version",
	}
	for _, ts := range timeframeSuffixes {
		for _, m := range metricColumns {
			headers = append(headers, fmt.Sprintf("%s_%s", m, ts.sfx))
		}
	}
	return headers
}

// ExportProjections renders the slate, best projection first, with
// two-decimal floats.
func (s *ExportService) ExportProjections(rows []nba.ProjectionRow) ([]byte, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no projections to export")
	}

	sorted := make([]nba.ProjectionRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].FPProj != sorted[j].FPProj {
			return sorted[i].FPProj > sorted[j].FPProj
		}
		return sorted[i].Player < sorted[j].Player
	})

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(ProjectionHeaders()); err != nil {
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}

	for _, row := range sorted {
		if err := writer.Write(projectionRecord(row)); err != nil {
			return nil, fmt.Errorf("failed to write row for %s: %w", row.Player, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

func projectionRecord(row nba.ProjectionRow) []string {
	record := []string{
		row.GameDate, row.Player, row.Pos, row.Team, row.Opp,
		f2(row.Salary), f2(row.ProjMins), f2(row.Ownership), f2(row.FPProj), f2(row.ProjectedValue),
		row.BaselineName, f2(row.MatchConfidence), row.TeamName, row.OppTeamName,
		row.Status, row.GameInfo,
		f2(row.TeamSalary), f2(row.SalaryShare), f2(row.TeamOwnership), f2(row.TeamMinutes), f2(row.MinutesAvail),
		row.CalcVersion,
	}
	for _, ts := range timeframeSuffixes {
		m := row.Metrics[ts.tf]
		record = append(record,
			f2(m.GamesPlayed), f2(m.UsagePct), f2(m.FantasyPoints), f2(m.Touches), f2(m.Minutes), f2(m.Poss),
			f2(m.FPPM), f2(m.FPPT), f2(m.FPPP), f2(m.TPM), f2(m.TPP), f2(m.PossPct),
			f2(m.ImpliedPoss), f2(m.TouchesIP), f2(m.TouchesTPM), f2(m.FPProjIT), f2(m.FPProjTPM),
			f2(m.TeamFP), f2(m.FPPer),
		)
	}
	return record
}

func f2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
