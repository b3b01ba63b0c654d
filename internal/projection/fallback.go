package projection

import "github.com/jstittsworth/nba-projections/internal/nba"

// isZeroRow reports whether the primary counting fields of a stat row
// are all zero. Usage percent is deliberately not consulted; a row with
// no games, minutes, touches, possessions, or fantasy points carries no
// usable signal regardless of what usage says.
func isZeroRow(s nba.PlayerStatRecord) bool {
	return s.GamesPlayed == 0 &&
		s.Minutes == 0 &&
		s.Touches == 0 &&
		s.Poss == 0 &&
		s.FantasyPoints == 0
}

// RepairHistory backfills zeroed or missing short windows from the next
// longer window, longest first, so a repaired window propagates to every
// shorter one in a single pass: last_10 repairs from season_long, last_5
// from the (possibly repaired) last_10, last_3 from last_5. A missing
// window counts as all-zero. Returns false when season_long itself is
// empty, meaning the player has no historical data at all and must be
// dropped.
//
// This is a direct copy of the best available window, never an average.
func RepairHistory(byTF map[nba.Timeframe]nba.PlayerStatRecord) bool {
	for _, tf := range nba.Timeframes {
		if _, ok := byTF[tf]; !ok {
			byTF[tf] = nba.PlayerStatRecord{Timeframe: tf}
		}
	}
	if isZeroRow(byTF[nba.SeasonLong]) {
		return false
	}
	for i := 1; i < len(nba.Timeframes); i++ {
		tf := nba.Timeframes[i]
		if !isZeroRow(byTF[tf]) {
			continue
		}
		src := byTF[nba.Timeframes[i-1]]
		row := byTF[tf]
		row.GamesPlayed = src.GamesPlayed
		row.UsagePct = src.UsagePct
		row.FantasyPoints = src.FantasyPoints
		row.Touches = src.Touches
		row.Minutes = src.Minutes
		row.Poss = src.Poss
		byTF[tf] = row
	}
	return true
}
