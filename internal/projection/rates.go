package projection

import "github.com/jstittsworth/nba-projections/internal/nba"

// SafeDivide returns n/d, or 0 when the denominator is zero. Projection
// math never produces Inf or NaN from an empty stat line; a missing rate
// is simply zero.
func SafeDivide(n, d float64) float64 {
	if d == 0 {
		return 0
	}
	return n / d
}

func safeDivideDefault(n, d, def float64) float64 {
	if d == 0 {
		return def
	}
	return n / d
}

// RateMetrics are the per-timeframe efficiency rates derived from one
// player stat record.
type RateMetrics struct {
	FPPM float64 // fantasy points per minute
	FPPT float64 // fantasy points per touch
	FPPP float64 // fantasy points per (possessions per game)
	TPM  float64 // touches per minute
	TPP  float64 // touches per (possessions per game)
}

// ComputeRates derives the five rates for one player-timeframe. A zero
// games-played row never reaches here; the fallback resolver either
// repairs it or drops the player first.
func ComputeRates(s nba.PlayerStatRecord) RateMetrics {
	possPerGame := safeDivideDefault(s.Poss, s.GamesPlayed, 1.0)
	return RateMetrics{
		FPPM: SafeDivide(s.FantasyPoints, s.Minutes),
		FPPT: SafeDivide(s.FantasyPoints, s.Touches),
		FPPP: SafeDivide(s.FantasyPoints, possPerGame),
		TPM:  SafeDivide(s.Touches, s.Minutes),
		TPP:  SafeDivide(s.Touches, possPerGame),
	}
}

// PossessionShare is the player's share of his team's possessions for
// the timeframe, in percent. Zero when the team lookup failed.
func PossessionShare(playerPoss, teamPoss float64) float64 {
	return 100 * SafeDivide(playerPoss, teamPoss)
}
