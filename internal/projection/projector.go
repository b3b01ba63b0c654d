package projection

// touchProjection holds the two independent touch estimates and the two
// fantasy-point projections they imply for one timeframe.
type touchProjection struct {
	TouchesIP  float64
	TouchesTPM float64
	FPProjIT   float64
	FPProjTPM  float64
}

// projectTouches computes both methods for one player-timeframe.
//
// Implied-possessions: the player's share of team possessions times his
// touches-per-possession rate times the game's implied possessions.
// Touches-per-minute: his touch rate times the slate sheet's projected
// minutes. The two disagree routinely; the disagreement is resolved by
// the weighted blend, never here.
func projectTouches(r RateMetrics, possPct, impliedPoss, projMins float64) touchProjection {
	touchesIP := (possPct / 100) * r.TPP * impliedPoss
	touchesTPM := r.TPM * projMins
	return touchProjection{
		TouchesIP:  touchesIP,
		TouchesTPM: touchesTPM,
		FPProjIT:   r.FPPT * touchesIP,
		FPProjTPM:  r.FPPT * touchesTPM,
	}
}
