package projection

import "github.com/jstittsworth/nba-projections/internal/nba"

// blendProjections reduces the eight (timeframe, method) projections to
// one number: the weighted mean over the pairs present. The TPM pair
// exists for every timeframe once history survives fallback; the IP pair
// is present only where a matchup row existed, and an absent pair drops
// out of both the numerator and the denominator.
func (e *Engine) blendProjections(metrics map[nba.Timeframe]nba.TimeframeMetrics) float64 {
	var num, den float64
	for _, tf := range nba.Timeframes {
		m, ok := metrics[tf]
		if !ok {
			continue
		}
		wTPM := e.cfg.TPMWeights[tf]
		num += m.FPProjTPM * wTPM
		den += wTPM
		if m.HasMatchup {
			wIP := e.cfg.IPWeights[tf]
			num += m.FPProjIT * wIP
			den += wIP
		}
	}
	return SafeDivide(num, den)
}

// ProjectedValue is fantasy points per thousand dollars of salary.
// Zero-or-negative salary rows never reach this point.
func ProjectedValue(fpProj, salary float64) float64 {
	return SafeDivide(fpProj, salary/1000)
}
