package projection

import "github.com/jstittsworth/nba-projections/internal/nba"

// Config carries every tunable the engine honors. Zero-value fields are
// not valid; start from DefaultConfig.
type Config struct {
	// MatchThreshold is the minimum normalized similarity a fuzzy name
	// match must reach to be accepted.
	MatchThreshold float64

	// MinMinutes excludes baseline rows projected below this many minutes.
	MinMinutes float64

	// HCAPace and HCAPP100 are the fixed home-court adjustments: home
	// pace +HCAPace possessions, home scoring environment +HCAPP100
	// points per 100 possessions, away the mirror image.
	HCAPace  float64
	HCAPP100 float64

	// TPMWeights and IPWeights are the relative blend weights per
	// timeframe for the touches-per-minute and implied-possessions
	// methods. They are not required to sum to 1.
	TPMWeights map[nba.Timeframe]float64
	IPWeights  map[nba.Timeframe]float64
}

// DefaultConfig returns the production constants.
func DefaultConfig() Config {
	return Config{
		MatchThreshold: 0.85,
		MinMinutes:     15,
		HCAPace:        0.3,
		HCAPP100:       0.5,
		TPMWeights: map[nba.Timeframe]float64{
			nba.SeasonLong: 1,
			nba.Last10:     4,
			nba.Last5:      8,
			nba.Last3:      4,
		},
		IPWeights: map[nba.Timeframe]float64{
			nba.SeasonLong: 1,
			nba.Last10:     3,
			nba.Last5:      6,
			nba.Last3:      3,
		},
	}
}
