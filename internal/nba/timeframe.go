package nba

import "fmt"

// Timeframe identifies one of the four fixed historical stat windows.
type Timeframe string

const (
	SeasonLong Timeframe = "season_long"
	Last10     Timeframe = "last_10"
	Last5      Timeframe = "last_5"
	Last3      Timeframe = "last_3"
)

// Timeframes lists every window ordered from the longest to the shortest.
// Fallback repair and blend iteration both rely on this order.
var Timeframes = []Timeframe{SeasonLong, Last10, Last5, Last3}

// ParseTimeframe converts a string into a known Timeframe.
func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(s) {
	case SeasonLong, Last10, Last5, Last3:
		return Timeframe(s), nil
	}
	return "", fmt.Errorf("unknown timeframe %q", s)
}

// GamesWindow returns the number of most recent games the window covers.
// Zero means the full season.
func (t Timeframe) GamesWindow() int {
	switch t {
	case Last10:
		return 10
	case Last5:
		return 5
	case Last3:
		return 3
	default:
		return 0
	}
}

func (t Timeframe) String() string {
	return string(t)
}
