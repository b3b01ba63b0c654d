package projection

// ExclusionReason is the human-readable category attached to every
// player dropped from a projection run.
type ExclusionReason string

const (
	ReasonUnmatchedName  ExclusionReason = "unmatched name"
	ReasonUnmatchedTeam  ExclusionReason = "unmatched team"
	ReasonMissingField   ExclusionReason = "missing required field"
	ReasonBelowMinutes   ExclusionReason = "below minutes cutoff"
	ReasonNoHistory      ExclusionReason = "no historical data"
	ReasonDuplicateEntry ExclusionReason = "duplicate baseline entry"
	ReasonMalformedRow   ExclusionReason = "malformed row"
)

// Exclusion records one dropped baseline entry and why.
type Exclusion struct {
	Player string          `json:"player"`
	Team   string          `json:"team"`
	Reason ExclusionReason `json:"reason"`
	Detail string          `json:"detail,omitempty"`
}

// ExclusionSummary aggregates every exclusion of a run so operators can
// review them. Nothing is silently dropped.
type ExclusionSummary struct {
	Excluded []Exclusion             `json:"excluded"`
	Counts   map[ExclusionReason]int `json:"counts"`
}

func newExclusionSummary() *ExclusionSummary {
	return &ExclusionSummary{
		Counts: make(map[ExclusionReason]int),
	}
}

func (s *ExclusionSummary) add(player, team string, reason ExclusionReason, detail string) {
	s.Excluded = append(s.Excluded, Exclusion{
		Player: player,
		Team:   team,
		Reason: reason,
		Detail: detail,
	})
	s.Counts[reason]++
}

// Total is the number of excluded entries.
func (s *ExclusionSummary) Total() int {
	return len(s.Excluded)
}

// UnmatchedNames lists the baseline names that failed fuzzy resolution,
// for operator review.
func (s *ExclusionSummary) UnmatchedNames() []string {
	var names []string
	for _, ex := range s.Excluded {
		if ex.Reason == ReasonUnmatchedName {
			names = append(names, ex.Player)
		}
	}
	return names
}
