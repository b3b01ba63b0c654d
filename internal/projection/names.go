package projection

import "strings"

// Generational suffixes are spelled inconsistently across sources
// ("Jr.", "jr", "II", "2nd"). Every variant folds to one canonical token
// during normalization so suffix handling sees a single spelling.
var suffixVariants = map[string]string{
	"jr":     "jr",
	"jnr":    "jr",
	"junior": "jr",
	"sr":     "sr",
	"snr":    "sr",
	"senior": "sr",
	"ii":     "ii",
	"2nd":    "ii",
	"iii":    "iii",
	"3rd":    "iii",
	"iv":     "iv",
	"4th":    "iv",
	"v":      "v",
	"5th":    "v",
}

// NormalizeName lowercases, trims, collapses whitespace, drops periods
// and apostrophes, turns hyphens into spaces, and canonicalizes any
// generational suffix token.
func NormalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "-", " ")
	tokens := strings.Fields(s)
	for i, tok := range tokens {
		if canon, ok := suffixVariants[tok]; ok {
			tokens[i] = canon
		}
	}
	return strings.Join(tokens, " ")
}

// StripSuffix removes a trailing generational suffix from an already
// normalized name.
func StripSuffix(normalized string) string {
	tokens := strings.Fields(normalized)
	if len(tokens) < 2 {
		return normalized
	}
	if _, ok := suffixVariants[tokens[len(tokens)-1]]; ok {
		return strings.Join(tokens[:len(tokens)-1], " ")
	}
	return normalized
}

// lcsRatio scores two strings as 2*LCS/(len(a)+len(b)) over runes,
// yielding 1.0 for identical strings and 0.0 for disjoint ones.
func lcsRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	lcs := prev[len(rb)]
	return 2 * float64(lcs) / float64(len(ra)+len(rb))
}

// Matcher scores free-text names against canonical candidates.
type Matcher struct {
	threshold float64
}

// NewMatcher builds a matcher with the given acceptance threshold on the
// 0-1 similarity scale.
func NewMatcher(threshold float64) *Matcher {
	return &Matcher{threshold: threshold}
}

// Similarity scores two names. Exact normalized equality is 1.0. The
// full normalized strings are compared first; only when that score falls
// below the threshold is the suffix-stripped comparison attempted, where
// equality scores a fixed 0.95.
func (m *Matcher) Similarity(a, b string) float64 {
	na, nb := NormalizeName(a), NormalizeName(b)
	if na == nb {
		return 1.0
	}
	score := lcsRatio(na, nb)
	if score >= m.threshold {
		return score
	}
	sa, sb := StripSuffix(na), StripSuffix(nb)
	if sa == sb {
		return 0.95
	}
	if stripped := lcsRatio(sa, sb); stripped > score {
		score = stripped
	}
	return score
}

// Candidate is one canonical identity a name can resolve to.
type Candidate struct {
	Name string
	Team string
}

// Match is an accepted resolution.
type Match struct {
	Name  string
	Team  string
	Score float64
}

const tieEpsilon = 1e-9

// BestMatch returns the best-scoring candidate at or above the
// threshold. Candidates scoring within tieEpsilon of each other are tied
// and the tie is broken by preferring the candidate whose team equals
// the caller's stated team.
func (m *Matcher) BestMatch(name, team string, candidates []Candidate) (Match, bool) {
	var best Match
	found := false
	for _, c := range candidates {
		score := m.Similarity(name, c.Name)
		if score < m.threshold {
			continue
		}
		switch {
		case !found, score > best.Score+tieEpsilon:
			best = Match{Name: c.Name, Team: c.Team, Score: score}
			found = true
		case score > best.Score-tieEpsilon && c.Team == team && best.Team != team:
			best = Match{Name: c.Name, Team: c.Team, Score: score}
		}
	}
	return best, found
}
