package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases and trims", "  LeBron James ", "lebron james"},
		{"collapses inner whitespace", "Jayson   Tatum", "jayson tatum"},
		{"drops periods", "P.J. Washington", "pj washington"},
		{"drops apostrophes", "De'Aaron Fox", "deaaron fox"},
		{"hyphens become spaces", "Shai Gilgeous-Alexander", "shai gilgeous alexander"},
		{"jr variants fold", "Jaren Jackson Jnr", "jaren jackson jr"},
		{"junior folds", "Danuel House Junior", "danuel house jr"},
		{"ordinal suffix folds", "Wendell Carter 3rd", "wendell carter iii"},
		{"roman numeral kept", "Gary Payton II", "gary payton ii"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeName(tt.input))
		})
	}
}

func TestStripSuffix(t *testing.T) {
	assert.Equal(t, "gary payton", StripSuffix("gary payton ii"))
	assert.Equal(t, "jaren jackson", StripSuffix("jaren jackson jr"))
	assert.Equal(t, "pj washington", StripSuffix("pj washington"))

	// A single-token name is never stripped even if it collides with a
	// suffix token.
	assert.Equal(t, "v", StripSuffix("v"))
}

func TestSimilarity_ExactAfterNormalization(t *testing.T) {
	m := NewMatcher(0.85)

	assert.Equal(t, 1.0, m.Similarity("LeBron James", "lebron  james"))
	assert.Equal(t, 1.0, m.Similarity("Kelly Oubre Junior", "Kelly Oubre Jr."))
	assert.Equal(t, 1.0, m.Similarity("De'Aaron Fox", "DeAaron Fox"))
}

func TestSimilarity_SuffixStripOnlyBelowThreshold(t *testing.T) {
	// Full-string comparison of "j smith jr" vs "j smith" scores
	// 14/17 ~= 0.824. At a 0.85 threshold that is too low, so the
	// suffix-stripped comparison kicks in and scores the fixed 0.95.
	m := NewMatcher(0.85)
	assert.InDelta(t, 0.95, m.Similarity("J. Smith Jr.", "J. Smith"), 1e-9)

	// At a 0.80 threshold the full-string score already clears the bar
	// and is returned as-is; the stripped comparison never runs.
	loose := NewMatcher(0.80)
	assert.InDelta(t, 14.0/17.0, loose.Similarity("J. Smith Jr.", "J. Smith"), 1e-9)
}

func TestSimilarity_UnrelatedNamesScoreLow(t *testing.T) {
	m := NewMatcher(0.85)
	assert.Less(t, m.Similarity("Jayson Tatum", "Jaylen Brown"), 0.85)
	assert.Equal(t, 0.0, m.Similarity("", "Jaylen Brown"))
}

func TestBestMatch(t *testing.T) {
	m := NewMatcher(0.85)
	candidates := []Candidate{
		{Name: "Jayson Tatum", Team: "Boston Celtics"},
		{Name: "Jaylen Brown", Team: "Boston Celtics"},
		{Name: "Mikal Bridges", Team: "Brooklyn Nets"},
	}

	match, ok := m.BestMatch("jayson  tatum", "Boston Celtics", candidates)
	assert.True(t, ok)
	assert.Equal(t, "Jayson Tatum", match.Name)
	assert.Equal(t, 1.0, match.Score)

	_, ok = m.BestMatch("Victor Wembanyama", "San Antonio Spurs", candidates)
	assert.False(t, ok, "names below the threshold should not match")
}

func TestBestMatch_TieBrokenByTeam(t *testing.T) {
	m := NewMatcher(0.85)
	candidates := []Candidate{
		{Name: "Marcus Morris", Team: "LA Clippers"},
		{Name: "Marcus Morris", Team: "Boston Celtics"},
	}

	// Identical scores; the candidate on the caller's team wins
	// regardless of candidate order.
	match, ok := m.BestMatch("Marcus Morris", "Boston Celtics", candidates)
	assert.True(t, ok)
	assert.Equal(t, "Boston Celtics", match.Team)

	reversed := []Candidate{candidates[1], candidates[0]}
	match, ok = m.BestMatch("Marcus Morris", "Boston Celtics", reversed)
	assert.True(t, ok)
	assert.Equal(t, "Boston Celtics", match.Team)
}
