package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullTeamName(t *testing.T) {
	tests := []struct {
		abbrev   string
		expected string
		found    bool
	}{
		{"BOS", "Boston Celtics", true},
		{"gsw", "Golden State Warriors", true},
		{"GS", "Golden State Warriors", true},
		{" PHX ", "Phoenix Suns", true},
		{"PHO", "Phoenix Suns", true},
		{"BRK", "Brooklyn Nets", true},
		{"NOP", "New Orleans Pelicans", true},
		{"NO", "New Orleans Pelicans", true},
		{"LAC", "LA Clippers", true},
		{"XYZ", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		full, ok := FullTeamName(tt.abbrev)
		assert.Equal(t, tt.found, ok, "abbrev %q", tt.abbrev)
		assert.Equal(t, tt.expected, full, "abbrev %q", tt.abbrev)
	}
}

func TestTeamResolver(t *testing.T) {
	r := NewTeamResolver([]string{
		"Boston Celtics",
		"LA Clippers",
		"Los Angeles Lakers",
		"New Orleans Pelicans",
		"Golden State Warriors",
	})

	tests := []struct {
		name     string
		input    string
		expected string
		found    bool
	}{
		{"exact", "Boston Celtics", "Boston Celtics", true},
		{"case and spacing", "boston  CELTICS", "Boston Celtics", true},
		{"city spelled out", "Los Angeles Clippers", "LA Clippers", true},
		{"city abbreviated", "LA Lakers", "Los Angeles Lakers", true},
		{"golden st", "Golden St Warriors", "Golden State Warriors", true},
		{"nola spelling", "NOLA Pelicans", "New Orleans Pelicans", true},
		{"nickname only", "Pelicans", "New Orleans Pelicans", true},
		{"unknown team", "Seattle SuperSonics", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			canon, ok := r.Resolve(tt.input)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, canon)
		})
	}
}

func TestTeamResolver_AmbiguousNickname(t *testing.T) {
	r := NewTeamResolver([]string{"East Sharks", "West Sharks"})

	// A nickname shared by two canonical names cannot resolve.
	_, ok := r.Resolve("Sharks")
	assert.False(t, ok)

	canon, ok := r.Resolve("East Sharks")
	assert.True(t, ok)
	assert.Equal(t, "East Sharks", canon)
}
