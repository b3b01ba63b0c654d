package nba

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2026-01-15")
	require.NoError(t, err)
	assert.Equal(t, 2026, parsed.Year())
	assert.Equal(t, time.January, parsed.Month())
	assert.Equal(t, 15, parsed.Day())

	for _, bad := range []string{"", "01/15/2026", "2026-13-01", "yesterday"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, "date %q", bad)
	}
}

func TestDayWindowUTC(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Mid-January Eastern midnight is 05:00 UTC.
	start, end, err := DayWindowUTC("2026-01-15", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 15, 5, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 1, 16, 4, 59, 59, 0, time.UTC), end)

	_, _, err = DayWindowUTC("bad", loc)
	assert.Error(t, err)
}

func TestToday(t *testing.T) {
	assert.Equal(t, time.Now().UTC().Format(DateLayout), Today(time.UTC))
}
