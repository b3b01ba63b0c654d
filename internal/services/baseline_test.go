package services

import (
	"context"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSheet = `Name,Pos,Team,Opp,Salary,Min,Adj Own,Status,gameInfo
Jayson Tatum,SF,BOS,NYK,10200,36.5,22.4,,BOS@NYK 7:30PM
Jalen Brunson,PG,NYK,BOS,9800,35.0,18.1,GTD,BOS@NYK 7:30PM
Payton Pritchard,PG,BOS,NYK,5400,22.0,4.7,,BOS@NYK 7:30PM
`

func TestParseBaselineCSV(t *testing.T) {
	entries, err := ParseBaselineCSV(strings.NewReader(sampleSheet))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	tatum := entries[0]
	assert.Equal(t, "Jayson Tatum", tatum.Name)
	assert.Equal(t, "SF", tatum.Pos)
	assert.Equal(t, "BOS", tatum.Team)
	assert.Equal(t, "NYK", tatum.Opp)
	assert.Equal(t, 10200.0, tatum.Salary)
	assert.Equal(t, 36.5, tatum.ProjMins)
	assert.Equal(t, 22.4, tatum.Ownership)
	assert.Equal(t, "", tatum.Status)
	assert.Equal(t, "BOS@NYK 7:30PM", tatum.GameInfo)

	assert.Equal(t, "GTD", entries[1].Status)
}

func TestParseBaselineCSVColumnOrder(t *testing.T) {
	// The tool does not guarantee column order.
	sheet := "Salary,Name,Min,Team\n8000,LeBron James,34.0,LAL\n"
	entries, err := ParseBaselineCSV(strings.NewReader(sheet))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "LeBron James", entries[0].Name)
	assert.Equal(t, "LAL", entries[0].Team)
	assert.Equal(t, 8000.0, entries[0].Salary)
	assert.Equal(t, 34.0, entries[0].ProjMins)
}

func TestParseBaselineCSVGameInfoSpellings(t *testing.T) {
	for _, spelling := range []string{"gameInfo", "GameInfo", "gameinfo"} {
		sheet := "Name,Team,Salary,Min," + spelling + "\nNikola Jokic,DEN,11000,34.0,DEN@MIN 9:00PM\n"
		entries, err := ParseBaselineCSV(strings.NewReader(sheet))
		require.NoError(t, err, "header spelling %q", spelling)
		require.Len(t, entries, 1)
		assert.Equal(t, "DEN@MIN 9:00PM", entries[0].GameInfo)
	}
}

func TestParseBaselineCSVMissingRequiredColumn(t *testing.T) {
	sheet := "Name,Pos,Team,Min\nSomeone,PG,BOS,30\n"
	_, err := ParseBaselineCSV(strings.NewReader(sheet))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Salary")
}

func TestParseBaselineCSVUnparseableNumbers(t *testing.T) {
	sheet := "Name,Team,Salary,Min,Adj Own\nSomeone,BOS,N/A,,-\n"
	entries, err := ParseBaselineCSV(strings.NewReader(sheet))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 0.0, entries[0].Salary)
	assert.Equal(t, 0.0, entries[0].ProjMins)
	assert.Equal(t, 0.0, entries[0].Ownership)
}

func TestBaselineUploadReplaces(t *testing.T) {
	db := newTestDB(t)
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	svc := NewBaselineService(db, logger)
	ctx := context.Background()
	date := "2025-01-15"

	n, err := svc.Upload(ctx, date, strings.NewReader(sampleSheet))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// A re-upload replaces the previous sheet wholesale.
	smaller := "Name,Team,Salary,Min\nJayson Tatum,BOS,10300,37.0\n"
	n, err = svc.Upload(ctx, date, strings.NewReader(smaller))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	entries, err := svc.GetBaseline(ctx, date)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 10300.0, entries[0].Salary)
}

func TestBaselineUploadRejectsBadInput(t *testing.T) {
	db := newTestDB(t)
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	svc := NewBaselineService(db, logger)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "01/15/2025", strings.NewReader(sampleSheet))
	assert.Error(t, err, "date must be YYYY-MM-DD")

	_, err = svc.Upload(ctx, "2025-01-15", strings.NewReader("Name,Team,Salary,Min\n"))
	assert.Error(t, err, "header-only sheet has no data rows")
}
