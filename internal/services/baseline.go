package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/nba-projections/internal/models"
	"github.com/jstittsworth/nba-projections/internal/nba"
	"github.com/jstittsworth/nba-projections/pkg/database"
)

// BaselineService parses and stores the manually uploaded daily sheet.
type BaselineService struct {
	db     *database.DB
	logger *logrus.Logger
}

func NewBaselineService(db *database.DB, logger *logrus.Logger) *BaselineService {
	return &BaselineService{
		db:     db,
		logger: logger,
	}
}

// baselineColumns maps sheet headers to entry fields. The sheet is
// produced by a third-party tool, so the spellings are theirs.
var baselineColumns = []string{"Name", "Pos", "Team", "Opp", "Salary", "Min", "Adj Own", "Status"}

// requiredColumns must be present for the sheet to be usable at all.
var requiredColumns = []string{"Name", "Team", "Salary", "Min"}

// ParseBaselineCSV reads the daily sheet. Unparseable numerics become
// zero; the projection pass decides what to exclude. The gameInfo
// column is matched case-insensitively because the tool has shipped
// both spellings.
func ParseBaselineCSV(r io.Reader) ([]nba.BaselineEntry, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet header: %w", err)
	}

	col := make(map[string]int)
	for i, name := range header {
		name = strings.TrimSpace(name)
		for _, want := range baselineColumns {
			if name == want {
				col[want] = i
			}
		}
		if strings.EqualFold(name, "gameinfo") {
			col["gameInfo"] = i
		}
	}
	for _, want := range requiredColumns {
		if _, ok := col[want]; !ok {
			return nil, fmt.Errorf("sheet is missing required column %q", want)
		}
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	number := func(record []string, name string) float64 {
		v, err := strconv.ParseFloat(field(record, name), 64)
		if err != nil {
			return 0
		}
		return v
	}

	var entries []nba.BaselineEntry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet row: %w", err)
		}
		entries = append(entries, nba.BaselineEntry{
			Name:      field(record, "Name"),
			Pos:       field(record, "Pos"),
			Team:      field(record, "Team"),
			Opp:       field(record, "Opp"),
			Status:    field(record, "Status"),
			GameInfo:  field(record, "gameInfo"),
			Salary:    number(record, "Salary"),
			ProjMins:  number(record, "Min"),
			Ownership: number(record, "Adj Own"),
		})
	}
	return entries, nil
}

// Upload parses the sheet and replaces the stored baseline for the
// date. Re-uploading replaces the previous sheet wholesale.
func (s *BaselineService) Upload(ctx context.Context, date string, r io.Reader) (int, error) {
	if _, err := nba.ParseDate(date); err != nil {
		return 0, err
	}
	entries, err := ParseBaselineCSV(r)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("sheet for %s has no data rows", date)
	}

	rows := make([]models.DailyBaseline, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, models.BaselineFromEntry(date, entry))
	}
	if err := models.ReplaceBaseline(s.db, date, rows); err != nil {
		return 0, fmt.Errorf("failed to store baseline: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"date": date,
		"rows": len(rows),
	}).Info("Stored baseline sheet")
	return len(rows), nil
}

// GetBaseline serves the stored sheet for one date.
func (s *BaselineService) GetBaseline(ctx context.Context, date string) ([]nba.BaselineEntry, error) {
	return models.BaselineEntries(s.db, date)
}
