package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"

	"github.com/jstittsworth/nba-projections/pkg/database"
)

// RunType identifies which stage of the pipeline a run executed
type RunType string

const (
	RunTypeIngestion   RunType = "ingestion"
	RunTypeMatchups    RunType = "matchups"
	RunTypeProjections RunType = "projections"
	RunTypeFull        RunType = "full"
)

// RunStatus represents the lifecycle state of a pipeline run
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// PipelineRun records one execution of a pipeline stage: who started
// it, what it produced, and how it ended. Failed runs keep their
// error text so the history endpoint can explain itself.
type PipelineRun struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	RunType        RunType        `gorm:"type:varchar(50);not null;index" json:"run_type"`
	GameDate       string         `gorm:"size:10;not null;index" json:"game_date"`
	Status         RunStatus      `gorm:"type:varchar(50);default:'running';index" json:"status"`
	RowCount       int            `json:"row_count"`
	Counts         datatypes.JSON `json:"counts"`
	UnmatchedNames pq.StringArray `gorm:"type:text[]" json:"unmatched_names"`
	Error          string         `gorm:"type:text" json:"error,omitempty"`
	TriggeredBy    string         `gorm:"size:50" json:"triggered_by"`
	StartedAt      time.Time      `json:"started_at"`
	FinishedAt     *time.Time     `json:"finished_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (PipelineRun) TableName() string {
	return "pipeline_runs"
}

// NewPipelineRun starts a run record in the running state. The ID is
// assigned client-side so callers can hand it out before the row
// commits, and so sqlite deployments need no uuid extension.
func NewPipelineRun(runType RunType, date, triggeredBy string) *PipelineRun {
	return &PipelineRun{
		ID:          uuid.New(),
		RunType:     runType,
		GameDate:    date,
		Status:      RunStatusRunning,
		TriggeredBy: triggeredBy,
		StartedAt:   time.Now().UTC(),
	}
}

// Complete marks the run finished and attaches its output summary.
func (r *PipelineRun) Complete(rowCount int, counts map[string]int, unmatched []string) {
	now := time.Now().UTC()
	r.Status = RunStatusCompleted
	r.RowCount = rowCount
	r.FinishedAt = &now
	r.AttachSummary(counts, unmatched)
}

// Fail marks the run finished with an error.
func (r *PipelineRun) Fail(err error) {
	now := time.Now().UTC()
	r.Status = RunStatusFailed
	r.FinishedAt = &now
	if err != nil {
		r.Error = err.Error()
	}
}

// AttachSummary records output detail on a run. Failed projection passes
// still attach their exclusion breakdown so the history explains what
// went wrong.
func (r *PipelineRun) AttachSummary(counts map[string]int, unmatched []string) {
	r.UnmatchedNames = pq.StringArray(unmatched)
	if len(counts) > 0 {
		if raw, err := json.Marshal(counts); err == nil {
			r.Counts = datatypes.JSON(raw)
		}
	}
}

// CreateRun persists a new run record.
func CreateRun(db *database.DB, run *PipelineRun) error {
	return db.Create(run).Error
}

// SaveRun persists the current state of an existing run record.
func SaveRun(db *database.DB, run *PipelineRun) error {
	return db.Save(run).Error
}

// GetRun fetches one run by ID.
func GetRun(db *database.DB, id uuid.UUID) (*PipelineRun, error) {
	var run PipelineRun
	if err := db.First(&run, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns fetches recent runs, newest first, optionally limited to
// one date.
func ListRuns(db *database.DB, date string, limit int) ([]PipelineRun, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []PipelineRun
	query := db.Model(&PipelineRun{})
	if date != "" {
		query = query.Where("game_date = ?", date)
	}
	err := query.Order("started_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}
