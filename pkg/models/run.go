package models

import "time"

// Run statuses
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// ParseSettings mirrors the parser options of a run
type ParseSettings struct {
	Separator        string `json:"separator,omitempty" doc:"Field separator; empty splits on whitespace runs"`
	SkipLines        int    `json:"skip_lines,omitempty" minimum:"0" doc:"Leading header lines to ignore"`
	WavelengthColumn int    `json:"wavelength_column,omitempty" minimum:"0" doc:"Zero-based wavelength column"`
	ResponseColumn   int    `json:"response_column" minimum:"0" doc:"Zero-based response column"`
}

// Run represents a stored resampling job (for internal use)
type Run struct {
	ID          string         `json:"id"`
	Status      string         `json:"status"`
	Progress    int            `json:"progress"`
	InputKey    string         `json:"input_key"`
	OutputKey   string         `json:"output_key"`
	Parse       ParseSettings  `json:"parse"`
	Step        float64        `json:"step"`
	Method      ResampleMethod `json:"method"`
	ErrorMsg    *string        `json:"error_message,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

// RunResults represents the stored output of a completed run
type RunResults struct {
	ID          string          `json:"id"`
	RunID       string          `json:"run_id"`
	InputCount  int             `json:"input_count"`
	SampleCount int             `json:"sample_count"`
	Samples     ResampledSeries `json:"samples"`
	CreatedAt   time.Time       `json:"created_at"`
}
