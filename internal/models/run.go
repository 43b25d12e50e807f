package models

import (
	"time"

	"github.com/google/uuid"
)

// NewRun creates a run with a generated UUID, started now.
func NewRun(baseURL, outputPath string) *Run {
	return &Run{
		ID:         uuid.New(),
		BaseURL:    baseURL,
		OutputPath: outputPath,
		StartedAt:  time.Now(),
	}
}

// Finish stamps the run with its outcome.
func (r *Run) Finish(err error) {
	now := time.Now()
	r.FinishedAt = &now
	if err != nil {
		r.Status = RunFailed
		r.Error = err.Error()
		return
	}
	r.Status = RunCompleted
}

// Duration is zero until the run has finished.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
