package models

import (
	"time"

	"github.com/google/uuid"
)

// ChangeFreq is the sitemap hint describing how often a page changes.
type ChangeFreq string

const (
	ChangeAlways  ChangeFreq = "always"
	ChangeHourly  ChangeFreq = "hourly"
	ChangeDaily   ChangeFreq = "daily"
	ChangeWeekly  ChangeFreq = "weekly"
	ChangeMonthly ChangeFreq = "monthly"
	ChangeYearly  ChangeFreq = "yearly"
	ChangeNever   ChangeFreq = "never"
)

// Valid reports whether f is one of the values allowed by the sitemap protocol.
func (f ChangeFreq) Valid() bool {
	switch f {
	case ChangeAlways, ChangeHourly, ChangeDaily, ChangeWeekly, ChangeMonthly, ChangeYearly, ChangeNever:
		return true
	}
	return false
}

// Classification is the metadata attached to a route in the sitemap.
type Classification struct {
	Priority   string     `json:"priority"`
	ChangeFreq ChangeFreq `json:"changefreq"`
}

// Run status values.
const (
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// Run records a single sitemap generation.
type Run struct {
	ID         uuid.UUID  `json:"id"`
	Status     string     `json:"status"`
	BaseURL    string     `json:"baseUrl"`
	OutputPath string     `json:"outputPath"`
	RouteCount int        `json:"routeCount"`
	Routes     []string   `json:"routes"`
	Added      []string   `json:"added,omitempty"`
	Removed    []string   `json:"removed,omitempty"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}
