package entity

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// Run statuses.
const (
	RunStatusRunning   = "RUNNING"
	RunStatusCompleted = "COMPLETED"
	RunStatusPartial   = "PARTIAL"
	RunStatusFailed    = "FAILED"
)

// ScreeningRun records one screening batch: how many symbols went in, how
// many were evaluated, skipped or errored, and how long the run took.
type ScreeningRun struct {
	ID             string         `gorm:"type:uuid;primaryKey" json:"id"`
	Status         string         `gorm:"not null" json:"status"`
	TotalSymbols   int            `json:"total_symbols"`
	Evaluated      int            `json:"evaluated"`
	Skipped        int            `json:"skipped"`
	Errored        int            `json:"errored"`
	SignalsFound   int            `json:"signals_found"`
	HighScoreCount int            `json:"high_score_count"`
	DurationMs     int64          `json:"duration_ms"`
	Warnings       pq.StringArray `gorm:"type:text[]" json:"warnings"`
	StartedAt      time.Time      `gorm:"not null" json:"started_at"`
	CompletedAt    sql.NullTime   `json:"completed_at"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (ScreeningRun) TableName() string {
	return "screening_runs"
}
