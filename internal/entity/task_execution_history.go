package entity

import (
	"database/sql"
	"time"
)

// Execution statuses.
const (
	StatusRunning   = "RUNNING"
	StatusSuccess   = "SUCCESS"
	StatusFailed    = "FAILED"
	StatusTimedOut  = "TIMED_OUT"
	StatusCancelled = "CANCELLED"
)

// TaskExecutionHistory records one attempt at executing a scheduled job.
type TaskExecutionHistory struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	JobID        uint           `gorm:"not null;index" json:"job_id"`
	ScheduleID   uint           `gorm:"index" json:"schedule_id"`
	Status       string         `gorm:"not null" json:"status"`
	Output       sql.NullString `json:"output"`
	ErrorMessage sql.NullString `json:"error_message"`
	StartedAt    time.Time      `gorm:"not null" json:"started_at"`
	CompletedAt  sql.NullTime   `json:"completed_at"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (TaskExecutionHistory) TableName() string {
	return "task_execution_histories"
}
