package entity

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// JobType identifies which execution strategy handles a job.
type JobType string

const (
	JobTypeStockScreener    JobType = "stock_screener"
	JobTypeOutcomeReconcile JobType = "outcome_reconcile"
	JobTypeWeightTuner      JobType = "weight_tuner"
)

// RetryPolicy describes how a failed job execution is retried.
type RetryPolicy struct {
	MaxRetries      int    `json:"max_retries"`
	BackoffStrategy string `json:"backoff_strategy"`
	InitialInterval string `json:"initial_interval"`
}

// Job is a schedulable unit of work with a type-specific JSON payload.
type Job struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	Type        JobType        `gorm:"not null" json:"type"`
	Payload     datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	RetryPolicy datatypes.JSON `gorm:"type:jsonb" json:"retry_policy"`
	Timeout     int            `json:"timeout"`
	Schedules   []TaskSchedule `gorm:"foreignKey:JobID" json:"schedules"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

func (Job) TableName() string {
	return "jobs"
}
