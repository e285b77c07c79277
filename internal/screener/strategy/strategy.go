package strategy

import (
	"context"

	"github.com/hyfhx/stock-screener/internal/entity"
)

// JobExecutionStrategy defines the interface for different job execution strategies.
type JobExecutionStrategy interface {
	Execute(ctx context.Context, job *entity.Job) (string, error)
	GetType() entity.JobType
}
