package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hyfhx/stock-screener/internal/entity"
)

// ScreeningRunRepository persists per-run statistics.
type ScreeningRunRepository interface {
	Create(ctx context.Context, run *entity.ScreeningRun) error
	Update(ctx context.Context, run *entity.ScreeningRun) error
	BaselineDurationMs(ctx context.Context, lastN int) (float64, error)
}

type screeningRunRepository struct {
	db *gorm.DB
}

func NewScreeningRunRepository(db *gorm.DB) ScreeningRunRepository {
	return &screeningRunRepository{db: db}
}

func (r *screeningRunRepository) Create(ctx context.Context, run *entity.ScreeningRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *screeningRunRepository) Update(ctx context.Context, run *entity.ScreeningRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

// BaselineDurationMs returns the mean duration of the most recent completed
// runs, 0 when no history exists yet.
func (r *screeningRunRepository) BaselineDurationMs(ctx context.Context, lastN int) (float64, error) {
	var durations []int64
	if err := r.db.WithContext(ctx).Model(&entity.ScreeningRun{}).
		Where("status = ?", entity.RunStatusCompleted).
		Order("started_at DESC").
		Limit(lastN).
		Pluck("duration_ms", &durations).Error; err != nil {
		return 0, err
	}
	if len(durations) == 0 {
		return 0, nil
	}
	var sum int64
	for _, d := range durations {
		sum += d
	}
	return float64(sum) / float64(len(durations)), nil
}
