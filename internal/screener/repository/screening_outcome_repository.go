package repository

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hyfhx/stock-screener/internal/entity"
	"github.com/hyfhx/stock-screener/internal/screener/dto"
	"github.com/hyfhx/stock-screener/pkg/common"
)

// ReconcileUpdate carries the values written by one reconciliation.
type ReconcileUpdate struct {
	PriceAfter     float64
	RealizedReturn float64
	MaxGain        float64
	MaxLoss        float64
	Hit            bool
	ReconciledAt   time.Time
}

// ScreeningOutcomeRepository persists screening decisions and their
// reconciliation against realized prices.
type ScreeningOutcomeRepository interface {
	Record(ctx context.Context, outcomes []entity.ScreeningOutcome) (int, error)
	FindPendingReconciliation(ctx context.Context, maturedBefore time.Time) ([]entity.ScreeningOutcome, error)
	Reconcile(ctx context.Context, id int64, update ReconcileUpdate) error
	AccuracyBySignal(ctx context.Context, since time.Time) ([]dto.AccuracyStat, error)
	FindByDateRange(ctx context.Context, from, to time.Time) ([]entity.ScreeningOutcome, error)
}

type screeningOutcomeRepository struct {
	db *gorm.DB
}

func NewScreeningOutcomeRepository(db *gorm.DB) ScreeningOutcomeRepository {
	return &screeningOutcomeRepository{db: db}
}

// Record inserts outcomes idempotently: a row already present for the same
// (stock_code, evaluated_at) is left untouched, so re-recording an identical
// result never creates a duplicate. Returns the number of rows inserted.
func (r *screeningOutcomeRepository) Record(ctx context.Context, outcomes []entity.ScreeningOutcome) (int, error) {
	if len(outcomes) == 0 {
		return 0, nil
	}
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stock_code"}, {Name: "evaluated_at"}},
		DoNothing: true,
	}).Create(&outcomes)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return int(tx.RowsAffected), nil
}

// FindPendingReconciliation returns outcomes old enough to mature and not
// yet reconciled.
func (r *screeningOutcomeRepository) FindPendingReconciliation(ctx context.Context, maturedBefore time.Time) ([]entity.ScreeningOutcome, error) {
	var outcomes []entity.ScreeningOutcome
	if err := r.db.WithContext(ctx).
		Where("reconciled_at IS NULL AND evaluated_at <= ?", maturedBefore).
		Order("evaluated_at ASC").
		Find(&outcomes).Error; err != nil {
		return nil, err
	}
	return outcomes, nil
}

// Reconcile writes the reconciliation sub-record with a conditional update:
// the WHERE clause requires the field to still be null, closing the race
// between concurrent reconcilers. A row already reconciled surfaces
// common.ErrAlreadyReconciled.
func (r *screeningOutcomeRepository) Reconcile(ctx context.Context, id int64, update ReconcileUpdate) error {
	tx := r.db.WithContext(ctx).Model(&entity.ScreeningOutcome{}).
		Where("id = ? AND reconciled_at IS NULL", id).
		Updates(map[string]interface{}{
			"price_after":     update.PriceAfter,
			"realized_return": update.RealizedReturn,
			"max_gain":        update.MaxGain,
			"max_loss":        update.MaxLoss,
			"hit":             update.Hit,
			"reconciled_at":   update.ReconciledAt,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return common.ErrAlreadyReconciled
	}
	return nil
}

// AccuracyBySignal aggregates hit rate and average return per signal flag
// over reconciled outcomes since the cutoff. It is a view, recomputed on
// demand, never stored.
func (r *screeningOutcomeRepository) AccuracyBySignal(ctx context.Context, since time.Time) ([]dto.AccuracyStat, error) {
	var outcomes []entity.ScreeningOutcome
	if err := r.db.WithContext(ctx).
		Select("signals", "hit", "realized_return").
		Where("reconciled_at IS NOT NULL AND evaluated_at >= ?", since).
		Find(&outcomes).Error; err != nil {
		return nil, err
	}

	type agg struct {
		count     int
		hits      int
		sumReturn float64
	}
	perSignal := make(map[string]*agg)

	for _, o := range outcomes {
		var breakdown map[string]float64
		if err := json.Unmarshal(o.Signals, &breakdown); err != nil {
			continue
		}
		for flag := range breakdown {
			a := perSignal[flag]
			if a == nil {
				a = &agg{}
				perSignal[flag] = a
			}
			a.count++
			if o.Hit.Valid && o.Hit.Bool {
				a.hits++
			}
			if o.RealizedReturn.Valid {
				a.sumReturn += o.RealizedReturn.Float64
			}
		}
	}

	stats := make([]dto.AccuracyStat, 0, len(perSignal))
	for flag, a := range perSignal {
		stats = append(stats, dto.AccuracyStat{
			Signal:      flag,
			SampleCount: a.count,
			HitRate:     float64(a.hits) / float64(a.count),
			AvgReturn:   a.sumReturn / float64(a.count),
		})
	}
	return stats, nil
}

// FindByDateRange returns outcomes evaluated inside [from, to], highest
// score first.
func (r *screeningOutcomeRepository) FindByDateRange(ctx context.Context, from, to time.Time) ([]entity.ScreeningOutcome, error) {
	var outcomes []entity.ScreeningOutcome
	if err := r.db.WithContext(ctx).
		Where("evaluated_at BETWEEN ? AND ?", from, to).
		Order("score DESC, stock_code ASC").
		Find(&outcomes).Error; err != nil {
		return nil, err
	}
	return outcomes, nil
}
