package strategy

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hyfhx/stock-screener/internal/entity"
	"github.com/hyfhx/stock-screener/internal/screener/dto"
	"github.com/hyfhx/stock-screener/pkg/logger"
)

// OutcomeReconciler matures past screening picks.
type OutcomeReconciler interface {
	Reconcile(ctx context.Context, payload dto.OutcomeReconcilePayload) (*dto.ReconcileSummary, error)
}

// OutcomeReconcileStrategy matures past screening picks against realized
// prices.
type OutcomeReconcileStrategy struct {
	log      *logger.Logger
	outcomes OutcomeReconciler
}

// NewOutcomeReconcileStrategy creates the reconciliation job strategy.
func NewOutcomeReconcileStrategy(log *logger.Logger, outcomes OutcomeReconciler) *OutcomeReconcileStrategy {
	return &OutcomeReconcileStrategy{log: log, outcomes: outcomes}
}

// GetType returns the job type this strategy handles.
func (s *OutcomeReconcileStrategy) GetType() entity.JobType {
	return entity.JobTypeOutcomeReconcile
}

// Execute reconciles every matured outcome.
func (s *OutcomeReconcileStrategy) Execute(ctx context.Context, job *entity.Job) (string, error) {
	var payload dto.OutcomeReconcilePayload
	if len(job.Payload) > 0 {
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return "", fmt.Errorf("invalid reconcile payload: %w", err)
		}
	}

	summary, err := s.outcomes.Reconcile(ctx, payload)
	if err != nil {
		return "", err
	}

	output, err := json.Marshal(summary)
	if err != nil {
		return "", err
	}
	return string(output), nil
}
