package strategy

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hyfhx/stock-screener/internal/entity"
	"github.com/hyfhx/stock-screener/internal/screener/dto"
	"github.com/hyfhx/stock-screener/pkg/logger"
	"github.com/hyfhx/stock-screener/pkg/telegram"
)

// WeightTuner proposes weight table adjustments.
type WeightTuner interface {
	Tune(ctx context.Context, payload dto.WeightTunerPayload) (*dto.TuningReport, error)
}

// WeightTunerStrategy runs a weight-tuning cycle over reconciled outcomes.
type WeightTunerStrategy struct {
	log      *logger.Logger
	tuner    WeightTuner
	notifier telegram.Notifier
}

// NewWeightTunerStrategy creates the tuning job strategy.
func NewWeightTunerStrategy(log *logger.Logger, tuner WeightTuner, notifier telegram.Notifier) *WeightTunerStrategy {
	return &WeightTunerStrategy{log: log, tuner: tuner, notifier: notifier}
}

// GetType returns the job type this strategy handles.
func (s *WeightTunerStrategy) GetType() entity.JobType {
	return entity.JobTypeWeightTuner
}

// Execute proposes (and optionally commits) a new weight table version and
// reports the cycle.
func (s *WeightTunerStrategy) Execute(ctx context.Context, job *entity.Job) (string, error) {
	var payload dto.WeightTunerPayload
	if len(job.Payload) > 0 {
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return "", fmt.Errorf("invalid tuner payload: %w", err)
		}
	}

	report, err := s.tuner.Tune(ctx, payload)
	if err != nil {
		return "", err
	}

	if s.notifier != nil {
		if err := s.notifier.SendMessage(telegram.FormatTuningReport(report)); err != nil {
			s.log.Error("Failed to send tuning report", logger.ErrorField(err))
		}
	}

	output, err := json.Marshal(report)
	if err != nil {
		return "", err
	}
	return string(output), nil
}
