package strategy

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hyfhx/stock-screener/internal/entity"
	"github.com/hyfhx/stock-screener/internal/screener/dto"
	"github.com/hyfhx/stock-screener/internal/screener/scoring"
	"github.com/hyfhx/stock-screener/pkg/logger"
	"github.com/hyfhx/stock-screener/pkg/telegram"
)

// ScreeningRunner runs one screening batch.
type ScreeningRunner interface {
	Screen(ctx context.Context, payload dto.StockScreenerPayload) ([]scoring.Result, *dto.RunSummary, error)
}

// StockScreenerStrategy runs a full screening batch for a scheduled job.
type StockScreenerStrategy struct {
	log      *logger.Logger
	pipeline ScreeningRunner
	notifier telegram.Notifier
}

// NewStockScreenerStrategy creates the screening job strategy.
func NewStockScreenerStrategy(log *logger.Logger, pipeline ScreeningRunner, notifier telegram.Notifier) *StockScreenerStrategy {
	return &StockScreenerStrategy{log: log, pipeline: pipeline, notifier: notifier}
}

// GetType returns the job type this strategy handles.
func (s *StockScreenerStrategy) GetType() entity.JobType {
	return entity.JobTypeStockScreener
}

// Execute runs the screening pipeline and reports the results.
func (s *StockScreenerStrategy) Execute(ctx context.Context, job *entity.Job) (string, error) {
	var payload dto.StockScreenerPayload
	if len(job.Payload) > 0 {
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return "", fmt.Errorf("invalid screener payload: %w", err)
		}
	}

	results, summary, err := s.pipeline.Screen(ctx, payload)
	if err != nil {
		return "", err
	}

	if s.notifier != nil {
		for _, msg := range telegram.FormatScreeningResults(summary, results) {
			if err := s.notifier.SendMessage(msg); err != nil {
				s.log.Error("Failed to send screening results", logger.ErrorField(err))
			}
		}
	}

	output, err := json.Marshal(summary)
	if err != nil {
		return "", err
	}
	return string(output), nil
}
