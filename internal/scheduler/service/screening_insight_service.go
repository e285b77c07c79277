package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hyfhx/stock-screener/internal/entity"
	"github.com/hyfhx/stock-screener/internal/scheduler/dto"
	screenerrepo "github.com/hyfhx/stock-screener/internal/screener/repository"
	"github.com/hyfhx/stock-screener/pkg/logger"
	"github.com/hyfhx/stock-screener/pkg/utils"
)

// ScreeningInsightService exposes read access to screening outcomes and
// weight tables, plus the commit operation that activates a proposed table.
type ScreeningInsightService interface {
	GetResultsByDate(ctx context.Context, date time.Time) ([]*dto.ScreeningResultResponse, error)
	GetAccuracyBySignal(ctx context.Context, sinceDays int) ([]*dto.SignalAccuracyResponse, error)
	GetWeightTables(ctx context.Context, limit int) ([]*dto.WeightTableResponse, error)
	CommitWeightTable(ctx context.Context, id uint) error
}

// NewScreeningInsightService creates a new screening insight service.
func NewScreeningInsightService(
	outcomeRepo screenerrepo.ScreeningOutcomeRepository,
	weightRepo screenerrepo.WeightTableRepository,
	logger *logger.Logger,
) ScreeningInsightService {
	return &screeningInsightService{
		outcomeRepo: outcomeRepo,
		weightRepo:  weightRepo,
		logger:      logger,
	}
}

type screeningInsightService struct {
	outcomeRepo screenerrepo.ScreeningOutcomeRepository
	weightRepo  screenerrepo.WeightTableRepository
	logger      *logger.Logger
}

// GetResultsByDate returns all outcomes evaluated on the given calendar day.
func (s *screeningInsightService) GetResultsByDate(ctx context.Context, date time.Time) ([]*dto.ScreeningResultResponse, error) {
	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	to := from.AddDate(0, 0, 1).Add(-time.Nanosecond)

	outcomes, err := s.outcomeRepo.FindByDateRange(ctx, from, to)
	if err != nil {
		s.logger.Error("Failed to load screening results", logger.ErrorField(err))
		return nil, err
	}

	responses := make([]*dto.ScreeningResultResponse, 0, len(outcomes))
	for _, o := range outcomes {
		responses = append(responses, mapToScreeningResultResponse(&o))
	}
	return responses, nil
}

// GetAccuracyBySignal returns the per-signal accuracy view over the window.
func (s *screeningInsightService) GetAccuracyBySignal(ctx context.Context, sinceDays int) ([]*dto.SignalAccuracyResponse, error) {
	if sinceDays <= 0 {
		sinceDays = 30
	}
	since := utils.TimeNowET().AddDate(0, 0, -sinceDays)

	stats, err := s.outcomeRepo.AccuracyBySignal(ctx, since)
	if err != nil {
		s.logger.Error("Failed to compute signal accuracy", logger.ErrorField(err))
		return nil, err
	}

	responses := make([]*dto.SignalAccuracyResponse, 0, len(stats))
	for _, st := range stats {
		responses = append(responses, &dto.SignalAccuracyResponse{
			Signal:      st.Signal,
			SampleCount: st.SampleCount,
			HitRate:     st.HitRate,
			AvgReturn:   st.AvgReturn,
		})
	}
	return responses, nil
}

// GetWeightTables returns recent weight table versions, newest first.
func (s *screeningInsightService) GetWeightTables(ctx context.Context, limit int) ([]*dto.WeightTableResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	versions, err := s.weightRepo.History(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to load weight tables", logger.ErrorField(err))
		return nil, err
	}

	responses := make([]*dto.WeightTableResponse, 0, len(versions))
	for _, v := range versions {
		resp := &dto.WeightTableResponse{
			ID:        v.ID,
			Weights:   json.RawMessage(v.Weights),
			Active:    v.Active,
			Notes:     v.Notes,
			CreatedAt: v.CreatedAt,
		}
		if v.AccuracyRate.Valid {
			resp.AccuracyRate = utils.ToPointer(v.AccuracyRate.Float64)
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// CommitWeightTable activates a proposed version.
func (s *screeningInsightService) CommitWeightTable(ctx context.Context, id uint) error {
	if err := s.weightRepo.Commit(ctx, id); err != nil {
		s.logger.Error("Failed to commit weight table", logger.ErrorField(err), logger.Field("version_id", id))
		return err
	}
	s.logger.Info("Weight table committed", logger.Field("version_id", id))
	return nil
}

func mapToScreeningResultResponse(o *entity.ScreeningOutcome) *dto.ScreeningResultResponse {
	resp := &dto.ScreeningResultResponse{
		ID:            o.ID,
		RunID:         o.RunID,
		StockCode:     o.StockCode,
		EvaluatedAt:   o.EvaluatedAt,
		Price:         o.Price,
		ChangePercent: o.ChangePercent,
		Score:         o.Score,
		Grade:         o.Grade,
		Signals:       json.RawMessage(o.Signals),
		WeightVersion: o.WeightVersion,
		HorizonDays:   o.HorizonDays,
		Reconciled:    o.Reconciled(),
	}
	if o.PriceAfter.Valid {
		resp.PriceAfter = utils.ToPointer(o.PriceAfter.Float64)
	}
	if o.RealizedReturn.Valid {
		resp.RealizedReturn = utils.ToPointer(o.RealizedReturn.Float64)
	}
	if o.Hit.Valid {
		resp.Hit = utils.ToPointer(o.Hit.Bool)
	}
	return resp
}
