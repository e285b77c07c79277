package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hyfhx/stock-screener/internal/entity"
	"github.com/hyfhx/stock-screener/internal/screener/config"
	"github.com/hyfhx/stock-screener/internal/screener/dto"
	"github.com/hyfhx/stock-screener/internal/screener/repository"
	"github.com/hyfhx/stock-screener/pkg/common"
	"github.com/hyfhx/stock-screener/pkg/logger"
	"github.com/hyfhx/stock-screener/pkg/utils"
)

// OutcomeService closes the loop on past screening decisions: once the
// forward horizon has elapsed it writes realized prices back onto each
// outcome, exactly once.
type OutcomeService interface {
	Reconcile(ctx context.Context, payload dto.OutcomeReconcilePayload) (*dto.ReconcileSummary, error)
	AccuracyBySignal(ctx context.Context, since time.Time) ([]dto.AccuracyStat, error)
}

type outcomeService struct {
	cfg        *config.Config
	log        *logger.Logger
	marketData repository.MarketDataRepository
	outcomes   repository.ScreeningOutcomeRepository
}

func NewOutcomeService(
	cfg *config.Config,
	log *logger.Logger,
	marketData repository.MarketDataRepository,
	outcomes repository.ScreeningOutcomeRepository,
) OutcomeService {
	return &outcomeService{
		cfg:        cfg,
		log:        log,
		marketData: marketData,
		outcomes:   outcomes,
	}
}

// Reconcile scans unreconciled outcomes whose horizon may have elapsed and
// fills in realized prices. The horizon counts trading-day bars, not
// calendar days, so holidays and halts simply defer maturity to the next
// bar. A row that turns out to be reconciled already (by a concurrent
// pass) is counted as a conflict, never overwritten.
func (s *outcomeService) Reconcile(ctx context.Context, payload dto.OutcomeReconcilePayload) (*dto.ReconcileSummary, error) {
	horizon := payload.HorizonDays
	if horizon <= 0 {
		horizon = s.cfg.Outcome.HorizonDays
	}

	// Weekday cutoff is deliberately loose; maturity is decided per row
	// from the actual bar offsets below.
	maturedBefore := utils.AddTradingDays(utils.TimeNowET(), -horizon)
	pending, err := s.outcomes.FindPendingReconciliation(ctx, maturedBefore)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending outcomes: %w", err)
	}

	summary := &dto.ReconcileSummary{Scanned: len(pending)}
	for _, outcome := range pending {
		if !utils.ShouldContinue(ctx, s.log) {
			break
		}
		err := s.reconcileOne(ctx, &outcome, horizon)
		switch {
		case err == nil:
			summary.Reconciled++
		case errors.Is(err, common.ErrAlreadyReconciled):
			summary.Conflicts++
		case errors.Is(err, errNotMatured):
			// Horizon bar not available yet; the next pass picks it up.
		default:
			summary.Errored++
			s.log.WarnContext(ctx, "Failed to reconcile outcome",
				logger.StringField("symbol", outcome.StockCode),
				logger.Field("outcome_id", outcome.ID),
				logger.ErrorField(err))
		}
	}

	s.log.InfoContext(ctx, "Outcome reconciliation finished",
		logger.IntField("scanned", summary.Scanned),
		logger.IntField("reconciled", summary.Reconciled),
		logger.IntField("conflicts", summary.Conflicts),
		logger.IntField("errored", summary.Errored))
	return summary, nil
}

// AccuracyBySignal exposes the per-signal accuracy view.
func (s *outcomeService) AccuracyBySignal(ctx context.Context, since time.Time) ([]dto.AccuracyStat, error) {
	return s.outcomes.AccuracyBySignal(ctx, since)
}

var errNotMatured = errors.New("horizon bar not yet available")

// reconcileRange widens the history fetch with the row's age so the baseline
// bar always falls inside the window, even for rows left pending for months.
func reconcileRange(evaluatedAt time.Time) string {
	age := time.Since(evaluatedAt)
	switch {
	case age <= 60*24*time.Hour:
		return "3mo"
	case age <= 150*24*time.Hour:
		return "6mo"
	case age <= 330*24*time.Hour:
		return "1y"
	default:
		return "2y"
	}
}

func (s *outcomeService) reconcileOne(ctx context.Context, outcome *entity.ScreeningOutcome, defaultHorizon int) error {
	horizon := outcome.HorizonDays
	if horizon <= 0 {
		horizon = defaultHorizon
	}

	series, err := s.marketData.GetHistory(ctx, dto.GetStockDataParam{
		Symbol:   outcome.StockCode,
		Interval: "1d",
		Range:    reconcileRange(outcome.EvaluatedAt),
	})
	if err != nil {
		return err
	}

	// The baseline bar is the last one at or before the evaluation time;
	// the horizon bar sits exactly horizon bars after it.
	baseline := -1
	for i, bar := range series.Bars {
		if !bar.Date.After(outcome.EvaluatedAt) {
			baseline = i
		}
	}
	if baseline < 0 {
		return fmt.Errorf("%w: no bar at or before evaluation time", common.ErrDataUnavailable)
	}
	target := baseline + horizon
	if target >= len(series.Bars) {
		return errNotMatured
	}

	priceAfter := series.Bars[target].Close
	if outcome.Price <= 0 {
		return fmt.Errorf("outcome %d has non-positive entry price", outcome.ID)
	}
	realized := (priceAfter - outcome.Price) / outcome.Price * 100

	maxGain, maxLoss := 0.0, 0.0
	for _, bar := range series.Bars[baseline+1 : target+1] {
		if gain := (bar.High - outcome.Price) / outcome.Price * 100; gain > maxGain {
			maxGain = gain
		}
		if loss := (bar.Low - outcome.Price) / outcome.Price * 100; loss < maxLoss {
			maxLoss = loss
		}
	}

	return s.outcomes.Reconcile(ctx, outcome.ID, repository.ReconcileUpdate{
		PriceAfter:     priceAfter,
		RealizedReturn: realized,
		MaxGain:        maxGain,
		MaxLoss:        maxLoss,
		Hit:            realized >= s.cfg.Outcome.HitThreshold,
		ReconciledAt:   utils.TimeNowET(),
	})
}
