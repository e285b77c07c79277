package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/hyfhx/stock-screener/internal/entity"
	"github.com/hyfhx/stock-screener/internal/screener/config"
	"github.com/hyfhx/stock-screener/internal/screener/dto"
	"github.com/hyfhx/stock-screener/internal/screener/repository"
	"github.com/hyfhx/stock-screener/internal/screener/scoring"
	"github.com/hyfhx/stock-screener/internal/screener/signal"
	"github.com/hyfhx/stock-screener/pkg/common"
	"github.com/hyfhx/stock-screener/pkg/logger"
	"github.com/hyfhx/stock-screener/pkg/telegram"
	"github.com/hyfhx/stock-screener/pkg/utils"
)

const baselineRunWindow = 10

// PipelineService runs one screening batch over a symbol universe.
type PipelineService interface {
	Screen(ctx context.Context, payload dto.StockScreenerPayload) ([]scoring.Result, *dto.RunSummary, error)
}

type pipelineService struct {
	cfg        *config.Config
	log        *logger.Logger
	marketData repository.MarketDataRepository
	stocksRepo repository.StocksRepository
	outcomes   repository.ScreeningOutcomeRepository
	runs       repository.ScreeningRunRepository
	weights    repository.WeightTableRepository
	evaluator  *signal.Evaluator
	notifier   telegram.Notifier
}

// NewPipelineService creates the screening pipeline.
func NewPipelineService(
	cfg *config.Config,
	log *logger.Logger,
	marketData repository.MarketDataRepository,
	stocksRepo repository.StocksRepository,
	outcomes repository.ScreeningOutcomeRepository,
	runs repository.ScreeningRunRepository,
	weights repository.WeightTableRepository,
	notifier telegram.Notifier,
) PipelineService {
	return &pipelineService{
		cfg:        cfg,
		log:        log,
		marketData: marketData,
		stocksRepo: stocksRepo,
		outcomes:   outcomes,
		runs:       runs,
		weights:    weights,
		evaluator:  signal.NewEvaluator(cfg.Screening),
		notifier:   notifier,
	}
}

// Screen evaluates every symbol concurrently under a bounded worker pool,
// ranks qualifying results and records them. Per-symbol failures never fail
// the batch; hitting the run timeout still emits the results collected so
// far. An externally cancelled run records nothing.
func (s *pipelineService) Screen(ctx context.Context, payload dto.StockScreenerPayload) ([]scoring.Result, *dto.RunSummary, error) {
	symbols, err := s.resolveSymbols(ctx, payload)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve symbol universe: %w", err)
	}

	table, err := s.activeWeightTable(ctx)
	if err != nil {
		return nil, nil, err
	}

	run := &entity.ScreeningRun{
		ID:           uuid.NewString(),
		Status:       entity.RunStatusRunning,
		TotalSymbols: len(symbols),
		StartedAt:    utils.TimeNowET(),
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, nil, fmt.Errorf("failed to create screening run: %w", err)
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if s.cfg.Screening.RunTimeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, s.cfg.Screening.RunTimeout)
		defer cancel()
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		results   []scoring.Result
		evaluated int
		skipped   int
		errored   int
	)
	semaphore := make(chan struct{}, s.maxConcurrent())

	startedAt := time.Now()
	for _, symbol := range symbols {
		if !utils.ShouldContinue(runCtx, s.log) {
			break
		}
		symbol := symbol
		wg.Add(1)
		utils.GoSafe(func() {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			result, err := s.evaluateSymbol(runCtx, symbol, run.StartedAt, table, payload)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil && result != nil:
				evaluated++
				results = append(results, *result)
			case err == nil:
				// Evaluated but below the admission score.
				evaluated++
			case errors.Is(err, common.ErrInsufficientHistory), errors.Is(err, errAdmissionFiltered):
				skipped++
				s.log.DebugContext(runCtx, "Symbol skipped", logger.StringField("symbol", symbol), logger.ErrorField(err))
			default:
				errored++
				s.log.WarnContext(runCtx, "Symbol evaluation failed", logger.StringField("symbol", symbol), logger.ErrorField(err))
			}
		})
	}
	wg.Wait()

	duration := time.Since(startedAt)
	timedOut := runCtx.Err() != nil && ctx.Err() == nil

	// An external abort discards everything already collected; nothing is
	// committed mid-run.
	if ctx.Err() != nil {
		run.Status = entity.RunStatusFailed
		run.DurationMs = duration.Milliseconds()
		_ = s.runs.Update(context.WithoutCancel(ctx), run)
		return nil, nil, ctx.Err()
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Symbol < results[j].Symbol
	})
	topN := payload.TopN
	if topN <= 0 {
		topN = s.cfg.Screening.TopN
	}
	if topN > 0 && len(results) > topN {
		results = results[:topN]
	}

	summary := &dto.RunSummary{
		RunID:        run.ID,
		TotalSymbols: len(symbols),
		Evaluated:    evaluated,
		Skipped:      skipped,
		Errored:      errored,
		SignalsFound: len(results),
		Duration:     duration,
		TimedOut:     timedOut,
	}
	for _, r := range results {
		if r.Grade == scoring.GradeA {
			summary.HighScoreCount++
		}
	}

	if err := s.recordResults(ctx, run.ID, results); err != nil {
		return nil, nil, fmt.Errorf("failed to record screening results: %w", err)
	}

	run.Status = entity.RunStatusCompleted
	if timedOut {
		run.Status = entity.RunStatusPartial
		run.Warnings = append(run.Warnings, "run timeout reached, universe only partially evaluated")
	}
	if warn := s.checkDurationBaseline(ctx, run.ID, duration); warn != "" {
		run.Warnings = append(run.Warnings, warn)
	}
	run.Evaluated = evaluated
	run.Skipped = skipped
	run.Errored = errored
	run.SignalsFound = len(results)
	run.HighScoreCount = summary.HighScoreCount
	run.DurationMs = duration.Milliseconds()
	run.CompletedAt.Time = utils.TimeNowET()
	run.CompletedAt.Valid = true
	if err := s.runs.Update(ctx, run); err != nil {
		s.log.Error("Failed to update screening run", logger.ErrorField(err), logger.StringField("run_id", run.ID))
	}

	return results, summary, nil
}

// errAdmissionFiltered marks symbols rejected by the price band or
// liquidity floor before signal evaluation.
var errAdmissionFiltered = errors.New("symbol rejected by admission filters")

func (s *pipelineService) evaluateSymbol(ctx context.Context, symbol string, evaluatedAt time.Time, table scoring.WeightTable, payload dto.StockScreenerPayload) (*scoring.Result, error) {
	fetchCtx := ctx
	var cancel context.CancelFunc
	if s.cfg.Screening.FetchTimeout > 0 {
		fetchCtx, cancel = context.WithTimeout(ctx, s.cfg.Screening.FetchTimeout)
		defer cancel()
	}

	series, err := s.marketData.GetHistory(fetchCtx, dto.GetStockDataParam{
		Symbol:   symbol,
		Interval: payload.Interval,
		Range:    payload.Range,
	})
	if err != nil {
		return nil, err
	}

	price := series.LastClose()
	if price < s.cfg.Screening.MinPrice || (s.cfg.Screening.MaxPrice > 0 && price > s.cfg.Screening.MaxPrice) {
		return nil, errAdmissionFiltered
	}
	avgVolume := trailingAvgVolume(series, s.cfg.Screening.VolumeAvgWindow)
	if avgVolume < s.cfg.Screening.MinAvgVolume {
		return nil, errAdmissionFiltered
	}

	flags, err := s.evaluator.Evaluate(series)
	if err != nil {
		return nil, err
	}

	result := scoring.Score(symbol, evaluatedAt, flags, table)
	if result.Score < s.cfg.Screening.MinScore || result.Grade == "" {
		return nil, nil
	}

	result.Name = series.Name
	result.Price = price
	result.AvgVolume = avgVolume
	if n := len(series.Bars); n >= 2 {
		prev := series.Bars[n-2].Close
		if prev > 0 {
			result.ChangePercent = (price - prev) / prev * 100
		}
	}
	return &result, nil
}

func (s *pipelineService) resolveSymbols(ctx context.Context, payload dto.StockScreenerPayload) ([]string, error) {
	symbols := payload.Symbols
	if len(symbols) == 0 {
		stocks, err := s.stocksRepo.GetUniverse(ctx)
		if err != nil {
			return nil, err
		}
		for _, stock := range stocks {
			symbols = append(symbols, stock.Code)
		}
	}
	if payload.Limit > 0 && len(symbols) > payload.Limit {
		symbols = symbols[:payload.Limit]
	}
	return symbols, nil
}

// activeWeightTable loads the committed table, falling back to the
// configured seed before any version has been committed.
func (s *pipelineService) activeWeightTable(ctx context.Context) (scoring.WeightTable, error) {
	version, err := s.weights.GetActive(ctx)
	if errors.Is(err, common.ErrNoActiveWeightTable) {
		return seedWeightTable(s.cfg.WeightsSeed), nil
	}
	if err != nil {
		return scoring.WeightTable{}, fmt.Errorf("failed to load weight table: %w", err)
	}
	return weightTableFromEntity(version)
}

func (s *pipelineService) recordResults(ctx context.Context, runID string, results []scoring.Result) error {
	if len(results) == 0 {
		return nil
	}
	outcomes := make([]entity.ScreeningOutcome, 0, len(results))
	for _, r := range results {
		breakdown, err := json.Marshal(r.Breakdown)
		if err != nil {
			return err
		}
		outcomes = append(outcomes, entity.ScreeningOutcome{
			RunID:         runID,
			StockCode:     r.Symbol,
			EvaluatedAt:   r.EvaluatedAt,
			Price:         r.Price,
			ChangePercent: r.ChangePercent,
			AvgVolume:     r.AvgVolume,
			Score:         r.Score,
			Grade:         r.Grade,
			Signals:       datatypes.JSON(breakdown),
			WeightVersion: r.WeightVersion,
			HorizonDays:   s.cfg.Outcome.HorizonDays,
		})
	}
	inserted, err := s.outcomes.Record(ctx, outcomes)
	if err != nil {
		return err
	}
	if inserted < len(outcomes) {
		s.log.Info("Some results were already recorded",
			logger.IntField("inserted", inserted), logger.IntField("total", len(outcomes)))
	}
	return nil
}

// checkDurationBaseline alerts when the run took longer than the configured
// multiple of the recent-run average. The alert is fire-and-forget; the
// returned warning is stored on the run record.
func (s *pipelineService) checkDurationBaseline(ctx context.Context, runID string, duration time.Duration) string {
	ratio := s.cfg.Screening.DurationAlertRatio
	if ratio <= 0 {
		return ""
	}
	baseline, err := s.runs.BaselineDurationMs(ctx, baselineRunWindow)
	if err != nil {
		s.log.Error("Failed to load run duration baseline", logger.ErrorField(err))
		return ""
	}
	if baseline <= 0 || float64(duration.Milliseconds()) <= baseline*ratio {
		return ""
	}
	warn := fmt.Sprintf("run took %.1fs against a %.1fs baseline", duration.Seconds(), baseline/1000)
	if s.notifier != nil {
		msg := fmt.Sprintf("⚠️ *Screening run %s slow*\nDuration: %.1fs (baseline %.1fs)",
			runID, duration.Seconds(), baseline/1000)
		if err := s.notifier.SendMessage(msg); err != nil {
			s.log.Error("Failed to send duration alert", logger.ErrorField(err))
		}
	}
	return warn
}

func (s *pipelineService) maxConcurrent() int {
	if s.cfg.Screening.MaxConcurrentSymbols > 0 {
		return s.cfg.Screening.MaxConcurrentSymbols
	}
	return 10
}

func trailingAvgVolume(series *dto.PriceSeries, window int) float64 {
	volumes := series.Volumes()
	if len(volumes) == 0 {
		return 0
	}
	if window <= 0 || window > len(volumes) {
		window = len(volumes)
	}
	var sum float64
	for _, v := range volumes[len(volumes)-window:] {
		sum += v
	}
	return sum / float64(window)
}

// seedWeightTable builds version 0 from the configured seed weights.
func seedWeightTable(seed config.WeightsSeed) scoring.WeightTable {
	weights := make(map[signal.Flag]float64, len(seed))
	for name, w := range seed {
		weights[signal.Flag(name)] = w
	}
	return scoring.WeightTable{Version: 0, Weights: weights}
}

// weightTableFromEntity decodes a stored version into a scoring table.
func weightTableFromEntity(version *entity.WeightTableVersion) (scoring.WeightTable, error) {
	var raw map[string]float64
	if err := json.Unmarshal(version.Weights, &raw); err != nil {
		return scoring.WeightTable{}, fmt.Errorf("failed to decode weight table %d: %w", version.ID, err)
	}
	weights := make(map[signal.Flag]float64, len(raw))
	for name, w := range raw {
		weights[signal.Flag(name)] = w
	}
	return scoring.WeightTable{Version: version.ID, Weights: weights}, nil
}
