package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hyfhx/stock-screener/internal/entity"
	"github.com/hyfhx/stock-screener/internal/screener/config"
	"github.com/hyfhx/stock-screener/internal/screener/dto"
	"github.com/hyfhx/stock-screener/internal/screener/repository"
	"github.com/hyfhx/stock-screener/pkg/common"
	"github.com/hyfhx/stock-screener/pkg/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	return log
}

func testConfig() *config.Config {
	return &config.Config{
		Screening: config.Screening{
			MaxConcurrentSymbols: 4,
			MinPrice:             1,
			MinAvgVolume:         1_000_000,
			MinScore:             40,
			MAShortPeriod:        20,
			MALongPeriod:         50,
			CrossLookback:        3,
			RSIPeriod:            14,
			RSIOversold:          30,
			RSIMomentumLow:       50,
			RSIMomentumHigh:      70,
			VolumeSurgeRatio:     1.8,
			VolumeAvgWindow:      20,
			TrendConfirmDays:     3,
		},
		Outcome: config.Outcome{HorizonDays: 7, HitThreshold: 3.0},
		Tuner: config.Tuner{
			MinSampleCount: 20,
			MaxStepRatio:   0.2,
			FloorHitRate:   0.35,
			WeightFloor:    5,
			WeightCapRatio: 0.5,
		},
		WeightsSeed: config.WeightsSeed{
			"ma_golden_cross":    30,
			"macd_golden_cross":  25,
			"rsi_bullish":       20,
			"volume_surge":       15,
			"price_breakout_52w": 20,
			"price_breakout_20d": 10,
			"trend_continuation": 15,
			"obv_confirm":        10,
		},
	}
}

type fakeMarketData struct {
	mu     sync.Mutex
	series map[string]*dto.PriceSeries
	errs   map[string]error
	delays map[string]time.Duration
	calls  []string
	params []dto.GetStockDataParam
}

func (f *fakeMarketData) GetHistory(ctx context.Context, param dto.GetStockDataParam) (*dto.PriceSeries, error) {
	f.mu.Lock()
	f.calls = append(f.calls, param.Symbol)
	f.params = append(f.params, param)
	f.mu.Unlock()
	if d, ok := f.delays[param.Symbol]; ok {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(d):
		}
	}
	if err, ok := f.errs[param.Symbol]; ok {
		return nil, err
	}
	if s, ok := f.series[param.Symbol]; ok {
		return s, nil
	}
	return nil, common.ErrDataUnavailable
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeNotifier) SendMessage(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, text)
	return nil
}

type fakeStocks struct {
	codes []string
}

func (f *fakeStocks) GetUniverse(context.Context) ([]entity.Stock, error) {
	stocks := make([]entity.Stock, len(f.codes))
	for i, code := range f.codes {
		stocks[i] = entity.Stock{Code: code, IsActive: true}
	}
	return stocks, nil
}

type fakeOutcomes struct {
	mu         sync.Mutex
	recorded   []entity.ScreeningOutcome
	pending    []entity.ScreeningOutcome
	reconciled map[int64]repository.ReconcileUpdate
	stats      []dto.AccuracyStat
}

func (f *fakeOutcomes) Record(_ context.Context, outcomes []entity.ScreeningOutcome) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recorded = append(f.recorded, outcomes...)
	return len(outcomes), nil
}

func (f *fakeOutcomes) FindPendingReconciliation(context.Context, time.Time) ([]entity.ScreeningOutcome, error) {
	return f.pending, nil
}

func (f *fakeOutcomes) Reconcile(_ context.Context, id int64, update repository.ReconcileUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reconciled == nil {
		f.reconciled = make(map[int64]repository.ReconcileUpdate)
	}
	if _, ok := f.reconciled[id]; ok {
		return common.ErrAlreadyReconciled
	}
	f.reconciled[id] = update
	return nil
}

func (f *fakeOutcomes) AccuracyBySignal(context.Context, time.Time) ([]dto.AccuracyStat, error) {
	return f.stats, nil
}

func (f *fakeOutcomes) FindByDateRange(context.Context, time.Time, time.Time) ([]entity.ScreeningOutcome, error) {
	return f.recorded, nil
}

type fakeRuns struct {
	mu       sync.Mutex
	created  *entity.ScreeningRun
	updated  *entity.ScreeningRun
	baseline float64
}

func (f *fakeRuns) Create(_ context.Context, run *entity.ScreeningRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *run
	f.created = &copied
	return nil
}

func (f *fakeRuns) Update(_ context.Context, run *entity.ScreeningRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *run
	f.updated = &copied
	return nil
}

func (f *fakeRuns) BaselineDurationMs(context.Context, int) (float64, error) {
	return f.baseline, nil
}

type fakeWeights struct {
	mu        sync.Mutex
	active    *entity.WeightTableVersion
	created   []*entity.WeightTableVersion
	committed []uint
	nextID    uint
}

func (f *fakeWeights) GetActive(context.Context) (*entity.WeightTableVersion, error) {
	if f.active == nil {
		return nil, common.ErrNoActiveWeightTable
	}
	return f.active, nil
}

func (f *fakeWeights) Create(_ context.Context, version *entity.WeightTableVersion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	version.ID = f.nextID
	f.created = append(f.created, version)
	return nil
}

func (f *fakeWeights) Commit(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.committed = append(f.committed, id)
	return nil
}

func (f *fakeWeights) History(context.Context, int) ([]entity.WeightTableVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.WeightTableVersion, 0, len(f.created))
	for _, v := range f.created {
		out = append(out, *v)
	}
	return out, nil
}
