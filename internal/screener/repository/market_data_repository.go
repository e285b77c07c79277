package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/hyfhx/stock-screener/internal/screener/config"
	"github.com/hyfhx/stock-screener/internal/screener/dto"
	"github.com/hyfhx/stock-screener/pkg/common"
	"github.com/hyfhx/stock-screener/pkg/logger"
)

// MarketDataRepository fetches daily price history for a symbol.
type MarketDataRepository interface {
	GetHistory(ctx context.Context, param dto.GetStockDataParam) (*dto.PriceSeries, error)
}

type marketDataRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	seriesCache    *cache.Cache
}

// NewMarketDataRepository creates a Yahoo Finance chart API client with a
// per-minute rate limit and a short-lived series cache.
func NewMarketDataRepository(cfg *config.Config, log *logger.Logger) MarketDataRepository {
	requestsPerMinute := cfg.MarketData.MaxRequestPerMinute
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	secondsPerRequest := time.Minute / time.Duration(requestsPerMinute)
	cacheTTL := cfg.MarketData.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &marketDataRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		seriesCache:    cache.New(cacheTTL, 2*cacheTTL),
	}
}

// GetHistory fetches the daily bar history for one symbol. An empty or
// error-bearing chart response maps to common.ErrDataUnavailable.
func (r *marketDataRepository) GetHistory(ctx context.Context, param dto.GetStockDataParam) (*dto.PriceSeries, error) {
	cacheKey := fmt.Sprintf("%s:%s:%s", param.Symbol, param.Interval, param.Range)
	if cached, found := r.seriesCache.Get(cacheKey); found {
		return cached.(*dto.PriceSeries), nil
	}

	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s&includeAdjustedClose=true",
		r.cfg.MarketData.BaseURL, url.PathEscape(param.Symbol), param.Interval, param.Range)

	body, err := r.sendRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var response dto.YahooChartResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode chart response: %w", err)
	}

	if response.Chart.Error != nil {
		r.log.DebugContext(ctx, "Chart API returned error",
			logger.StringField("symbol", param.Symbol),
			logger.StringField("code", response.Chart.Error.Code))
		return nil, fmt.Errorf("%w: %s", common.ErrDataUnavailable, response.Chart.Error.Code)
	}
	if len(response.Chart.Result) == 0 {
		return nil, common.ErrDataUnavailable
	}

	series := toPriceSeries(param.Symbol, &response.Chart.Result[0])
	if len(series.Bars) == 0 {
		return nil, common.ErrDataUnavailable
	}

	r.seriesCache.Set(cacheKey, series, cache.DefaultExpiration)
	return series, nil
}

func (r *marketDataRepository) sendRequest(ctx context.Context, reqURL string) ([]byte, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		r.log.ErrorContext(ctx, "Failed to wait for request limit", logger.ErrorField(err))
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send request to chart API", logger.ErrorField(err), logger.StringField("url", reqURL))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, common.ErrDataUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		r.log.ErrorContext(ctx, "Received non-OK response from chart API",
			logger.IntField("status_code", resp.StatusCode), logger.StringField("url", reqURL))
		return nil, fmt.Errorf("chart API returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// toPriceSeries flattens the chart result, dropping bars with missing
// close or volume so downstream indicator math never sees holes.
func toPriceSeries(symbol string, result *dto.YahooChartResult) *dto.PriceSeries {
	name := result.Meta.ShortName
	if name == "" {
		name = result.Meta.LongName
	}
	series := &dto.PriceSeries{Symbol: symbol, Name: name}

	if len(result.Indicators.Quote) == 0 {
		return series
	}
	quote := result.Indicators.Quote[0]

	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || i >= len(quote.Volume) ||
			quote.Close[i] == nil || quote.Volume[i] == nil {
			continue
		}
		bar := dto.PriceBar{
			Date:   time.Unix(ts, 0).UTC(),
			Close:  *quote.Close[i],
			Volume: *quote.Volume[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		series.Bars = append(series.Bars, bar)
	}
	return series
}
