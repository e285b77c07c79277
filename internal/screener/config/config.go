package config

import (
	"time"

	"github.com/hyfhx/stock-screener/pkg/config"
)

// Screening holds the pipeline and signal-evaluation parameters. The policy
// constants (thresholds, windows, ratios) are deliberately configurable; see
// the seeded values in configs/config-screener.yaml.
type Screening struct {
	MaxConcurrentSymbols int           `mapstructure:"max_concurrent_symbols"`
	FetchTimeout         time.Duration `mapstructure:"fetch_timeout"`
	RunTimeout           time.Duration `mapstructure:"run_timeout"`
	TopN                 int           `mapstructure:"top_n"`

	MinPrice     float64 `mapstructure:"min_price"`
	MaxPrice     float64 `mapstructure:"max_price"`
	MinAvgVolume float64 `mapstructure:"min_avg_volume"`
	MinScore     float64 `mapstructure:"min_score"`

	MAShortPeriod    int     `mapstructure:"ma_short_period"`
	MALongPeriod     int     `mapstructure:"ma_long_period"`
	CrossLookback    int     `mapstructure:"cross_lookback"`
	RSIPeriod        int     `mapstructure:"rsi_period"`
	RSIOversold      float64 `mapstructure:"rsi_oversold"`
	RSIMomentumLow   float64 `mapstructure:"rsi_momentum_low"`
	RSIMomentumHigh  float64 `mapstructure:"rsi_momentum_high"`
	VolumeSurgeRatio float64 `mapstructure:"volume_surge_ratio"`
	VolumeAvgWindow  int     `mapstructure:"volume_avg_window"`
	TrendConfirmDays int     `mapstructure:"trend_confirm_days"`

	// Alert when a run takes longer than this multiple of the stored
	// baseline duration.
	DurationAlertRatio float64 `mapstructure:"duration_alert_ratio"`
}

// Outcome holds reconciliation parameters. HitThreshold is the realized
// return, in percent, at or above which a pick counts as a hit.
type Outcome struct {
	HorizonDays  int     `mapstructure:"horizon_days"`
	HitThreshold float64 `mapstructure:"hit_threshold"`
}

// Tuner holds the weight-tuning bounds.
type Tuner struct {
	MinSampleCount int     `mapstructure:"min_sample_count"`
	MaxStepRatio   float64 `mapstructure:"max_step_ratio"`
	FloorHitRate   float64 `mapstructure:"floor_hit_rate"`
	WeightFloor    float64 `mapstructure:"weight_floor"`
	// A single weight may not exceed this fraction of the table total.
	WeightCapRatio float64 `mapstructure:"weight_cap_ratio"`
}

// MarketData holds the market-data provider settings.
type MarketData struct {
	BaseURL             string        `mapstructure:"base_url"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	CacheTTL            time.Duration `mapstructure:"cache_ttl"`
}

// Executor holds stream-consumer settings.
type Executor struct {
	MaxConcurrentTasks              int           `mapstructure:"max_concurrent_tasks"`
	RedisStreamTaskExecutionTimeout time.Duration `mapstructure:"redis_stream_task_execution_timeout"`
}

// WeightsSeed is the initial weight table, used until a committed version
// exists in the store.
type WeightsSeed map[string]float64

// Config holds the full configuration for the screener service.
type Config struct {
	App         config.App      `mapstructure:"app"`
	Logger      config.Logger   `mapstructure:"logger"`
	Database    config.Database `mapstructure:"database"`
	Redis       config.Redis    `mapstructure:"redis"`
	Telegram    config.Telegram `mapstructure:"telegram"`
	Executor    Executor        `mapstructure:"executor"`
	Screening   Screening       `mapstructure:"screening"`
	Outcome     Outcome         `mapstructure:"outcome"`
	Tuner       Tuner           `mapstructure:"tuner"`
	MarketData  MarketData      `mapstructure:"market_data"`
	WeightsSeed WeightsSeed     `mapstructure:"weights_seed"`
}

// Load loads the screener configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
