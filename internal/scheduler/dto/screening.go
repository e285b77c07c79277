package dto

import (
	"encoding/json"
	"time"
)

// ScreeningResultResponse is one screening outcome in API responses,
// including the reconciliation fields once they exist.
type ScreeningResultResponse struct {
	ID             int64           `json:"id"`
	RunID          string          `json:"run_id"`
	StockCode      string          `json:"stock_code"`
	EvaluatedAt    time.Time       `json:"evaluated_at"`
	Price          float64         `json:"price"`
	ChangePercent  float64         `json:"change_percent"`
	Score          float64         `json:"score"`
	Grade          string          `json:"grade"`
	Signals        json.RawMessage `json:"signals" swaggertype:"object"`
	WeightVersion  uint            `json:"weight_version"`
	HorizonDays    int             `json:"horizon_days"`
	Reconciled     bool            `json:"reconciled"`
	PriceAfter     *float64        `json:"price_after,omitempty"`
	RealizedReturn *float64        `json:"realized_return,omitempty"`
	Hit            *bool           `json:"hit,omitempty"`
}

// SignalAccuracyResponse is one row of the per-signal accuracy view.
type SignalAccuracyResponse struct {
	Signal      string  `json:"signal"`
	SampleCount int     `json:"sample_count"`
	HitRate     float64 `json:"hit_rate"`
	AvgReturn   float64 `json:"avg_return"`
}

// WeightTableResponse is one weight table version in API responses.
type WeightTableResponse struct {
	ID           uint            `json:"id"`
	Weights      json.RawMessage `json:"weights" swaggertype:"object"`
	Active       bool            `json:"active"`
	AccuracyRate *float64        `json:"accuracy_rate,omitempty"`
	Notes        string          `json:"notes"`
	CreatedAt    time.Time       `json:"created_at"`
}
