package entity

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
)

// ScreeningOutcome is one persisted screening decision for one symbol,
// extended with the reconciliation sub-record that is filled in exactly once
// after the forward horizon has elapsed.
type ScreeningOutcome struct {
	ID            int64          `json:"id"`
	RunID         string         `gorm:"type:uuid" json:"run_id"`
	StockCode     string         `gorm:"not null;uniqueIndex:idx_outcome_symbol_eval" json:"stock_code"`
	EvaluatedAt   time.Time      `gorm:"not null;uniqueIndex:idx_outcome_symbol_eval" json:"evaluated_at"`
	Price         float64        `gorm:"not null" json:"price"`
	ChangePercent float64        `json:"change_percent"`
	AvgVolume     float64        `json:"avg_volume"`
	Score         float64        `gorm:"not null" json:"score"`
	Grade         string         `gorm:"not null" json:"grade"`
	Signals       datatypes.JSON `gorm:"type:jsonb" json:"signals"`
	WeightVersion uint           `json:"weight_version"`
	HorizonDays   int            `gorm:"not null" json:"horizon_days"`

	// Reconciliation fields, null until the horizon elapses.
	ReconciledAt   sql.NullTime    `json:"reconciled_at"`
	PriceAfter     sql.NullFloat64 `json:"price_after"`
	RealizedReturn sql.NullFloat64 `json:"realized_return"`
	MaxGain        sql.NullFloat64 `json:"max_gain"`
	MaxLoss        sql.NullFloat64 `json:"max_loss"`
	Hit            sql.NullBool    `json:"hit"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ScreeningOutcome) TableName() string {
	return "screening_outcomes"
}

// Reconciled reports whether the reconciliation sub-record has been written.
func (o *ScreeningOutcome) Reconciled() bool {
	return o.ReconciledAt.Valid
}
