package dto

import "time"

// StockScreenerPayload is the job payload for a screening run. When Symbols
// is empty the universe is loaded from the stocks table.
type StockScreenerPayload struct {
	Symbols  []string `json:"symbols"`
	Limit    int      `json:"limit"`
	TopN     int      `json:"top_n"`
	Interval string   `json:"interval"`
	Range    string   `json:"range"`
}

// OutcomeReconcilePayload is the job payload for outcome reconciliation.
type OutcomeReconcilePayload struct {
	HorizonDays int `json:"horizon_days"`
}

// WeightTunerPayload is the job payload for a tuning cycle.
type WeightTunerPayload struct {
	SinceDays  int  `json:"since_days"`
	AutoCommit bool `json:"auto_commit"`
}

// RunSummary reports the outcome of one screening run.
type RunSummary struct {
	RunID          string        `json:"run_id"`
	TotalSymbols   int           `json:"total_symbols"`
	Evaluated      int           `json:"evaluated"`
	Skipped        int           `json:"skipped"`
	Errored        int           `json:"errored"`
	SignalsFound   int           `json:"signals_found"`
	HighScoreCount int           `json:"high_score_count"`
	Duration       time.Duration `json:"duration"`
	TimedOut       bool          `json:"timed_out"`
}

// ReconcileSummary reports the outcome of one reconciliation pass.
type ReconcileSummary struct {
	Scanned    int `json:"scanned"`
	Reconciled int `json:"reconciled"`
	Conflicts  int `json:"conflicts"`
	Errored    int `json:"errored"`
}

// AccuracyStat is the per-signal aggregate the tuner reads: a view over
// reconciled outcomes, never stored.
type AccuracyStat struct {
	Signal      string  `json:"signal"`
	SampleCount int     `json:"sample_count"`
	HitRate     float64 `json:"hit_rate"`
	AvgReturn   float64 `json:"avg_return"`
}

// WeightAdjustment is one entry of a tuning diff report.
type WeightAdjustment struct {
	Signal string  `json:"signal"`
	Old    float64 `json:"old"`
	New    float64 `json:"new"`
	Reason string  `json:"reason"`
}

// TuningReport is the result of one tuning cycle: the proposed table, what
// changed and why, and which signals were left untouched.
type TuningReport struct {
	ProposedVersion uint               `json:"proposed_version"`
	Committed       bool               `json:"committed"`
	OverallHitRate  float64            `json:"overall_hit_rate"`
	TotalSamples    int                `json:"total_samples"`
	Stats           []AccuracyStat     `json:"stats"`
	Applied         []WeightAdjustment `json:"applied"`
	Skipped         []WeightAdjustment `json:"skipped"`
	Warnings        []string           `json:"warnings"`
}
