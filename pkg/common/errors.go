package common

import "errors"

var (
	// ErrDataUnavailable indicates the market-data provider has no usable
	// series for a symbol (delisted, unknown, or empty response).
	ErrDataUnavailable = errors.New("market data unavailable")

	// ErrInsufficientHistory indicates a price series is shorter than the
	// longest indicator window and the symbol must be skipped, not scored.
	ErrInsufficientHistory = errors.New("insufficient price history")

	// ErrAlreadyReconciled indicates an outcome row was already reconciled
	// for its horizon; reconciliation is at-most-once per row.
	ErrAlreadyReconciled = errors.New("outcome already reconciled")

	// ErrNotEligible indicates a signal has too few reconciled samples to be
	// adjusted by the tuner.
	ErrNotEligible = errors.New("signal not eligible for tuning")

	// ErrNoActiveWeightTable indicates no committed weight table exists.
	ErrNoActiveWeightTable = errors.New("no active weight table")
)
