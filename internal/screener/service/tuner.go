package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"

	"github.com/hyfhx/stock-screener/internal/entity"
	"github.com/hyfhx/stock-screener/internal/screener/config"
	"github.com/hyfhx/stock-screener/internal/screener/dto"
	"github.com/hyfhx/stock-screener/internal/screener/repository"
	"github.com/hyfhx/stock-screener/internal/screener/scoring"
	"github.com/hyfhx/stock-screener/internal/screener/signal"
	"github.com/hyfhx/stock-screener/pkg/common"
	"github.com/hyfhx/stock-screener/pkg/logger"
	"github.com/hyfhx/stock-screener/pkg/utils"
)

const defaultTuningWindowDays = 30

// TunerService adjusts signal weights from realized accuracy. Tuning only
// ever proposes a new inactive version; a separate commit flips the active
// pointer, so a bad proposal is never live by accident.
type TunerService interface {
	Tune(ctx context.Context, payload dto.WeightTunerPayload) (*dto.TuningReport, error)
	Commit(ctx context.Context, versionID uint) error
}

type tunerService struct {
	cfg      *config.Config
	log      *logger.Logger
	outcomes repository.ScreeningOutcomeRepository
	weights  repository.WeightTableRepository
}

func NewTunerService(
	cfg *config.Config,
	log *logger.Logger,
	outcomes repository.ScreeningOutcomeRepository,
	weights repository.WeightTableRepository,
) TunerService {
	return &tunerService{cfg: cfg, log: log, outcomes: outcomes, weights: weights}
}

// Tune computes per-signal accuracy over the window and proposes a bounded
// adjustment to each eligible weight. Signals with too few reconciled
// samples keep their current weight untouched. Every adjustment is clamped
// to the configured step, floor and cap, so one noisy week can never swing
// the table.
func (s *tunerService) Tune(ctx context.Context, payload dto.WeightTunerPayload) (*dto.TuningReport, error) {
	sinceDays := payload.SinceDays
	if sinceDays <= 0 {
		sinceDays = defaultTuningWindowDays
	}
	since := utils.TimeNowET().AddDate(0, 0, -sinceDays)

	stats, err := s.outcomes.AccuracyBySignal(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load accuracy stats: %w", err)
	}

	current, err := s.currentTable(ctx)
	if err != nil {
		return nil, err
	}

	report := &dto.TuningReport{Stats: stats}
	statByFlag := make(map[signal.Flag]dto.AccuracyStat, len(stats))
	for _, st := range stats {
		statByFlag[signal.Flag(st.Signal)] = st
		report.TotalSamples += st.SampleCount
	}
	if report.TotalSamples < s.cfg.Tuner.MinSampleCount {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("only %d reconciled samples in the last %d days, tuning skipped", report.TotalSamples, sinceDays))
		s.log.InfoContext(ctx, "Tuning skipped, not enough samples",
			logger.IntField("samples", report.TotalSamples))
		return report, nil
	}
	report.OverallHitRate = overallHitRate(stats)

	cohortMean := eligibleMeanHitRate(stats, s.cfg.Tuner.MinSampleCount)
	proposed := make(map[signal.Flag]float64, len(current.Weights))
	for _, flag := range signal.All() {
		old := current.Weight(flag)
		st, ok := statByFlag[flag]
		if !ok || st.SampleCount < s.cfg.Tuner.MinSampleCount {
			proposed[flag] = old
			report.Skipped = append(report.Skipped, dto.WeightAdjustment{
				Signal: string(flag), Old: old, New: old,
				Reason: fmt.Sprintf("%s: %d of %d samples", common.ErrNotEligible, st.SampleCount, s.cfg.Tuner.MinSampleCount),
			})
			continue
		}

		next, reason := s.adjust(old, st.HitRate, cohortMean)
		proposed[flag] = next
		if next == old {
			report.Skipped = append(report.Skipped, dto.WeightAdjustment{
				Signal: string(flag), Old: old, New: old, Reason: reason,
			})
			continue
		}
		report.Applied = append(report.Applied, dto.WeightAdjustment{
			Signal: string(flag), Old: old, New: next, Reason: reason,
		})
	}

	s.applyCap(proposed, report)
	s.warnOverfitting(stats, report)

	if len(report.Applied) == 0 {
		s.log.InfoContext(ctx, "Tuning produced no adjustments")
		return report, nil
	}

	version, err := s.propose(ctx, proposed, report, sinceDays)
	if err != nil {
		return nil, err
	}
	report.ProposedVersion = version.ID

	if payload.AutoCommit {
		if err := s.Commit(ctx, version.ID); err != nil {
			return nil, err
		}
		report.Committed = true
	}

	s.log.InfoContext(ctx, "Tuning cycle finished",
		logger.Field("proposed_version", version.ID),
		logger.IntField("applied", len(report.Applied)),
		logger.Field("committed", report.Committed))
	return report, nil
}

// Commit activates a proposed version, deactivating the previous one.
func (s *tunerService) Commit(ctx context.Context, versionID uint) error {
	return s.weights.Commit(ctx, versionID)
}

// adjust moves one weight toward its accuracy signal. The step is bounded
// by MaxStepRatio of the current weight; a hit rate below the floor always
// pulls down regardless of the cohort mean.
func (s *tunerService) adjust(old, hitRate, cohortMean float64) (float64, string) {
	maxStep := old * s.cfg.Tuner.MaxStepRatio
	floor := s.cfg.Tuner.WeightFloor

	if hitRate < s.cfg.Tuner.FloorHitRate {
		next := old - maxStep
		if next < floor {
			next = floor
		}
		if next == old {
			return old, "already at weight floor"
		}
		return next, fmt.Sprintf("hit rate %.0f%% below floor %.0f%%", hitRate*100, s.cfg.Tuner.FloorHitRate*100)
	}

	delta := old * (hitRate - cohortMean)
	if delta > maxStep {
		delta = maxStep
	}
	if delta < -maxStep {
		delta = -maxStep
	}
	next := old + delta
	if next < floor {
		next = floor
	}
	if next == old {
		return old, "at cohort mean"
	}
	if delta > 0 {
		return next, fmt.Sprintf("hit rate %.0f%% above cohort mean %.0f%%", hitRate*100, cohortMean*100)
	}
	return next, fmt.Sprintf("hit rate %.0f%% below cohort mean %.0f%%", hitRate*100, cohortMean*100)
}

// applyCap clamps any weight exceeding WeightCapRatio of the table total.
func (s *tunerService) applyCap(weights map[signal.Flag]float64, report *dto.TuningReport) {
	capRatio := s.cfg.Tuner.WeightCapRatio
	if capRatio <= 0 {
		return
	}
	var total float64
	for _, w := range weights {
		total += w
	}
	limit := total * capRatio
	for flag, w := range weights {
		if w > limit {
			weights[flag] = limit
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("%s capped at %.1f (%.0f%% of table total)", flag, limit, capRatio*100))
		}
	}
}

// warnOverfitting flags accuracy numbers too clean to trust.
func (s *tunerService) warnOverfitting(stats []dto.AccuracyStat, report *dto.TuningReport) {
	for _, st := range stats {
		if st.SampleCount >= s.cfg.Tuner.MinSampleCount && st.HitRate >= 0.95 {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("%s hit rate %.0f%% on %d samples looks overfit, verify before committing", st.Signal, st.HitRate*100, st.SampleCount))
		}
	}
	if len(report.Applied) > len(signal.All())/2 {
		report.Warnings = append(report.Warnings,
			"more than half the weights moved in one cycle, consider a longer window")
	}
}

func (s *tunerService) propose(ctx context.Context, weights map[signal.Flag]float64, report *dto.TuningReport, sinceDays int) (*entity.WeightTableVersion, error) {
	raw := make(map[string]float64, len(weights))
	for flag, w := range weights {
		raw[string(flag)] = w
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	version := &entity.WeightTableVersion{
		Weights: datatypes.JSON(encoded),
		Active:  false,
		Notes:   fmt.Sprintf("tuned over %d days, %d samples, %d adjustments", sinceDays, report.TotalSamples, len(report.Applied)),
	}
	version.AccuracyRate.Float64 = report.OverallHitRate
	version.AccuracyRate.Valid = true
	if err := s.weights.Create(ctx, version); err != nil {
		return nil, fmt.Errorf("failed to store proposed weight table: %w", err)
	}
	return version, nil
}

func (s *tunerService) currentTable(ctx context.Context) (scoring.WeightTable, error) {
	version, err := s.weights.GetActive(ctx)
	if errors.Is(err, common.ErrNoActiveWeightTable) {
		return seedWeightTable(s.cfg.WeightsSeed), nil
	}
	if err != nil {
		return scoring.WeightTable{}, err
	}
	return weightTableFromEntity(version)
}

// overallHitRate is the sample-weighted mean across signals. Outcomes carry
// several flags each, so this overweights crowded signals slightly; good
// enough for a report headline.
func overallHitRate(stats []dto.AccuracyStat) float64 {
	var hits, total float64
	for _, st := range stats {
		hits += st.HitRate * float64(st.SampleCount)
		total += float64(st.SampleCount)
	}
	if total == 0 {
		return 0
	}
	return hits / total
}

func eligibleMeanHitRate(stats []dto.AccuracyStat, minSamples int) float64 {
	var sum float64
	var n int
	for _, st := range stats {
		if st.SampleCount >= minSamples {
			sum += st.HitRate
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
