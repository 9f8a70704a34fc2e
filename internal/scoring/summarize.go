package scoring

import (
	"fmt"
	"math"
)

// weightTolerance bounds the acceptable float drift when checking that the
// three tier weights sum to 1.0.
const weightTolerance = 1e-6

// #region summarize

// Summarize reduces one run's cycle scores to a RunSummary: per-tier
// normalized percentages averaged across cycles, the weighted overall
// score, the Balance Horizon with its advisory band, and the fired
// pathology set. goalDrift is the externally supplied goal-drift signal;
// it is merged into the pathology set, never computed here.
//
// The engine holds no state between calls; a RunSummary is recomputable
// from its inputs at any time.
func Summarize(run RunScoreRecord, cfg Config, goalDrift bool) (RunSummary, error) {
	if err := checkConfig(cfg); err != nil {
		return RunSummary{}, err
	}
	if len(run.Cycles) == 0 {
		return RunSummary{}, ErrNoCycles
	}

	spec := cfg.ActiveSpecialization
	if spec[0] == "" || spec[1] == "" {
		pair, ok := SpecializationMetrics(run.Challenge)
		if !ok {
			return RunSummary{}, fmt.Errorf("challenge %q: %w", run.Challenge, ErrBadChallenge)
		}
		spec = pair
	}

	tiers := []struct {
		tier    Tier
		metrics []string
		max     float64
	}{
		{TierStructure, structureMetrics, cfg.Maxima.Structure},
		{TierBehavior, behaviorMetrics, cfg.Maxima.Behavior},
		{TierSpecialization, spec[:], cfg.Maxima.Specialization},
	}

	// Steps A and B: per-cycle tier percentages, then the arithmetic mean
	// across cycles. Cycle position carries no weight.
	tierScores := make(map[Tier]float64, len(tiers))
	for _, t := range tiers {
		var sum float64
		for i, cycle := range run.Cycles {
			total, err := tierTotal(cycle, t.metrics, i)
			if err != nil {
				return RunSummary{}, err
			}
			sum += float64(total) / t.max * 100
		}
		tierScores[t.tier] = sum / float64(len(run.Cycles))
	}

	// Step C: weighted overall.
	overall := cfg.Weights.Structure*tierScores[TierStructure] +
		cfg.Weights.Behavior*tierScores[TierBehavior] +
		cfg.Weights.Specialization*tierScores[TierSpecialization]

	// Step D: Balance Horizon over first and last cycle only.
	allMetrics := make([]string, 0, len(structureMetrics)+len(behaviorMetrics)+2)
	allMetrics = append(allMetrics, structureMetrics...)
	allMetrics = append(allMetrics, behaviorMetrics...)
	allMetrics = append(allMetrics, spec[:]...)
	horizon, samples := balanceHorizon(run.Cycles[0], run.Cycles[len(run.Cycles)-1], allMetrics)

	// Step F: pathology rules over the run-level metric means, plus the
	// external goal-drift flag.
	findings := detectPathologies(metricMeans(run.Cycles, allMetrics))
	if goalDrift {
		findings = append(findings, goalMisgeneralizationFinding())
	}

	return RunSummary{
		TierScores:       tierScores,
		Overall:          overall,
		Horizon:          horizon,
		RetentionSamples: samples,
		HorizonBand:      classifyHorizon(horizon, cfg.TheoreticalMaxHorizon),
		Pathologies:      findings,
	}, nil
}

// #endregion summarize

// #region helpers

func checkConfig(cfg Config) error {
	sum := cfg.Weights.Structure + cfg.Weights.Behavior + cfg.Weights.Specialization
	if math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("weights sum to %v: %w", sum, ErrBadWeights)
	}
	if cfg.TheoreticalMaxHorizon <= 0 || cfg.TheoreticalMaxHorizon > 1 {
		return fmt.Errorf("got %v: %w", cfg.TheoreticalMaxHorizon, ErrBadHorizonMax)
	}
	return nil
}

// tierTotal sums one cycle's scores for the given metrics. A missing
// metric is a contract violation, never silently defaulted.
func tierTotal(cycle CycleScoreSet, metrics []string, cycleIdx int) (int, error) {
	total := 0
	for _, name := range metrics {
		score, ok := cycle[name]
		if !ok {
			return 0, fmt.Errorf("cycle %d metric %q: %w", cycleIdx, name, ErrMissingMetric)
		}
		total += score
	}
	return total, nil
}

// metricMeans computes the run-level mean per metric across all cycles.
// Callers have already verified every metric is present in every cycle.
func metricMeans(cycles []CycleScoreSet, metrics []string) map[string]float64 {
	means := make(map[string]float64, len(metrics))
	for _, name := range metrics {
		var sum float64
		for _, cycle := range cycles {
			sum += float64(cycle[name])
		}
		means[name] = sum / float64(len(cycles))
	}
	return means
}

// #endregion helpers
