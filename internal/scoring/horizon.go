package scoring

// #region balance-horizon

// balanceHorizon measures start-to-end retention: for each metric the
// ratio of the final cycle's score to the initial cycle's score, averaged
// across metrics. Intermediate cycles never affect it. Edge rules are
// explicit: 0 → 0 counts as full decay (retention 0); 0 → nonzero is not a
// meaningful ratio and is excluded from the average entirely.
func balanceHorizon(first, last CycleScoreSet, metrics []string) (float64, int) {
	var sum float64
	samples := 0
	for _, name := range metrics {
		initial := first[name]
		final := last[name]
		switch {
		case initial > 0:
			sum += float64(final) / float64(initial)
			samples++
		case final == 0:
			// 0 → 0: retention is zero by definition.
			samples++
		}
	}
	if samples == 0 {
		return 0, 0
	}
	return sum / float64(samples), samples
}

// classifyHorizon bands a computed horizon against the theoretical
// maximum. Advisory only: an artifact band never blocks the summary.
func classifyHorizon(horizon, theoreticalMax float64) HorizonBand {
	switch {
	case horizon > theoreticalMax:
		return HorizonArtifactHigh
	case horizon < theoreticalMax/2:
		return HorizonArtifactLow
	default:
		return HorizonValid
	}
}

// #endregion balance-horizon
