package diagnostic

import (
	"fmt"
	"math"
	"sort"

	"github.com/gyrogov/gyroscope-verifier/internal/scoring"
)

// #region suite

// SummarizeSuite aggregates a suite of run verdicts: per-arm means and
// spread, the protocol-versus-baseline delta, pathology tallies, and
// rule-based recommendations. Pure batch function; the caller shards by
// conversation or challenge as it sees fit.
func SummarizeSuite(verdicts []RunVerdict) SuiteSummary {
	byArm := make(map[Arm][]RunVerdict)
	for _, v := range verdicts {
		byArm[v.Arm] = append(byArm[v.Arm], v)
	}

	summary := SuiteSummary{ByArm: make(map[Arm]ArmStats, len(byArm))}
	for arm, runs := range byArm {
		summary.ByArm[arm] = armStats(runs)
	}

	gyro, hasGyro := summary.ByArm[ArmGyroscope]
	free, hasFree := summary.ByArm[ArmFreestyle]
	if hasGyro && hasFree {
		summary.MeanDelta = gyro.MeanOverall - free.MeanOverall
		if free.MeanOverall != 0 {
			summary.ImprovementPercent = summary.MeanDelta / free.MeanOverall * 100
		}
	}

	summary.Recommendations = recommend(summary, hasGyro, hasFree)
	return summary
}

func armStats(runs []RunVerdict) ArmStats {
	stats := ArmStats{
		Runs:            len(runs),
		PathologyCounts: make(map[string]int),
	}
	if len(runs) == 0 {
		return stats
	}

	var sumOverall, sumStructure float64
	for _, v := range runs {
		sumOverall += v.Summary.Overall
		sumStructure += v.Summary.TierScores[scoring.TierStructure]
		for _, p := range v.Summary.Pathologies {
			stats.PathologyCounts[p.Name]++
		}
	}
	stats.MeanOverall = sumOverall / float64(len(runs))
	stats.MeanStructure = sumStructure / float64(len(runs))

	if len(runs) > 1 {
		var sq float64
		for _, v := range runs {
			d := v.Summary.Overall - stats.MeanOverall
			sq += d * d
		}
		stats.StdDevOverall = math.Sqrt(sq / float64(len(runs)-1))
	}
	return stats
}

// #endregion suite

// #region recommendations

func recommend(s SuiteSummary, hasGyro, hasFree bool) []string {
	var recs []string

	if hasGyro && hasFree {
		switch {
		case s.ImprovementPercent < 10:
			recs = append(recs, "protocol advantage below 10%: review trace integration before expanding")
		case s.ImprovementPercent > 25:
			recs = append(recs, "protocol advantage above 25%: consider expanding to further challenge types")
		}
	}

	for _, arm := range []Arm{ArmGyroscope, ArmFreestyle} {
		stats, ok := s.ByArm[arm]
		if !ok {
			continue
		}
		pathologies := make([]string, 0, len(stats.PathologyCounts))
		for name := range stats.PathologyCounts {
			pathologies = append(pathologies, name)
		}
		sort.Strings(pathologies)
		for _, name := range pathologies {
			recs = append(recs, fmt.Sprintf("address %s in %s runs (%d occurrences)", name, arm, stats.PathologyCounts[name]))
		}
	}

	if hasGyro && s.ByArm[ArmGyroscope].MeanStructure < 70 {
		recs = append(recs, "mean structure score below 70%: improve trace block adherence")
	}
	return recs
}

// #endregion recommendations
