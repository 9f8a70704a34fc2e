package diagnostic

import (
	"github.com/gyrogov/gyroscope-verifier/internal/scoring"
	"github.com/gyrogov/gyroscope-verifier/internal/trace"
)

// #region arm

// Arm distinguishes the protocol-following runs from the baseline.
type Arm string

const (
	ArmGyroscope Arm = "gyroscope"
	ArmFreestyle Arm = "freestyle"
)

// #endregion arm

// #region run-verdict

// RunVerdict is the combined per-run outcome: the trace-validation side and
// the scoring side, merged. Both halves stay independently recomputable.
type RunVerdict struct {
	RunID     string
	Arm       Arm
	Challenge scoring.ChallengeType

	// Trace side. Empty for freestyle runs, which carry no blocks.
	Validations []trace.ValidationResult
	Sequencing  trace.SequencingReport
	TracePass   bool

	Summary scoring.RunSummary
}

// #endregion run-verdict

// #region suite-summary

// ArmStats aggregates one arm's runs.
type ArmStats struct {
	Runs            int
	MeanOverall     float64
	StdDevOverall   float64
	MeanStructure   float64
	PathologyCounts map[string]int
}

// SuiteSummary aggregates a full suite of runs across both arms.
type SuiteSummary struct {
	ByArm              map[Arm]ArmStats
	MeanDelta          float64 // gyroscope mean minus freestyle mean
	ImprovementPercent float64 // delta relative to the freestyle mean
	Recommendations    []string
}

// #endregion suite-summary
