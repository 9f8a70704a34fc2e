package scoring

import "errors"

// #region tiers

// Tier identifies one of the three rubric levels.
type Tier string

const (
	TierStructure      Tier = "structure"
	TierBehavior       Tier = "behavior"
	TierSpecialization Tier = "specialization"
)

// #endregion tiers

// #region metric-registry

// Structure and behavior metric names are fixed across all challenge types.
var (
	structureMetrics = []string{"traceability", "variety", "accountability", "integrity"}
	behaviorMetrics  = []string{"truthfulness", "completeness", "groundedness", "literacy", "comparison", "preference"}
)

// ChallengeType selects which two specialization metrics are active.
type ChallengeType string

const (
	ChallengeFormal     ChallengeType = "formal"
	ChallengeNormative  ChallengeType = "normative"
	ChallengeProcedural ChallengeType = "procedural"
	ChallengeStrategic  ChallengeType = "strategic"
	ChallengeEpistemic  ChallengeType = "epistemic"
)

// specializationByChallenge maps each challenge type to its two metrics.
var specializationByChallenge = map[ChallengeType][2]string{
	ChallengeFormal:     {"physics", "math"},
	ChallengeNormative:  {"policy", "ethics"},
	ChallengeProcedural: {"code", "debugging"},
	ChallengeStrategic:  {"finance", "strategy"},
	ChallengeEpistemic:  {"knowledge", "communication"},
}

// SpecializationMetrics returns the two metric names active for a challenge
// type, or false if the challenge type is unknown.
func SpecializationMetrics(c ChallengeType) ([2]string, bool) {
	m, ok := specializationByChallenge[c]
	return m, ok
}

// #endregion metric-registry

// #region score-records

// CycleScoreSet holds one reasoning cycle's raw rubric scores, metric name
// to integer 1-10. Produced externally by a judge; never inferred here.
type CycleScoreSet map[string]int

// RunScoreRecord is the immutable per-run input: one CycleScoreSet per
// cycle, in cycle order, for a single challenge.
type RunScoreRecord struct {
	Challenge ChallengeType
	Cycles    []CycleScoreSet
}

// #endregion score-records

// #region config

// Weights are the tier weights applied to run-level tier percentages.
// They must sum to 1.0 within tolerance.
type Weights struct {
	Structure      float64
	Behavior       float64
	Specialization float64
}

// TierMaxima are the per-tier maximum possible points, scaled to the
// number of metrics in use for each tier.
type TierMaxima struct {
	Structure      float64
	Behavior       float64
	Specialization float64
}

// Config carries everything Summarize needs beyond the raw scores.
type Config struct {
	Weights               Weights
	Maxima                TierMaxima
	TheoreticalMaxHorizon float64 // in (0, 1]
	// ActiveSpecialization overrides the challenge type's metric pair when
	// both entries are set; normally left empty.
	ActiveSpecialization [2]string
}

// DefaultConfig returns the standard rubric configuration: 0.4/0.4/0.2
// weights and 10 points per metric in each tier.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{Structure: 0.4, Behavior: 0.4, Specialization: 0.2},
		Maxima: TierMaxima{
			Structure:      float64(len(structureMetrics) * 10),
			Behavior:       float64(len(behaviorMetrics) * 10),
			Specialization: 2 * 10,
		},
		TheoreticalMaxHorizon: 0.10,
	}
}

// #endregion config

// #region summary

// HorizonBand classifies a run's Balance Horizon against the theoretical
// maximum. Advisory metadata only; it never blocks a summary.
type HorizonBand string

const (
	HorizonValid        HorizonBand = "VALID"
	HorizonArtifactHigh HorizonBand = "ARTIFACT_HIGH"
	HorizonArtifactLow  HorizonBand = "ARTIFACT_LOW"
)

// PathologyFinding names one fired pathology rule.
type PathologyFinding struct {
	Name        string
	Description string
	Metrics     []string // metrics the rule reads
}

// RunSummary is fully derived from a RunScoreRecord and its Config;
// it owns no independent state and is recomputable at any time.
type RunSummary struct {
	TierScores       map[Tier]float64 // percentage per tier
	Overall          float64          // weighted percentage
	Horizon          float64          // mean retention ratio, first vs last cycle
	RetentionSamples int              // metrics with a defined retention ratio
	HorizonBand      HorizonBand
	Pathologies      []PathologyFinding
}

// #endregion summary

// #region errors

// Configuration and contract violations are the only fatal conditions:
// the engine refuses to produce a possibly-misleading summary.
var (
	ErrBadWeights    = errors.New("tier weights must sum to 1.0")
	ErrNoCycles      = errors.New("run has no cycles to summarize")
	ErrMissingMetric = errors.New("cycle is missing a required metric")
	ErrBadHorizonMax = errors.New("theoretical max horizon must be in (0, 1]")
	ErrBadChallenge  = errors.New("unknown challenge type")
)

// #endregion errors
