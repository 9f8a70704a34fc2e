package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gyrogov/gyroscope-verifier/internal/scoring"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: recorded
// conversations with expected validation outcomes, and recorded score runs
// with expected summary numbers.
type Fixture struct {
	Description   string                `json:"description"`
	Conversations []FixtureConversation `json:"conversations"`
	Runs          []FixtureRun          `json:"runs"`
}

// FixtureConversation is one recorded conversation and its expectations.
// Expected blocks are matched in extraction order across all messages.
type FixtureConversation struct {
	ConversationID     string                     `json:"conversation_id"`
	Messages           []string                   `json:"messages"`
	ExpectedBlocks     []FixtureExpectedBlock     `json:"expected_blocks"`
	ExpectedSequencing *FixtureExpectedSequencing `json:"expected_sequencing,omitempty"`
}

// FixtureExpectedBlock is the expected outcome for one trace block.
type FixtureExpectedBlock struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors,omitempty"`
}

// FixtureExpectedSequencing mirrors trace.SequencingReport with JSON tags.
type FixtureExpectedSequencing struct {
	StrictlyIncreasing bool  `json:"strictly_increasing"`
	Gaps               []int `json:"gaps,omitempty"`
	Duplicates         []int `json:"duplicates,omitempty"`
}

// FixtureRun is one recorded score run and its expected summary.
type FixtureRun struct {
	Arm       string                 `json:"arm"`
	Challenge string                 `json:"challenge"`
	Cycles    []map[string]int       `json:"cycles"`
	GoalDrift bool                   `json:"goal_drift,omitempty"`
	Config    *FixtureScoringConfig  `json:"config,omitempty"`
	Expected  FixtureExpectedSummary `json:"expected"`
}

// FixtureWeights mirrors scoring.Weights with JSON tags.
type FixtureWeights struct {
	Structure      float64 `json:"structure"`
	Behavior       float64 `json:"behavior"`
	Specialization float64 `json:"specialization"`
}

// FixtureMaxima mirrors scoring.TierMaxima with JSON tags.
type FixtureMaxima struct {
	Structure      float64 `json:"structure"`
	Behavior       float64 `json:"behavior"`
	Specialization float64 `json:"specialization"`
}

// FixtureScoringConfig overrides parts of the default scoring config.
type FixtureScoringConfig struct {
	Weights               *FixtureWeights `json:"weights,omitempty"`
	Maxima                *FixtureMaxima  `json:"maxima,omitempty"`
	TheoreticalMaxHorizon float64         `json:"theoretical_max_horizon,omitempty"`
	ActiveSpecialization  []string        `json:"active_specialization,omitempty"`
}

// FixtureExpectedSummary lists the summary values a run must reproduce.
// Numeric fields are optional pointers so zero remains assertable.
type FixtureExpectedSummary struct {
	Overall     *float64 `json:"overall,omitempty"`
	Horizon     *float64 `json:"horizon,omitempty"`
	HorizonBand string   `json:"horizon_band,omitempty"`
	Pathologies []string `json:"pathologies,omitempty"`
	Tolerance   float64  `json:"tolerance,omitempty"` // defaults to 0.01
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToConfig converts fixture overrides to a full scoring config,
// starting from defaults.
func (c *FixtureScoringConfig) ToConfig() scoring.Config {
	cfg := scoring.DefaultConfig()
	if c == nil {
		return cfg
	}
	if c.Weights != nil {
		cfg.Weights = scoring.Weights{
			Structure:      c.Weights.Structure,
			Behavior:       c.Weights.Behavior,
			Specialization: c.Weights.Specialization,
		}
	}
	if c.Maxima != nil {
		cfg.Maxima = scoring.TierMaxima{
			Structure:      c.Maxima.Structure,
			Behavior:       c.Maxima.Behavior,
			Specialization: c.Maxima.Specialization,
		}
	}
	if c.TheoreticalMaxHorizon != 0 {
		cfg.TheoreticalMaxHorizon = c.TheoreticalMaxHorizon
	}
	if len(c.ActiveSpecialization) == 2 {
		cfg.ActiveSpecialization = [2]string{c.ActiveSpecialization[0], c.ActiveSpecialization[1]}
	}
	return cfg
}

// ToRecord converts a fixture run to a scoring input record.
func (r *FixtureRun) ToRecord() scoring.RunScoreRecord {
	record := scoring.RunScoreRecord{Challenge: scoring.ChallengeType(r.Challenge)}
	for _, cycle := range r.Cycles {
		set := make(scoring.CycleScoreSet, len(cycle))
		for name, score := range cycle {
			set[name] = score
		}
		record.Cycles = append(record.Cycles, set)
	}
	return record
}

// #endregion fixture-loader
