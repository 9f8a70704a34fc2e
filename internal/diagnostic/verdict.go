package diagnostic

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/gyrogov/gyroscope-verifier/internal/scoring"
	"github.com/gyrogov/gyroscope-verifier/internal/trace"
)

// #region build-verdict

// BuildVerdict runs the full per-run pipeline: extract and validate every
// trace block in the run's messages, check ID sequencing over the resulting
// log, summarize the run's cycle scores, and merge both halves. Scoring
// configuration problems are the only error path; trace defects land in the
// verdict, never in the error.
func BuildVerdict(arm Arm, messages []string, run scoring.RunScoreRecord, cfg scoring.Config, goalDrift bool) (RunVerdict, error) {
	summary, err := scoring.Summarize(run, cfg, goalDrift)
	if err != nil {
		return RunVerdict{}, fmt.Errorf("summarize run: %w", err)
	}

	verdict := RunVerdict{
		RunID:     uuid.New().String(),
		Arm:       arm,
		Challenge: run.Challenge,
		Summary:   summary,
		TracePass: true,
	}

	var log trace.ConversationTraceLog
	for _, msg := range messages {
		for _, block := range trace.ExtractBlocks(msg) {
			res := trace.Validate(block)
			verdict.Validations = append(verdict.Validations, res)
			if !res.IsValid {
				verdict.TracePass = false
			}
			if res.Parsed != nil {
				log = append(log, *res.Parsed)
			}
		}
	}

	verdict.Sequencing = trace.CheckSequencing(log)
	if len(verdict.Sequencing.Duplicates) > 0 {
		verdict.TracePass = false
	}
	// Gaps stay warnings: human-authored integrative blocks are optional.

	if arm == ArmGyroscope && len(verdict.Validations) == 0 {
		verdict.TracePass = false
	}
	return verdict, nil
}

// #endregion build-verdict
