package replay

import (
	"fmt"
	"math"
	"sort"

	"github.com/gyrogov/gyroscope-verifier/internal/scoring"
	"github.com/gyrogov/gyroscope-verifier/internal/trace"
)

// defaultTolerance bounds numeric comparisons when a fixture does not
// set its own.
const defaultTolerance = 0.01

// #region types

// Mismatch records one divergence between a fixture expectation and the
// replayed outcome.
type Mismatch struct {
	Where string
	Want  string
	Got   string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: want %s, got %s", m.Where, m.Want, m.Got)
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	Conversations int
	Blocks        int
	Runs          int
	Mismatches    []Mismatch
}

// Passed reports whether the fixture replayed without divergence.
func (s ReplaySummary) Passed() bool {
	return len(s.Mismatches) == 0
}

// #endregion types

// #region replay

// Replay validates every conversation and summarizes every run in the
// fixture, comparing outcomes against the recorded expectations. Operates
// entirely in-memory; scoring errors are reported as mismatches so one
// pass surfaces everything.
func Replay(f *Fixture) ReplaySummary {
	var summary ReplaySummary

	for _, conv := range f.Conversations {
		summary.Conversations++
		summary.Blocks += replayConversation(conv, &summary)
	}
	for i, run := range f.Runs {
		summary.Runs++
		replayRun(i, run, &summary)
	}
	return summary
}

func replayConversation(conv FixtureConversation, summary *ReplaySummary) int {
	var results []trace.ValidationResult
	var log trace.ConversationTraceLog
	for _, msg := range conv.Messages {
		for _, block := range trace.ExtractBlocks(msg) {
			res := trace.Validate(block)
			results = append(results, res)
			if res.Parsed != nil {
				log = append(log, *res.Parsed)
			}
		}
	}

	where := fmt.Sprintf("conversation %s", conv.ConversationID)
	if len(results) != len(conv.ExpectedBlocks) {
		summary.Mismatches = append(summary.Mismatches, Mismatch{
			Where: where,
			Want:  fmt.Sprintf("%d blocks", len(conv.ExpectedBlocks)),
			Got:   fmt.Sprintf("%d blocks", len(results)),
		})
		return len(results)
	}

	for i, expected := range conv.ExpectedBlocks {
		got := results[i]
		blockWhere := fmt.Sprintf("%s block %d", where, i)
		if got.IsValid != expected.IsValid {
			summary.Mismatches = append(summary.Mismatches, Mismatch{
				Where: blockWhere,
				Want:  fmt.Sprintf("is_valid=%v", expected.IsValid),
				Got:   fmt.Sprintf("is_valid=%v (%v)", got.IsValid, got.Errors),
			})
		}
		if !sameCodes(expected.Errors, got.Errors) {
			summary.Mismatches = append(summary.Mismatches, Mismatch{
				Where: blockWhere,
				Want:  fmt.Sprintf("errors=%v", expected.Errors),
				Got:   fmt.Sprintf("errors=%v", got.Errors),
			})
		}
	}

	if conv.ExpectedSequencing != nil {
		report := trace.CheckSequencing(log)
		expected := conv.ExpectedSequencing
		if report.StrictlyIncreasing != expected.StrictlyIncreasing ||
			!sameInts(report.Gaps, expected.Gaps) ||
			!sameInts(report.Duplicates, expected.Duplicates) {
			summary.Mismatches = append(summary.Mismatches, Mismatch{
				Where: where + " sequencing",
				Want:  fmt.Sprintf("%+v", *expected),
				Got:   fmt.Sprintf("%+v", report),
			})
		}
	}
	return len(results)
}

func replayRun(idx int, run FixtureRun, summary *ReplaySummary) {
	where := fmt.Sprintf("run %d (%s/%s)", idx, run.Arm, run.Challenge)

	got, err := scoring.Summarize(run.ToRecord(), run.Config.ToConfig(), run.GoalDrift)
	if err != nil {
		summary.Mismatches = append(summary.Mismatches, Mismatch{
			Where: where,
			Want:  "a summary",
			Got:   fmt.Sprintf("error: %v", err),
		})
		return
	}

	tol := run.Expected.Tolerance
	if tol == 0 {
		tol = defaultTolerance
	}

	if run.Expected.Overall != nil && math.Abs(got.Overall-*run.Expected.Overall) > tol {
		summary.Mismatches = append(summary.Mismatches, Mismatch{
			Where: where,
			Want:  fmt.Sprintf("overall %.4f", *run.Expected.Overall),
			Got:   fmt.Sprintf("overall %.4f", got.Overall),
		})
	}
	if run.Expected.Horizon != nil && math.Abs(got.Horizon-*run.Expected.Horizon) > tol {
		summary.Mismatches = append(summary.Mismatches, Mismatch{
			Where: where,
			Want:  fmt.Sprintf("horizon %.4f", *run.Expected.Horizon),
			Got:   fmt.Sprintf("horizon %.4f", got.Horizon),
		})
	}
	if run.Expected.HorizonBand != "" && string(got.HorizonBand) != run.Expected.HorizonBand {
		summary.Mismatches = append(summary.Mismatches, Mismatch{
			Where: where,
			Want:  "band " + run.Expected.HorizonBand,
			Got:   "band " + string(got.HorizonBand),
		})
	}
	if run.Expected.Pathologies != nil {
		var names []string
		for _, p := range got.Pathologies {
			names = append(names, p.Name)
		}
		if !sameCodesStr(run.Expected.Pathologies, names) {
			summary.Mismatches = append(summary.Mismatches, Mismatch{
				Where: where,
				Want:  fmt.Sprintf("pathologies %v", run.Expected.Pathologies),
				Got:   fmt.Sprintf("pathologies %v", names),
			})
		}
	}
}

// #endregion replay

// #region helpers

// sameCodes compares an expected string list against error codes,
// order-insensitively.
func sameCodes(want []string, got []trace.ErrorCode) bool {
	gotStr := make([]string, 0, len(got))
	for _, c := range got {
		gotStr = append(gotStr, string(c))
	}
	return sameCodesStr(want, gotStr)
}

func sameCodesStr(want, got []string) bool {
	if len(want) != len(got) {
		return false
	}
	w := append([]string(nil), want...)
	g := append([]string(nil), got...)
	sort.Strings(w)
	sort.Strings(g)
	for i := range w {
		if w[i] != g[i] {
			return false
		}
	}
	return true
}

func sameInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// #endregion helpers
