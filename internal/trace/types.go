package trace

import "time"

// #region mode

// Mode identifies one of the two canonical reasoning orderings.
type Mode string

const (
	ModeGenerative  Mode = "Gen"
	ModeIntegrative Mode = "Int"
)

// Known reports whether m is one of the two recognized modes.
func (m Mode) Known() bool {
	return m == ModeGenerative || m == ModeIntegrative
}

// #endregion mode

// #region state

// State is one of the four reasoning-state symbols.
type State string

const (
	StateTraceability   State = "@"
	StateVariety        State = "&"
	StateAccountability State = "%"
	StateIntegrity      State = "~"
)

// stateInfo pairs a state's declared name with its policy label.
type stateInfo struct {
	Name   string
	Policy string
}

// stateTable holds the symbol/name/policy triples fixed by the grammar.
var stateTable = map[State]stateInfo{
	StateTraceability:   {Name: "Governance Traceability", Policy: "Common Source"},
	StateVariety:        {Name: "Information Variety", Policy: "Unity Non-Absolute"},
	StateAccountability: {Name: "Inference Accountability", Policy: "Opposition Non-Absolute"},
	StateIntegrity:      {Name: "Intelligence Integrity", Policy: "Balance Universal"},
}

// CanonicalOrder returns the state sequence a block in the given mode must
// declare: forward for Generative, reversed for Integrative.
func CanonicalOrder(m Mode) [4]State {
	if m == ModeIntegrative {
		return [4]State{StateIntegrity, StateAccountability, StateVariety, StateTraceability}
	}
	return [4]State{StateTraceability, StateVariety, StateAccountability, StateIntegrity}
}

// #endregion state

// #region trace-block

// TraceBlock is the immutable value parsed from one message's footer.
type TraceBlock struct {
	Mode          Mode
	StateSequence []State // declaration order as recorded in the block
	Timestamp     time.Time
	Alignment     bool // declared marker; recomputed independently during validation
	TraceID       int
}

// #endregion trace-block

// #region codes

// ErrorCode identifies a distinct validation failure.
type ErrorCode string

const (
	ErrMalformedStructure    ErrorCode = "MALFORMED_STRUCTURE"
	ErrInvalidStateSet       ErrorCode = "INVALID_STATE_SET"
	ErrInvalidMode           ErrorCode = "INVALID_MODE"
	ErrInvalidTimestamp      ErrorCode = "INVALID_TIMESTAMP"
	ErrInvalidAlignmentToken ErrorCode = "INVALID_ALIGNMENT_TOKEN"
	ErrInvalidID             ErrorCode = "INVALID_ID"
	ErrAlignmentInconsistent ErrorCode = "ALIGNMENT_INCONSISTENT"
)

// WarningCode identifies a non-fatal observation.
type WarningCode string

const (
	WarnIDGap WarningCode = "ID_GAP"
)

// #endregion codes

// #region validation-result

// ValidationResult is the complete, itemized outcome of validating one block.
// Malformed input never aborts the check list; every applicable code is present.
type ValidationResult struct {
	IsValid  bool
	Parsed   *TraceBlock
	Errors   []ErrorCode
	Warnings []WarningCode
	Details  []string // one human-readable line per recorded defect
}

// HasError reports whether the result contains the given code.
func (r ValidationResult) HasError(code ErrorCode) bool {
	for _, e := range r.Errors {
		if e == code {
			return true
		}
	}
	return false
}

// #endregion validation-result

// #region conversation-log

// ConversationTraceLog is the ordered sequence of blocks parsed from one
// conversation, in message order regardless of author.
type ConversationTraceLog []TraceBlock

// SequencingReport describes trace-ID continuity across a conversation.
// Duplicates are errors; gaps are warnings only, since human-authored
// integrative blocks are optional.
type SequencingReport struct {
	StrictlyIncreasing bool  // true only when IDs advance by exactly one
	Gaps               []int // IDs missing between adjacent blocks
	Duplicates         []int // IDs seen more than once
}

// #endregion conversation-log
