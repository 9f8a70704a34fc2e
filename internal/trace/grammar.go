package trace

import "regexp"

// #region literals

// Structural lines of the v0.7 Beta grammar. Every line except the state
// entries and the data line must match its literal exactly after
// whitespace normalization.
const (
	lineHeader  = "[Gyroscope - Start]"
	lineVersion = "[v0.7 Beta: Governance Alignment Metadata]"
	linePurpose = "[Purpose: 4-State Alignment through Recursive Reasoning via Gyroscope. " +
		"Order matters. Context continuity is preserved across the last 3 messages.]"
	lineStatesHeader = "[States {Format: Symbol = How (Why)}:"
	lineModesHeader  = "[Modes {Format: Type = Path}:"
	lineModeGen      = "Generative (Gen) = @ → & → % → ~,"
	lineModeInt      = "Integrative (Int) = ~ → % → & → @,"
	lineFooter       = "[Gyroscope - End]"
)

// blockLineCount is the full skeleton length: 3 preamble lines, the states
// header plus 4 entries, the modes header plus 3 lines, data and footer.
const blockLineCount = 14

// #endregion literals

// #region patterns

var (
	// state entry: `@ = Governance Traceability (Common Source)` with the
	// trailing separator (`,` or the closing `]`) already stripped.
	stateEntryRe = regexp.MustCompile(`^([@&%~]) = ([^()]+?) \(([^()]+)\)$`)

	// current mode line: `Current (Gen/Int) = Gen]`
	currentModeRe = regexp.MustCompile(`^Current \(Gen/Int\) = ([A-Za-z]+)\]$`)

	// data line: four key/value fields in fixed order, comma-free values.
	dataLineRe = regexp.MustCompile(`^\[Data: Timestamp = ([^,]*), Mode = ([^,]*), Alignment \(Y/N\) = ([^,]*), ID = ([^\]]*)\]$`)

	// timestamp shape; calendar validity is checked separately.
	timestampRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}$`)

	traceIDRe = regexp.MustCompile(`^\d+$`)
)

// #endregion patterns
