package trace

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// #region validate

// Validate checks a candidate trace block against the fixed grammar and its
// semantic rules. All checks run; errors accumulate rather than
// short-circuiting, so a single call surfaces the complete defect list.
// Malformed input never panics and never returns a partial result.
func Validate(text string) ValidationResult {
	return ValidateObserved(text, nil)
}

// ValidateObserved is Validate with an optional turn-sequence annotation:
// when observed is non-nil it is treated as the order the states actually
// occurred in and takes precedence over the block's declaration order when
// the alignment marker is recomputed. When observed is nil the declaration
// order itself is the recorded sequence; no order is ever assumed.
func ValidateObserved(text string, observed []State) ValidationResult {
	p := &blockParse{
		lines:   splitLines(text),
		seenErr: make(map[ErrorCode]bool),
	}

	idx := 0
	idx = p.expect(idx, lineHeader, "header")
	idx = p.expect(idx, lineVersion, "version")
	idx = p.expect(idx, linePurpose, "purpose")
	idx = p.expect(idx, lineStatesHeader, "states header")

	seq, setOK, idx := p.parseStates(idx)

	idx = p.expect(idx, lineModesHeader, "modes header")
	idx = p.expect(idx, lineModeGen, "generative mode path")
	idx = p.expect(idx, lineModeInt, "integrative mode path")

	currentMode, idx := p.parseCurrentMode(idx)
	data, dataOK, idx := p.parseData(idx)
	idx = p.expect(idx, lineFooter, "footer")

	if idx < len(p.lines) {
		p.fail(ErrMalformedStructure, fmt.Sprintf("unexpected content after footer: %q", p.lines[idx]))
	}

	if currentMode != "" {
		if !Mode(currentMode).Known() {
			p.fail(ErrInvalidMode, fmt.Sprintf("current mode %q is not Gen or Int", currentMode))
		} else if dataOK && data.modeOK && Mode(currentMode) != data.mode {
			p.fail(ErrInvalidMode, fmt.Sprintf("current mode %q disagrees with data mode %q", currentMode, data.mode))
		}
	}

	// Recompute the alignment marker instead of trusting the declaration.
	// A block is aligned iff its recorded sequence equals the canonical
	// order for its mode; anything less is misaligned, never partial.
	if dataOK && data.alignOK {
		recomputed := false
		if data.modeOK && setOK {
			recorded := seq
			if observed != nil {
				recorded = observed
			}
			recomputed = sequenceEquals(recorded, CanonicalOrder(data.mode))
		}
		if data.alignment != recomputed {
			p.fail(ErrAlignmentInconsistent, fmt.Sprintf(
				"declared alignment %v but recomputed %v for mode %q", data.alignment, recomputed, data.mode))
		}
	}

	if dataOK && data.fieldsOK() {
		p.res.Parsed = &TraceBlock{
			Mode:          data.mode,
			StateSequence: seq,
			Timestamp:     data.timestamp,
			Alignment:     data.alignment,
			TraceID:       data.traceID,
		}
	}

	p.res.IsValid = len(p.res.Errors) == 0
	return p.res
}

// #endregion validate

// #region parse-state

type blockParse struct {
	lines   []string
	res     ValidationResult
	seenErr map[ErrorCode]bool
}

// fail records one defect: the code once, the detail always.
func (p *blockParse) fail(code ErrorCode, detail string) {
	if !p.seenErr[code] {
		p.seenErr[code] = true
		p.res.Errors = append(p.res.Errors, code)
	}
	p.res.Details = append(p.res.Details, fmt.Sprintf("%s: %s", code, detail))
}

// expect matches one structural line against its exact literal,
// whitespace-normalized. Returns the next line index.
func (p *blockParse) expect(idx int, want, label string) int {
	if idx >= len(p.lines) {
		p.fail(ErrMalformedStructure, fmt.Sprintf("missing %s line", label))
		return idx
	}
	if normalizeSpace(p.lines[idx]) != normalizeSpace(want) {
		p.fail(ErrMalformedStructure, fmt.Sprintf("bad %s line: %q", label, p.lines[idx]))
	}
	return idx + 1
}

// parseStates consumes the state declaration entries that follow the states
// header. Entries end with "," except the last, which carries the closing
// "]". Returns the declaration-order sequence and whether the set is
// complete, recognized, and duplicate-free.
func (p *blockParse) parseStates(idx int) ([]State, bool, int) {
	var seq []State
	setOK := true
	seen := make(map[State]bool)
	entries := 0

	for idx < len(p.lines) && entries < 8 {
		line := p.lines[idx]
		if strings.HasPrefix(line, "[Modes") {
			break
		}
		idx++
		entries++

		closing := strings.HasSuffix(line, "]")
		entry := strings.TrimSuffix(strings.TrimSuffix(line, "]"), ",")
		m := stateEntryRe.FindStringSubmatch(strings.TrimSpace(entry))
		if m == nil {
			p.fail(ErrInvalidStateSet, fmt.Sprintf("unrecognized state entry: %q", line))
			setOK = false
		} else {
			sym := State(m[1])
			info, known := stateTable[sym]
			switch {
			case !known:
				p.fail(ErrInvalidStateSet, fmt.Sprintf("unknown state symbol %q", m[1]))
				setOK = false
			case m[2] != info.Name:
				p.fail(ErrInvalidStateSet, fmt.Sprintf("state %s: expected name %q, got %q", sym, info.Name, m[2]))
				setOK = false
			case m[3] != info.Policy:
				p.fail(ErrInvalidStateSet, fmt.Sprintf("state %s: expected policy %q, got %q", sym, info.Policy, m[3]))
				setOK = false
			case seen[sym]:
				p.fail(ErrInvalidStateSet, fmt.Sprintf("duplicate state %s", sym))
				setOK = false
			default:
				seen[sym] = true
				seq = append(seq, sym)
			}
		}
		if closing {
			break
		}
	}

	if entries != 4 {
		p.fail(ErrInvalidStateSet, fmt.Sprintf("expected 4 state entries, found %d", entries))
		setOK = false
	}
	return seq, setOK && len(seq) == 4, idx
}

// parseCurrentMode reads the `Current (Gen/Int) = <mode>]` line. The mode
// token itself is validated later against the data line.
func (p *blockParse) parseCurrentMode(idx int) (string, int) {
	if idx >= len(p.lines) {
		p.fail(ErrMalformedStructure, "missing current mode line")
		return "", idx
	}
	m := currentModeRe.FindStringSubmatch(p.lines[idx])
	if m == nil {
		p.fail(ErrMalformedStructure, fmt.Sprintf("bad current mode line: %q", p.lines[idx]))
		return "", idx + 1
	}
	return m[1], idx + 1
}

// dataFields holds the four data-line fields with per-field validity.
type dataFields struct {
	timestamp time.Time
	tsOK      bool
	mode      Mode
	modeOK    bool
	alignment bool
	alignOK   bool
	traceID   int
	idOK      bool
}

func (d dataFields) fieldsOK() bool {
	return d.tsOK && d.modeOK && d.alignOK && d.idOK
}

// parseData matches the data line shape and validates each field,
// recording one distinct error code per bad field.
func (p *blockParse) parseData(idx int) (dataFields, bool, int) {
	var d dataFields
	if idx >= len(p.lines) {
		p.fail(ErrMalformedStructure, "missing data line")
		return d, false, idx
	}
	m := dataLineRe.FindStringSubmatch(p.lines[idx])
	if m == nil {
		p.fail(ErrMalformedStructure, fmt.Sprintf("bad data line: %q", p.lines[idx]))
		return d, false, idx + 1
	}
	ts, mode, align, id := m[1], m[2], m[3], m[4]

	if !timestampRe.MatchString(ts) {
		p.fail(ErrInvalidTimestamp, fmt.Sprintf("timestamp %q does not match YYYY-MM-DDTHH:MM", ts))
	} else if parsed, err := time.Parse("2006-01-02T15:04", ts); err != nil {
		p.fail(ErrInvalidTimestamp, fmt.Sprintf("timestamp %q is not a valid calendar time", ts))
	} else {
		d.timestamp = parsed
		d.tsOK = true
	}

	d.mode = Mode(mode)
	if !d.mode.Known() {
		p.fail(ErrInvalidMode, fmt.Sprintf("mode %q (expected Gen or Int)", mode))
	} else {
		d.modeOK = true
	}

	switch align {
	case "Y":
		d.alignment = true
		d.alignOK = true
	case "N":
		d.alignment = false
		d.alignOK = true
	default:
		p.fail(ErrInvalidAlignmentToken, fmt.Sprintf("alignment %q (expected Y or N)", align))
	}

	if !traceIDRe.MatchString(id) {
		p.fail(ErrInvalidID, fmt.Sprintf("id %q is not a non-negative integer", id))
	} else if n, err := strconv.Atoi(id); err != nil {
		p.fail(ErrInvalidID, fmt.Sprintf("id %q overflows", id))
	} else {
		d.traceID = n
		d.idOK = true
	}

	return d, true, idx + 1
}

// #endregion parse-state

// #region helpers

// splitLines trims every line and drops blank ones; blocks embedded in chat
// transcripts routinely arrive with trailing whitespace or padding lines.
func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// normalizeSpace collapses internal whitespace runs to single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func sequenceEquals(got []State, want [4]State) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// #endregion helpers
