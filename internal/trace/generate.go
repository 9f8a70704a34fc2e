package trace

import (
	"fmt"
	"strings"
	"time"
)

// #region generate

// Generate renders a valid trace block for the given mode and trace ID.
// States are declared in the mode's canonical order, so the rendered block
// always survives a round trip through Validate. IDs are zero-padded to
// three digits, matching the wire convention.
func Generate(mode Mode, traceID int, at time.Time) string {
	var b strings.Builder

	b.WriteString(lineHeader + "\n")
	b.WriteString(lineVersion + "\n")
	b.WriteString(linePurpose + "\n")
	b.WriteString(lineStatesHeader + "\n")

	order := CanonicalOrder(mode)
	for i, sym := range order {
		info := stateTable[sym]
		sep := ","
		if i == len(order)-1 {
			sep = "]"
		}
		fmt.Fprintf(&b, "%s = %s (%s)%s\n", sym, info.Name, info.Policy, sep)
	}

	b.WriteString(lineModesHeader + "\n")
	b.WriteString(lineModeGen + "\n")
	b.WriteString(lineModeInt + "\n")
	fmt.Fprintf(&b, "Current (Gen/Int) = %s]\n", mode)
	fmt.Fprintf(&b, "[Data: Timestamp = %s, Mode = %s, Alignment (Y/N) = Y, ID = %03d]\n",
		at.Format("2006-01-02T15:04"), mode, traceID)
	b.WriteString(lineFooter)

	return b.String()
}

// #endregion generate

// #region extract

const (
	startMarker = "[Gyroscope - Start]"
	endMarker   = "[Gyroscope - End]"
)

// ExtractBlocks pulls every trace block footer out of a larger message
// body. Unterminated blocks are ignored.
func ExtractBlocks(text string) []string {
	var blocks []string
	for {
		start := strings.Index(text, startMarker)
		if start < 0 {
			return blocks
		}
		end := strings.Index(text[start:], endMarker)
		if end < 0 {
			return blocks
		}
		end += start + len(endMarker)
		blocks = append(blocks, text[start:end])
		text = text[end:]
	}
}

// #endregion extract
