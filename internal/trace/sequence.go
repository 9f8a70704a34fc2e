package trace

// #region sequencing

// CheckSequencing verifies trace-ID continuity across one conversation's
// full ordered log. It is a batch operation over an explicit log, not a
// counter: the caller owns ordering and sharding. Duplicated IDs are always
// an error; gaps are reported so the caller can surface them as warnings,
// since human-authored integrative blocks are optional and legitimate gaps
// occur. StrictlyIncreasing is true only for contiguous +1 runs.
func CheckSequencing(log ConversationTraceLog) SequencingReport {
	report := SequencingReport{StrictlyIncreasing: true}
	if len(log) == 0 {
		return report
	}

	seen := map[int]bool{log[0].TraceID: true}
	dupSeen := make(map[int]bool)

	prev := log[0].TraceID
	for _, block := range log[1:] {
		id := block.TraceID
		switch {
		case seen[id]:
			if !dupSeen[id] {
				dupSeen[id] = true
				report.Duplicates = append(report.Duplicates, id)
			}
			report.StrictlyIncreasing = false
		case id < prev:
			report.StrictlyIncreasing = false
		case id > prev+1:
			for missing := prev + 1; missing < id; missing++ {
				report.Gaps = append(report.Gaps, missing)
			}
			report.StrictlyIncreasing = false
		}
		seen[id] = true
		if id > prev {
			prev = id
		}
	}
	return report
}

// #endregion sequencing
