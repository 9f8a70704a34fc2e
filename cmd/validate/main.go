package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gyrogov/gyroscope-verifier/internal/logging"
	"github.com/gyrogov/gyroscope-verifier/internal/store"
	"github.com/gyrogov/gyroscope-verifier/internal/trace"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "optionally record validation audit rows in this database")
	jsonOut := flag.Bool("json", false, "output as JSON instead of text")
	flag.Parse()

	files := flag.Args()

	reports, code := validateInputs(files)

	if *dbPath != "" {
		if err := persistAudit(*dbPath, reports); err != nil {
			fmt.Fprintf(os.Stderr, "audit: %v\n", err)
			code = 2
		}
	}

	if *jsonOut {
		if err := printJSON(reports); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			code = 2
		}
	} else {
		printText(reports)
	}
	os.Exit(code)
}

// #endregion main

// #region reports

// blockReport is one validated trace block inside a conversation.
type blockReport struct {
	Index    int      `json:"index"`
	TraceID  int      `json:"trace_id"` // -1 when unparseable
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Details  []string `json:"details,omitempty"`
}

// conversationReport covers one input (a file, or stdin).
type conversationReport struct {
	Source     string                  `json:"source"`
	Blocks     []blockReport           `json:"blocks"`
	Sequencing *trace.SequencingReport `json:"sequencing,omitempty"`
	ReadError  string                  `json:"read_error,omitempty"`
}

func validateInputs(files []string) ([]conversationReport, int) {
	if len(files) == 0 {
		files = []string{"-"}
	}

	code := 0
	reports := make([]conversationReport, 0, len(files))
	for _, f := range files {
		rep := validateOne(f)
		if rep.ReadError != "" {
			code = 2
		} else if code == 0 && !conversationPassed(rep) {
			code = 1
		}
		reports = append(reports, rep)
	}
	return reports, code
}

func validateOne(source string) conversationReport {
	rep := conversationReport{Source: source}

	var text []byte
	var err error
	if source == "-" {
		rep.Source = "stdin"
		text, err = io.ReadAll(os.Stdin)
	} else {
		text, err = os.ReadFile(source)
	}
	if err != nil {
		rep.ReadError = err.Error()
		return rep
	}

	var log trace.ConversationTraceLog
	for i, block := range trace.ExtractBlocks(string(text)) {
		res := trace.Validate(block)
		br := blockReport{
			Index:   i,
			TraceID: -1,
			IsValid: res.IsValid,
			Details: res.Details,
		}
		for _, e := range res.Errors {
			br.Errors = append(br.Errors, string(e))
		}
		for _, w := range res.Warnings {
			br.Warnings = append(br.Warnings, string(w))
		}
		if res.Parsed != nil {
			br.TraceID = res.Parsed.TraceID
			log = append(log, *res.Parsed)
		}
		rep.Blocks = append(rep.Blocks, br)
	}

	if len(log) > 0 {
		seq := trace.CheckSequencing(log)
		rep.Sequencing = &seq
	}
	return rep
}

// conversationPassed is false when any block is invalid or IDs repeat.
// ID gaps alone stay warnings.
func conversationPassed(rep conversationReport) bool {
	for _, b := range rep.Blocks {
		if !b.IsValid {
			return false
		}
	}
	if rep.Sequencing != nil && len(rep.Sequencing.Duplicates) > 0 {
		return false
	}
	return true
}

// #endregion reports

// #region audit

func persistAudit(dbPath string, reports []conversationReport) error {
	st, err := store.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	for _, rep := range reports {
		conversationID := filepath.Base(rep.Source)
		for _, b := range rep.Blocks {
			entry := logging.AuditEntry{
				ConversationID: conversationID,
				TraceID:        b.TraceID,
				IsValid:        b.IsValid,
				Errors:         b.Errors,
				Details:        b.Details,
			}
			if err := logging.LogValidation(st.DB(), entry); err != nil {
				return err
			}
		}
	}
	return nil
}

// #endregion audit

// #region output

func printText(reports []conversationReport) {
	for _, rep := range reports {
		fmt.Printf("%s:\n", rep.Source)
		if rep.ReadError != "" {
			fmt.Printf("  read error: %s\n", rep.ReadError)
			continue
		}
		if len(rep.Blocks) == 0 {
			fmt.Println("  no trace blocks found")
			continue
		}

		for _, b := range rep.Blocks {
			id := "—"
			if b.TraceID >= 0 {
				id = fmt.Sprintf("%03d", b.TraceID)
			}
			verdict := "VALID"
			if !b.IsValid {
				verdict = "INVALID " + strings.Join(b.Errors, ",")
			}
			fmt.Printf("  block %d (ID %s): %s\n", b.Index, id, verdict)
			for _, d := range b.Details {
				fmt.Printf("    - %s\n", d)
			}
		}

		if seq := rep.Sequencing; seq != nil {
			switch {
			case len(seq.Duplicates) > 0:
				fmt.Printf("  sequencing: duplicate IDs %v\n", seq.Duplicates)
			case len(seq.Gaps) > 0:
				fmt.Printf("  sequencing: gaps at %v (warning)\n", seq.Gaps)
			case seq.StrictlyIncreasing:
				fmt.Println("  sequencing: strictly increasing")
			default:
				fmt.Println("  sequencing: out of order")
			}
		}
	}
}

func printJSON(reports []conversationReport) error {
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// #endregion output
