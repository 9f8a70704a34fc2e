package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gyrogov/gyroscope-verifier/internal/logging"
	"github.com/gyrogov/gyroscope-verifier/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to verifier.db")
	last := flag.Int("last", 20, "show N most recent runs")
	runID := flag.String("run", "", "show single run detail")
	conversation := flag.String("conversation", "", "show validation audit for one conversation")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/verifier.db [--last N] [--run id] [--conversation id] [--json]")
		os.Exit(2)
	}

	st, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	switch {
	case *runID != "":
		err = runDetailMode(st, *runID, *jsonOut)
	case *conversation != "":
		err = runAuditMode(st, *conversation, *jsonOut)
	default:
		err = runListMode(st, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

func runListMode(st *store.Store, last int, jsonOut bool) error {
	runs, err := st.ListRuns(last)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stderr, "no runs found")
		return nil
	}

	if jsonOut {
		return printJSON(runs)
	}

	fmt.Printf("%-10s  %-10s  %-10s  %7s  %8s  %-13s  %-5s  %s\n",
		"Run", "Arm", "Challenge", "Overall", "Horizon", "Band", "Trace", "Time")
	fmt.Printf("%-10s  %-10s  %-10s  %7s  %8s  %-13s  %-5s  %s\n",
		"----------", "----------", "----------", "-------", "--------", "-------------", "-----", "--------------------")

	for _, r := range runs {
		trace := "FAIL"
		if r.TracePass {
			trace = "ok"
		}
		fmt.Printf("%-10s  %-10s  %-10s  %7.2f  %8.4f  %-13s  %-5s  %s\n",
			shortID(r.RunID), r.Arm, r.Challenge, r.Overall, r.Horizon,
			r.HorizonBand, trace, r.CreatedAt.Format("2006-01-02T15:04:05Z"))
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

func runDetailMode(st *store.Store, runID string, jsonOut bool) error {
	r, err := st.GetRun(runID)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(r)
	}

	fmt.Printf("Run:            %s\n", r.RunID)
	fmt.Printf("Arm:            %s\n", r.Arm)
	fmt.Printf("Challenge:      %s\n", r.Challenge)
	fmt.Printf("Structure:      %.2f%%\n", r.StructurePct)
	fmt.Printf("Behavior:       %.2f%%\n", r.BehaviorPct)
	fmt.Printf("Specialization: %.2f%%\n", r.SpecializationPct)
	fmt.Printf("Overall:        %.2f\n", r.Overall)
	fmt.Printf("Horizon:        %.4f (%d samples)\n", r.Horizon, r.RetentionSamples)
	fmt.Printf("Band:           %s\n", r.HorizonBand)
	fmt.Printf("Trace Pass:     %v\n", r.TracePass)
	fmt.Printf("Created:        %s\n", r.CreatedAt.Format("2006-01-02T15:04:05Z"))

	if len(r.Pathologies) > 0 {
		fmt.Printf("\nPathologies:\n")
		for _, p := range r.Pathologies {
			fmt.Printf("  %-28s %s\n", p.Name, p.Description)
		}
	}
	return nil
}

// #endregion detail-mode

// #region audit-mode

func runAuditMode(st *store.Store, conversationID string, jsonOut bool) error {
	entries, err := logging.ListValidations(st.DB(), conversationID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "no validation entries found")
		return nil
	}

	if jsonOut {
		return printJSON(entries)
	}

	fmt.Printf("%-8s  %-7s  %-40s  %s\n", "Trace", "Valid", "Errors", "Time")
	fmt.Printf("%-8s  %-7s  %-40s  %s\n",
		"--------", "-------", strings.Repeat("-", 40), "--------------------")
	for _, e := range entries {
		traceID := "—"
		if e.TraceID >= 0 {
			traceID = fmt.Sprintf("%03d", e.TraceID)
		}
		fmt.Printf("%-8s  %-7v  %-40s  %s\n",
			traceID, e.IsValid, strings.Join(e.Errors, ","),
			e.CreatedAt.Format("2006-01-02T15:04:05Z"))
	}
	return nil
}

// #endregion audit-mode

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
