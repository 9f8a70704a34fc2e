package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gyrogov/gyroscope-verifier/internal/diagnostic"
	"github.com/gyrogov/gyroscope-verifier/internal/scoring"
	"github.com/gyrogov/gyroscope-verifier/internal/store"
)

// #region main

func main() {
	suitePath := flag.String("suite", "", "path to suite JSON (run records with messages and cycle scores)")
	configPath := flag.String("config", "", "optional scoring config YAML")
	dbPath := flag.String("db", "", "optionally persist run verdicts in this database")
	jsonOut := flag.Bool("json", false, "output as JSON instead of text")
	flag.Parse()

	if *suitePath == "" {
		fmt.Fprintln(os.Stderr, "usage: diagnose --suite path/to/suite.json [--config scoring.yaml] [--db verifier.db] [--json]")
		os.Exit(2)
	}

	if err := run(*suitePath, *configPath, *dbPath, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region input

// suiteInput is the on-disk shape of a diagnostic suite: one entry per run,
// each carrying the full assistant transcript and the judge's cycle scores.
type suiteInput struct {
	Runs []runInput `json:"runs"`
}

type runInput struct {
	Arm       string           `json:"arm"`
	Challenge string           `json:"challenge"`
	Messages  []string         `json:"messages"`
	Cycles    []map[string]int `json:"cycles"`
	GoalDrift bool             `json:"goal_drift,omitempty"`
}

func loadSuite(path string) (suiteInput, error) {
	var suite suiteInput
	data, err := os.ReadFile(path)
	if err != nil {
		return suite, fmt.Errorf("read suite: %w", err)
	}
	if err := json.Unmarshal(data, &suite); err != nil {
		return suite, fmt.Errorf("parse suite: %w", err)
	}
	if len(suite.Runs) == 0 {
		return suite, fmt.Errorf("suite %s has no runs", path)
	}
	return suite, nil
}

func (r runInput) toRecord() scoring.RunScoreRecord {
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

// #endregion input

// #region config

// configInput mirrors scoring.Config with YAML tags. Absent sections keep
// their defaults.
type configInput struct {
	Weights *struct {
		Structure      float64 `yaml:"structure"`
		Behavior       float64 `yaml:"behavior"`
		Specialization float64 `yaml:"specialization"`
	} `yaml:"weights"`
	Maxima *struct {
		Structure      float64 `yaml:"structure"`
		Behavior       float64 `yaml:"behavior"`
		Specialization float64 `yaml:"specialization"`
	} `yaml:"maxima"`
	TheoreticalMaxHorizon *float64  `yaml:"theoretical_max_horizon"`
	ActiveSpecialization  *[]string `yaml:"active_specialization"`
}

func loadConfig(path string) (scoring.Config, error) {
	cfg := scoring.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	var in configInput
	if err := yaml.Unmarshal(data, &in); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if in.Weights != nil {
		cfg.Weights = scoring.Weights{
			Structure:      in.Weights.Structure,
			Behavior:       in.Weights.Behavior,
			Specialization: in.Weights.Specialization,
		}
	}
	if in.Maxima != nil {
		cfg.Maxima = scoring.TierMaxima{
			Structure:      in.Maxima.Structure,
			Behavior:       in.Maxima.Behavior,
			Specialization: in.Maxima.Specialization,
		}
	}
	if in.TheoreticalMaxHorizon != nil {
		cfg.TheoreticalMaxHorizon = *in.TheoreticalMaxHorizon
	}
	if in.ActiveSpecialization != nil {
		if len(*in.ActiveSpecialization) != 2 {
			return cfg, fmt.Errorf("active_specialization needs exactly 2 metrics, got %d", len(*in.ActiveSpecialization))
		}
		cfg.ActiveSpecialization = [2]string{(*in.ActiveSpecialization)[0], (*in.ActiveSpecialization)[1]}
	}
	return cfg, nil
}

// #endregion config

// #region run

type output struct {
	Verdicts []diagnostic.RunVerdict  `json:"verdicts"`
	Suite    diagnostic.SuiteSummary  `json:"suite"`
}

func run(suitePath, configPath, dbPath string, jsonOut bool) error {
	suite, err := loadSuite(suitePath)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	verdicts := make([]diagnostic.RunVerdict, 0, len(suite.Runs))
	for i, r := range suite.Runs {
		verdict, err := diagnostic.BuildVerdict(
			diagnostic.Arm(r.Arm), r.Messages, r.toRecord(), cfg, r.GoalDrift)
		if err != nil {
			return fmt.Errorf("run %d (%s/%s): %w", i, r.Arm, r.Challenge, err)
		}
		verdicts = append(verdicts, verdict)
	}

	if dbPath != "" {
		if err := persist(dbPath, verdicts); err != nil {
			return err
		}
	}

	out := output{Verdicts: verdicts, Suite: diagnostic.SummarizeSuite(verdicts)}
	if jsonOut {
		return printJSON(out)
	}
	printText(out)
	return nil
}

func persist(dbPath string, verdicts []diagnostic.RunVerdict) error {
	st, err := store.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	for _, v := range verdicts {
		if err := st.SaveVerdict(v); err != nil {
			return fmt.Errorf("save verdict %s: %w", v.RunID, err)
		}
	}
	return nil
}

// #endregion run

// #region output

func printText(out output) {
	fmt.Printf("%-10s  %-10s  %-10s  %7s  %8s  %-13s  %-5s  %s\n",
		"Run", "Arm", "Challenge", "Overall", "Horizon", "Band", "Trace", "Pathologies")
	fmt.Printf("%-10s  %-10s  %-10s  %7s  %8s  %-13s  %-5s  %s\n",
		"----------", "----------", "----------", "-------", "--------", "-------------", "-----", "-----------")

	for _, v := range out.Verdicts {
		tracePass := "ok"
		if !v.TracePass {
			tracePass = "FAIL"
		}
		var names []string
		for _, p := range v.Summary.Pathologies {
			names = append(names, p.Name)
		}
		pathologies := "—"
		if len(names) > 0 {
			pathologies = strings.Join(names, ",")
		}
		fmt.Printf("%-10s  %-10s  %-10s  %7.2f  %8.4f  %-13s  %-5s  %s\n",
			shortID(v.RunID), v.Arm, v.Challenge, v.Summary.Overall,
			v.Summary.Horizon, v.Summary.HorizonBand, tracePass, pathologies)
	}

	fmt.Printf("\nArms:\n")
	for _, arm := range []diagnostic.Arm{diagnostic.ArmGyroscope, diagnostic.ArmFreestyle} {
		stats, ok := out.Suite.ByArm[arm]
		if !ok {
			continue
		}
		fmt.Printf("  %-10s  runs=%d  overall=%.2f±%.2f  structure=%.2f\n",
			arm, stats.Runs, stats.MeanOverall, stats.StdDevOverall, stats.MeanStructure)
		for name, n := range stats.PathologyCounts {
			fmt.Printf("    pathology %s: %d\n", name, n)
		}
	}

	if len(out.Suite.ByArm) == 2 {
		fmt.Printf("\nDelta (gyroscope - freestyle): %.2f (%.1f%%)\n",
			out.Suite.MeanDelta, out.Suite.ImprovementPercent)
	}
	for _, rec := range out.Suite.Recommendations {
		fmt.Printf("recommendation: %s\n", rec)
	}
}

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
