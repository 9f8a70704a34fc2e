package replay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gyrogov/gyroscope-verifier/internal/scoring"
)

func writeFixtureFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadFixture(t *testing.T) {
	path := writeFixtureFile(t, `{
		"description": "smoke",
		"conversations": [
			{
				"conversation_id": "c1",
				"messages": ["hello"],
				"expected_blocks": [],
				"expected_sequencing": {"strictly_increasing": true}
			}
		],
		"runs": [
			{
				"arm": "gyroscope",
				"challenge": "formal",
				"cycles": [{"traceability": 8}],
				"expected": {"overall": 50.0, "horizon_band": "VALID"}
			}
		]
	}`)

	f, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	if f.Description != "smoke" {
		t.Fatalf("description = %q", f.Description)
	}
	if len(f.Conversations) != 1 || f.Conversations[0].ConversationID != "c1" {
		t.Fatalf("conversations = %+v", f.Conversations)
	}
	if f.Conversations[0].ExpectedSequencing == nil || !f.Conversations[0].ExpectedSequencing.StrictlyIncreasing {
		t.Fatalf("expected sequencing not loaded")
	}
	if len(f.Runs) != 1 {
		t.Fatalf("runs = %+v", f.Runs)
	}
	run := f.Runs[0]
	if run.Arm != "gyroscope" || run.Challenge != "formal" {
		t.Fatalf("run header = %+v", run)
	}
	if run.Expected.Overall == nil || *run.Expected.Overall != 50.0 {
		t.Fatalf("expected overall not loaded: %+v", run.Expected)
	}
	if run.Expected.Horizon != nil {
		t.Fatalf("horizon should be absent, got %v", *run.Expected.Horizon)
	}
}

func TestLoadFixtureMissingFile(t *testing.T) {
	if _, err := LoadFixture(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadFixtureBadJSON(t *testing.T) {
	path := writeFixtureFile(t, `{"runs": [`)
	if _, err := LoadFixture(path); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestFixtureRunToRecord(t *testing.T) {
	run := FixtureRun{
		Challenge: "procedural",
		Cycles: []map[string]int{
			{"traceability": 7, "literacy": 9},
			{"traceability": 6},
		},
	}
	rec := run.ToRecord()
	if rec.Challenge != "procedural" {
		t.Fatalf("challenge = %q", rec.Challenge)
	}
	if len(rec.Cycles) != 2 {
		t.Fatalf("cycles = %d", len(rec.Cycles))
	}
	if rec.Cycles[0]["literacy"] != 9 || rec.Cycles[1]["traceability"] != 6 {
		t.Fatalf("cycle scores not carried: %+v", rec.Cycles)
	}
}

func TestToConfigDefaults(t *testing.T) {
	var c *FixtureScoringConfig
	cfg := c.ToConfig()
	def := scoring.DefaultConfig()
	if cfg.Weights != def.Weights || cfg.Maxima != def.Maxima {
		t.Fatalf("nil config should fall back to defaults, got %+v", cfg)
	}
}

func TestToConfigOverrides(t *testing.T) {
	c := &FixtureScoringConfig{
		Weights: &FixtureWeights{Structure: 0.5, Behavior: 0.3, Specialization: 0.2},
		Maxima:  &FixtureMaxima{Structure: 50, Behavior: 60, Specialization: 20},
	}
	cfg := c.ToConfig()
	if cfg.Weights.Structure != 0.5 || cfg.Weights.Behavior != 0.3 {
		t.Fatalf("weights not applied: %+v", cfg.Weights)
	}
	if cfg.Maxima.Structure != 50 {
		t.Fatalf("maxima not applied: %+v", cfg.Maxima)
	}
}
