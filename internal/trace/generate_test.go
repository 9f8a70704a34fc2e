package trace

import (
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestGenerateRoundTripGen(t *testing.T) {
	block := Generate(ModeGenerative, 7, testStamp)

	res := Validate(block)

	if !res.IsValid {
		t.Fatalf("round trip failed: %v (%v)", res.Errors, res.Details)
	}
	if res.Parsed.TraceID != 7 {
		t.Fatalf("expected id 7, got %d", res.Parsed.TraceID)
	}
}

func TestGenerateRoundTripInt(t *testing.T) {
	block := Generate(ModeIntegrative, 42, testStamp)

	res := Validate(block)

	if !res.IsValid {
		t.Fatalf("round trip failed: %v (%v)", res.Errors, res.Details)
	}
}

func TestGenerateZeroPadsID(t *testing.T) {
	block := Generate(ModeGenerative, 3, testStamp)

	if !strings.Contains(block, "ID = 003]") {
		t.Fatalf("expected zero-padded id, got block:\n%s", block)
	}
}

// Any (mode, id, minute) combination must render a block that validates
// cleanly and parses back to the same values.
func TestGenerateRoundTripProperty(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)

	properties.Property("generate then validate is always valid", prop.ForAll(
		func(generative bool, id int, unixMin int64) bool {
			mode := ModeGenerative
			if !generative {
				mode = ModeIntegrative
			}
			at := time.Unix(unixMin*60, 0).UTC()
			res := Validate(Generate(mode, id, at))
			if !res.IsValid || res.Parsed == nil {
				return false
			}
			return res.Parsed.Mode == mode &&
				res.Parsed.TraceID == id &&
				res.Parsed.Timestamp.Format("2006-01-02T15:04") == at.Format("2006-01-02T15:04")
		},
		gen.Bool(),
		gen.IntRange(0, 99999),
		gen.Int64Range(0, 4102444800/60), // through year 2100
	))

	properties.TestingRun(t)
}

func TestExtractBlocksFromProse(t *testing.T) {
	body := "Here is my answer.\n\n" +
		Generate(ModeGenerative, 1, testStamp) +
		"\n\nAnd a follow-up.\n\n" +
		Generate(ModeIntegrative, 2, testStamp)

	blocks := ExtractBlocks(body)

	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	for i, b := range blocks {
		if res := Validate(b); !res.IsValid {
			t.Fatalf("block %d invalid after extraction: %v", i, res.Errors)
		}
	}
}

func TestExtractBlocksIgnoresUnterminated(t *testing.T) {
	blocks := ExtractBlocks("prose [Gyroscope - Start] more prose, no end marker")

	if len(blocks) != 0 {
		t.Fatalf("expected no blocks, got %d", len(blocks))
	}
}

func TestExtractBlocksEmptyInput(t *testing.T) {
	if got := ExtractBlocks(""); len(got) != 0 {
		t.Fatalf("expected no blocks, got %d", len(got))
	}
}
