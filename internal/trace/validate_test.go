package trace

import (
	"strings"
	"testing"
	"time"
)

var testStamp = time.Date(2025, 5, 12, 12, 0, 0, 0, time.UTC)

func validGenBlock() string {
	return Generate(ModeGenerative, 1, testStamp)
}

// replaceLine swaps one line of a block, counting non-empty lines from zero.
func replaceLine(block string, idx int, repl string) string {
	lines := strings.Split(block, "\n")
	lines[idx] = repl
	return strings.Join(lines, "\n")
}

func TestValidateAcceptsGeneratedGenBlock(t *testing.T) {
	res := Validate(validGenBlock())

	if !res.IsValid {
		t.Fatalf("expected valid, got errors %v (%v)", res.Errors, res.Details)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("expected zero errors, got %v", res.Errors)
	}
	if res.Parsed == nil {
		t.Fatal("expected parsed block")
	}
	if res.Parsed.Mode != ModeGenerative {
		t.Fatalf("expected Gen mode, got %s", res.Parsed.Mode)
	}
	if res.Parsed.TraceID != 1 {
		t.Fatalf("expected trace id 1, got %d", res.Parsed.TraceID)
	}
	if !res.Parsed.Alignment {
		t.Fatal("expected declared alignment to parse as true")
	}
	if !res.Parsed.Timestamp.Equal(testStamp) {
		t.Fatalf("expected timestamp %v, got %v", testStamp, res.Parsed.Timestamp)
	}
}

func TestValidateAcceptsGeneratedIntBlock(t *testing.T) {
	res := Validate(Generate(ModeIntegrative, 42, testStamp))

	if !res.IsValid {
		t.Fatalf("expected valid, got errors %v (%v)", res.Errors, res.Details)
	}
	want := CanonicalOrder(ModeIntegrative)
	if !sequenceEquals(res.Parsed.StateSequence, want) {
		t.Fatalf("expected state sequence %v, got %v", want, res.Parsed.StateSequence)
	}
}

func TestValidateMissingStateEntry(t *testing.T) {
	lines := strings.Split(validGenBlock(), "\n")
	// drop the Variety entry (line 5)
	mutated := strings.Join(append(lines[:5:5], lines[6:]...), "\n")

	res := Validate(mutated)

	if res.IsValid {
		t.Fatal("expected invalid")
	}
	if !res.HasError(ErrInvalidStateSet) {
		t.Fatalf("expected INVALID_STATE_SET, got %v", res.Errors)
	}
}

func TestValidateDuplicateStateEntry(t *testing.T) {
	mutated := replaceLine(validGenBlock(), 5, "@ = Governance Traceability (Common Source),")

	res := Validate(mutated)

	if !res.HasError(ErrInvalidStateSet) {
		t.Fatalf("expected INVALID_STATE_SET, got %v", res.Errors)
	}
}

func TestValidateUnknownStateName(t *testing.T) {
	mutated := replaceLine(validGenBlock(), 4, "@ = Governance Mystery (Common Source),")

	res := Validate(mutated)

	if !res.HasError(ErrInvalidStateSet) {
		t.Fatalf("expected INVALID_STATE_SET, got %v", res.Errors)
	}
}

func TestValidateSwappedStatesIsAlignmentError(t *testing.T) {
	block := validGenBlock()
	lines := strings.Split(block, "\n")
	lines[4], lines[5] = lines[5], lines[4]
	mutated := strings.Join(lines, "\n")

	res := Validate(mutated)

	if res.IsValid {
		t.Fatal("expected invalid")
	}
	// Both entries are still well-formed triples; the defect is order, which
	// contradicts the declared Alignment=Y, not the state set itself.
	if res.HasError(ErrInvalidStateSet) {
		t.Fatalf("swap must not be a state-set error, got %v", res.Errors)
	}
	if !res.HasError(ErrAlignmentInconsistent) {
		t.Fatalf("expected ALIGNMENT_INCONSISTENT, got %v", res.Errors)
	}
}

func TestValidateFlippedAlignmentToken(t *testing.T) {
	mutated := strings.Replace(validGenBlock(), "Alignment (Y/N) = Y", "Alignment (Y/N) = N", 1)

	res := Validate(mutated)

	if res.IsValid {
		t.Fatal("expected invalid")
	}
	if !res.HasError(ErrAlignmentInconsistent) {
		t.Fatalf("expected ALIGNMENT_INCONSISTENT, got %v", res.Errors)
	}
}

func TestValidateBadAlignmentToken(t *testing.T) {
	mutated := strings.Replace(validGenBlock(), "Alignment (Y/N) = Y", "Alignment (Y/N) = X", 1)

	res := Validate(mutated)

	if !res.HasError(ErrInvalidAlignmentToken) {
		t.Fatalf("expected INVALID_ALIGNMENT_TOKEN, got %v", res.Errors)
	}
}

func TestValidateCorruptTimestamp(t *testing.T) {
	cases := map[string]string{
		"month out of range": "2025-13-12T12:00",
		"day out of range":   "2025-02-30T12:00",
		"hour out of range":  "2025-05-12T25:00",
		"wrong shape":        "2025-5-12T12:00",
	}
	for name, ts := range cases {
		mutated := strings.Replace(validGenBlock(), "Timestamp = 2025-05-12T12:00", "Timestamp = "+ts, 1)

		res := Validate(mutated)

		if res.IsValid {
			t.Fatalf("%s: expected invalid", name)
		}
		if !res.HasError(ErrInvalidTimestamp) {
			t.Fatalf("%s: expected INVALID_TIMESTAMP, got %v", name, res.Errors)
		}
	}
}

func TestValidateBadMode(t *testing.T) {
	mutated := strings.Replace(validGenBlock(), "Mode = Gen,", "Mode = Hyb,", 1)

	res := Validate(mutated)

	if !res.HasError(ErrInvalidMode) {
		t.Fatalf("expected INVALID_MODE, got %v", res.Errors)
	}
}

func TestValidateCurrentModeDisagrees(t *testing.T) {
	mutated := strings.Replace(validGenBlock(), "Current (Gen/Int) = Gen]", "Current (Gen/Int) = Int]", 1)

	res := Validate(mutated)

	if !res.HasError(ErrInvalidMode) {
		t.Fatalf("expected INVALID_MODE, got %v", res.Errors)
	}
}

func TestValidateNonNumericID(t *testing.T) {
	mutated := strings.Replace(validGenBlock(), "ID = 001", "ID = one", 1)

	res := Validate(mutated)

	if !res.HasError(ErrInvalidID) {
		t.Fatalf("expected INVALID_ID, got %v", res.Errors)
	}
}

func TestValidateGarbageNeverPanics(t *testing.T) {
	for _, text := range []string{"", "hello", "[Gyroscope - Start]", strings.Repeat("[x]\n", 50)} {
		res := Validate(text)
		if res.IsValid {
			t.Fatalf("expected invalid for %q", text)
		}
		if !res.HasError(ErrMalformedStructure) {
			t.Fatalf("expected MALFORMED_STRUCTURE for %q, got %v", text, res.Errors)
		}
	}
}

func TestValidateAccumulatesAllErrors(t *testing.T) {
	mutated := validGenBlock()
	mutated = strings.Replace(mutated, "Timestamp = 2025-05-12T12:00", "Timestamp = 2025-13-12T12:00", 1)
	mutated = strings.Replace(mutated, "ID = 001", "ID = -1", 1)

	res := Validate(mutated)

	if !res.HasError(ErrInvalidTimestamp) || !res.HasError(ErrInvalidID) {
		t.Fatalf("expected both timestamp and id errors, got %v", res.Errors)
	}
}

func TestValidateObservedOrderOverridesDeclaration(t *testing.T) {
	block := validGenBlock()

	wrong := []State{StateVariety, StateTraceability, StateAccountability, StateIntegrity}
	res := ValidateObserved(block, wrong)
	if !res.HasError(ErrAlignmentInconsistent) {
		t.Fatalf("expected ALIGNMENT_INCONSISTENT with reordered annotation, got %v", res.Errors)
	}

	canon := CanonicalOrder(ModeGenerative)
	res = ValidateObserved(block, canon[:])
	if !res.IsValid {
		t.Fatalf("expected valid with canonical annotation, got %v", res.Errors)
	}
}

func TestValidateExtraTrailingContent(t *testing.T) {
	res := Validate(validGenBlock() + "\ntrailing prose")

	if !res.HasError(ErrMalformedStructure) {
		t.Fatalf("expected MALFORMED_STRUCTURE, got %v", res.Errors)
	}
}
