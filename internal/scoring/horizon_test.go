package scoring

import "testing"

func TestBalanceHorizonZeroToZeroIsFullDecay(t *testing.T) {
	first := CycleScoreSet{"a": 0, "b": 10}
	last := CycleScoreSet{"a": 0, "b": 5}

	horizon, samples := balanceHorizon(first, last, []string{"a", "b"})

	// a: 0→0 counts as retention 0; b: 5/10 = 0.5. Mean is 0.25.
	if samples != 2 {
		t.Fatalf("expected 2 samples, got %d", samples)
	}
	if !almostEqual(horizon, 0.25) {
		t.Fatalf("expected 0.25, got %v", horizon)
	}
}

func TestBalanceHorizonExcludesZeroToNonzero(t *testing.T) {
	first := CycleScoreSet{"a": 0, "b": 10}
	last := CycleScoreSet{"a": 7, "b": 10}

	horizon, samples := balanceHorizon(first, last, []string{"a", "b"})

	// a: 0→7 is not a meaningful ratio and is excluded entirely.
	if samples != 1 {
		t.Fatalf("expected 1 sample, got %d", samples)
	}
	if !almostEqual(horizon, 1.0) {
		t.Fatalf("expected 1.0, got %v", horizon)
	}
}

func TestBalanceHorizonNoDefinedRatios(t *testing.T) {
	first := CycleScoreSet{"a": 0}
	last := CycleScoreSet{"a": 3}

	horizon, samples := balanceHorizon(first, last, []string{"a"})

	if samples != 0 || horizon != 0 {
		t.Fatalf("expected (0, 0), got (%v, %d)", horizon, samples)
	}
}

func TestBalanceHorizonCanExceedOne(t *testing.T) {
	first := CycleScoreSet{"a": 5}
	last := CycleScoreSet{"a": 10}

	horizon, _ := balanceHorizon(first, last, []string{"a"})

	if !almostEqual(horizon, 2.0) {
		t.Fatalf("expected 2.0, got %v", horizon)
	}
}

func TestClassifyHorizonBands(t *testing.T) {
	cases := []struct {
		horizon float64
		max     float64
		want    HorizonBand
	}{
		{0.12, 0.10, HorizonArtifactHigh},
		{0.03, 0.10, HorizonArtifactLow},
		{0.09, 0.10, HorizonValid},
		{0.10, 0.10, HorizonValid},
		{0.05, 0.10, HorizonValid},
	}
	for _, c := range cases {
		if got := classifyHorizon(c.horizon, c.max); got != c.want {
			t.Fatalf("horizon=%v max=%v: expected %s, got %s", c.horizon, c.max, c.want, got)
		}
	}
}
