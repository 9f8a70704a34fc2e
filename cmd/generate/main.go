package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gyrogov/gyroscope-verifier/internal/replay"
	"github.com/gyrogov/gyroscope-verifier/internal/trace"
)

// #region main

func main() {
	modeFlag := flag.String("mode", "Gen", "trace mode: Gen or Int")
	id := flag.Int("id", 1, "trace ID of the first block")
	count := flag.Int("n", 1, "number of consecutive blocks to emit")
	at := flag.String("at", "", "timestamp (YYYY-MM-DDTHH:MM), defaults to now")
	emitFixture := flag.Bool("emit-fixture", false, "emit a replay fixture JSON instead of raw blocks")
	flag.Parse()

	mode := trace.Mode(*modeFlag)
	if !mode.Known() {
		fmt.Fprintf(os.Stderr, "unknown mode %q (want Gen or Int)\n", *modeFlag)
		os.Exit(2)
	}
	if *id < 0 || *count < 1 {
		fmt.Fprintln(os.Stderr, "usage: generate [--mode Gen|Int] [--id N] [--n COUNT] [--at YYYY-MM-DDTHH:MM] [--emit-fixture]")
		os.Exit(2)
	}

	stamp := time.Now().UTC()
	if *at != "" {
		parsed, err := time.Parse("2006-01-02T15:04", *at)
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse timestamp: %v\n", err)
			os.Exit(2)
		}
		stamp = parsed
	}

	blocks := make([]string, *count)
	for i := range blocks {
		blocks[i] = trace.Generate(mode, *id+i, stamp)
	}

	if *emitFixture {
		if err := printFixture(blocks); err != nil {
			fmt.Fprintf(os.Stderr, "emit fixture: %v\n", err)
			os.Exit(1)
		}
		return
	}

	for i, block := range blocks {
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(block)
	}
}

// #endregion main

// #region fixture

// printFixture wraps the generated blocks in a replay fixture with the
// expectations a clean conversation satisfies, ready for `replay --fixture`.
func printFixture(blocks []string) error {
	expected := make([]replay.FixtureExpectedBlock, len(blocks))
	for i := range expected {
		expected[i] = replay.FixtureExpectedBlock{IsValid: true}
	}

	f := replay.Fixture{
		Description: "generated conversation",
		Conversations: []replay.FixtureConversation{
			{
				ConversationID: "generated",
				Messages:       blocks,
				ExpectedBlocks: expected,
				ExpectedSequencing: &replay.FixtureExpectedSequencing{
					StrictlyIncreasing: true,
				},
			},
		},
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// #endregion fixture
