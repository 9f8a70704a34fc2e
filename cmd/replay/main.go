package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gyrogov/gyroscope-verifier/internal/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON")
	verbose := flag.Bool("v", false, "print per-item detail even on success")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json [-v]")
		os.Exit(2)
	}

	os.Exit(run(*fixturePath, *verbose))
}

// #endregion main

// #region run

func run(path string, verbose bool) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}

	summary := replay.Replay(f)

	if verbose || !summary.Passed() {
		if f.Description != "" {
			fmt.Printf("fixture: %s\n", f.Description)
		}
		fmt.Printf("conversations: %d, blocks: %d, runs: %d\n",
			summary.Conversations, summary.Blocks, summary.Runs)
	}

	for _, m := range summary.Mismatches {
		fmt.Printf("MISMATCH %s\n", m)
	}

	if !summary.Passed() {
		fmt.Printf("\nSummary: %d mismatches\n", len(summary.Mismatches))
		return 1
	}
	fmt.Println("Summary: all expectations matched")
	return 0
}

// #endregion run
