// brainctl is the operator tool for the governance core: it verifies ledger
// streams, proves replay stability, and validates persisted artifacts.
package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// Run is the entrypoint for testing.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		usage(stderr)
		return 2
	}

	switch args[1] {
	case "replay":
		return runReplayCmd(args[2:], stdout, stderr)
	case "validate":
		return runValidateCmd(args[2:], stdout, stderr)
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[1])
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `Usage: brainctl <command> [flags]

Commands:
  replay   -tenant <id> <events.jsonl>   verify chain integrity and replay stability
  validate -lock <periodLockHash> <artifact.json>   validate a persisted replay artifact`)
}
