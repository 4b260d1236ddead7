package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/zerebrox/braincore/pkg/artifact"
)

func runValidateCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	lock := fs.String("lock", "", "period lock hash the artifact was sealed under")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: brainctl validate -lock <periodLockHash> <artifact.json>")
		return 2
	}

	raw, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "read artifact: %v\n", err)
		return 1
	}

	var a artifact.ReplayArtifact
	if err := json.Unmarshal(raw, &a); err != nil {
		fmt.Fprintf(stderr, "parse artifact: %v\n", err)
		return 1
	}

	result := artifact.Validate(a, *lock)
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)

	if !result.Valid {
		return 1
	}
	return 0
}
