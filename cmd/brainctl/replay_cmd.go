package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/zerebrox/braincore/pkg/ledger"
	"github.com/zerebrox/braincore/pkg/replay"
)

// stabilityReport is what `brainctl replay` prints: chain verification plus
// a double-run replay hash comparison.
type stabilityReport struct {
	TenantID      string `json:"tenantId"`
	Events        int    `json:"events"`
	ChainVerified bool   `json:"chainVerified"`
	ReplayHash    string `json:"replayHash"`
	SecondHash    string `json:"secondHash"`
	Stable        bool   `json:"stable"`
}

func runReplayCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	tenant := fs.String("tenant", "", "tenant id (default: inferred from the first event)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: brainctl replay [-tenant <id>] <events.jsonl>")
		return 2
	}

	events, err := loadEvents(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "load events: %v\n", err)
		return 1
	}
	if len(events) == 0 {
		fmt.Fprintln(stderr, "no events in input")
		return 1
	}

	tenantID := *tenant
	if tenantID == "" {
		tenantID = tenantOf(events[0])
	}
	if tenantID == "" {
		fmt.Fprintln(stderr, "cannot infer tenant id; pass -tenant")
		return 2
	}

	store := ledger.NewStore()
	if _, err := store.AppendMany(tenantID, events); err != nil {
		fmt.Fprintf(stderr, "seed ledger: %v\n", err)
		return 1
	}

	report := stabilityReport{TenantID: tenantID, Events: len(events)}
	if err := store.VerifyChain(tenantID); err != nil {
		fmt.Fprintf(stderr, "chain verification failed: %v\n", err)
		printReport(stdout, report)
		return 1
	}
	report.ChainVerified = true

	stream := store.ReadByTenant(tenantID)
	first, err := replay.Deterministic(stream, map[string]int{}, countByType)
	if err != nil {
		fmt.Fprintf(stderr, "replay: %v\n", err)
		return 1
	}
	second, err := replay.Deterministic(stream, map[string]int{}, countByType)
	if err != nil {
		fmt.Fprintf(stderr, "replay: %v\n", err)
		return 1
	}

	report.ReplayHash = first.ReplayHash
	report.SecondHash = second.ReplayHash
	report.Stable = first.ReplayHash == second.ReplayHash
	printReport(stdout, report)

	if !report.Stable {
		fmt.Fprintln(stderr, "replay hashes diverged between runs")
		return 1
	}
	return 0
}

// countByType is the reference reducer: a pure event-type histogram. It
// exercises the fold without domain assumptions about payloads.
func countByType(state map[string]int, ev *ledger.Envelope) map[string]int {
	next := make(map[string]int, len(state)+1)
	for k, v := range state {
		next[k] = v
	}
	next[string(ev.Type)]++
	return next
}

func loadEvents(path string) ([]*ledger.Envelope, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var events []*ledger.Envelope
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var ev ledger.Envelope
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, &ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func tenantOf(ev *ledger.Envelope) string {
	if ev.Context == nil {
		return ""
	}
	tenant, _ := ev.Context["tenantId"].(string)
	return tenant
}

func printReport(w io.Writer, report stabilityReport) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(report)
}
