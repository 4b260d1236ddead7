package replay

// BenchmarkRun records one timed replay execution.
type BenchmarkRun struct {
	DurationMs    float64 `json:"durationMs"`
	EventsApplied int     `json:"eventsApplied"`
}

// Benchmark aggregates replay cost for capacity planning.
type Benchmark struct {
	Runs                      int     `json:"runs"`
	TotalEvents               int     `json:"totalEvents"`
	AvgDurationMs             float64 `json:"avgDurationMs"`
	ThroughputEventsPerSecond float64 `json:"throughputEventsPerSecond"`
}

// ComputeBenchmark aggregates recorded runs. It performs no side effects.
func ComputeBenchmark(runs []BenchmarkRun) Benchmark {
	if len(runs) == 0 {
		return Benchmark{}
	}

	var totalMs float64
	var totalEvents int
	for _, r := range runs {
		totalMs += r.DurationMs
		totalEvents += r.EventsApplied
	}

	b := Benchmark{
		Runs:          len(runs),
		TotalEvents:   totalEvents,
		AvgDurationMs: totalMs / float64(len(runs)),
	}
	if totalMs > 0 {
		b.ThroughputEventsPerSecond = float64(totalEvents) / (totalMs / 1000.0)
	}
	return b
}
