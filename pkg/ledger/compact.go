package ledger

import "fmt"

// CompactByWindow groups stored artifacts into fixed-size windows for external
// archival. The grouping is derived: the source slice is never altered, every
// member appears in exactly one window, and the number of windows is
// ceil(len(artifacts)/windowSize).
func CompactByWindow[T any](artifacts []T, windowSize int) ([][]T, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %d", windowSize)
	}

	windows := make([][]T, 0, (len(artifacts)+windowSize-1)/windowSize)
	for start := 0; start < len(artifacts); start += windowSize {
		end := start + windowSize
		if end > len(artifacts) {
			end = len(artifacts)
		}
		window := make([]T, end-start)
		copy(window, artifacts[start:end])
		windows = append(windows, window)
	}
	return windows, nil
}
