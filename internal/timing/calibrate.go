// Package timing implements the adaptive wall-clock calibrator: it picks
// a repetition count that balances timer resolution against total wall
// time and reports a floored per-iteration nanosecond estimate.
package timing

import (
	"runtime/debug"
	"time"

	"snipbench/internal/snippet"
)

const (
	// probeRuns is the size of the initial probe used to guess the
	// snippet's cost before committing to a full measurement.
	probeRuns = 10

	// targetWindowNs is the wall-time window the full measurement
	// should roughly fill (10 ms).
	targetWindowNs = 10_000_000

	// minIterations amortizes timer overhead for very fast snippets.
	minIterations = 100
)

// EstimateNsPerIteration times the snippet adaptively and returns a
// floored nanoseconds-per-iteration estimate.
//
// The GC is disabled for the duration of the call so a collection pause
// cannot corrupt the estimate; the previous GC percent is restored on
// every exit path. A snippet error propagates unmodified.
func EstimateNsPerIteration(s snippet.Snippet) (int64, error) {
	prev := debug.SetGCPercent(-1)
	defer debug.SetGCPercent(prev)

	estimated, err := timeRuns(s, probeRuns)
	if err != nil {
		return 0, err
	}

	iterations := chooseIterations(estimated)

	perIter, err := timeRuns(s, iterations)
	if err != nil {
		return 0, err
	}
	return perIter, nil
}

// chooseIterations scales the repetition count to roughly fill the
// target window: slow snippets (>10 ms) get a fixed small sample, fast
// ones get enough repetitions to dominate timer overhead.
func chooseIterations(estimatedNs int64) int64 {
	if estimatedNs > targetWindowNs {
		return probeRuns
	}
	if estimatedNs < 1 {
		estimatedNs = 1
	}
	iterations := targetWindowNs / estimatedNs
	if iterations < minIterations {
		iterations = minIterations
	}
	return iterations
}

// timeRuns executes the snippet n times back-to-back under the monotonic
// clock and returns elapsed/n, floored.
func timeRuns(s snippet.Snippet, n int64) (int64, error) {
	start := time.Now()
	for i := int64(0); i < n; i++ {
		if err := s.Run(); err != nil {
			return 0, err
		}
	}
	return time.Since(start).Nanoseconds() / n, nil
}
