// Package harness orchestrates one benchmark run: a calibration pass per
// snippet, plus a counter aggregation pass when measurements were
// requested, assembled into one row per snippet.
package harness

import (
	"log/slog"
	"time"

	"snipbench/internal/counters"
	"snipbench/internal/snippet"
	"snipbench/internal/telemetry"
	"snipbench/internal/timing"
)

// Row is the result for one snippet: its display label, the calibrated
// nanoseconds-per-iteration estimate, and one derived value per
// requested measurement kind, in request order. Rows are never mutated
// after creation.
type Row struct {
	Label        string
	ElapsedNs    int64
	Measurements []counters.Value
}

// Runner drives the calibrator and the aggregator over a sequence of
// snippets.
type Runner struct {
	agg     *counters.Aggregator
	metrics *telemetry.Metrics
}

// New builds a runner on the given counter facility. Metrics may be nil.
func New(fac counters.Facility, metrics *telemetry.Metrics) *Runner {
	return &Runner{agg: counters.NewAggregator(fac), metrics: metrics}
}

// Run measures every snippet in input order and returns one row each.
//
// Unknown kinds fail before any snippet executes. A snippet error
// aborts the whole batch; no partial row is emitted for it. Both phases
// invoke the snippet through the identical call path so the timing and
// the counter numbers describe the same code.
func (r *Runner) Run(snippets []snippet.Snippet, kindIDs []string) ([]Row, error) {
	for _, id := range kindIDs {
		if _, err := counters.Lookup(id); err != nil {
			return nil, err
		}
	}

	rows := make([]Row, 0, len(snippets))
	for _, s := range snippets {
		start := time.Now()
		elapsed, err := timing.EstimateNsPerIteration(s)
		if err != nil {
			r.failed()
			return nil, err
		}
		if r.metrics != nil {
			r.metrics.CalibrationDuration.Observe(time.Since(start).Seconds())
		}

		row := Row{Label: s.Label, ElapsedNs: elapsed}
		if len(kindIDs) > 0 {
			values, err := r.agg.Aggregate(kindIDs, s)
			if err != nil {
				r.failed()
				return nil, err
			}
			row.Measurements = values
			if r.metrics != nil {
				r.metrics.CounterPasses.Inc()
			}
		}

		rows = append(rows, row)
		if r.metrics != nil {
			r.metrics.SnippetsMeasured.Inc()
		}
		slog.Debug("snippet measured", "label", s.Label, "elapsed_ns", elapsed)
	}
	return rows, nil
}

func (r *Runner) failed() {
	if r.metrics != nil {
		r.metrics.SnippetFailures.Inc()
	}
}
