package store

import "fmt"

// Comparison is the elapsed-time delta for one snippet label present in
// both runs.
type Comparison struct {
	Label       string
	ElapsedDiff float64 // percentage change, positive = slower
	Prev        Row
	Curr        Row
}

// Compare matches rows of two runs by label and reports percentage
// deltas for labels present in both.
func Compare(prev, curr Run) []Comparison {
	prevByLabel := make(map[string]Row, len(prev.Rows))
	for _, r := range prev.Rows {
		prevByLabel[r.Label] = r
	}

	var comparisons []Comparison
	for _, c := range curr.Rows {
		p, ok := prevByLabel[c.Label]
		if !ok {
			continue
		}
		comp := Comparison{Label: c.Label, Prev: p, Curr: c}
		if p.ElapsedNs > 0 {
			comp.ElapsedDiff = float64(c.ElapsedNs-p.ElapsedNs) / float64(p.ElapsedNs) * 100
		}
		comparisons = append(comparisons, comp)
	}
	return comparisons
}

// Regression reports whether the comparison exceeds the slowdown
// threshold (in percent).
func (c Comparison) Regression(threshold float64) bool {
	return c.ElapsedDiff > threshold
}

func (c Comparison) String() string {
	return fmt.Sprintf("%s: %+.2f%% elapsed", c.Label, c.ElapsedDiff)
}
