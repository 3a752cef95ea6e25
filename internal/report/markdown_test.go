package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snipbench/internal/counters"
	"snipbench/internal/harness"
)

func TestElapsedUnit(t *testing.T) {
	tests := []struct {
		minNs  int64
		unit   string
		factor int64
	}{
		{5, "nanoseconds", 1},
		{9_999, "nanoseconds", 1},
		{50_000, "microseconds", 1_000},
		{50_000_000, "milliseconds", 1_000_000},
	}
	for _, tt := range tests {
		unit, factor := elapsedUnit(tt.minNs)
		assert.Equal(t, tt.unit, unit, "minNs=%d", tt.minNs)
		assert.Equal(t, tt.factor, factor, "minNs=%d", tt.minNs)
	}
}

func TestMarkdownTable(t *testing.T) {
	rows := []harness.Row{
		{
			Label:     "sum",
			ElapsedNs: 1200,
			Measurements: []counters.Value{
				counters.Number(1_234_567),
				counters.Number(12.5),
			},
		},
		{
			Label:     "sum-positive",
			ElapsedNs: 3400,
			Measurements: []counters.Value{
				{},
				counters.Number(3.0),
			},
		},
	}

	md, err := Markdown(rows, []string{"instructions", "branch_mispredictions"})
	require.NoError(t, err)

	assert.Contains(t, md, "| Code | Elapsed nanoseconds | CPU instructions | Branch misprediction % |")
	assert.Contains(t, md, "`sum`")
	assert.Contains(t, md, "1,234,567")
	assert.Contains(t, md, "12.5")
	assert.Contains(t, md, "n/a")
	assert.Contains(t, md, "| `sum` | 1,200 |")
}

func TestMarkdownUnknownKind(t *testing.T) {
	_, err := Markdown(nil, []string{"nope"})
	assert.ErrorIs(t, err, counters.ErrUnknownKind)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "n/a", formatValue(counters.Value{}))
	assert.Equal(t, "42", formatValue(counters.Number(42)))
	assert.Equal(t, "1,000,000", formatValue(counters.Number(1_000_000)))
	assert.Equal(t, "33.3", formatValue(counters.Number(33.3)))
}

func TestRenderFallsBackToPlainMarkdown(t *testing.T) {
	md := "| a | b |\n| --- | --- |\n| 1 | 2 |\n"
	out := Render(md)
	assert.NotEmpty(t, out)
}
