package timing

import (
	"errors"
	"runtime/debug"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snipbench/internal/snippet"
)

func TestEstimateSleepingSnippet(t *testing.T) {
	s := snippet.New("sleep", snippet.Env{}, func(snippet.Env) error {
		time.Sleep(time.Millisecond)
		return nil
	})

	ns, err := EstimateNsPerIteration(s)
	require.NoError(t, err)

	// Sleep granularity overshoots, never undershoots much.
	assert.GreaterOrEqual(t, ns, int64(900_000))
	assert.LessOrEqual(t, ns, int64(1_700_000))
}

func TestEstimateNoopSnippet(t *testing.T) {
	s := snippet.New("noop", snippet.Env{}, func(snippet.Env) error { return nil })

	ns, err := EstimateNsPerIteration(s)
	require.NoError(t, err)

	// Repetition scaling must keep timer overhead from dominating.
	assert.GreaterOrEqual(t, ns, int64(0))
	assert.Less(t, ns, int64(1000))
}

func TestSnippetErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	s := snippet.New("bad", snippet.Env{}, func(snippet.Env) error { return boom })

	_, err := EstimateNsPerIteration(s)
	assert.ErrorIs(t, err, boom)
}

func TestGCPercentRestoredOnFailure(t *testing.T) {
	original := debug.SetGCPercent(150)
	defer debug.SetGCPercent(original)

	s := snippet.New("bad", snippet.Env{}, func(snippet.Env) error {
		return errors.New("boom")
	})
	_, err := EstimateNsPerIteration(s)
	require.Error(t, err)

	// The calibrator must have put our value back despite the failure.
	assert.Equal(t, 150, debug.SetGCPercent(150))
}

func TestChooseIterations(t *testing.T) {
	tests := []struct {
		name        string
		estimatedNs int64
		want        int64
	}{
		{"slow snippet gets small sample", 20_000_000, 10},
		{"moderate snippet hits the floor", 500_000, 100},
		{"medium snippet fills the window", 100_000, 100},
		{"fast snippet fills the window", 1_000, 10_000},
		{"very fast snippet fills the window", 1, 10_000_000},
		{"zero estimate is clamped", 0, 10_000_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chooseIterations(tt.estimatedNs))
		})
	}
}
