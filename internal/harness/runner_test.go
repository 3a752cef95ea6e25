package harness

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snipbench/internal/counters"
	"snipbench/internal/snippet"
	"snipbench/internal/telemetry"
)

// stubFacility returns a fixed count for every event and never limits
// group size.
type stubFacility struct {
	count uint64
	calls int
}

func (f *stubFacility) MaxGroup() int { return 0 }

func (f *stubFacility) Measure(events []counters.Event, body func() error) ([]uint64, error) {
	f.calls++
	if err := body(); err != nil {
		return nil, err
	}
	values := make([]uint64, len(events))
	for i := range values {
		values[i] = f.count
	}
	return values, nil
}

func twoSnippets() []snippet.Snippet {
	env := snippet.Env{}
	return []snippet.Snippet{
		snippet.New("x = 1", env, func(env snippet.Env) error {
			env["x"] = 1
			return nil
		}),
		snippet.New("x = 1; x += 1", env, func(env snippet.Env) error {
			env["x"] = 1
			env["x"] = env["x"].(int) + 1
			return nil
		}),
	}
}

func TestRunWithoutKinds(t *testing.T) {
	runner := New(counters.Unsupported(), nil)

	rows, err := runner.Run(twoSnippets(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "x = 1", rows[0].Label)
	assert.Equal(t, "x = 1; x += 1", rows[1].Label)
	for _, row := range rows {
		assert.GreaterOrEqual(t, row.ElapsedNs, int64(0))
		assert.Empty(t, row.Measurements)
	}
}

func TestRunWithKinds(t *testing.T) {
	fac := &stubFacility{count: 1234}
	runner := New(fac, nil)

	rows, err := runner.Run(twoSnippets(), []string{"instructions", "branches"})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	for _, row := range rows {
		require.Len(t, row.Measurements, 2)
		assert.Equal(t, counters.Number(1234), row.Measurements[0])
		assert.Equal(t, counters.Number(1234), row.Measurements[1])
	}
	// One aggregation pass per snippet; both kinds share it.
	assert.Equal(t, 2, fac.calls)
}

func TestRunUnknownKindFailsBeforeExecution(t *testing.T) {
	runner := New(counters.Unsupported(), nil)

	executions := 0
	snippets := []snippet.Snippet{
		snippet.New("counted", snippet.Env{}, func(snippet.Env) error {
			executions++
			return nil
		}),
	}

	_, err := runner.Run(snippets, []string{"no_such_kind"})
	assert.ErrorIs(t, err, counters.ErrUnknownKind)
	assert.Zero(t, executions)
}

func TestRunSnippetErrorAbortsBatch(t *testing.T) {
	boom := errors.New("boom")
	env := snippet.Env{}
	snippets := []snippet.Snippet{
		snippet.New("ok", env, func(snippet.Env) error { return nil }),
		snippet.New("bad", env, func(snippet.Env) error { return boom }),
		snippet.New("never", env, func(snippet.Env) error {
			t.Fatal("snippet after failure must not run")
			return nil
		}),
	}

	rows, err := New(counters.Unsupported(), nil).Run(snippets, nil)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, rows)
}

func TestRunEnvironmentSharedAcrossSnippets(t *testing.T) {
	env := snippet.Env{}
	snippets := []snippet.Snippet{
		snippet.New("seed", env, func(env snippet.Env) error {
			env["value"] = 7
			return nil
		}),
		snippet.New("read", env, func(env snippet.Env) error {
			if _, ok := env["value"]; !ok {
				return errors.New("value not visible")
			}
			return nil
		}),
	}

	_, err := New(counters.Unsupported(), nil).Run(snippets, nil)
	assert.NoError(t, err)
}

func TestRunRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.NewMetrics(reg)
	runner := New(counters.Unsupported(), m)

	_, err := runner.Run(twoSnippets(), nil)
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SnippetsMeasured))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SnippetFailures))
}
