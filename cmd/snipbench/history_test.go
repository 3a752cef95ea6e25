package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snipbench/internal/store"
)

func TestRunHistoryEmpty(t *testing.T) {
	viper.Set("store.type", "sqlite")
	viper.Set("store.dsn", filepath.Join(t.TempDir(), "bench.db"))
	defer viper.Reset()
	historyTUI = false

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	require.NoError(t, runHistory(cmd, nil))
	assert.Contains(t, buf.String(), "No saved runs.")
}

func TestRunHistoryListsRuns(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "bench.db")
	viper.Set("store.type", "sqlite")
	viper.Set("store.dsn", dsn)
	defer viper.Reset()
	historyTUI = false

	st, err := store.NewSQLiteStore(dsn)
	require.NoError(t, err)
	require.NoError(t, st.Save(store.Run{
		Kinds: []string{"instructions"},
		Rows:  []store.Row{{Label: "sum", ElapsedNs: 100}},
	}))
	require.NoError(t, st.Close())

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	require.NoError(t, runHistory(cmd, nil))
	out := buf.String()
	assert.Contains(t, out, "RUN")
	assert.Contains(t, out, "instructions")
}
