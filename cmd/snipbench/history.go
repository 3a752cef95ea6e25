package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"snipbench/internal/store"
	"snipbench/internal/ui"
)

var historyTUI bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show saved benchmark runs",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolVar(&historyTUI, "tui", false, "Browse history interactively")
}

func runHistory(cmd *cobra.Command, args []string) error {
	st, err := store.New(storeConfig())
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}
	defer st.Close()

	runs, err := st.LoadAll()
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved runs.")
		return nil
	}

	if historyTUI {
		return ui.StartHistoryBrowser(runs)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "RUN\tWHEN\tSNIPPETS\tKINDS")
	for _, run := range runs {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n",
			run.ID,
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			len(run.Rows),
			strings.Join(run.Kinds, ","),
		)
	}
	return w.Flush()
}
