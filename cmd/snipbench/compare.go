package main

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"snipbench/internal/counters"
	"snipbench/internal/harness"
	"snipbench/internal/report"
	"snipbench/internal/store"
	"snipbench/internal/workload"
)

var (
	compareMeasure     string
	compareInteractive bool
	compareSave        bool
	compareAgainst     bool
)

// askKinds allows mocking the interactive prompt in tests.
var askKinds = func() ([]string, error) {
	var selected []string
	prompt := &survey.MultiSelect{
		Message: "Measurement kinds to sample:",
		Options: counters.Kinds(),
	}
	err := survey.AskOne(prompt, &selected)
	return selected, err
}

var compareCmd = &cobra.Command{
	Use:   "compare [workloads]",
	Short: "Time workloads against each other",
	Long: `Times each named workload (defaulting to the full built-in set) and
prints a comparison table. With --measure, hardware counters are sampled
per workload as well. Workloads share one environment, so seeding
workloads leave data for the ones that follow.`,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringVar(&compareMeasure, "measure", "", "Comma-separated measurement kinds (see 'snipbench kinds')")
	compareCmd.Flags().BoolVarP(&compareInteractive, "interactive", "i", false, "Pick measurement kinds interactively")
	compareCmd.Flags().BoolVar(&compareSave, "save", false, "Save results to history")
	compareCmd.Flags().BoolVar(&compareAgainst, "compare", true, "Compare with the previous saved run")
}

func runCompare(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = workload.Default()
	}
	snippets, err := workload.Build(names)
	if err != nil {
		return err
	}

	kinds, err := requestedKinds()
	if err != nil {
		return err
	}

	runner := harness.New(counters.Detect(), metrics())
	rows, err := runner.Run(snippets, kinds)
	if err != nil {
		return fmt.Errorf("benchmark run failed: %w", err)
	}

	markdown, err := report.Markdown(rows, kinds)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), report.Render(markdown))

	if !compareSave && !compareAgainst {
		return nil
	}

	st, err := store.New(storeConfig())
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}
	defer st.Close()

	current := store.NewRun(kinds, rows)

	if compareAgainst {
		previous, err := st.LoadLatest()
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		if previous != nil {
			printComparison(cmd, store.Compare(*previous, current))
		}
	}

	if compareSave {
		if err := st.Save(current); err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "\nResults saved to history.")
	}
	return nil
}

func requestedKinds() ([]string, error) {
	if compareInteractive {
		return askKinds()
	}
	var kinds []string
	for _, k := range strings.Split(compareMeasure, ",") {
		if k = strings.TrimSpace(k); k != "" {
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

func storeConfig() store.Config {
	return store.Config{
		Type: viper.GetString("store.type"),
		DSN:  viper.GetString("store.dsn"),
	}
}

func printComparison(cmd *cobra.Command, comparisons []store.Comparison) {
	if len(comparisons) == 0 {
		return
	}
	threshold := viper.GetFloat64("threshold")
	fmt.Fprintln(cmd.OutOrStdout(), "\nAgainst previous run:")
	for _, c := range comparisons {
		marker := ""
		if c.Regression(threshold) {
			marker = "  <-- regression"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  %s%s\n", c, marker)
	}
}
