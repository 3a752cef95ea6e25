package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"snipbench/internal/counters"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the available measurement kinds",
	RunE:  runKinds,
}

func init() {
	rootCmd.AddCommand(kindsCmd)
}

func runKinds(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "KIND\tCOLUMN TITLE\tCOUNTERS")
	for _, id := range counters.Kinds() {
		k, err := counters.Lookup(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%d\n", k.ID, k.Title, len(k.Events))
	}
	return w.Flush()
}
