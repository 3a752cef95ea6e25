package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"snipbench/internal/config"
	"snipbench/internal/telemetry"
)

var exit = os.Exit
var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "snipbench",
	Short: "Compare the runtime cost of code snippets",
	Long: `snipbench is a micro-benchmark harness. It times named code snippets
with an adaptive calibrator, optionally samples hardware performance
counters (instructions, cache misses, branch mispredictions, SIMD) per
snippet, and renders a Markdown comparison table. Runs can be saved to
a local SQLite or shared PostgreSQL history for regression tracking.`,
	SilenceErrors: true,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'snipbench --help' for usage.")
		exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.snipbench.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		viper.BindPFlag(f.Name, f)
	})
}

func initConfig() {
	config.Load(cfgFile)

	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}

	telemetry.InitLogger(viper.GetBool("verbose"), viper.GetString("log_file"))

	if viper.GetBool("metrics.enabled") {
		go func() {
			if err := telemetry.StartMetricsServer(viper.GetInt("metrics.port")); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: metrics server failed: %v\n", err)
			}
		}()
	}
}

var (
	metricsOnce    sync.Once
	harnessMetrics *telemetry.Metrics
)

// metrics registers the harness metrics once per process; repeated
// command invocations in tests reuse the same instruments.
func metrics() *telemetry.Metrics {
	metricsOnce.Do(func() {
		harnessMetrics = telemetry.NewMetrics(nil)
	})
	return harnessMetrics
}
