// Package config wires viper-backed configuration for the CLI.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load initializes configuration from an optional file and SNIPBENCH_*
// environment variables.
func Load(cfgFile string) {
	// explicit .env loading; a missing file is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".snipbench")
	}

	viper.SetEnvPrefix("SNIPBENCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("verbose", false)
	viper.SetDefault("log_file", "")
	viper.SetDefault("store.type", "sqlite")
	viper.SetDefault("store.dsn", ".snipbench.db")
	viper.SetDefault("threshold", 10.0)
	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.port", 2112)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// Validate rejects configuration values the harness cannot run with.
func Validate() error {
	if t := viper.GetFloat64("threshold"); t < 0 {
		return fmt.Errorf("threshold must be non-negative, got %v", t)
	}
	switch strings.ToLower(viper.GetString("store.type")) {
	case "sqlite", "sqlite3", "postgres", "postgresql", "":
	default:
		return fmt.Errorf("unsupported store type: %s", viper.GetString("store.type"))
	}
	if p := viper.GetInt("metrics.port"); p < 0 || p > 65535 {
		return fmt.Errorf("metrics port out of range: %d", p)
	}
	return nil
}
