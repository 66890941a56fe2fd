// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ds-workflow CLI. Each workflow
// stage is a subcommand: convert, inspect, labels, cast, transform, split,
// stats, fit, and registry.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ds-workflow/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the ds-workflow CLI.
var rootCmd = &cobra.Command{
	Use:   "ds-workflow",
	Short: "Reusable data-science workflow steps",
	Long: `ds-workflow groups common analytics tasks and speeds up the data science
workflow. Datasets load from CSV with automatically labelled columns;
labels drive which columns the statistics and model stages consume.

Each workflow step is a subcommand: convert raw files to CSV, inspect and
relabel columns, cast types, transform columns, split into train/validate/
test sets, describe statistics, fit models, and track everything in the
dataset registry.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./ds-workflow.yaml or ~/.config/ds-workflow/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ds-workflow")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ds-workflow"))
		}
	}

	viper.SetEnvPrefix("DS_WORKFLOW")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// workflowConfig resolves the stage configurations from the config file
// and environment. Flags override individual values per command.
func workflowConfig() types.WorkflowConfig {
	var cfg types.WorkflowConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not parse config: %v\n", err)
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
