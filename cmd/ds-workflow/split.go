// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ds-workflow/internal/dataset"
	"github.com/pdiddy/ds-workflow/internal/registry"
	"github.com/pdiddy/ds-workflow/pkg/types"
)

var splitCmd = &cobra.Command{
	Use:   "split [dataset.csv]",
	Short: "Split a dataset into train, validate, and test sets",
	Long: `Split shuffles row indices with a fixed seed and partitions them into
test, optional validation, and train sets. The same seed always produces
the same sets. With --register the split parameters are recorded in the
dataset registry.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := workflowConfig()
		labelsPath, _ := cmd.Flags().GetString("labels")
		test, _ := cmd.Flags().GetFloat64("test")
		validate, _ := cmd.Flags().GetFloat64("validate")
		seed, _ := cmd.Flags().GetInt64("seed")
		register, _ := cmd.Flags().GetBool("register")

		if !cmd.Flags().Changed("test") && cfg.Split.Test > 0 {
			test = cfg.Split.Test
		}
		if !cmd.Flags().Changed("validate") && cfg.Split.Validate > 0 {
			validate = cfg.Split.Validate
		}
		if !cmd.Flags().Changed("seed") && cfg.Split.Seed != 0 {
			seed = cfg.Split.Seed
		}

		d, err := loadDataset(args[0], labelsPath, cfg.Dataset)
		if err != nil {
			return err
		}
		if err := d.Split(test, validate, seed); err != nil {
			return err
		}

		for _, set := range []string{dataset.SetTrain, dataset.SetValidate, dataset.SetTest} {
			if indices, ok := d.SplitIndices[set]; ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %d rows\n", set, len(indices))
			}
		}

		if register {
			store, err := registry.NewStore(cfg.Registry)
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := store.Register(cmd.Context(), d, "")
			if err != nil {
				return err
			}
			splitCfg := types.SplitConfig{Test: test, Validate: validate, Seed: seed}
			if _, err := store.RecordSplit(cmd.Context(), rec.ID, splitCfg); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "recorded split for dataset %s\n", rec.ID)
		}
		return nil
	},
}

func init() {
	splitCmd.Flags().String("labels", "", "YAML labels file to apply")
	splitCmd.Flags().Float64("test", 0.2, "fraction of rows for the test set")
	splitCmd.Flags().Float64("validate", 0, "fraction of rows for the validation set")
	splitCmd.Flags().Int64("seed", 0, "shuffle seed")
	splitCmd.Flags().Bool("register", false, "record the split in the dataset registry")

	rootCmd.AddCommand(splitCmd)
}
