// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ds-workflow/internal/dataset"
)

var transformCmd = &cobra.Command{
	Use:   "transform [dataset.csv]",
	Short: "Transform dataset columns",
	Long: `Transform applies column transformations and writes the result to --out:
dummy-encode a categorical column (--dummies), drop columns
(--drop-columns), or resolve missing values (--nulls with --strategy
drop_rows, drop_column, or fill_average).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := workflowConfig()
		labelsPath, _ := cmd.Flags().GetString("labels")
		outPath, _ := cmd.Flags().GetString("out")
		dummies, _ := cmd.Flags().GetString("dummies")
		prefix, _ := cmd.Flags().GetString("prefix")
		prefixSep, _ := cmd.Flags().GetString("prefix-sep")
		dropFirst, _ := cmd.Flags().GetBool("drop-first")
		dropOriginal, _ := cmd.Flags().GetBool("drop-original")
		dropColumns, _ := cmd.Flags().GetStringSlice("drop-columns")
		nulls, _ := cmd.Flags().GetString("nulls")
		strategy, _ := cmd.Flags().GetString("strategy")

		if outPath == "" {
			return fmt.Errorf("--out is required")
		}
		if dummies == "" && len(dropColumns) == 0 && nulls == "" {
			return fmt.Errorf("nothing to do: pass --dummies, --drop-columns, or --nulls")
		}

		d, err := loadDataset(args[0], labelsPath, cfg.Dataset)
		if err != nil {
			return err
		}
		d.IsDerived = true

		if nulls != "" {
			if strategy == "" {
				return fmt.Errorf("--strategy is required with --nulls")
			}
			if err := d.HandleNulls(nulls, strategy); err != nil {
				return err
			}
		}
		if dummies != "" {
			opts := dataset.DummyOptions{
				Prefix:       prefix,
				PrefixSep:    prefixSep,
				DropFirst:    dropFirst,
				DropOriginal: dropOriginal,
			}
			if err := d.EncodeDummies(dummies, opts); err != nil {
				return err
			}
		}
		if len(dropColumns) > 0 {
			if err := d.DropColumns(dropColumns); err != nil {
				return err
			}
		}

		if err := d.WriteCSV(outPath); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s (%d rows, %d columns)\n", outPath, d.Frame.Nrow(), d.Frame.Ncol())
		return nil
	},
}

func init() {
	transformCmd.Flags().String("labels", "", "YAML labels file to apply")
	transformCmd.Flags().String("out", "", "write the transformed dataset to this CSV file")
	transformCmd.Flags().String("dummies", "", "categorical column to dummy-encode")
	transformCmd.Flags().String("prefix", "", "dummy name prefix (default: the column name)")
	transformCmd.Flags().String("prefix-sep", "", "dummy name separator (default \"_\")")
	transformCmd.Flags().Bool("drop-first", false, "drop the first dummy level")
	transformCmd.Flags().Bool("drop-original", false, "drop the source column after encoding")
	transformCmd.Flags().StringSlice("drop-columns", nil, "columns to drop")
	transformCmd.Flags().String("nulls", "", "column whose missing values to resolve")
	transformCmd.Flags().String("strategy", "", "null strategy: drop_rows, drop_column, or fill_average")

	rootCmd.AddCommand(transformCmd)
}
