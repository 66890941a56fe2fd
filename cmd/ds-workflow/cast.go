// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ds-workflow/pkg/types"
)

var castCmd = &cobra.Command{
	Use:   "cast [dataset.csv]",
	Short: "Cast a column's type or category",
	Long: `Cast changes a column's storage type (--type, with --layout for date and
time parsing) or its category (--category), then writes the transformed
dataset to --out and the updated labels to --write-labels when given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := workflowConfig()
		labelsPath, _ := cmd.Flags().GetString("labels")
		column, _ := cmd.Flags().GetString("column")
		castType, _ := cmd.Flags().GetString("type")
		castCategory, _ := cmd.Flags().GetString("category")
		layout, _ := cmd.Flags().GetString("layout")
		outPath, _ := cmd.Flags().GetString("out")
		writeLabels, _ := cmd.Flags().GetString("write-labels")

		if column == "" {
			return fmt.Errorf("--column is required")
		}
		if castType == "" && castCategory == "" {
			return fmt.Errorf("nothing to do: pass --type and/or --category")
		}
		if outPath == "" && castType != "" {
			return fmt.Errorf("--out is required when casting a type")
		}

		d, err := loadDataset(args[0], labelsPath, cfg.Dataset)
		if err != nil {
			return err
		}

		if castType != "" {
			if err := d.CastType(column, types.DType(castType), layout); err != nil {
				return err
			}
		}
		if castCategory != "" {
			if err := d.CastCategory(column, types.Category(castCategory)); err != nil {
				return err
			}
		}

		if outPath != "" {
			if err := d.WriteCSV(outPath); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "wrote %s\n", outPath)
		}
		if writeLabels != "" {
			if err := d.SaveLabels(writeLabels); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "wrote %s\n", writeLabels)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s - %s\n", column, d.Labels[column])
		return nil
	},
}

func init() {
	castCmd.Flags().String("labels", "", "YAML labels file to apply")
	castCmd.Flags().String("column", "", "column to cast")
	castCmd.Flags().String("type", "", "target type: int, float, str, text, date, time, or datetime")
	castCmd.Flags().String("category", "", "target category: categorical, numeric, date/time, or text")
	castCmd.Flags().String("layout", "", "Go reference-time layout for date/time parsing")
	castCmd.Flags().String("out", "", "write the transformed dataset to this CSV file")
	castCmd.Flags().String("write-labels", "", "write updated labels to this YAML file")

	rootCmd.AddCommand(castCmd)
}
