// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ds-workflow/internal/dataset"
	"github.com/pdiddy/ds-workflow/internal/render"
	"github.com/pdiddy/ds-workflow/pkg/types"
)

// loadDataset loads a dataset, applying a labels file when given.
func loadDataset(path, labelsPath string, cfg types.DatasetConfig) (*dataset.Dataset, error) {
	if labelsPath == "" {
		return dataset.Load(path, cfg)
	}
	labels, err := dataset.LabelsFromFile(labelsPath)
	if err != nil {
		return nil, err
	}
	return dataset.LoadWithLabels(path, labels, cfg)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [dataset.csv]",
	Short: "Show a dataset's shape and column labels",
	Long: `Inspect loads a CSV dataset, auto-assigns column labels (or applies a
labels file), and prints the dataset shape together with each column's
category, type, and active flag.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := workflowConfig()
		labelsPath, _ := cmd.Flags().GetString("labels")
		format, _ := cmd.Flags().GetString("format")

		d, err := loadDataset(args[0], labelsPath, cfg.Dataset)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows, %d columns\n\n", args[0], d.Frame.Nrow(), d.Frame.Ncol())

		header := []string{"column", "category", "type", "is_active"}
		var rows [][]string
		for _, name := range d.Frame.Names() {
			label := d.Labels[name]
			rows = append(rows, []string{
				name, string(label.Category), string(label.Type), strconv.FormatBool(label.IsActive),
			})
		}
		return render.Records(cmd.OutOrStdout(), format, header, rows)
	},
}

var labelsCmd = &cobra.Command{
	Use:   "labels [dataset.csv]",
	Short: "Show or write a dataset's column labels",
	Long: `Labels prints the auto-assigned column labels for a dataset. With --write
it saves them to a YAML file that later commands accept via --labels, so
hand-edited categories and active flags survive reloads.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := workflowConfig()
		labelsPath, _ := cmd.Flags().GetString("labels")
		writePath, _ := cmd.Flags().GetString("write")

		d, err := loadDataset(args[0], labelsPath, cfg.Dataset)
		if err != nil {
			return err
		}

		if writePath != "" {
			if err := d.SaveLabels(writePath); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "wrote %d labels to %s\n", len(d.Labels), writePath)
			return nil
		}

		fmt.Fprint(cmd.OutOrStdout(), d.Describe())
		return nil
	},
}

func init() {
	inspectCmd.Flags().String("labels", "", "YAML labels file to apply")
	inspectCmd.Flags().String("format", "table", "output format: table, csv, or json")

	labelsCmd.Flags().String("labels", "", "YAML labels file to apply")
	labelsCmd.Flags().String("write", "", "write labels to this YAML file")

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(labelsCmd)
}
