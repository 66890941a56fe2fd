// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ds-workflow/internal/render"
	"github.com/pdiddy/ds-workflow/internal/stats"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

var statsCmd = &cobra.Command{
	Use:   "stats [dataset.csv]",
	Short: "Describe a dataset's active columns",
	Long: `Stats summarises every active column: counts, missing values, and for
numeric columns the mean, standard deviation, quartiles, and mode. With
--corr it prints the Pearson correlation matrix over the active numeric
columns instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := workflowConfig()
		labelsPath, _ := cmd.Flags().GetString("labels")
		format, _ := cmd.Flags().GetString("format")
		corr, _ := cmd.Flags().GetBool("corr")

		d, err := loadDataset(args[0], labelsPath, cfg.Dataset)
		if err != nil {
			return err
		}

		if corr {
			matrix, err := stats.Correlations(d)
			if err != nil {
				return err
			}
			header := append([]string{""}, matrix.Columns...)
			var rows [][]string
			for i, name := range matrix.Columns {
				row := []string{name}
				for _, v := range matrix.Values[i] {
					row = append(row, formatFloat(v))
				}
				rows = append(rows, row)
			}
			return render.Records(cmd.OutOrStdout(), format, header, rows)
		}

		summaries, err := stats.Describe(cmd.Context(), d, cfg.Stats)
		if err != nil {
			return err
		}

		header := []string{"column", "count", "missing", "distinct", "mean", "std", "min", "median", "max"}
		var rows [][]string
		for _, s := range summaries {
			row := []string{
				s.Column,
				strconv.Itoa(s.Count),
				strconv.Itoa(s.Missing),
				strconv.Itoa(s.Distinct),
			}
			if s.Numeric {
				row = append(row,
					formatFloat(s.Mean), formatFloat(s.Std),
					formatFloat(s.Min), formatFloat(s.Median), formatFloat(s.Max))
			} else {
				row = append(row, "", "", "", "", "")
			}
			rows = append(rows, row)
		}
		return render.Records(cmd.OutOrStdout(), format, header, rows)
	},
}

func init() {
	statsCmd.Flags().String("labels", "", "YAML labels file to apply")
	statsCmd.Flags().String("format", "table", "output format: table, csv, or json")
	statsCmd.Flags().Bool("corr", false, "print the correlation matrix instead of summaries")

	rootCmd.AddCommand(statsCmd)
}
