// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ds-workflow/internal/convert"
)

var convertCmd = &cobra.Command{
	Use:   "convert [source...]",
	Short: "Convert raw source files to CSV",
	Long: `Convert turns delimited text files (.txt, .dat, .tsv) and spreadsheets
(.xlsx) into CSV files in --out-dir, named after the source. Outputs that
already exist are skipped. With --batch the argument is a directory and
every supported file in it is converted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := workflowConfig()
		outDir, _ := cmd.Flags().GetString("out-dir")
		delimiter, _ := cmd.Flags().GetString("delimiter")
		sheet, _ := cmd.Flags().GetString("sheet")
		batch, _ := cmd.Flags().GetBool("batch")

		if !cmd.Flags().Changed("out-dir") && cfg.Convert.OutputDir != "" {
			outDir = cfg.Convert.OutputDir
		}
		if !cmd.Flags().Changed("delimiter") && cfg.Convert.Delimiter != "" {
			delimiter = cfg.Convert.Delimiter
		}
		if !cmd.Flags().Changed("sheet") && cfg.Convert.Sheet != "" {
			sheet = cfg.Convert.Sheet
		}

		if batch {
			if len(args) != 1 {
				return fmt.Errorf("--batch takes exactly one source directory")
			}
			result, err := convert.ConvertBatch(args[0], outDir, delimiter, sheet, os.Stderr)
			if err != nil {
				return err
			}
			if result.HasFailures() {
				return fmt.Errorf("%d of %d files failed conversion", result.Failed, result.Total())
			}
			return nil
		}

		var failed int
		for _, src := range args {
			c, err := convert.ForPath(src, delimiter, sheet)
			if err != nil {
				return err
			}
			if status, _ := convert.ConvertFile(c, src, outDir, os.Stderr); status == convert.StatusFailed {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed conversion", failed, len(args))
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().String("out-dir", ".", "directory for converted CSV files")
	convertCmd.Flags().String("delimiter", "", "text field delimiter (default: any whitespace)")
	convertCmd.Flags().String("sheet", "", "worksheet to read from xlsx input (default: the first)")
	convertCmd.Flags().Bool("batch", false, "treat the argument as a directory of source files")

	rootCmd.AddCommand(convertCmd)
}
