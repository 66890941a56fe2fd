// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ds-workflow/internal/render"
	"github.com/pdiddy/ds-workflow/internal/registry"
)

func openStore() (*registry.Store, error) {
	return registry.NewStore(workflowConfig().Registry)
}

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Manage the dataset registry",
	Long: `Registry tracks datasets, splits, and model runs in a SQLite database
under the registry directory. Registration is incremental: files whose
modification time is unchanged are skipped.`,
}

var registryRegisterCmd = &cobra.Command{
	Use:   "register [path]",
	Short: "Register a dataset file or every CSV in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := workflowConfig()
		notes, _ := cmd.Flags().GetString("notes")
		target, _ := cmd.Flags().GetString("target")

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		info, err := os.Stat(args[0])
		if err != nil {
			return fmt.Errorf("stat %s: %w", args[0], err)
		}

		if info.IsDir() {
			summary, err := store.RegisterDir(cmd.Context(), args[0], cfg.Dataset, os.Stderr)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered: %d, updated: %d, skipped: %d, failed: %d\n",
				summary.Registered, summary.Updated, summary.Skipped, summary.Failed)
			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d files failed registration", summary.Failed, summary.Total())
			}
			return nil
		}

		d, err := loadDataset(args[0], "", cfg.Dataset)
		if err != nil {
			return err
		}
		if target != "" {
			if err := d.SetTarget(target); err != nil {
				return err
			}
		}
		rec, err := store.Register(cmd.Context(), d, notes)
		if err != nil {
			return err
		}
		if err := store.ExportYAML(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", rec.ID, rec.Path)
		return nil
	},
}

var registryQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "List registered datasets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		target, _ := cmd.Flags().GetString("target")
		text, _ := cmd.Flags().GetString("text")
		maxResults, _ := cmd.Flags().GetInt("max-results")
		format, _ := cmd.Flags().GetString("format")

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.Query(cmd.Context(), registry.QueryOptions{
			Target:     target,
			Text:       text,
			MaxResults: maxResults,
		})
		if err != nil {
			return err
		}

		header := []string{"id", "path", "rows", "cols", "target", "derived", "registered_at"}
		var rows [][]string
		for _, rec := range records {
			rows = append(rows, []string{
				rec.ID,
				rec.Path,
				strconv.Itoa(rec.Rows),
				strconv.Itoa(rec.Cols),
				rec.Target,
				strconv.FormatBool(rec.IsDerived),
				rec.RegisteredAt.Format("2006-01-02 15:04"),
			})
		}
		return render.Records(cmd.OutOrStdout(), format, header, rows)
	},
}

var registryRunsCmd = &cobra.Command{
	Use:   "runs [dataset-id]",
	Short: "List recorded model runs for a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.Runs(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		header := []string{"id", "model", "metric", "value", "created_at"}
		var rows [][]string
		for _, rec := range records {
			rows = append(rows, []string{
				rec.ID,
				rec.Model,
				rec.MetricName,
				formatFloat(rec.MetricValue),
				rec.CreatedAt.Format("2006-01-02 15:04"),
			})
		}
		return render.Records(cmd.OutOrStdout(), format, header, rows)
	},
}

var registryExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the registry to a YAML snapshot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := workflowConfig()

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.ExportYAML(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", filepath.Join(cfg.Registry.RegistryDir, "export.yaml"))
		return nil
	},
}

func init() {
	registryRegisterCmd.Flags().String("notes", "", "free-text notes stored with the dataset")
	registryRegisterCmd.Flags().String("target", "", "target column recorded for the dataset")

	registryQueryCmd.Flags().String("target", "", "only datasets with this target column")
	registryQueryCmd.Flags().String("text", "", "full-text search over notes and paths")
	registryQueryCmd.Flags().Int("max-results", 0, "maximum results (default from config)")
	registryQueryCmd.Flags().String("format", "table", "output format: table, csv, or json")

	registryRunsCmd.Flags().String("format", "table", "output format: table, csv, or json")

	registryCmd.AddCommand(registryRegisterCmd)
	registryCmd.AddCommand(registryQueryCmd)
	registryCmd.AddCommand(registryRunsCmd)
	registryCmd.AddCommand(registryExportCmd)
	rootCmd.AddCommand(registryCmd)
}
