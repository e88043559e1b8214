package commands

import (
	"fmt"
	"path/filepath"

	"coupang-search/internal/pipeline"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	extractDir         *string
	extractNumProducts *int
	extractDb          *string
)

func init() {
	extractDir = extractCmd.Flags().StringP("dir", "d", pipeline.DefaultOutputDir, "Directory containing saved search pages.")
	extractNumProducts = extractCmd.Flags().IntP("num-products", "n", 10, "Number of products to extract per page.")
	extractDb = extractCmd.Flags().String("db", "", "Sqlite database to record the extractions in.")
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract [-d <dir>] [-n <count>] [--db <history.db>]",
	Short: "Re-extracts products from every saved search page in a directory.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := stringFlag(cmd, "dir", extractDir, cfg.OutputDir)
		opts, cleanup, err := buildOptions(optionsParams{
			numProducts: intFlag(cmd, "num-products", extractNumProducts, cfg.NumProducts),
			dbPath:      stringFlag(cmd, "db", extractDb, cfg.Db),
		})
		if err != nil {
			return err
		}
		defer cleanup()

		results, err := pipeline.ExtractDir(cmd.Context(), dir, opts)
		if err != nil {
			return fmt.Errorf("failed to extract %s: %w", dir, err)
		}
		if len(results) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "no html files found in %s\n", dir)
			return nil
		}

		t := newTable(cmd)
		t.AppendHeader(table.Row{"File", "Products", "Output"})
		failed := 0
		for _, r := range results {
			output := r.JsonPath
			if r.Err != nil {
				failed++
				output = fmt.Sprintf("error: %v", r.Err)
			}
			t.AppendRow(table.Row{filepath.Base(r.HtmlPath), len(r.Products), output})
		}
		t.AppendFooter(table.Row{"Total", len(results), fmt.Sprintf("%d failed", failed)})
		t.Render()
		return nil
	},
}
