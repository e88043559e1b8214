package commands

import (
	"fmt"

	"coupang-search/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	runNumProducts *int
	runOutputDir   *string
	runDb          *string
	runDumpHttp    *string
)

func init() {
	runNumProducts = runCmd.Flags().IntP("num-products", "n", 10, "Number of products to extract.")
	runOutputDir = runCmd.Flags().StringP("output-dir", "o", pipeline.DefaultOutputDir, "Directory the page and its JSON are written to.")
	runDb = runCmd.Flags().String("db", "", "Sqlite database to record the run in.")
	runDumpHttp = runCmd.Flags().String("dump-http", "", "Directory to dump every HTTP request and response to.")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run <query> [-n <count>] [-o <output_dir>] [--db <history.db>] [--dump-http <dir>]",
	Short: "Searches coupang for a query and extracts the listed products to JSON.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, cleanup, err := buildOptions(optionsParams{
			numProducts: intFlag(cmd, "num-products", runNumProducts, cfg.NumProducts),
			outputDir:   stringFlag(cmd, "output-dir", runOutputDir, cfg.OutputDir),
			dbPath:      stringFlag(cmd, "db", runDb, cfg.Db),
			dumpDir:     stringFlag(cmd, "dump-http", runDumpHttp, cfg.DumpHttp),
		})
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := pipeline.SearchAndExtract(cmd.Context(), args[0], opts)
		if err != nil {
			return fmt.Errorf("failed to complete the search and extraction process: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), result.JsonPath)
		return nil
	},
}
