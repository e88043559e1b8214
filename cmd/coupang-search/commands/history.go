package commands

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	historyDb    *string
	historyLimit *int
)

func init() {
	historyDb = historyCmd.Flags().String("db", "", "Sqlite database runs were recorded in.")
	historyLimit = historyCmd.Flags().IntP("limit", "l", 20, "Number of runs to list.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history --db <history.db> [-l <count>]",
	Short: "Lists the most recent recorded runs.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := stringFlag(cmd, "db", historyDb, cfg.Db)
		if path == "" {
			return fmt.Errorf("no history database configured, pass --db")
		}
		recorder, cleanup, err := openHistory(path)
		if err != nil {
			return err
		}
		defer cleanup()

		runs, err := recorder.Recent(cmd.Context(), *historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		t := newTable(cmd)
		t.AppendHeader(table.Row{"Time", "Query", "Products", "Status", "Output"})
		for _, run := range runs {
			status := "disk"
			if run.StatusCode.Valid {
				status = fmt.Sprint(run.StatusCode.Int64)
			}
			t.AppendRow(table.Row{
				recorder.CreatedAt(run).Format(time.DateTime),
				run.Query,
				run.ProductCount,
				status,
				run.JsonPath,
			})
		}
		t.Render()
		return nil
	},
}
