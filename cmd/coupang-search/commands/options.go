package commands

import (
	"fmt"

	"coupang-search/internal/db"
	"coupang-search/internal/history"
	"coupang-search/internal/pipeline"
	"coupang-search/lib/restyutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// stringFlag returns the flag value when it was passed and `fallback` (the
// configured value) otherwise.
func stringFlag(cmd *cobra.Command, name string, value *string, fallback string) string {
	if cmd.Flags().Changed(name) {
		return *value
	}
	return fallback
}

func intFlag(cmd *cobra.Command, name string, value *int, fallback int) int {
	if cmd.Flags().Changed(name) {
		return *value
	}
	return fallback
}

func openHistory(path string) (*history.Recorder, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	sqldb, err := db.OpenDB(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history db: %w", err)
	}
	recorder := history.NewRecorder(sqldb, history.WithCustomTelemetryAPI(tel))
	return &recorder, func() { sqldb.Close() }, nil
}

type optionsParams struct {
	numProducts int
	outputDir   string
	dbPath      string
	dumpDir     string
}

func buildOptions(params optionsParams) (pipeline.Options, func(), error) {
	if params.numProducts <= 0 {
		return pipeline.Options{}, nil, fmt.Errorf("--num-products must be a positive number, got %d", params.numProducts)
	}

	var dump restyutil.InstrumentOutput
	if params.dumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(params.dumpDir)
		if err != nil {
			return pipeline.Options{}, nil, fmt.Errorf("failed to prepare http dump dir: %w", err)
		}
		tel.ReportInfo("dumping http exchanges", "dir", output.Directory())
		dump = output
	}

	recorder, closeHistory, err := openHistory(params.dbPath)
	if err != nil {
		return pipeline.Options{}, nil, err
	}

	return pipeline.Options{
		Limit:     params.numProducts,
		OutputDir: params.outputDir,
		Client:    cfg.clientOptions(tel, dump),
		History:   recorder,
		Telemetry: tel,
	}, closeHistory, nil
}

func newTable(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(cmd.OutOrStdout())
	return t
}
