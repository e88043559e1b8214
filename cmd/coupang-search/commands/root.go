package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"coupang-search/internal/components/telemetry"

	"github.com/spf13/cobra"
)

var (
	verbose    *bool
	configPath *string

	cfg       Config
	tel       telemetry.API = telemetry.SlogAPI{}
	otelState telemetry.Otel
)

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Show debug logs, including every redirect hop.")
	configPath = rootCmd.PersistentFlags().String("config", "coupang.json5", "The configuration file, coupang.local.json5 overrides it.")
}

var rootCmd = &cobra.Command{
	Use:           "coupang-search",
	Short:         "coupang-search searches coupang and extracts the listed products to JSON.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(cmd.ErrOrStderr(), *verbose)
		setupTelemetry(cmd.Context())

		var err error
		cfg, err = readConfig(*configPath)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
		return nil
	},
}

func setupTelemetry(ctx context.Context) {
	state, err := telemetry.SetupFromEnv(ctx, "coupang-search")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to setup opentelemetry", "err", err)
	}
	otelState = state

	metered, err := telemetry.NewMeteredAPI(telemetry.SlogAPI{})
	if err != nil {
		slog.Warn("failed to create metrics", "err", err)
		return
	}
	tel = metered
}

// ExecuteContext runs the CLI and returns the exit code of the process.
func ExecuteContext(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	telemetry.ReportPerfStats(context.Background(), tel)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if serr := otelState.Shutdown(shutdownCtx); serr != nil {
		slog.Warn("failed to flush telemetry", "err", serr)
	}

	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), err)
		return 1
	}
	return 0
}
