package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
	"uwsched/internal/components/telemetry"
	"uwsched/internal/scrapers/expert"
	"uwsched/lib/restyutil"
	libtelemetry "uwsched/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	cfg     Config
	verbose bool
	driver  string
	otel    libtelemetry.Telemetry
)

var rootCmd = &cobra.Command{
	Use:   "uwsched",
	Short: "uwsched looks up UW class schedules from the CSCF expert schedule page.",
	Long: `uwsched looks up UW class schedules from the CSCF expert schedule page.

Running it without a subcommand starts an interactive session.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		libtelemetry.InitSlog(verbose)

		var err error
		cfg, err = loadConfig()
		if err != nil {
			return err
		}
		if driver != "" {
			cfg.Driver = driver
		}
		err = cfg.Validate()
		if err != nil {
			return err
		}

		otel, err = libtelemetry.SetupFromEnv(cmd.Context(), "uwsched")
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("telemetry.json5 not found, traces and metrics are disabled")
			return nil
		}
		if err != nil {
			slog.Warn("failed to setup telemetry", "err", err)
			return nil
		}
		libtelemetry.InstrumentPerfStats(cmd.Context())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := otel.Shutdown(ctx)
		if err != nil {
			slog.Warn("failed to flush telemetry", "err", err)
		}
	},
	RunE: runSession,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug information.")
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "", "How the schedule page is queried, either 'chrome' or 'http' (default from config, 'chrome').")
	bindSessionFlags(rootCmd)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newTelemetryAPI() telemetry.API {
	return telemetry.SlogAPI{}
}

func newFetcher(tel telemetry.API) (expert.Fetcher, error) {
	switch cfg.Driver {
	case driverHttp:
		config := cfg.httpConfig()
		if deref(cfg.Http.DumpMessages) || verbose {
			output, err := restyutil.NewFilesystemOutput("<dev_state>/resty/expert")
			if err != nil {
				slog.Warn("http messages will not be written", "err", err)
			} else {
				config.Output = output
			}
		}
		return expert.NewHTTPFetcher(config, tel)
	case driverChrome:
		return expert.NewChromeFetcher(cfg.chromeConfig(), tel), nil
	}
	return nil, fmt.Errorf("unknown driver '%s'", cfg.Driver)
}
