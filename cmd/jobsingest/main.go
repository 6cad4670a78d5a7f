// Command jobsingest reconciles the jobs_like, rides_trips and eats_orders
// sheets of one workbook into a single job-event CSV.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"jobsingest/internal/adapters"
	"jobsingest/internal/config"
	"jobsingest/internal/errors"
	"jobsingest/internal/exporter"
	"jobsingest/internal/infrastructure"
	"jobsingest/internal/pipeline"
	"jobsingest/internal/validation"
	"jobsingest/internal/workbook"
)

type options struct {
	configFile    string
	out           string
	defaultCityID int64
	bucketMinutes int
	logLevel      string
	metricsFile   string
	trace         bool
	bom           bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(stdout, stderr)
	if args == nil {
		// cobra falls back to os.Args when given nil
		args = []string{}
	}
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return errors.ExitCode(err)
	}
	return errors.ExitOK
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:     "jobsingest WORKBOOK",
		Short:   "Convert a jobs workbook into the unified jobs_like CSV",
		Version: config.GetFullVersionString(),
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return errors.NewConfigError("invalid arguments", err)
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, opts)
			if err != nil {
				return err
			}
			return ingest(cmd.Context(), cfg, args[0], stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.NewConfigError("invalid flags", err)
	})

	flags := cmd.Flags()
	flags.StringVar(&opts.configFile, "config", "", "YAML configuration file")
	flags.StringVar(&opts.out, "out", config.DefaultOutPath, "output CSV path")
	flags.Int64Var(&opts.defaultCityID, "default-city-id", config.DefaultCityID, "city used when jobs_like rows carry none")
	flags.IntVar(&opts.bucketMinutes, "bucket-minutes", config.DefaultBucketMinutes, "bucket width in minutes, 0 disables bucketing")
	flags.StringVar(&opts.logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus text metrics to this file")
	flags.BoolVar(&opts.trace, "trace", false, "export trace spans to stderr")
	flags.BoolVar(&opts.bom, "bom", false, "prefix the CSV with a UTF-8 BOM")
	return cmd
}

// buildConfig layers explicitly set flags over the loaded configuration.
func buildConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Ingest.Out = opts.out
	}
	if flags.Changed("default-city-id") {
		cfg.Ingest.DefaultCityID = opts.defaultCityID
	}
	if flags.Changed("bucket-minutes") {
		cfg.Ingest.BucketMinutes = opts.bucketMinutes
	}
	if flags.Changed("bom") {
		cfg.Ingest.BOM = opts.bom
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}
	if flags.Changed("metrics-file") {
		cfg.Telemetry.MetricsFile = opts.metricsFile
	}
	if flags.Changed("trace") && opts.trace {
		cfg.Telemetry.TraceExporter = "stdout"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func ingest(ctx context.Context, cfg *config.Config, path string, stdout, stderr io.Writer) (err error) {
	ctx = infrastructure.EnsureTraceID(ctx)

	logger, closeLog, err := infrastructure.InitializeLogger(cfg.Logging, stderr)
	if err != nil {
		return errors.NewConfigError("failed to initialize logger", err)
	}
	defer closeLog()

	tel, err := infrastructure.InitializeTelemetry(cfg.Telemetry, stderr, logger)
	if err != nil {
		return errors.NewConfigError("failed to initialize telemetry", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.WarnContext(ctx, "Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()
	// Failed runs are exported too so the textfile collector sees them.
	defer func() {
		tel.RecordRun(ctx, runStatus(err))
		if werr := tel.WriteMetricsFile(); werr != nil {
			logger.WarnContext(ctx, "Failed to write metrics file", slog.String("error", werr.Error()))
		}
	}()

	logger.InfoContext(ctx, "Starting ingest",
		slog.String("workbook", path),
		slog.String("out", cfg.Ingest.Out),
		slog.Int64("default_city_id", cfg.Ingest.DefaultCityID),
		slog.Int("bucket_minutes", cfg.Ingest.BucketMinutes))

	if err := validation.NewFileValidator(logger).ValidateWorkbook(path); err != nil {
		return err
	}
	wb, err := workbook.Open(path, logger)
	if err != nil {
		return err
	}
	defer wb.Close()

	runner := pipeline.NewRunner(logger, cfg.Ingest.BucketMinutes, adapters.Default(cfg.Ingest.DefaultCityID)...)
	report, err := runner.Run(ctx, wb)
	if report != nil {
		tel.RecordSources(ctx, report.Sources)
	}
	if err != nil {
		return err
	}

	writer := exporter.NewCSVWriter(logger, exporter.WriteOptions{BOMPrefix: cfg.Ingest.BOM})
	n, err := writer.WriteEvents(cfg.Ingest.Out, report.Events)
	if err != nil {
		return err
	}
	tel.RecordWritten(ctx, n)

	fmt.Fprintf(stdout, "OK: wrote %s rows to %s\n", humanize.Comma(int64(n)), cfg.Ingest.Out)
	return nil
}

// runStatus labels a run outcome for the runs counter
func runStatus(err error) string {
	if err == nil {
		return "ok"
	}
	if t := errors.TypeOf(err); t != "" {
		return strings.ToLower(string(t))
	}
	return "error"
}
