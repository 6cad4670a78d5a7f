package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"jobsingest/internal/config"
	"jobsingest/internal/pipeline"
)

const (
	ServiceName = config.AppName
	MeterName   = "jobsingest"
)

// Telemetry holds the OpenTelemetry providers and the ingest counters.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Registry       *prometheus.Registry

	metricsFile string
	logger      *slog.Logger

	rowsRead    metric.Int64Counter
	rowsDropped metric.Int64Counter
	rowsEmitted metric.Int64Counter
	rowsWritten metric.Int64Counter
	runs        metric.Int64Counter
}

// InitializeTelemetry sets up tracing and metrics. Spans are exported to
// traceOut when the stdout trace exporter is selected. Metrics always land in
// a private Prometheus registry, dumped by WriteMetricsFile.
func InitializeTelemetry(cfg config.TelemetryConfig, traceOut io.Writer, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ctx := context.Background()

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(config.AppVersion),
	)

	t := &Telemetry{
		metricsFile: cfg.MetricsFile,
		logger:      logger,
	}

	if err := t.initializeTracing(cfg, res, traceOut); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := t.initializeMetrics(res); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.DebugContext(ctx, "Telemetry initialized",
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("metrics_file", cfg.MetricsFile))
	return t, nil
}

func (t *Telemetry) initializeTracing(cfg config.TelemetryConfig, res *resource.Resource, out io.Writer) error {
	switch cfg.TraceExporter {
	case "stdout":
		if out == nil {
			out = os.Stderr
		}
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(out))
		if err != nil {
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		)
		t.TracerProvider = tp
		otel.SetTracerProvider(tp)
	case "none", "":
		// No exporter - spans go to the global no-op provider
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}
	return nil
}

func (t *Telemetry) initializeMetrics(res *resource.Resource) error {
	t.Registry = prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(t.Registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	t.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	meter := t.MeterProvider.Meter(MeterName, metric.WithInstrumentationVersion(config.AppVersion))

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&t.rowsRead, "jobsingest_rows_read", "Data rows read per source sheet"},
		{&t.rowsDropped, "jobsingest_rows_dropped", "Rows dropped for missing essential fields"},
		{&t.rowsEmitted, "jobsingest_rows_emitted", "Events emitted per source sheet"},
		{&t.rowsWritten, "jobsingest_rows_written", "Rows written to the output file"},
		{&t.runs, "jobsingest_runs", "Completed runs by outcome"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return fmt.Errorf("create counter %s: %w", c.name, err)
		}
		*c.dst = counter
	}
	return nil
}

// RecordSources adds per-sheet read, dropped and emitted counts.
func (t *Telemetry) RecordSources(ctx context.Context, sources []pipeline.SourceStats) {
	for _, s := range sources {
		attrs := metric.WithAttributes(attribute.String("source_sheet", s.Sheet))
		t.rowsRead.Add(ctx, int64(s.Read), attrs)
		t.rowsDropped.Add(ctx, int64(s.Dropped), attrs)
		t.rowsEmitted.Add(ctx, int64(s.Emitted), attrs)
	}
}

// RecordWritten adds the number of rows written to the output file.
func (t *Telemetry) RecordWritten(ctx context.Context, rows int) {
	t.rowsWritten.Add(ctx, int64(rows))
}

// RecordRun counts one run with its outcome, "ok" or the error type.
func (t *Telemetry) RecordRun(ctx context.Context, status string) {
	t.runs.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// WriteMetricsFile dumps the registry in the Prometheus text format when a
// metrics file is configured. It is a no-op otherwise.
func (t *Telemetry) WriteMetricsFile() error {
	if t.metricsFile == "" {
		return nil
	}
	if dir := filepath.Dir(t.metricsFile); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create metrics directory %s: %w", dir, err)
		}
	}
	if err := prometheus.WriteToTextfile(t.metricsFile, t.Registry); err != nil {
		return fmt.Errorf("write metrics file %s: %w", t.metricsFile, err)
	}
	return nil
}

// Shutdown flushes and shuts down the providers
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %v", errs)
	}
	return nil
}
