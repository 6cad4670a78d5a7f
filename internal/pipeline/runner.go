package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"jobsingest/internal/adapters"
	"jobsingest/internal/workbook"
	"jobsingest/pkg/contracts/domain"
)

const tracerName = "jobsingest/pipeline"

// SourceStats summarizes one adapter's pass over its sheet.
type SourceStats struct {
	Sheet   string `json:"sheet"`
	Present bool   `json:"present"`
	Read    int    `json:"read"`
	Emitted int    `json:"emitted"`
	Dropped int    `json:"dropped"`
}

// Report is the outcome of a run
type Report struct {
	Events           []domain.Event
	Sources          []SourceStats
	PreAggregateRows int
	BucketMinutes    int
	TotalJobs        float64
}

// Runner wires the adapters, the unifier and the aggregator together.
type Runner struct {
	adapters   []adapters.Adapter
	aggregator *Aggregator
	minutes    int
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewRunner creates a runner over the given adapters, applied in order.
func NewRunner(logger *slog.Logger, bucketMinutes int, list ...adapters.Adapter) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		adapters:   list,
		aggregator: NewAggregator(bucketMinutes),
		minutes:    bucketMinutes,
		logger:     logger,
		tracer:     otel.Tracer(tracerName),
	}
}

// Run reads each adapter's sheet from wb, unifies the results and buckets them.
// When no source yields an event the error is returned together with a report
// that carries only Sources.
func (r *Runner) Run(ctx context.Context, wb workbook.Workbook) (*Report, error) {
	ctx, span := r.tracer.Start(ctx, "pipeline.Run")
	defer span.End()

	report := &Report{BucketMinutes: r.minutes}
	results := make([]adapters.Result, 0, len(r.adapters))
	for _, a := range r.adapters {
		res, present, err := r.adapt(ctx, wb, a)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		results = append(results, res)
		report.Sources = append(report.Sources, SourceStats{
			Sheet:   a.Sheet(),
			Present: present,
			Read:    res.Read,
			Emitted: len(res.Events),
			Dropped: res.Dropped,
		})
	}

	unified, err := Unify(results...)
	if err != nil {
		r.logger.WarnContext(ctx, "No usable source data",
			slog.Any("sheets", wb.SheetNames()),
			slog.Any("expected", domain.SourceSheets()))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		// Per-source stats stay available to the caller for metrics.
		return report, fmt.Errorf("unify sources: %w", err)
	}
	report.PreAggregateRows = len(unified)

	_, aggSpan := r.tracer.Start(ctx, "pipeline.Aggregate",
		trace.WithAttributes(attribute.Int("bucket_minutes", r.minutes)))
	report.Events = r.aggregator.Apply(unified)
	aggSpan.SetAttributes(attribute.Int("rows_in", len(unified)), attribute.Int("rows_out", len(report.Events)))
	aggSpan.End()

	for _, ev := range report.Events {
		report.TotalJobs += ev.JobsLike
	}

	r.logger.InfoContext(ctx, "Pipeline complete",
		slog.Int("unified_rows", report.PreAggregateRows),
		slog.Int("output_rows", len(report.Events)),
		slog.Bool("bucketing", r.aggregator.Enabled()),
		slog.Int("bucket_minutes", r.minutes),
		slog.Float64("total_jobs", report.TotalJobs))
	return report, nil
}

func (r *Runner) adapt(ctx context.Context, wb workbook.Workbook, a adapters.Adapter) (adapters.Result, bool, error) {
	_, span := r.tracer.Start(ctx, "adapter."+a.Sheet())
	defer span.End()

	t, err := wb.Sheet(a.Sheet())
	if err != nil {
		return adapters.Result{}, false, fmt.Errorf("load sheet %s: %w", a.Sheet(), err)
	}
	res := a.Adapt(t)
	span.SetAttributes(
		attribute.Bool("present", t != nil),
		attribute.Int("rows_read", res.Read),
		attribute.Int("rows_dropped", res.Dropped),
	)

	r.logger.InfoContext(ctx, "Source adapted",
		slog.String("sheet", a.Sheet()),
		slog.Bool("present", t != nil),
		slog.Int("read", res.Read),
		slog.Int("emitted", len(res.Events)),
		slog.Int("dropped", res.Dropped))
	return res, t != nil, nil
}
