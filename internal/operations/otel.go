package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"welldata/internal/infrastructure"
)

const (
	TracerName = "welldata.operations"
)

// JobTracer provides OpenTelemetry instrumentation for background jobs
type JobTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.JobMetrics
}

// NewJobTracer creates a tracer backed by the given providers
func NewJobTracer(providers *infrastructure.OTelProviders) (*JobTracer, error) {
	metrics, err := infrastructure.CreateJobMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create job metrics: %w", err)
	}
	return &JobTracer{
		tracer:  providers.Tracer,
		metrics: metrics,
	}, nil
}

// NoopJobTracer records nothing. Used by the CLI and tests.
func NoopJobTracer() *JobTracer {
	return &JobTracer{
		tracer:  tracenoop.NewTracerProvider().Tracer(TracerName),
		metrics: infrastructure.NoopJobMetrics(),
	}
}

// StartJob opens the span of a job and counts it as active.
func (jt *JobTracer) StartJob(ctx context.Context, job *Job) (context.Context, trace.Span) {
	ctx, span := jt.tracer.Start(ctx, "job."+string(job.Kind),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("job.id", job.ID),
			attribute.String("job.kind", string(job.Kind)),
		),
	)

	jt.metrics.ActiveJobs.Add(ctx, 1,
		metric.WithAttributes(attribute.String("kind", string(job.Kind))))

	return ctx, span
}

// EndJob closes the span and records the outcome.
func (jt *JobTracer) EndJob(ctx context.Context, span trace.Span, job *Job, terminal string, err error) {
	duration := time.Since(job.StartedAt)
	status := JobStatusCompleted
	if err != nil {
		status = JobStatusFailed
	}

	attrs := metric.WithAttributes(
		attribute.String("kind", string(job.Kind)),
		attribute.String("status", string(status)),
	)
	jt.metrics.JobsTotal.Add(ctx, 1, attrs)
	jt.metrics.JobDuration.Record(ctx, duration.Seconds(), attrs)
	jt.metrics.ActiveJobs.Add(ctx, -1,
		metric.WithAttributes(attribute.String("kind", string(job.Kind))))

	span.SetAttributes(
		attribute.String("job.status", string(status)),
		attribute.String("job.terminal", terminal),
		attribute.Float64("job.duration_seconds", duration.Seconds()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "job completed")
	}
	span.End()
}

// RecordIngested counts records extracted by a load job.
func (jt *JobTracer) RecordIngested(ctx context.Context, records int) {
	if records > 0 {
		jt.metrics.RecordsIngested.Add(ctx, int64(records))
	}
}

// RecordExported counts well sheets written by an export job.
func (jt *JobTracer) RecordExported(ctx context.Context, wells int) {
	if wells > 0 {
		jt.metrics.WellsExported.Add(ctx, int64(wells))
	}
}

// AddEvent attaches a named event to the span in ctx, if any.
func AddEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent(name, trace.WithAttributes(attrs...))
	}
}
