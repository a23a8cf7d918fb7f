package operations

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"welldata/internal/infrastructure"
	"welldata/pkg/contracts/events"
)

// Runner starts background jobs. Each job gets its own goroutine and its
// own mailbox, and always ends with exactly one terminal message.
type Runner struct {
	logger *slog.Logger
	tracer *JobTracer
}

// NewRunner creates a runner. A nil tracer records nothing.
func NewRunner(logger *slog.Logger, tracer *JobTracer) *Runner {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	if tracer == nil {
		tracer = NoopJobTracer()
	}
	return &Runner{
		logger: infrastructure.WithComponent(logger, "runner"),
		tracer: tracer,
	}
}

// Tracer returns the instrumentation used for jobs.
func (r *Runner) Tracer() *JobTracer {
	return r.tracer
}

// Start launches task and returns immediately. The caller's cancellation is
// not propagated to the worker; only values such as the trace ID are kept.
func (r *Runner) Start(ctx context.Context, kind JobKind, task Task) *Job {
	id := uuid.NewString()
	job := &Job{
		ID:        id,
		Kind:      kind,
		StartedAt: time.Now(),
		mailbox:   NewMailbox(id),
		done:      make(chan struct{}),
		status:    JobStatusRunning,
	}

	ctx = infrastructure.EnsureTraceID(context.WithoutCancel(ctx))
	go r.run(ctx, job, task)
	return job
}

func (r *Runner) run(ctx context.Context, job *Job, task Task) {
	logger := r.logger.With(
		slog.String("job_id", job.ID),
		slog.String("kind", string(job.Kind)),
	)
	logger.InfoContext(ctx, "job started")

	ctx, span := r.tracer.StartJob(ctx, job)

	terminal, err := r.execute(ctx, task, job.mailbox, logger)
	if err == nil && !terminal.Terminal() {
		err = NewInvalidStateError(fmt.Sprintf("job finished with non-terminal message %q", terminal.Type))
	}
	if err != nil {
		terminal = events.Error(err.Error())
	}

	if !job.mailbox.Offer(terminal) && !job.mailbox.Closed() {
		logger.DebugContext(ctx, "terminal message dropped by detached mailbox")
	}

	status := JobStatusCompleted
	if err != nil {
		status = JobStatusFailed
	}
	if terminal.Type == events.TypeLoaded && terminal.Dataset != nil {
		r.tracer.RecordIngested(ctx, len(terminal.Dataset.Records))
	}
	r.tracer.EndJob(ctx, span, job, string(terminal.Type), err)

	if err != nil {
		logger.ErrorContext(ctx, "job failed",
			slog.String("error", err.Error()),
			slog.String("error_type", string(GetErrorType(err))),
			slog.Duration("duration", time.Since(job.StartedAt)))
	} else {
		logger.InfoContext(ctx, "job completed",
			slog.String("terminal", string(terminal.Type)),
			slog.Duration("duration", time.Since(job.StartedAt)))
	}
	job.finish(status)
}

// execute runs task, converting a panic into a fatal error.
func (r *Runner) execute(ctx context.Context, task Task, sink events.Sink, logger *slog.Logger) (msg events.Message, err error) {
	defer func() {
		if p := recover(); p != nil {
			logger.ErrorContext(ctx, "job panicked",
				slog.Any("panic", p),
				slog.String("stack", string(debug.Stack())))
			err = NewFatalError("internal error", fmt.Errorf("%v", p))
		}
	}()
	return task(ctx, sink)
}
