// Package operations runs the long-running jobs of welldata in the
// background and carries their messages to an observer.
//
// A job is a Task started by a Runner on its own goroutine. The task reports
// progress through a ProgressTracker into the job's Mailbox and returns its
// terminal message (Loaded or Saved). The Runner turns a returned error, or a
// panic, into an Error message, so every job ends with exactly one terminal
// message and that message is always last.
//
// The observer never blocks: it calls Mailbox.Drain on its own schedule and
// applies whatever is pending. Abandoning a job is done with Mailbox.Detach;
// the worker keeps running and its later messages are discarded.
//
// Example usage:
//
//	runner := operations.NewRunner(logger, nil)
//	job := runner.Start(ctx, operations.JobKindLoad, func(ctx context.Context, sink events.Sink) (events.Message, error) {
//		return parser.Parse(ctx, path, sink)
//	})
//	for _, msg := range job.Mailbox().Drain() {
//		...
//	}
package operations
