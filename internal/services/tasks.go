package services

import (
	"context"

	"welldata/internal/dataprocessing"
	"welldata/internal/operations"
	"welldata/pkg/contracts/domain"
	"welldata/pkg/contracts/events"
)

// LoadTask ingests path with l.
func LoadTask(l Loader, path string) operations.Task {
	return func(ctx context.Context, sink events.Sink) (events.Message, error) {
		return l.Parse(ctx, path, sink)
	}
}

// ExportTask filters and orders ds, then hands the selection to e. ds must
// be owned by the task.
func ExportTask(e Exporter, ds domain.Dataset, startYear int, wells map[string]struct{}, dest string, tracer *operations.JobTracer) operations.Task {
	return func(ctx context.Context, sink events.Sink) (events.Message, error) {
		sink.Send(events.Progress(0, 0, "filtering"))
		kept := dataprocessing.Select(ds.Records, startYear, wells)

		sink.Send(events.Progress(0, 0, "sorting"))
		sel := dataprocessing.NewSelection(kept)

		msg, err := e.Export(ctx, dest, sel, sink)
		if err != nil {
			return events.Message{}, err
		}
		if tracer != nil {
			tracer.RecordExported(ctx, len(sel.Wells))
		}
		return msg, nil
	}
}
