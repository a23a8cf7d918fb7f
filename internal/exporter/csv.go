package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"welldata/internal/config"
	"welldata/internal/dataprocessing"
	"welldata/internal/infrastructure"
	"welldata/internal/operations"
	"welldata/pkg/contracts/events"
)

// yearHeader is the extra column the CSV export carries after the five
// workbook columns.
const yearHeader = "Year"

// CSVWriter writes a selection as one flat CSV file, sorted the same way as
// the workbook export.
type CSVWriter struct {
	columns       dataprocessing.Columns
	dateLayout    string
	progressEvery int
	logger        *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(cfg config.ExportConfig, columns dataprocessing.Columns, logger *slog.Logger) *CSVWriter {
	layout := cfg.DateLayout
	if layout == "" {
		layout = config.DefaultDateLayout
	}
	return &CSVWriter{
		columns:       columns,
		dateLayout:    layout,
		progressEvery: cfg.ProgressEvery,
		logger:        infrastructure.WithComponent(logger, "export"),
	}
}

// Export writes sel to dest with a UTF-8 BOM so spreadsheet programs pick
// the right encoding for the Cyrillic header.
func (w *CSVWriter) Export(ctx context.Context, dest string, sel dataprocessing.Selection, sink events.Sink) (events.Message, error) {
	if sink == nil {
		sink = events.Discard
	}
	tracker := operations.NewProgressTracker(sink, w.progressEvery)
	tracker.Stage(0, "writing "+filepath.Base(dest))

	if dir := filepath.Dir(dest); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return events.Message{}, operations.NewFatalError("failed to create directory", err)
		}
	}

	file, err := os.Create(dest)
	if err != nil {
		return events.Message{}, operations.NewFatalError("failed to create file "+dest, err)
	}

	if err := w.write(file, sel, tracker); err != nil {
		file.Close()
		return events.Message{}, operations.NewFatalError("failed to write "+dest, err)
	}
	if err := file.Close(); err != nil {
		return events.Message{}, operations.NewFatalError("failed to close "+dest, err)
	}

	tracker.Finish("saved " + filepath.Base(dest))
	w.logger.InfoContext(ctx, "csv exported",
		slog.String("path", dest),
		slog.Int("records", len(sel.Records)))

	return events.Saved(dest), nil
}

func (w *CSVWriter) write(file *os.File, sel dataprocessing.Selection, tracker *operations.ProgressTracker) error {
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(append(w.columns.Header(), yearHeader)); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, rec := range sel.Records {
		if err := writer.Write(csvRow(rec, w.dateLayout)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
		tracker.Rows(i+1, len(sel.Records))
	}

	writer.Flush()
	return writer.Error()
}
