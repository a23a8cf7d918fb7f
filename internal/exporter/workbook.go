package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"welldata/internal/config"
	"welldata/internal/dataprocessing"
	"welldata/internal/infrastructure"
	"welldata/internal/operations"
	"welldata/pkg/contracts/events"
)

// WorkbookExporter writes a selection to an xlsx file with one worksheet per
// well.
type WorkbookExporter struct {
	columns       dataprocessing.Columns
	nameLimit     int
	dateLayout    string
	progressEvery int
	logger        *slog.Logger
}

// NewWorkbookExporter creates an exporter. The header row uses columns so
// that the output can be ingested again with the same settings.
func NewWorkbookExporter(cfg config.ExportConfig, columns dataprocessing.Columns, logger *slog.Logger) *WorkbookExporter {
	layout := cfg.DateLayout
	if layout == "" {
		layout = config.DefaultDateLayout
	}
	return &WorkbookExporter{
		columns:       columns,
		nameLimit:     cfg.SheetNameLimit,
		dateLayout:    layout,
		progressEvery: cfg.ProgressEvery,
		logger:        infrastructure.WithComponent(logger, "export"),
	}
}

// Export writes sel to dest and returns a Saved message. Sheet creation and
// save failures are fatal and leave dest untouched.
func (e *WorkbookExporter) Export(ctx context.Context, dest string, sel dataprocessing.Selection, sink events.Sink) (events.Message, error) {
	if sink == nil {
		sink = events.Discard
	}
	tracker := operations.NewProgressTracker(sink, e.progressEvery)

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			e.logger.WarnContext(ctx, "failed to close workbook", slog.String("error", err.Error()))
		}
	}()

	groups := sel.Groups()
	owners := make(map[string]string, len(groups))
	defaultSheet := f.GetSheetName(0)

	for i, g := range groups {
		tracker.Stage(float64(i)/float64(len(groups)), "writing well "+g.Well)

		name := SanitizeSheetName(g.Well, e.nameLimit)
		if err := e.createSheet(f, i, defaultSheet, name, g.Well, owners); err != nil {
			return events.Message{}, err
		}

		if err := e.writeSheet(f, name, g, tracker); err != nil {
			return events.Message{}, operations.NewFatalError(
				fmt.Sprintf("failed to write sheet %q", name), err).WithContext("well", g.Well)
		}
	}

	tracker.Finish("saving to disk")
	if err := f.SaveAs(dest); err != nil {
		return events.Message{}, operations.NewFatalError("failed to save workbook "+dest, err)
	}

	e.logger.InfoContext(ctx, "workbook exported",
		slog.String("path", dest),
		slog.Int("wells", len(groups)),
		slog.Int("records", len(sel.Records)))

	return events.Saved(dest), nil
}

// createSheet adds the worksheet for well. The first well takes over the
// default sheet so the output holds no stray empty sheet.
func (e *WorkbookExporter) createSheet(f *excelize.File, i int, defaultSheet, name, well string, owners map[string]string) error {
	key := strings.ToLower(name)
	if other, ok := owners[key]; ok {
		return operations.NewFatalError(
			fmt.Sprintf("wells %q and %q both map to sheet %q", other, well, name), nil).
			WithContext("sheet", name)
	}

	var err error
	if i == 0 {
		err = f.SetSheetName(defaultSheet, name)
	} else {
		_, err = f.NewSheet(name)
	}
	if err != nil {
		return operations.NewFatalError(fmt.Sprintf("failed to create sheet %q for well %q", name, well), err)
	}
	owners[key] = well
	return nil
}

func (e *WorkbookExporter) writeSheet(f *excelize.File, name string, g dataprocessing.WellGroup, tracker *operations.ProgressTracker) error {
	sw, err := f.NewStreamWriter(name)
	if err != nil {
		return err
	}

	header := e.columns.Header()
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := sw.SetRow("A1", headerRow); err != nil {
		return err
	}

	for j, rec := range g.Records {
		cell, err := excelize.CoordinatesToCellName(1, j+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, recordRow(rec, e.dateLayout)); err != nil {
			return err
		}
		tracker.Rows(j+1, len(g.Records))
	}

	return sw.Flush()
}
