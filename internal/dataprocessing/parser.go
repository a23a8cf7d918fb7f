package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"

	"welldata/internal/config"
	"welldata/internal/infrastructure"
	"welldata/internal/operations"
	"welldata/pkg/contracts/domain"
	"welldata/pkg/contracts/events"
)

// ErrEmptySheet is returned when a year sheet has no non-empty cell.
var ErrEmptySheet = errors.New("empty sheet")

// Parser extracts well records from the year sheets of a workbook.
type Parser struct {
	columns       Columns
	progressEvery int
	logger        *slog.Logger
	open          func(path string) (Workbook, error)
}

// NewParser creates a parser from the ingest configuration.
func NewParser(cfg config.IngestConfig, logger *slog.Logger) *Parser {
	return &Parser{
		columns:       ColumnsFromConfig(cfg.Columns),
		progressEvery: cfg.ProgressEvery,
		logger:        infrastructure.WithComponent(logger, "ingest"),
		open:          OpenWorkbook,
	}
}

// Columns returns the headers the parser looks for.
func (p *Parser) Columns() Columns {
	return p.columns
}

// Parse opens the workbook at path and returns a Loaded message carrying
// every record of its year sheets. Failing to open the file or meeting an
// empty year sheet is fatal; every other anomaly only drops data.
func (p *Parser) Parse(ctx context.Context, path string, sink events.Sink) (events.Message, error) {
	if sink == nil {
		sink = events.Discard
	}
	sink.Send(events.Progress(0, 0, "opening "+filepath.Base(path)))

	wb, err := p.open(path)
	if err != nil {
		return events.Message{}, operations.NewFatalError("failed to open workbook "+path, unwrapOpen(err))
	}
	defer wb.Close()

	ds, err := p.ParseWorkbook(ctx, wb, sink)
	if err != nil {
		return events.Message{}, err
	}

	p.logger.InfoContext(ctx, "workbook ingested",
		slog.String("path", path),
		slog.Int("records", len(ds.Records)),
		slog.Int("years", len(ds.Years)),
		slog.Int("wells", len(ds.Wells)))

	return events.Loaded(ds), nil
}

// ParseWorkbook walks the sheets of an opened workbook.
func (p *Parser) ParseWorkbook(ctx context.Context, wb Workbook, sink events.Sink) (domain.Dataset, error) {
	tracker := operations.NewProgressTracker(sink, p.progressEvery)

	names := wb.SheetNames()
	records := make([]domain.WellRecord, 0)
	years := make(map[int]struct{})
	wells := make(map[string]struct{})

	for i, name := range names {
		tracker.Stage(float64(i)/float64(len(names)), "reading sheet "+name)

		year, err := strconv.ParseInt(name, 10, 32)
		if err != nil {
			p.logger.DebugContext(ctx, "skipping non-year sheet", slog.String("sheet", name))
			continue
		}

		sheet, err := wb.Sheet(name)
		if err != nil {
			p.logger.WarnContext(ctx, "skipping unreadable sheet",
				slog.String("sheet", name),
				slog.String("error", err.Error()))
			continue
		}

		total := sheet.RowCount()
		header, used := firstUsedRow(sheet)
		if !used {
			return domain.Dataset{}, operations.NewFatalError("sheet "+name, ErrEmptySheet).
				WithContext("sheet", name)
		}

		layout, ok := ResolveColumns(sheet.Row(header)).Layout(p.columns)
		if !ok {
			p.logger.DebugContext(ctx, "skipping sheet without name or date column",
				slog.String("sheet", name),
				slog.Int("year", int(year)))
			continue
		}
		years[int(year)] = struct{}{}

		before := len(records)
		dataRows := total - header - 1
		for r := header + 1; r < total; r++ {
			if rec, ok := p.extract(sheet, r, layout, int(year)); ok {
				wells[rec.WellName] = struct{}{}
				records = append(records, rec)
			}
			tracker.Rows(r-header, dataRows)
		}

		p.logger.InfoContext(ctx, "sheet ingested",
			slog.String("sheet", name),
			slog.Int("year", int(year)),
			slog.Int("rows", dataRows),
			slog.Int("records", len(records)-before))
	}

	tracker.Finish(fmt.Sprintf("read %d records", len(records)))

	return domain.Dataset{
		Records: records,
		Years:   sortedYears(years),
		Wells:   sortedWells(wells),
	}, nil
}

// firstUsedRow finds the header: the first row holding any non-empty cell.
func firstUsedRow(sheet Sheet) (int, bool) {
	for i := 0; i < sheet.RowCount(); i++ {
		for _, c := range sheet.Row(i) {
			if c.Kind != KindEmpty {
				return i, true
			}
		}
	}
	return 0, false
}

// extract builds the record of one data row. Rows whose name cell is not
// text or a number are dropped.
func (p *Parser) extract(sheet Sheet, row int, layout SheetLayout, year int) (domain.WellRecord, bool) {
	name, ok := sheet.Cell(row, layout.Name).String()
	if !ok {
		return domain.WellRecord{}, false
	}

	rec := domain.WellRecord{
		WellName:  name,
		SheetYear: year,
	}
	if t, ok := sheet.Cell(row, layout.Date).DateTime(); ok {
		rec.Timestamp = &t
	}
	rec.LiquidRate = optionalNumber(sheet, row, layout.Liquid)
	rec.OilRate = optionalNumber(sheet, row, layout.Oil)
	rec.Temperature = optionalNumber(sheet, row, layout.Temperature)
	return rec, true
}

func optionalNumber(sheet Sheet, row, col int) *float64 {
	if col < 0 {
		return nil
	}
	v, ok := sheet.Cell(row, col).Number()
	if !ok {
		return nil
	}
	return &v
}

func sortedYears(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for y := range set {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

func sortedWells(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for w := range set {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// unwrapOpen drops the "failed to open workbook" prefix added by
// OpenWorkbook so the message is not repeated.
func unwrapOpen(err error) error {
	if inner := errors.Unwrap(err); inner != nil {
		return inner
	}
	return err
}
