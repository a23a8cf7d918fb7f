package exporter

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"welldata/internal/config"
	"welldata/internal/dataprocessing"
	"welldata/internal/operations"
	"welldata/internal/shared/testutil"
	"welldata/pkg/contracts/domain"
	"welldata/pkg/contracts/events"
)

type collectSink struct {
	msgs []events.Message
}

func (s *collectSink) Send(m events.Message) { s.msgs = append(s.msgs, m) }

func newTestExporter(t *testing.T) *WorkbookExporter {
	logger, _ := testutil.NewTestLogger(t)
	cfg := config.Default().Export
	cfg.ProgressEvery = 1
	return NewWorkbookExporter(cfg, dataprocessing.DefaultColumns(), logger)
}

func at(day, hour int) *time.Time {
	return domain.Time(time.Date(2021, 2, day, hour, 15, 30, 0, time.UTC))
}

func sampleRecords() []domain.WellRecord {
	return []domain.WellRecord{
		{WellName: "B/2", Timestamp: at(2, 8), LiquidRate: domain.Float(12.5), OilRate: domain.Float(3), Temperature: domain.Float(61.25), SheetYear: 2021},
		{WellName: "A7", Timestamp: at(1, 6), LiquidRate: domain.Float(1), SheetYear: 2021},
		{WellName: "B/2", Timestamp: nil, OilRate: domain.Float(7), SheetYear: 2021},
		{WellName: "A7", Timestamp: at(3, 6), Temperature: domain.Float(58), SheetYear: 2021},
		{WellName: "A7", Timestamp: at(5, 6), SheetYear: 2020},
	}
}

func TestExportWritesOneSheetPerWell(t *testing.T) {
	sel := dataprocessing.Filter(sampleRecords(), 2021, dataprocessing.WellSet([]string{"A7", "B/2"}))
	dest := filepath.Join(t.TempDir(), "out.xlsx")
	sink := &collectSink{}

	msg, err := newTestExporter(t).Export(context.Background(), dest, sel, sink)
	require.NoError(t, err)
	assert.Equal(t, events.Saved(dest), msg)

	assert.Equal(t, []string{"A7", "B_2"}, testutil.SheetList(t, dest))

	header := []string{testutil.NameHeader, testutil.DateHeader, testutil.LiquidHeader, testutil.OilHeader, testutil.TemperatureHeader}

	a7 := testutil.ReadRows(t, dest, "A7")
	require.Len(t, a7, 3)
	assert.Equal(t, header, a7[0])
	assert.Equal(t, []string{"A7", "2021-02-01 06:15:30", "1"}, a7[1])
	assert.Equal(t, []string{"A7", "2021-02-03 06:15:30", "", "", "58"}, a7[2])

	b2 := testutil.ReadRows(t, dest, "B_2")
	require.Len(t, b2, 3)
	assert.Equal(t, []string{"B/2", "", "", "7"}, b2[1], "missing timestamp sorts first and leaves the cell blank")
	assert.Equal(t, []string{"B/2", "2021-02-02 08:15:30", "12.5", "3", "61.25"}, b2[2])
}

func TestExportProgress(t *testing.T) {
	sel := dataprocessing.Filter(sampleRecords(), 2021, dataprocessing.WellSet([]string{"A7", "B/2"}))
	dest := filepath.Join(t.TempDir(), "out.xlsx")
	sink := &collectSink{}

	_, err := newTestExporter(t).Export(context.Background(), dest, sel, sink)
	require.NoError(t, err)

	want := []events.Message{
		events.Progress(0, 0, "writing well A7"),
		events.Progress(0, 0.5, "writing well A7"),
		events.Progress(0, 1, "writing well A7"),
		events.Progress(0.5, 0, "writing well B/2"),
		events.Progress(0.5, 0.5, "writing well B/2"),
		events.Progress(0.5, 1, "writing well B/2"),
		events.Progress(1, 1, "saving to disk"),
	}
	assert.Equal(t, want, sink.msgs)
}

func TestExportRoundTrip(t *testing.T) {
	records := sampleRecords()
	sel := dataprocessing.Filter(records, 2021, dataprocessing.WellSet([]string{"A7", "B/2"}))
	dest := filepath.Join(t.TempDir(), "out.xlsx")

	_, err := newTestExporter(t).Export(context.Background(), dest, sel, nil)
	require.NoError(t, err)

	logger, _ := testutil.NewTestLogger(t)
	msg, err := dataprocessing.NewParser(config.Default().Ingest, logger).Parse(context.Background(), dest, nil)
	require.NoError(t, err)
	require.NotNil(t, msg.Dataset)

	// well sheets are not year sheets, so nothing is read back
	assert.Empty(t, msg.Dataset.Records)
}

func TestExportReingestAsYearSheet(t *testing.T) {
	records := []domain.WellRecord{
		{WellName: "2021", Timestamp: at(1, 6), LiquidRate: domain.Float(4.5), OilRate: domain.Float(2), Temperature: domain.Float(60), SheetYear: 2021},
		{WellName: "2021", Timestamp: nil, SheetYear: 2021},
	}
	sel := dataprocessing.Filter(records, 2021, dataprocessing.WellSet([]string{"2021"}))
	dest := filepath.Join(t.TempDir(), "out.xlsx")

	_, err := newTestExporter(t).Export(context.Background(), dest, sel, nil)
	require.NoError(t, err)

	logger, _ := testutil.NewTestLogger(t)
	msg, err := dataprocessing.NewParser(config.Default().Ingest, logger).Parse(context.Background(), dest, nil)
	require.NoError(t, err)
	require.NotNil(t, msg.Dataset)

	assert.Equal(t, []int{2021}, msg.Dataset.Years)
	assert.Equal(t, sel.Records, msg.Dataset.Records)
}

func TestExportSheetNameCollision(t *testing.T) {
	long := strings.Repeat("w", 30)
	records := []domain.WellRecord{
		{WellName: long + "-1", SheetYear: 2021},
		{WellName: long + "-2", SheetYear: 2021},
	}
	sel := dataprocessing.Filter(records, 2021, dataprocessing.WellSet([]string{long + "-1", long + "-2"}))
	dest := filepath.Join(t.TempDir(), "out.xlsx")

	_, err := newTestExporter(t).Export(context.Background(), dest, sel, nil)
	require.Error(t, err)
	assert.True(t, operations.IsFatal(err))
	assert.Contains(t, err.Error(), long+"-1")
	assert.Contains(t, err.Error(), long+"-2")
	assert.NoFileExists(t, dest)
}

func TestExportCaseInsensitiveCollision(t *testing.T) {
	records := []domain.WellRecord{
		{WellName: "ab", SheetYear: 2021},
		{WellName: "AB", SheetYear: 2021},
	}
	sel := dataprocessing.Filter(records, 2021, dataprocessing.WellSet([]string{"ab", "AB"}))

	_, err := newTestExporter(t).Export(context.Background(), filepath.Join(t.TempDir(), "out.xlsx"), sel, nil)
	require.Error(t, err)
	assert.True(t, operations.IsFatal(err))
}

func TestExportRejectedSheetName(t *testing.T) {
	records := []domain.WellRecord{{WellName: "", SheetYear: 2021}}
	sel := dataprocessing.Filter(records, 2021, dataprocessing.WellSet([]string{""}))

	_, err := newTestExporter(t).Export(context.Background(), filepath.Join(t.TempDir(), "out.xlsx"), sel, nil)
	require.Error(t, err)
	assert.True(t, operations.IsFatal(err))
	assert.Contains(t, err.Error(), "failed to create sheet")
}

func TestExportZeroWells(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "empty.xlsx")
	sink := &collectSink{}

	msg, err := newTestExporter(t).Export(context.Background(), dest, dataprocessing.Selection{}, sink)
	require.NoError(t, err)
	assert.Equal(t, events.TypeSaved, msg.Type)
	assert.Len(t, testutil.SheetList(t, dest), 1)
	assert.Equal(t, []events.Message{events.Progress(1, 1, "saving to disk")}, sink.msgs)
}

func TestExportSaveFailure(t *testing.T) {
	sel := dataprocessing.Filter(sampleRecords(), 2021, dataprocessing.WellSet([]string{"A7"}))
	dest := filepath.Join(t.TempDir(), "missing-dir", "out.xlsx")

	_, err := newTestExporter(t).Export(context.Background(), dest, sel, nil)
	require.Error(t, err)
	assert.True(t, operations.IsFatal(err))
	assert.Contains(t, err.Error(), "failed to save workbook")
}
