package testutil

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Field workbook headers. The first letter of TemperatureHeader is U+0422.
const (
	NameHeader        = "@Name( )"
	DateHeader        = "Date"
	LiquidHeader      = "PdLiq"
	OilHeader         = "PdOil"
	TemperatureHeader = "Тemperature"
)

// StandardHeader is the five-column header row of a year sheet.
func StandardHeader() []any {
	return []any{NameHeader, DateHeader, LiquidHeader, OilHeader, TemperatureHeader}
}

// SheetFixture is one worksheet of a generated workbook. Rows are written
// from A1 with excelize's SetSheetRow, so time.Time values get a date style
// and nil leaves a cell blank.
type SheetFixture struct {
	Name string
	Rows [][]any
}

// WriteWorkbook saves sheets, in order, to name inside t.TempDir() and
// returns the path.
func WriteWorkbook(t *testing.T, name string, sheets ...SheetFixture) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				t.Fatalf("rename sheet %q: %v", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			t.Fatalf("create sheet %q: %v", sheet.Name, err)
		}
		for r, row := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			values := row
			if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
				t.Fatalf("write row %d of %q: %v", r+1, sheet.Name, err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

// ReadRows returns the formatted rows of sheet in the workbook at path.
func ReadRows(t *testing.T, path, sheet string) [][]string {
	t.Helper()

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("read sheet %q: %v", sheet, err)
	}
	return rows
}

// SheetList returns the sheet names of the workbook at path.
func SheetList(t *testing.T, path string) []string {
	t.Helper()

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	return f.GetSheetList()
}
