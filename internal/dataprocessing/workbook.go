package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Workbook is a read-only view of a spreadsheet file.
type Workbook interface {
	// SheetNames lists sheets in workbook order.
	SheetNames() []string
	Sheet(name string) (Sheet, error)
	Close() error
}

// Sheet gives typed access to the used range of one worksheet.
type Sheet interface {
	// RowCount is the number of rows up to the last non-empty one.
	RowCount() int
	// Row classifies every cell of row i.
	Row(i int) []Cell
	// Cell classifies one cell; positions outside the range are empty.
	Cell(row, col int) Cell
}

// OpenWorkbook opens an xlsx file with excelize.
func OpenWorkbook(path string) (Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	return NewExcelWorkbook(f), nil
}

// NewExcelWorkbook wraps an already opened excelize file.
func NewExcelWorkbook(f *excelize.File) Workbook {
	wb := &excelWorkbook{f: f, dateStyles: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}
	return wb
}

type excelWorkbook struct {
	f          *excelize.File
	date1904   bool
	dateStyles map[int]bool
}

func (w *excelWorkbook) SheetNames() []string {
	return w.f.GetSheetList()
}

func (w *excelWorkbook) Sheet(name string) (Sheet, error) {
	rows, err := w.f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}
	return &excelSheet{wb: w, name: name, rows: rows}, nil
}

func (w *excelWorkbook) Close() error {
	return w.f.Close()
}

// isDateStyle reports whether the style applied to axis renders numbers as
// dates or times. Results are cached per style index.
func (w *excelWorkbook) isDateStyle(sheet, axis string) bool {
	idx, err := w.f.GetCellStyle(sheet, axis)
	if err != nil || idx == 0 {
		return false
	}
	if v, ok := w.dateStyles[idx]; ok {
		return v
	}
	isDate := false
	if style, err := w.f.GetStyle(idx); err == nil && style != nil {
		isDate = isBuiltinDateFormat(style.NumFmt) ||
			(style.CustomNumFmt != nil && isDateFormatCode(*style.CustomNumFmt))
	}
	w.dateStyles[idx] = isDate
	return isDate
}

type excelSheet struct {
	wb   *excelWorkbook
	name string
	rows [][]string
}

func (s *excelSheet) RowCount() int {
	return len(s.rows)
}

func (s *excelSheet) Row(i int) []Cell {
	if i < 0 || i >= len(s.rows) {
		return nil
	}
	out := make([]Cell, len(s.rows[i]))
	for col := range s.rows[i] {
		out[col] = s.Cell(i, col)
	}
	return out
}

func (s *excelSheet) Cell(row, col int) Cell {
	c := s.classify(row, col)
	if s.wb.date1904 && (c.Kind == KindFloat || c.Kind == KindInt) {
		c.Date1904 = true
	}
	return c
}

func (s *excelSheet) classify(row, col int) Cell {
	if row < 0 || row >= len(s.rows) || col < 0 || col >= len(s.rows[row]) {
		return EmptyCell()
	}
	raw := s.rows[row][col]

	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return classifyRaw(raw)
	}
	typ, err := s.wb.f.GetCellType(s.name, axis)
	if err != nil {
		return classifyRaw(raw)
	}

	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return TextCell(raw)
	case excelize.CellTypeBool:
		return BoolCell(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeError:
		return ErrorCell(raw)
	case excelize.CellTypeDate:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return DateTimeCell(t)
			}
		}
		return TextCell(raw)
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if raw == "" {
			return EmptyCell()
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return TextCell(raw)
		}
		if s.wb.isDateStyle(s.name, axis) {
			if t, ok := serialToTime(v, s.wb.date1904); ok {
				return DateTimeCell(t)
			}
		}
		return FloatCell(v)
	default:
		return classifyRaw(raw)
	}
}

// classifyRaw is the fallback when the cell type is unavailable.
func classifyRaw(raw string) Cell {
	if raw == "" {
		return EmptyCell()
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return FloatCell(v)
	}
	return TextCell(raw)
}

// isBuiltinDateFormat covers the built-in number formats that display dates
// or times, including the East Asian ranges.
func isBuiltinDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	default:
		return false
	}
}

// isDateFormatCode reports whether a custom number format contains date or
// time tokens outside quoted literals, escapes and bracketed modifiers.
func isDateFormatCode(code string) bool {
	if strings.EqualFold(code, "general") {
		return false
	}
	inQuote, inBracket := false, false
	var bracket strings.Builder
	runes := []rune(code)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case inQuote:
			if r == '"' {
				inQuote = false
			}
		case inBracket:
			if r == ']' {
				inBracket = false
				// [h], [mm], [ss] are elapsed-time tokens.
				if b := strings.ToLower(bracket.String()); b != "" && strings.Trim(b, "hms") == "" {
					return true
				}
				bracket.Reset()
			} else {
				bracket.WriteRune(r)
			}
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		case r == '\\' || r == '_' || r == '*':
			i++
		default:
			switch r {
			case 'y', 'Y', 'm', 'M', 'd', 'D', 'h', 'H', 's', 'S':
				return true
			}
		}
	}
	return false
}
