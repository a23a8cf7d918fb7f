package dataprocessing

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// CellKind enumerates the closed set of cell content kinds.
type CellKind int

const (
	KindEmpty CellKind = iota
	KindText
	KindInt
	KindFloat
	KindBool
	KindDateTime
	KindError
)

func (k CellKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindText:
		return "text"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindDateTime:
		return "datetime"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Cell is a typed spreadsheet value. Only the field matching Kind is set.
type Cell struct {
	Kind  CellKind
	Text  string
	Int   int64
	Float float64
	Bool  bool
	Time  time.Time

	// Date1904 marks numbers read from a workbook that counts serial dates
	// from 1904.
	Date1904 bool
}

func EmptyCell() Cell               { return Cell{Kind: KindEmpty} }
func TextCell(s string) Cell        { return Cell{Kind: KindText, Text: s} }
func IntCell(v int64) Cell          { return Cell{Kind: KindInt, Int: v} }
func FloatCell(v float64) Cell      { return Cell{Kind: KindFloat, Float: v} }
func BoolCell(v bool) Cell          { return Cell{Kind: KindBool, Bool: v} }
func DateTimeCell(t time.Time) Cell { return Cell{Kind: KindDateTime, Time: t} }
func ErrorCell(code string) Cell    { return Cell{Kind: KindError, Text: code} }

// String returns the cell's value for identifier use. Only text and numeric
// cells qualify; numbers use the shortest representation that round-trips,
// so 7.0 becomes "7".
func (c Cell) String() (string, bool) {
	switch c.Kind {
	case KindText:
		return c.Text, true
	case KindFloat:
		return strconv.FormatFloat(c.Float, 'f', -1, 64), true
	case KindInt:
		return strconv.FormatInt(c.Int, 10), true
	case KindEmpty, KindBool, KindDateTime, KindError:
		return "", false
	default:
		return "", false
	}
}

// Number returns numeric content. Text that looks like a number is not
// coerced.
func (c Cell) Number() (float64, bool) {
	switch c.Kind {
	case KindFloat:
		return c.Float, true
	case KindInt:
		return float64(c.Int), true
	case KindEmpty, KindText, KindBool, KindDateTime, KindError:
		return 0, false
	default:
		return 0, false
	}
}

var textDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04",
	"2006-01-02",
}

// DateTime coerces the cell to a timestamp on a best-effort basis: date
// cells as-is, numbers as Excel serial dates, text in ISO-like layouts.
func (c Cell) DateTime() (time.Time, bool) {
	switch c.Kind {
	case KindDateTime:
		return c.Time, true
	case KindFloat:
		return serialToTime(c.Float, c.Date1904)
	case KindInt:
		return serialToTime(float64(c.Int), c.Date1904)
	case KindText:
		s := strings.TrimSpace(c.Text)
		for _, layout := range textDateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	case KindEmpty, KindBool, KindError:
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

func serialToTime(v float64, date1904 bool) (time.Time, bool) {
	if v < 0 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(v, date1904)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
