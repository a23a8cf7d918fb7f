package dataprocessing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCellString(t *testing.T) {
	tests := []struct {
		name   string
		cell   Cell
		want   string
		wantOK bool
	}{
		{"text", TextCell("A7"), "A7", true},
		{"empty text", TextCell(""), "", true},
		{"whole float", FloatCell(7), "7", true},
		{"fraction", FloatCell(12.25), "12.25", true},
		{"int", IntCell(-3), "-3", true},
		{"empty", EmptyCell(), "", false},
		{"bool", BoolCell(true), "", false},
		{"datetime", DateTimeCell(time.Now()), "", false},
		{"error", ErrorCell("#N/A"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.cell.String()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCellNumber(t *testing.T) {
	tests := []struct {
		name   string
		cell   Cell
		want   float64
		wantOK bool
	}{
		{"float", FloatCell(1.5), 1.5, true},
		{"int", IntCell(42), 42, true},
		{"numeric text is not coerced", TextCell("1.5"), 0, false},
		{"empty", EmptyCell(), 0, false},
		{"bool", BoolCell(true), 0, false},
		{"error", ErrorCell("#DIV/0!"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.cell.Number()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCellDateTime(t *testing.T) {
	want := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)

	tests := []struct {
		name   string
		cell   Cell
		want   time.Time
		wantOK bool
	}{
		{"datetime", DateTimeCell(want), want, true},
		{"serial", FloatCell(44259.2125), time.Date(2021, 3, 4, 5, 6, 0, 0, time.UTC), true},
		{"int serial", IntCell(44259), time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC), true},
		{"1904 serial", Cell{Kind: KindFloat, Float: 42797.2125, Date1904: true}, time.Date(2021, 3, 4, 5, 6, 0, 0, time.UTC), true},
		{"1904 int serial", Cell{Kind: KindInt, Int: 42797, Date1904: true}, time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC), true},
		{"export layout", TextCell("2021-03-04 05:06:07"), want, true},
		{"iso", TextCell("2021-03-04T05:06:07"), want, true},
		{"rfc3339", TextCell("2021-03-04T05:06:07Z"), want, true},
		{"date only", TextCell(" 2021-03-04 "), time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC), true},
		{"garbage", TextCell("yesterday"), time.Time{}, false},
		{"negative serial", FloatCell(-1), time.Time{}, false},
		{"empty", EmptyCell(), time.Time{}, false},
		{"bool", BoolCell(false), time.Time{}, false},
		{"error", ErrorCell("#VALUE!"), time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.cell.DateTime()
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestCellKindString(t *testing.T) {
	assert.Equal(t, "empty", KindEmpty.String())
	assert.Equal(t, "datetime", KindDateTime.String())
	assert.Equal(t, "unknown", CellKind(math.MaxInt8).String())
}

func TestClassifyRaw(t *testing.T) {
	assert.Equal(t, EmptyCell(), classifyRaw(""))
	assert.Equal(t, FloatCell(3.5), classifyRaw("3.5"))
	assert.Equal(t, TextCell("A7"), classifyRaw("A7"))
}

func TestDateFormats(t *testing.T) {
	for _, id := range []int{14, 22, 27, 36, 45, 47, 50, 58} {
		assert.True(t, isBuiltinDateFormat(id), "format %d", id)
	}
	for _, id := range []int{0, 1, 2, 10, 13, 23, 37, 44, 48, 49, 59} {
		assert.False(t, isBuiltinDateFormat(id), "format %d", id)
	}

	codes := map[string]bool{
		"yyyy-mm-dd":          true,
		"dd/mm/yy hh:mm":      true,
		"[h]:mm:ss":           true,
		"[$-409]mmm d, yyyy":  true,
		"General":             false,
		"0.00":                false,
		`"day"0`:              false,
		`#,##0\d`:             false,
		"[Red]0.00":           false,
		"_(* #,##0_);_(* (#)": false,
	}
	for code, want := range codes {
		assert.Equal(t, want, isDateFormatCode(code), code)
	}
}
