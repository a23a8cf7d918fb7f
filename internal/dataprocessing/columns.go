package dataprocessing

import (
	"welldata/internal/config"
)

// Columns names the header cells of a year sheet.
type Columns struct {
	Name        string
	Date        string
	Liquid      string
	Oil         string
	Temperature string
}

// DefaultColumns returns the headers used by the field workbooks. The first
// letter of the temperature header is U+0422, a Cyrillic capital Te.
func DefaultColumns() Columns {
	return ColumnsFromConfig(config.Default().Ingest.Columns)
}

// ColumnsFromConfig converts the configured header names.
func ColumnsFromConfig(c config.ColumnsConfig) Columns {
	return Columns{
		Name:        c.Name,
		Date:        c.Date,
		Liquid:      c.Liquid,
		Oil:         c.Oil,
		Temperature: c.Temperature,
	}
}

// Header returns the five column titles in export order.
func (c Columns) Header() []string {
	return []string{c.Name, c.Date, c.Liquid, c.Oil, c.Temperature}
}

// ColumnMap maps exact header text to a zero-based column index.
type ColumnMap map[string]int

// ResolveColumns indexes the text cells of a header row. Non-text cells are
// ignored; a repeated title keeps its right-most position.
func ResolveColumns(header []Cell) ColumnMap {
	m := make(ColumnMap, len(header))
	for i, c := range header {
		if c.Kind == KindText {
			m[c.Text] = i
		}
	}
	return m
}

// SheetLayout holds the resolved column positions of one sheet. Optional
// columns that are absent are -1.
type SheetLayout struct {
	Name        int
	Date        int
	Liquid      int
	Oil         int
	Temperature int
}

// Layout resolves cols against the map. It reports false when the name or
// date column is missing, in which case the sheet must be skipped.
func (m ColumnMap) Layout(cols Columns) (SheetLayout, bool) {
	name, okName := m[cols.Name]
	date, okDate := m[cols.Date]
	if !okName || !okDate {
		return SheetLayout{}, false
	}
	return SheetLayout{
		Name:        name,
		Date:        date,
		Liquid:      m.optional(cols.Liquid),
		Oil:         m.optional(cols.Oil),
		Temperature: m.optional(cols.Temperature),
	}, true
}

func (m ColumnMap) optional(title string) int {
	if title == "" {
		return -1
	}
	if i, ok := m[title]; ok {
		return i
	}
	return -1
}
