package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultColumns(t *testing.T) {
	cols := DefaultColumns()
	assert.Equal(t, "@Name( )", cols.Name)
	assert.Equal(t, "Date", cols.Date)
	assert.Equal(t, "PdLiq", cols.Liquid)
	assert.Equal(t, "PdOil", cols.Oil)
	assert.Equal(t, 'Т', []rune(cols.Temperature)[0])
	assert.NotEqual(t, "Temperature", cols.Temperature)
	assert.Equal(t, []string{cols.Name, cols.Date, cols.Liquid, cols.Oil, cols.Temperature}, cols.Header())
}

func TestResolveColumns(t *testing.T) {
	header := []Cell{
		TextCell("@Name( )"),
		FloatCell(2020),
		TextCell("Date"),
		EmptyCell(),
		TextCell("PdLiq"),
		TextCell("Date"),
	}

	m := ResolveColumns(header)

	assert.Len(t, m, 3)
	assert.Equal(t, 0, m["@Name( )"])
	assert.Equal(t, 4, m["PdLiq"])
	assert.Equal(t, 5, m["Date"], "a repeated header keeps the right-most position")
}

func TestLayout(t *testing.T) {
	cols := DefaultColumns()

	tests := []struct {
		name   string
		header []Cell
		want   SheetLayout
		wantOK bool
	}{
		{
			name:   "all columns",
			header: []Cell{TextCell(cols.Name), TextCell(cols.Date), TextCell(cols.Liquid), TextCell(cols.Oil), TextCell(cols.Temperature)},
			want:   SheetLayout{Name: 0, Date: 1, Liquid: 2, Oil: 3, Temperature: 4},
			wantOK: true,
		},
		{
			name:   "optional columns missing",
			header: []Cell{TextCell(cols.Date), TextCell(cols.Name), TextCell(cols.Liquid)},
			want:   SheetLayout{Name: 1, Date: 0, Liquid: 2, Oil: -1, Temperature: -1},
			wantOK: true,
		},
		{
			name:   "latin temperature header does not match",
			header: []Cell{TextCell(cols.Name), TextCell(cols.Date), TextCell("Temperature")},
			want:   SheetLayout{Name: 0, Date: 1, Liquid: -1, Oil: -1, Temperature: -1},
			wantOK: true,
		},
		{
			name:   "name missing",
			header: []Cell{TextCell(cols.Date), TextCell(cols.Liquid)},
			wantOK: false,
		},
		{
			name:   "date missing",
			header: []Cell{TextCell(cols.Name), TextCell("date")},
			wantOK: false,
		},
		{
			name:   "empty header",
			header: nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveColumns(tt.header).Layout(cols)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
