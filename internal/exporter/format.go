package exporter

import (
	"strconv"
	"time"

	"welldata/pkg/contracts/domain"
)

// formatTimestamp returns nil for a missing timestamp so the cell stays blank.
func formatTimestamp(t *time.Time, layout string) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(layout)
}

// numberCell returns nil for a missing value so the cell stays blank.
func numberCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// recordRow is the worksheet row of one record, in header order.
func recordRow(r domain.WellRecord, layout string) []interface{} {
	return []interface{}{
		r.WellName,
		formatTimestamp(r.Timestamp, layout),
		numberCell(r.LiquidRate),
		numberCell(r.OilRate),
		numberCell(r.Temperature),
	}
}

// formatFloat formats a float64 for CSV output with the shortest exact form
func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// formatTime formats a timestamp for CSV output
func formatTime(t *time.Time, layout string) string {
	if t == nil {
		return ""
	}
	return t.Format(layout)
}

// csvRow is the CSV line of one record, with the sheet year appended.
func csvRow(r domain.WellRecord, layout string) []string {
	return []string{
		r.WellName,
		formatTime(r.Timestamp, layout),
		formatFloat(r.LiquidRate),
		formatFloat(r.OilRate),
		formatFloat(r.Temperature),
		strconv.Itoa(r.SheetYear),
	}
}
