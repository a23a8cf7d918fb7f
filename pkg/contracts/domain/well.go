package domain

import (
	"time"
)

// WellRecord is one typed measurement row extracted from a year sheet.
type WellRecord struct {
	WellName    string     `json:"well_name"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
	LiquidRate  *float64   `json:"liquid_rate,omitempty"`
	OilRate     *float64   `json:"oil_rate,omitempty"`
	Temperature *float64   `json:"temperature,omitempty"`
	SheetYear   int        `json:"sheet_year"`
}

// Clone returns a copy that shares no pointers with r.
func (r WellRecord) Clone() WellRecord {
	out := r
	if r.Timestamp != nil {
		ts := *r.Timestamp
		out.Timestamp = &ts
	}
	out.LiquidRate = cloneFloat(r.LiquidRate)
	out.OilRate = cloneFloat(r.OilRate)
	out.Temperature = cloneFloat(r.Temperature)
	return out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}

// Dataset is the result of ingesting one workbook.
// Years and Wells are sorted ascending and contain no duplicates.
type Dataset struct {
	Records []WellRecord `json:"records"`
	Years   []int        `json:"years"`
	Wells   []string     `json:"wells"`
}

// Clone deep-copies the dataset so a background job can own it.
func (d Dataset) Clone() Dataset {
	out := Dataset{
		Records: make([]WellRecord, len(d.Records)),
		Years:   append([]int(nil), d.Years...),
		Wells:   append([]string(nil), d.Wells...),
	}
	for i, r := range d.Records {
		out.Records[i] = r.Clone()
	}
	return out
}

// Empty reports whether the dataset holds no records.
func (d Dataset) Empty() bool {
	return len(d.Records) == 0
}

// Float returns a pointer to v. Used when building records by hand.
func Float(v float64) *float64 {
	return &v
}

// Time returns a pointer to t.
func Time(t time.Time) *time.Time {
	return &t
}
