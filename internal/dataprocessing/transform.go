package dataprocessing

import (
	"sort"

	"welldata/pkg/contracts/domain"
)

// Selection is the filtered and ordered record set handed to the exporter.
// Records are sorted by well name then timestamp; Wells lists the distinct
// names present, ascending.
type Selection struct {
	Records []domain.WellRecord
	Wells   []string
}

// WellGroup is the run of records belonging to one well.
type WellGroup struct {
	Well    string
	Records []domain.WellRecord
}

// WellSet builds a membership set from names.
func WellSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Filter keeps the records with SheetYear >= startYear whose well is in
// wells and orders them. The input is not modified.
func Filter(records []domain.WellRecord, startYear int, wells map[string]struct{}) Selection {
	return NewSelection(Select(records, startYear, wells))
}

// Select returns the records with SheetYear >= startYear whose well is in
// wells, in input order.
func Select(records []domain.WellRecord, startYear int, wells map[string]struct{}) []domain.WellRecord {
	kept := make([]domain.WellRecord, 0)
	for _, r := range records {
		if r.SheetYear < startYear {
			continue
		}
		if _, ok := wells[r.WellName]; !ok {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// NewSelection sorts records in place with SortRecords and collects the
// distinct well names.
func NewSelection(records []domain.WellRecord) Selection {
	SortRecords(records)

	names := make([]string, 0)
	for i, r := range records {
		if i == 0 || r.WellName != records[i-1].WellName {
			names = append(names, r.WellName)
		}
	}
	return Selection{Records: records, Wells: names}
}

// SortRecords stably orders records by (WellName, Timestamp). A missing
// timestamp sorts before any present one.
func SortRecords(records []domain.WellRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return recordLess(records[i], records[j])
	})
}

func recordLess(a, b domain.WellRecord) bool {
	if a.WellName != b.WellName {
		return a.WellName < b.WellName
	}
	switch {
	case a.Timestamp == nil:
		return b.Timestamp != nil
	case b.Timestamp == nil:
		return false
	default:
		return a.Timestamp.Before(*b.Timestamp)
	}
}

// Groups splits the sorted records into one group per well, in order. The
// groups share the Selection's backing array.
func (s Selection) Groups() []WellGroup {
	groups := make([]WellGroup, 0, len(s.Wells))
	start := 0
	for i := 1; i <= len(s.Records); i++ {
		if i == len(s.Records) || s.Records[i].WellName != s.Records[start].WellName {
			groups = append(groups, WellGroup{
				Well:    s.Records[start].WellName,
				Records: s.Records[start:i:i],
			})
			start = i
		}
	}
	return groups
}

// Empty reports whether nothing survived the filter.
func (s Selection) Empty() bool {
	return len(s.Records) == 0
}
